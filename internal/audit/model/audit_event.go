/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import "time"

// Audit actions recorded for owner mutations and consent writes.
const (
	ActionDomainRegister    = "domain.register"
	ActionDomainVerify      = "domain.verify"
	ActionDomainRemove      = "domain.remove"
	ActionConfigurationSave = "configuration.save"
	ActionConsentRecord     = "consent.record"
)

// AuditEvent is an append-only record of a state-changing operation.
type AuditEvent struct {
	EventID   string                 `json:"event_id" bson:"event_id"`
	Actor     string                 `json:"actor" bson:"actor"`
	Action    string                 `json:"action" bson:"action"`
	DomainID  string                 `json:"domain_id" bson:"domain_id"`
	Details   map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp" bson:"timestamp"`
}
