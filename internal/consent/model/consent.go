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

// ConsentRecord is a visitor's stored decision for one domain. A later
// decision for the same visitor and domain replaces it.
type ConsentRecord struct {
	DomainID        string          `json:"domain_id"`
	VisitorID       string          `json:"visitor_id"`
	Decisions       map[string]bool `json:"decisions"`
	ConfigVersionID string          `json:"config_version_id"`
	DecidedAt       time.Time       `json:"decided_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
}

// IsExpired reports whether the record is past its expiry instant.
func (r *ConsentRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// DecisionRequest is the request body for recording a visitor decision.
// ConfigVersionID is optional. When the browser sends the version it rendered,
// a mismatch with the domain's current version rejects the write.
type DecisionRequest struct {
	DomainID        string          `json:"domain_id"`
	VisitorID       string          `json:"visitor_id"`
	Decisions       map[string]bool `json:"decisions"`
	ConfigVersionID string          `json:"config_version_id,omitempty"`
}
