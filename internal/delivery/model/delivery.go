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

import configmodel "github.com/wso2/identity-cookie-consent-service/internal/configuration/model"

// CookieSettings is the payload the banner script consumes. It carries the
// domain id the browser needs for consent calls and the configuration version
// decisions are bound to.
type CookieSettings struct {
	DomainID        string                    `json:"domain_id"`
	Hostname        string                    `json:"hostname"`
	ConfigVersionID string                    `json:"config_version_id,omitempty"`
	Config          configmodel.Configuration `json:"config"`
}
