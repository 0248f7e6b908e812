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

import (
	"strings"
	"time"

	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
)

// Domain represents a site owner's registered hostname.
type Domain struct {
	DomainID               string     `json:"domain_id"`
	OwnerID                string     `json:"owner_id"`
	Hostname               string     `json:"hostname"`
	Status                 string     `json:"status"` // unverified | verified
	VerificationToken      string     `json:"verification_token,omitempty"`
	CurrentConfigVersionID string     `json:"current_config_version_id,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	VerifiedAt             *time.Time `json:"verified_at,omitempty"`
}

// DomainCreateRequest is the request body for registering a domain.
type DomainCreateRequest struct {
	Hostname string `json:"hostname"`
}

// DomainResponse is the API representation of a domain. The verification
// token and file name are only present while the domain is unverified.
type DomainResponse struct {
	DomainID               string     `json:"domain_id"`
	Hostname               string     `json:"hostname"`
	Status                 string     `json:"status"`
	VerificationToken      string     `json:"verification_token,omitempty"`
	VerificationFile       string     `json:"verification_file,omitempty"`
	CurrentConfigVersionID string     `json:"current_config_version_id,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	VerifiedAt             *time.Time `json:"verified_at,omitempty"`
}

// IsVerified reports whether ownership of the hostname has been confirmed.
func (d *Domain) IsVerified() bool {
	return d.Status == constants.DomainStatusVerified
}

// TokenPrefix returns the token prefix embedded in the verification file name.
func (d *Domain) TokenPrefix() string {
	if len(d.VerificationToken) < constants.VerificationTokenPrefixLength {
		return d.VerificationToken
	}
	return d.VerificationToken[:constants.VerificationTokenPrefixLength]
}

// NormalizeHostname lowercases a hostname and strips scheme, path, port and
// surrounding whitespace. Returns an empty string for values that do not look
// like a hostname.
func NormalizeHostname(raw string) string {

	hostname := strings.TrimSpace(strings.ToLower(raw))

	if idx := strings.Index(hostname, "://"); idx != -1 {
		hostname = hostname[idx+3:]
	}
	if idx := strings.IndexAny(hostname, "/?#"); idx != -1 {
		hostname = hostname[:idx]
	}
	if idx := strings.Index(hostname, ":"); idx != -1 {
		hostname = hostname[:idx]
	}
	hostname = strings.TrimSuffix(hostname, ".")

	if hostname == "" || strings.ContainsAny(hostname, " \t") {
		return ""
	}
	return hostname
}
