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

package enforcement

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Category is a consent category as delivered to the browser.
type Category struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// CategoryScript binds a script source to the category that gates it.
type CategoryScript struct {
	Category string `json:"category"`
	Src      string `json:"src"`
}

// ConsentHooks are the owner's script snippets run around the consent flow.
type ConsentHooks struct {
	PreConsent  string `json:"pre_consent,omitempty"`
	PostConsent string `json:"post_consent,omitempty"`
}

// Config is the subset of the banner configuration the runtime acts on.
// Presentation fields are passed through untouched for the rendering layer.
type Config struct {
	Layout           string           `json:"layout"`
	Position         string           `json:"position"`
	Theme            string           `json:"theme"`
	Categories       []Category       `json:"categories"`
	Scripts          []CategoryScript `json:"scripts,omitempty"`
	Hooks            ConsentHooks     `json:"hooks,omitempty"`
	ExpiryDays       int              `json:"expiry_days"`
	AutoBlockCookies bool             `json:"auto_block_cookies"`
	RespectDNT       bool             `json:"respect_dnt"`
}

// Settings is the delivery payload for one hostname.
type Settings struct {
	DomainID        string `json:"domain_id"`
	Hostname        string `json:"hostname"`
	ConfigVersionID string `json:"config_version_id,omitempty"`
	Config          Config `json:"config"`
}

// Decision is a stored visitor decision.
type Decision struct {
	DomainID        string          `json:"domain_id"`
	VisitorID       string          `json:"visitor_id"`
	Decisions       map[string]bool `json:"decisions"`
	ConfigVersionID string          `json:"config_version_id"`
	DecidedAt       time.Time       `json:"decided_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
}

// ErrConfigNotFound reports that the domain is registered but has no saved
// configuration yet. The runtime falls back to the built-in default banner.
var ErrConfigNotFound = errors.New("no banner configuration saved for this domain")

// ErrDomainNotRegistered reports that the service does not know the hostname
// at all. The default banner must not be shown in this case; the runtime
// stays closed.
var ErrDomainNotRegistered = errors.New("hostname is not a registered domain")

// configNotFoundCode is the error code the service serves for a registered
// domain that never saved a configuration. Other 404 bodies mean the
// hostname itself is unknown.
const configNotFoundCode = "CCS-11007"

// errorBody is the error response shape served by the consent service.
type errorBody struct {
	Code string `json:"code"`
}

// ConfigClient is the transport the runtime uses to talk to the consent
// service. Implementations must be safe for concurrent use.
type ConfigClient interface {
	FetchSettings(ctx context.Context, hostname string) (*Settings, error)
	GetDecision(ctx context.Context, domainID, visitorID string) (*Decision, error)
	RecordDecision(ctx context.Context, domainID, visitorID, configVersionID string,
		decisions map[string]bool) (*Decision, error)
}

// HTTPClient is the default ConfigClient over the service's public endpoints.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a ConfigClient against the given service base URL,
// for example "https://api.privacyvet.com".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

// FetchSettings retrieves the delivery payload for the hostname.
func (c *HTTPClient) FetchSettings(ctx context.Context, hostname string) (*Settings, error) {

	endpoint := fmt.Sprintf("%s/cookie-settings?domain=%s", c.baseURL, url.QueryEscape(hostname))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		var body errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)
		if body.Code == configNotFoundCode {
			return nil, ErrConfigNotFound
		}
		return nil, ErrDomainNotRegistered
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching cookie settings returned status %d", resp.StatusCode)
	}
	var settings Settings
	if err := json.NewDecoder(resp.Body).Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetDecision retrieves the visitor's stored decision. Returns nil without an
// error when the service reports no valid decision.
func (c *HTTPClient) GetDecision(ctx context.Context, domainID, visitorID string) (*Decision, error) {

	endpoint := fmt.Sprintf("%s/consent?domain_id=%s&visitor_id=%s", c.baseURL,
		url.QueryEscape(domainID), url.QueryEscape(visitorID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
		var decision Decision
		if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
			return nil, err
		}
		return &decision, nil
	default:
		return nil, fmt.Errorf("fetching consent decision returned status %d", resp.StatusCode)
	}
}

// RecordDecision submits the visitor's decision to the ledger.
func (c *HTTPClient) RecordDecision(ctx context.Context, domainID, visitorID, configVersionID string,
	decisions map[string]bool) (*Decision, error) {

	body, err := json.Marshal(map[string]interface{}{
		"domain_id":         domainID,
		"visitor_id":        visitorID,
		"decisions":         decisions,
		"config_version_id": configVersionID,
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/consent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("recording consent decision returned status %d: %s", resp.StatusCode, payload)
	}
	var decision Decision
	if err := json.NewDecoder(resp.Body).Decode(&decision); err != nil {
		return nil, err
	}
	return &decision, nil
}
