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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cookie-settings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchSettingsDecodesDeliveryPayload(t *testing.T) {
	server := settingsServer(t, http.StatusOK, `{
		"domain_id": "d1",
		"hostname": "shop.example.com",
		"config_version_id": "v1",
		"config": {
			"layout": "bar",
			"categories": [{"key": "necessary", "display_name": "Necessary", "required": true}],
			"hooks": {"pre_consent": "initShim();", "post_consent": "applyConsent();"},
			"expiry_days": 30
		}
	}`)

	settings, err := NewHTTPClient(server.URL).FetchSettings(context.Background(), "shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, "d1", settings.DomainID)
	assert.Equal(t, "v1", settings.ConfigVersionID)
	require.Len(t, settings.Config.Categories, 1)
	assert.True(t, settings.Config.Categories[0].Required)
	assert.Equal(t, "initShim();", settings.Config.Hooks.PreConsent)
	assert.Equal(t, "applyConsent();", settings.Config.Hooks.PostConsent)
}

// A 404 carrying the configuration-not-found code means the domain is known
// but never configured. Only that body maps to ErrConfigNotFound.
func TestFetchSettingsConfigurationNotFound(t *testing.T) {
	server := settingsServer(t, http.StatusNotFound,
		`{"code": "CCS-11007", "message": "Configuration not found"}`)

	_, err := NewHTTPClient(server.URL).FetchSettings(context.Background(), "shop.example.com")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

// Any other 404 means the hostname itself is unknown to the service.
func TestFetchSettingsUnregisteredDomain(t *testing.T) {
	server := settingsServer(t, http.StatusNotFound,
		`{"code": "CCS-11009", "message": "Domain not registered"}`)

	_, err := NewHTTPClient(server.URL).FetchSettings(context.Background(), "stranger.example.com")
	assert.ErrorIs(t, err, ErrDomainNotRegistered)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
}

// A 404 with an unreadable body must not be mistaken for a missing
// configuration.
func TestFetchSettingsMalformed404Body(t *testing.T) {
	server := settingsServer(t, http.StatusNotFound, `<html>not found</html>`)

	_, err := NewHTTPClient(server.URL).FetchSettings(context.Background(), "stranger.example.com")
	assert.ErrorIs(t, err, ErrDomainNotRegistered)
}

func TestFetchSettingsServerError(t *testing.T) {
	server := settingsServer(t, http.StatusInternalServerError, `{"code": "CCS-15001"}`)

	_, err := NewHTTPClient(server.URL).FetchSettings(context.Background(), "shop.example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
	assert.NotErrorIs(t, err, ErrDomainNotRegistered)
}
