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

package integration

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	configModel "github.com/wso2/identity-cookie-consent-service/internal/configuration/model"
	configService "github.com/wso2/identity-cookie-consent-service/internal/configuration/service"
	deliveryService "github.com/wso2/identity-cookie-consent-service/internal/delivery/service"
	domainService "github.com/wso2/identity-cookie-consent-service/internal/domain/service"
)

// newTestConfiguration returns a small valid configuration with a required
// necessary category and an optional analytics category.
func newTestConfiguration() configModel.Configuration {
	return configModel.Configuration{
		Layout:   "bar",
		Position: "bottom-center",
		Theme:    "light",
		Categories: []configModel.Category{
			{Key: "necessary", DisplayName: "Strictly necessary", Required: true},
			{Key: "analytics", DisplayName: "Analytics"},
		},
		ExpiryDays: 30,
	}
}

// Test_Save_And_Deliver_Configuration saves a configuration and verifies the
// round trip through the owner read and the public delivery read, including
// the clamping applied at write time.
func Test_Save_And_Deliver_Configuration(t *testing.T) {

	ownerID := fmt.Sprintf("owner-cfg-%d", time.Now().UnixNano())
	hostname := fmt.Sprintf("cfg-roundtrip-%d.example.com", time.Now().UnixNano())

	domainSvc := domainService.GetDomainService()
	configSvc := configService.GetConfigurationService()
	deliverySvc := deliveryService.GetDeliveryService()

	domain, err := domainSvc.RegisterDomain(ownerID, hostname)
	require.NoError(t, err)

	config := newTestConfiguration()
	config.ExpiryDays = 9999
	config.CornerRadius = 100
	config.FontSize = 4
	config.Hooks = configModel.ConsentHooks{
		PreConsent:  "window.dataLayer = window.dataLayer || [];",
		PostConsent: "window.dispatchEvent(new Event('consent-applied'));",
	}

	saved, err := configSvc.SaveConfiguration(ownerID, domain.DomainID, config)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.VersionID)
	assert.Equal(t, 365, saved.Config.ExpiryDays)
	assert.Equal(t, 20, saved.Config.CornerRadius)
	assert.Equal(t, 10, saved.Config.FontSize)
	assert.Equal(t, config.Hooks, saved.Config.Hooks)

	current, err := configSvc.GetCurrentConfiguration(ownerID, domain.DomainID)
	require.NoError(t, err)
	assert.Equal(t, saved.VersionID, current.VersionID)
	assert.Equal(t, saved.Config, current.Config)

	settings, err := deliverySvc.GetCookieSettings(hostname)
	require.NoError(t, err)
	assert.Equal(t, domain.DomainID, settings.DomainID)
	assert.Equal(t, saved.VersionID, settings.ConfigVersionID)
	assert.Equal(t, saved.Config.Categories, settings.Config.Categories)
	assert.Equal(t, config.Hooks, settings.Config.Hooks)
}

// Test_Concurrent_Saves_Leave_Consistent_Pointer fires concurrent saves for
// the same domain and verifies every write produced a distinct version and
// the domain points at exactly one of them.
func Test_Concurrent_Saves_Leave_Consistent_Pointer(t *testing.T) {

	ownerID := fmt.Sprintf("owner-conc-%d", time.Now().UnixNano())
	hostname := fmt.Sprintf("concurrent-%d.example.com", time.Now().UnixNano())

	domainSvc := domainService.GetDomainService()
	configSvc := configService.GetConfigurationService()

	domain, err := domainSvc.RegisterDomain(ownerID, hostname)
	require.NoError(t, err)

	const writers = 8
	versionIDs := make([]string, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			config := newTestConfiguration()
			config.ExpiryDays = 10 + i
			version, saveErr := configSvc.SaveConfiguration(ownerID, domain.DomainID, config)
			if saveErr != nil {
				errs[i] = saveErr
				return
			}
			versionIDs[i] = version.VersionID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		require.NotEmpty(t, versionIDs[i])
		assert.False(t, seen[versionIDs[i]], "version id %s returned twice", versionIDs[i])
		seen[versionIDs[i]] = true
	}

	versions, err := configSvc.ListConfigurationVersions(ownerID, domain.DomainID)
	require.NoError(t, err)
	assert.Len(t, versions, writers)

	current, err := configSvc.GetCurrentConfiguration(ownerID, domain.DomainID)
	require.NoError(t, err)
	assert.True(t, seen[current.VersionID], "pointer must land on one of the written versions")
}
