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

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	configmodel "github.com/wso2/identity-cookie-consent-service/internal/configuration/model"
	domainmodel "github.com/wso2/identity-cookie-consent-service/internal/domain/model"
	"github.com/wso2/identity-cookie-consent-service/internal/system/cache"
	"github.com/wso2/identity-cookie-consent-service/internal/system/config"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("error")
	config.OverrideCCSRuntime(config.Config{})
	m.Run()
}

type mockDomainStore struct {
	mock.Mock
}

func (m *mockDomainStore) InsertDomain(domain *domainmodel.Domain) error {
	args := m.Called(domain)
	return args.Error(0)
}

func (m *mockDomainStore) GetDomainByID(domainID string) (*domainmodel.Domain, error) {
	args := m.Called(domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainmodel.Domain), args.Error(1)
}

func (m *mockDomainStore) GetDomainByHostname(hostname string) (*domainmodel.Domain, error) {
	args := m.Called(hostname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainmodel.Domain), args.Error(1)
}

func (m *mockDomainStore) GetDomainByOwnerAndHostname(ownerID, hostname string) (*domainmodel.Domain, error) {
	args := m.Called(ownerID, hostname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainmodel.Domain), args.Error(1)
}

func (m *mockDomainStore) GetDomainsByOwner(ownerID string) ([]domainmodel.Domain, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainmodel.Domain), args.Error(1)
}

func (m *mockDomainStore) MarkVerified(domainID string, verifiedAt time.Time) error {
	args := m.Called(domainID, verifiedAt)
	return args.Error(0)
}

func (m *mockDomainStore) DeleteDomainCascade(domainID string) error {
	args := m.Called(domainID)
	return args.Error(0)
}

type mockConfigurationStore struct {
	mock.Mock
}

func (m *mockConfigurationStore) InsertVersionAndRepoint(version *configmodel.ConfigurationVersion) error {
	args := m.Called(version)
	return args.Error(0)
}

func (m *mockConfigurationStore) GetVersionByID(domainID, versionID string) (*configmodel.ConfigurationVersion, error) {
	args := m.Called(domainID, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*configmodel.ConfigurationVersion), args.Error(1)
}

func (m *mockConfigurationStore) GetCurrentVersion(domainID string) (*configmodel.ConfigurationVersion, error) {
	args := m.Called(domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*configmodel.ConfigurationVersion), args.Error(1)
}

func (m *mockConfigurationStore) ListVersions(domainID string) ([]configmodel.ConfigurationVersion, error) {
	args := m.Called(domainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]configmodel.ConfigurationVersion), args.Error(1)
}

func newTestService(domainStore *mockDomainStore, configStore *mockConfigurationStore) *DeliveryService {
	return &DeliveryService{
		domainStore: domainStore,
		configStore: configStore,
		cache:       cache.NewCache(constants.DeliveryCacheTTL),
	}
}

func TestGetCookieSettings(t *testing.T) {

	domainStore := new(mockDomainStore)
	configStore := new(mockConfigurationStore)
	svc := newTestService(domainStore, configStore)

	domain := &domainmodel.Domain{DomainID: "d1", Hostname: "example.com", Status: "verified"}
	version := &configmodel.ConfigurationVersion{
		VersionID: "v1",
		DomainID:  "d1",
		Config: configmodel.Configuration{
			Categories: []configmodel.Category{{Key: "necessary", Required: true}},
		},
	}
	domainStore.On("GetDomainByHostname", "example.com").Return(domain, nil).Once()
	configStore.On("GetCurrentVersion", "d1").Return(version, nil).Once()

	settings, err := svc.GetCookieSettings("https://Example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "d1", settings.DomainID)
	assert.Equal(t, "v1", settings.ConfigVersionID)
}

func TestGetCookieSettingsCached(t *testing.T) {

	domainStore := new(mockDomainStore)
	configStore := new(mockConfigurationStore)
	svc := newTestService(domainStore, configStore)

	domain := &domainmodel.Domain{DomainID: "d1", Hostname: "example.com"}
	version := &configmodel.ConfigurationVersion{VersionID: "v1", DomainID: "d1"}
	domainStore.On("GetDomainByHostname", "example.com").Return(domain, nil).Once()
	configStore.On("GetCurrentVersion", "d1").Return(version, nil).Once()

	first, err := svc.GetCookieSettings("example.com")
	require.NoError(t, err)

	// Second lookup is served from the cache without store calls.
	second, err := svc.GetCookieSettings("example.com")
	require.NoError(t, err)
	assert.Same(t, first, second)
	domainStore.AssertNumberOfCalls(t, "GetDomainByHostname", 1)
	configStore.AssertNumberOfCalls(t, "GetCurrentVersion", 1)
}

func TestGetCookieSettingsUnknownHost(t *testing.T) {

	domainStore := new(mockDomainStore)
	svc := newTestService(domainStore, new(mockConfigurationStore))

	domainStore.On("GetDomainByHostname", "unknown.example").Return(nil, nil)

	_, err := svc.GetCookieSettings("unknown.example")
	require.Error(t, err)

	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.DOMAIN_NOT_REGISTERED.Code, clientErr.Code)
}

func TestGetCookieSettingsInvalidHostname(t *testing.T) {

	svc := newTestService(new(mockDomainStore), new(mockConfigurationStore))

	_, err := svc.GetCookieSettings("")
	require.Error(t, err)

	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.INVALID_HOSTNAME.Code, clientErr.Code)
}

func TestGetCookieSettingsNoConfigurationYet(t *testing.T) {

	domainStore := new(mockDomainStore)
	configStore := new(mockConfigurationStore)
	svc := newTestService(domainStore, configStore)

	domain := &domainmodel.Domain{DomainID: "d1", Hostname: "example.com"}
	domainStore.On("GetDomainByHostname", "example.com").Return(domain, nil)
	configStore.On("GetCurrentVersion", "d1").Return(nil, nil)

	// A registered but never-configured domain is a miss; the embed script
	// falls back to the built-in default banner.
	_, err := svc.GetCookieSettings("example.com")
	require.Error(t, err)

	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.CONFIGURATION_NOT_FOUND.Code, clientErr.Code)
}

func TestGetCookieSettingsVerificationPolicy(t *testing.T) {

	config.OverrideCCSRuntime(config.Config{
		Delivery: config.DeliveryConfig{RequireVerifiedDomain: true},
	})
	t.Cleanup(func() { config.OverrideCCSRuntime(config.Config{}) })

	domainStore := new(mockDomainStore)
	svc := newTestService(domainStore, new(mockConfigurationStore))

	domain := &domainmodel.Domain{DomainID: "d1", Hostname: "example.com", Status: "unverified"}
	domainStore.On("GetDomainByHostname", "example.com").Return(domain, nil)

	_, err := svc.GetCookieSettings("example.com")
	require.Error(t, err)

	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.DOMAIN_NOT_REGISTERED.Code, clientErr.Code)
}
