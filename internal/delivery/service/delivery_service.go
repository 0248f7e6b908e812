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
	"net/http"
	"sync"

	configstore "github.com/wso2/identity-cookie-consent-service/internal/configuration/store"
	"github.com/wso2/identity-cookie-consent-service/internal/delivery/model"
	domainmodel "github.com/wso2/identity-cookie-consent-service/internal/domain/model"
	domainstore "github.com/wso2/identity-cookie-consent-service/internal/domain/store"
	"github.com/wso2/identity-cookie-consent-service/internal/system/cache"
	"github.com/wso2/identity-cookie-consent-service/internal/system/config"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
)

// DeliveryServiceInterface defines the public read path browsers hit on every
// page load.
type DeliveryServiceInterface interface {
	GetCookieSettings(hostname string) (*model.CookieSettings, error)
}

// DeliveryService resolves a hostname to its current banner configuration,
// caching results so repeated page loads do not hit the database.
type DeliveryService struct {
	domainStore domainstore.DomainStoreInterface
	configStore configstore.ConfigurationStoreInterface
	cache       *cache.Cache
}

var (
	instance *DeliveryService
	once     sync.Once
)

// GetDeliveryService returns the shared delivery service instance. The cache
// is shared so all requests benefit from it.
func GetDeliveryService() DeliveryServiceInterface {
	once.Do(func() {
		instance = &DeliveryService{
			domainStore: domainstore.NewDomainStore(),
			configStore: configstore.NewConfigurationStore(),
			cache:       cache.NewCache(constants.DeliveryCacheTTL),
		}
	})
	return instance
}

// GetCookieSettings resolves the requesting hostname to its delivery payload.
// Results, both saved configurations and the default fallback, are cached per
// hostname for the delivery TTL, so configuration changes may take up to the
// TTL to reach all browsers.
func (ds *DeliveryService) GetCookieSettings(hostname string) (*model.CookieSettings, error) {

	normalized := domainmodel.NormalizeHostname(hostname)
	if normalized == "" {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_HOSTNAME.Code,
			Message:     errors2.INVALID_HOSTNAME.Message,
			Description: "The domain query parameter is empty or not a valid hostname.",
		}, http.StatusBadRequest)
	}

	if cached, found := ds.cache.Get(normalized); found {
		if settings, ok := cached.(*model.CookieSettings); ok {
			return settings, nil
		}
	}

	domain, err := ds.domainStore.GetDomainByHostname(normalized)
	if err != nil {
		return nil, err
	}
	if domain == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.DOMAIN_NOT_REGISTERED.Code,
			Message:     errors2.DOMAIN_NOT_REGISTERED.Message,
			Description: errors2.DOMAIN_NOT_REGISTERED.Description,
		}, http.StatusNotFound)
	}

	if config.GetCCSRuntime().Config.Delivery.RequireVerifiedDomain && !domain.IsVerified() {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.DOMAIN_NOT_REGISTERED.Code,
			Message:     errors2.DOMAIN_NOT_REGISTERED.Message,
			Description: "The domain has not completed ownership verification.",
		}, http.StatusNotFound)
	}

	version, err := ds.configStore.GetCurrentVersion(domain.DomainID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		// The caller falls back to the documented default configuration.
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.CONFIGURATION_NOT_FOUND.Code,
			Message:     errors2.CONFIGURATION_NOT_FOUND.Message,
			Description: errors2.CONFIGURATION_NOT_FOUND.Description,
		}, http.StatusNotFound)
	}

	settings := &model.CookieSettings{
		DomainID:        domain.DomainID,
		Hostname:        domain.Hostname,
		ConfigVersionID: version.VersionID,
		Config:          version.Config,
	}
	ds.cache.Set(normalized, settings)
	return settings, nil
}
