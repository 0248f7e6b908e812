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
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	auditmodel "github.com/wso2/identity-cookie-consent-service/internal/audit/model"
	audit "github.com/wso2/identity-cookie-consent-service/internal/audit/service"
	"github.com/wso2/identity-cookie-consent-service/internal/configuration/model"
	"github.com/wso2/identity-cookie-consent-service/internal/configuration/store"
	domainmodel "github.com/wso2/identity-cookie-consent-service/internal/domain/model"
	domainstore "github.com/wso2/identity-cookie-consent-service/internal/domain/store"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	"github.com/wso2/identity-cookie-consent-service/internal/system/database/lock"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
)

const (
	lockRetryAttempts = 5
	lockRetryDelay    = 100 * time.Millisecond
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ConfigurationServiceInterface defines the service interface for banner
// configurations.
type ConfigurationServiceInterface interface {
	SaveConfiguration(ownerID, domainID string, config model.Configuration) (*model.ConfigurationVersion, error)
	GetCurrentConfiguration(ownerID, domainID string) (*model.ConfigurationVersion, error)
	ListConfigurationVersions(ownerID, domainID string) ([]model.ConfigurationVersion, error)
}

// ConfigurationService is the default implementation.
type ConfigurationService struct {
	store       store.ConfigurationStoreInterface
	domainStore domainstore.DomainStoreInterface
	lock        lock.DistributedLock
}

// GetConfigurationService returns a new instance.
func GetConfigurationService() ConfigurationServiceInterface {
	return &ConfigurationService{
		store:       store.NewConfigurationStore(),
		domainStore: domainstore.NewDomainStore(),
		lock:        lock.NewPostgresLock(),
	}
}

// SaveConfiguration validates and clamps the configuration, stores it as a new
// immutable version and repoints the domain's current pointer. Concurrent
// saves for the same domain are serialized through an advisory lock, so the
// final pointer always references a fully stored version.
func (cs *ConfigurationService) SaveConfiguration(ownerID, domainID string,
	config model.Configuration) (*model.ConfigurationVersion, error) {

	domain, err := cs.getOwnedDomain(ownerID, domainID)
	if err != nil {
		return nil, err
	}

	if err := validateConfiguration(&config); err != nil {
		return nil, err
	}
	clampConfiguration(&config)

	lockKey := "lock:configuration:" + domain.DomainID
	acquired := false
	for i := 0; i < lockRetryAttempts; i++ {
		acquired, err = cs.lock.Acquire(lockKey)
		if err != nil {
			return nil, err
		}
		if acquired {
			break
		}
		time.Sleep(lockRetryDelay)
	}
	if !acquired {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.LOCK_ACQUIRE.Code,
			Message:     errors2.LOCK_ACQUIRE.Message,
			Description: fmt.Sprintf("Could not acquire configuration lock for domain: %s", domain.DomainID),
		}, nil)
	}
	defer func() { _ = cs.lock.Release(lockKey) }()

	version := &model.ConfigurationVersion{
		VersionID: uuid.New().String(),
		DomainID:  domain.DomainID,
		Config:    config,
		CreatedAt: time.Now().UTC(),
	}
	if err := cs.store.InsertVersionAndRepoint(version); err != nil {
		return nil, err
	}

	audit.EnqueueAuditEvent(ownerID, auditmodel.ActionConfigurationSave, domain.DomainID,
		map[string]interface{}{"version_id": version.VersionID})
	return version, nil
}

// GetCurrentConfiguration returns the version the domain currently serves.
// Domains that never saved a configuration report not-found so the dashboard
// can fall back to the documented default.
func (cs *ConfigurationService) GetCurrentConfiguration(ownerID, domainID string) (*model.ConfigurationVersion, error) {

	domain, err := cs.getOwnedDomain(ownerID, domainID)
	if err != nil {
		return nil, err
	}

	version, err := cs.store.GetCurrentVersion(domain.DomainID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.CONFIGURATION_NOT_FOUND.Code,
			Message:     errors2.CONFIGURATION_NOT_FOUND.Message,
			Description: errors2.CONFIGURATION_NOT_FOUND.Description,
		}, http.StatusNotFound)
	}
	return version, nil
}

// ListConfigurationVersions returns the domain's version history, newest first.
func (cs *ConfigurationService) ListConfigurationVersions(ownerID, domainID string) ([]model.ConfigurationVersion, error) {

	domain, err := cs.getOwnedDomain(ownerID, domainID)
	if err != nil {
		return nil, err
	}
	return cs.store.ListVersions(domain.DomainID)
}

func (cs *ConfigurationService) getOwnedDomain(ownerID, domainID string) (*domainmodel.Domain, error) {

	domain, err := cs.domainStore.GetDomainByID(domainID)
	if err != nil {
		return nil, err
	}
	if domain == nil || domain.OwnerID != ownerID {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.DOMAIN_NOT_FOUND.Code,
			Message:     errors2.DOMAIN_NOT_FOUND.Message,
			Description: errors2.DOMAIN_NOT_FOUND.Description,
		}, http.StatusNotFound)
	}
	return domain, nil
}

// validateConfiguration rejects structurally invalid configurations. Numeric
// range violations are not rejected here, they are clamped at write time.
func validateConfiguration(config *model.Configuration) error {

	if config.Layout != "" && !constants.AllowedLayouts[config.Layout] {
		return invalidConfiguration(fmt.Sprintf("Unknown layout: %s", config.Layout))
	}
	if config.Position != "" && !constants.AllowedPositions[config.Position] {
		return invalidConfiguration(fmt.Sprintf("Unknown position: %s", config.Position))
	}
	if config.Theme != "" && !constants.AllowedThemes[config.Theme] {
		return invalidConfiguration(fmt.Sprintf("Unknown theme: %s", config.Theme))
	}

	for _, color := range []string{config.Colors.Background, config.Colors.Text, config.Colors.Accent,
		config.Colors.Button, config.Colors.ButtonText} {
		if color != "" && !hexColorRegex.MatchString(color) {
			return invalidConfiguration(fmt.Sprintf("Invalid color value: %s", color))
		}
	}

	if len(config.Categories) == 0 {
		return invalidConfiguration("At least one consent category is required.")
	}
	seen := make(map[string]bool, len(config.Categories))
	hasNecessary := false
	for _, category := range config.Categories {
		if category.Key == "" {
			return invalidConfiguration("Category key must not be empty.")
		}
		if seen[category.Key] {
			return invalidConfiguration(fmt.Sprintf("Duplicate category key: %s", category.Key))
		}
		seen[category.Key] = true
		if category.Key == constants.NecessaryCategoryKey {
			hasNecessary = true
			if !category.Required {
				return invalidConfiguration("The necessary category must be marked required.")
			}
		}
	}
	if !hasNecessary {
		return invalidConfiguration("The necessary category is missing.")
	}

	for _, script := range config.Scripts {
		if script.Src == "" {
			return invalidConfiguration("Script source must not be empty.")
		}
		if !seen[script.Category] {
			return invalidConfiguration(fmt.Sprintf("Script references unknown category: %s", script.Category))
		}
	}
	return nil
}

// clampConfiguration forces numeric fields into their allowed ranges and fills
// empty enum fields with defaults. Stored payloads can never violate the
// ranges.
func clampConfiguration(config *model.Configuration) {

	if config.Layout == "" {
		config.Layout = constants.LayoutBar
	}
	if config.Position == "" {
		config.Position = "bottom-center"
	}
	if config.Theme == "" {
		config.Theme = "light"
	}
	config.ExpiryDays = clampInt(config.ExpiryDays, constants.MinExpiryDays, constants.MaxExpiryDays,
		constants.DefaultExpiryDays)
	config.CornerRadius = clampRange(config.CornerRadius, constants.MinCornerRadius, constants.MaxCornerRadius)
	config.FontSize = clampInt(config.FontSize, constants.MinFontSize, constants.MaxFontSize,
		constants.DefaultFontSize)
}

// clampInt treats the zero value as "not provided" and substitutes the
// default, then clamps into [min, max].
func clampInt(value, min, max, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}
	return clampRange(value, min, max)
}

func clampRange(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func invalidConfiguration(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_CONFIGURATION.Code,
		Message:     errors2.INVALID_CONFIGURATION.Message,
		Description: description,
	}, http.StatusBadRequest)
}
