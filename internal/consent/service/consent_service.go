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
	"time"

	auditmodel "github.com/wso2/identity-cookie-consent-service/internal/audit/model"
	audit "github.com/wso2/identity-cookie-consent-service/internal/audit/service"
	configmodel "github.com/wso2/identity-cookie-consent-service/internal/configuration/model"
	configstore "github.com/wso2/identity-cookie-consent-service/internal/configuration/store"
	"github.com/wso2/identity-cookie-consent-service/internal/consent/model"
	"github.com/wso2/identity-cookie-consent-service/internal/consent/store"
	domainstore "github.com/wso2/identity-cookie-consent-service/internal/domain/store"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
)

// ConsentServiceInterface defines the service interface for the consent
// ledger.
type ConsentServiceInterface interface {
	RecordDecision(request *model.DecisionRequest) (*model.ConsentRecord, error)
	GetValidDecision(domainID, visitorID string) (*model.ConsentRecord, error)
}

// ConsentService is the default implementation.
type ConsentService struct {
	store       store.ConsentStoreInterface
	domainStore domainstore.DomainStoreInterface
	configStore configstore.ConfigurationStoreInterface
}

// GetConsentService returns a new instance.
func GetConsentService() ConsentServiceInterface {
	return &ConsentService{
		store:       store.NewConsentStore(),
		domainStore: domainstore.NewDomainStore(),
		configStore: configstore.NewConfigurationStore(),
	}
}

// RecordDecision validates a visitor's decision against the domain's current
// configuration and stores it. The stored record is always bound to the
// current configuration version as known by the server, never to a version the
// client claims.
func (cs *ConsentService) RecordDecision(request *model.DecisionRequest) (*model.ConsentRecord, error) {

	if request.DomainID == "" || request.VisitorID == "" {
		return nil, invalidDecision("domain_id and visitor_id are required.")
	}

	domain, err := cs.domainStore.GetDomainByID(request.DomainID)
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

	config, versionID, err := cs.currentConfiguration(domain.DomainID)
	if err != nil {
		return nil, err
	}

	if request.ConfigVersionID != "" && request.ConfigVersionID != versionID {
		return nil, invalidDecision("The decision was made against a configuration version that is no longer current.")
	}

	decisions, err := normalizeDecisions(request.Decisions, config)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &model.ConsentRecord{
		DomainID:        domain.DomainID,
		VisitorID:       request.VisitorID,
		Decisions:       decisions,
		ConfigVersionID: versionID,
		DecidedAt:       now,
		ExpiresAt:       now.Add(time.Duration(config.ExpiryDays) * 24 * time.Hour),
	}
	if err := cs.store.UpsertConsentRecord(record); err != nil {
		return nil, err
	}

	audit.EnqueueAuditEvent(request.VisitorID, auditmodel.ActionConsentRecord, domain.DomainID, nil)
	return record, nil
}

// GetValidDecision returns the visitor's stored decision, or nil when no
// decision exists, the decision has expired, or it was made against a
// configuration version that is no longer current. In all three cases the
// visitor must be prompted again.
func (cs *ConsentService) GetValidDecision(domainID, visitorID string) (*model.ConsentRecord, error) {

	record, err := cs.store.GetConsentRecord(domainID, visitorID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.IsExpired(time.Now().UTC()) {
		return nil, nil
	}

	domain, err := cs.domainStore.GetDomainByID(domainID)
	if err != nil {
		return nil, err
	}
	if domain == nil {
		return nil, nil
	}
	if domain.CurrentConfigVersionID != "" && record.ConfigVersionID != domain.CurrentConfigVersionID {
		return nil, nil
	}
	return record, nil
}

// currentConfiguration resolves the configuration decisions are validated
// against. Domains that never saved one get the default configuration with an
// empty version id.
func (cs *ConsentService) currentConfiguration(domainID string) (*configmodel.Configuration, string, error) {

	version, err := cs.configStore.GetCurrentVersion(domainID)
	if err != nil {
		return nil, "", err
	}
	if version == nil {
		config := configmodel.DefaultConfiguration()
		return &config, "", nil
	}
	return &version.Config, version.VersionID, nil
}

// normalizeDecisions validates the submitted decisions against the declared
// categories. Required categories must be explicitly accepted, unknown keys
// are rejected, and missing optional categories are recorded as declined.
func normalizeDecisions(submitted map[string]bool, config *configmodel.Configuration) (map[string]bool, error) {

	if len(submitted) == 0 {
		return nil, invalidDecision("At least one decision is required.")
	}

	for key := range submitted {
		if !config.HasCategory(key) {
			return nil, invalidDecision(fmt.Sprintf("Unknown consent category: %s", key))
		}
	}

	normalized := make(map[string]bool, len(config.Categories))
	for _, category := range config.Categories {
		accepted, present := submitted[category.Key]
		if category.Required {
			if !present {
				return nil, invalidDecision(fmt.Sprintf("Required category is missing: %s", category.Key))
			}
			if !accepted {
				if category.Key == constants.NecessaryCategoryKey {
					return nil, invalidDecision("The necessary category cannot be declined.")
				}
				return nil, invalidDecision(fmt.Sprintf("Required category cannot be declined: %s", category.Key))
			}
		}
		normalized[category.Key] = present && accepted
	}
	return normalized, nil
}

func invalidDecision(description string) error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.INVALID_DECISION.Code,
		Message:     errors2.INVALID_DECISION.Message,
		Description: description,
	}, http.StatusBadRequest)
}
