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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	configModel "github.com/wso2/identity-cookie-consent-service/internal/configuration/model"
	configService "github.com/wso2/identity-cookie-consent-service/internal/configuration/service"
	consentModel "github.com/wso2/identity-cookie-consent-service/internal/consent/model"
	consentService "github.com/wso2/identity-cookie-consent-service/internal/consent/service"
	domainService "github.com/wso2/identity-cookie-consent-service/internal/domain/service"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
)

// Test_Consent_Lifecycle records a decision against a saved configuration,
// reads it back, and verifies it stops being served once its expiry passes.
func Test_Consent_Lifecycle(t *testing.T) {

	ownerID := fmt.Sprintf("owner-consent-%d", time.Now().UnixNano())
	hostname := fmt.Sprintf("consent-%d.example.com", time.Now().UnixNano())
	visitorID := "visitor-lifecycle"

	domainSvc := domainService.GetDomainService()
	configSvc := configService.GetConfigurationService()
	consentSvc := consentService.GetConsentService()

	domain, err := domainSvc.RegisterDomain(ownerID, hostname)
	require.NoError(t, err)

	version, err := configSvc.SaveConfiguration(ownerID, domain.DomainID, newTestConfiguration())
	require.NoError(t, err)

	record, err := consentSvc.RecordDecision(&consentModel.DecisionRequest{
		DomainID:  domain.DomainID,
		VisitorID: visitorID,
		Decisions: map[string]bool{"necessary": true, "analytics": false},
	})
	require.NoError(t, err)
	assert.Equal(t, version.VersionID, record.ConfigVersionID)
	assert.Equal(t, map[string]bool{"necessary": true, "analytics": false}, record.Decisions)
	assert.WithinDuration(t, record.DecidedAt.Add(30*24*time.Hour), record.ExpiresAt, time.Second)

	stored, err := consentSvc.GetValidDecision(domain.DomainID, visitorID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, record.Decisions, stored.Decisions)

	// Declining the necessary category is never stored.
	_, err = consentSvc.RecordDecision(&consentModel.DecisionRequest{
		DomainID:  domain.DomainID,
		VisitorID: visitorID,
		Decisions: map[string]bool{"necessary": false, "analytics": true},
	})
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.INVALID_DECISION.Code, clientErr.Code)

	// Back-date the expiry past its window. The decision is no longer valid
	// and the visitor must be prompted again.
	_, err = testDB.Exec(
		"UPDATE consent_records SET expires_at = $1 WHERE domain_id = $2 AND visitor_id = $3",
		time.Now().UTC().Add(-time.Hour), domain.DomainID, visitorID)
	require.NoError(t, err)

	stored, err = consentSvc.GetValidDecision(domain.DomainID, visitorID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

// Test_Configuration_Change_Invalidates_Decision verifies that saving a new
// configuration version makes previously recorded decisions stale, and that a
// decision carrying the old version id is rejected at write time.
func Test_Configuration_Change_Invalidates_Decision(t *testing.T) {

	ownerID := fmt.Sprintf("owner-stale-%d", time.Now().UnixNano())
	hostname := fmt.Sprintf("stale-%d.example.com", time.Now().UnixNano())
	visitorID := "visitor-stale"

	domainSvc := domainService.GetDomainService()
	configSvc := configService.GetConfigurationService()
	consentSvc := consentService.GetConsentService()

	domain, err := domainSvc.RegisterDomain(ownerID, hostname)
	require.NoError(t, err)

	firstVersion, err := configSvc.SaveConfiguration(ownerID, domain.DomainID, newTestConfiguration())
	require.NoError(t, err)

	_, err = consentSvc.RecordDecision(&consentModel.DecisionRequest{
		DomainID:  domain.DomainID,
		VisitorID: visitorID,
		Decisions: map[string]bool{"necessary": true, "analytics": true},
	})
	require.NoError(t, err)

	stored, err := consentSvc.GetValidDecision(domain.DomainID, visitorID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	// The owner adds a marketing category. The stored decision no longer
	// covers the current configuration.
	updated := newTestConfiguration()
	updated.Categories = append(updated.Categories,
		configModel.Category{Key: "marketing", DisplayName: "Marketing"})
	secondVersion, err := configSvc.SaveConfiguration(ownerID, domain.DomainID, updated)
	require.NoError(t, err)
	require.NotEqual(t, firstVersion.VersionID, secondVersion.VersionID)

	stored, err = consentSvc.GetValidDecision(domain.DomainID, visitorID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	// A browser that still renders the old banner cannot record against it.
	_, err = consentSvc.RecordDecision(&consentModel.DecisionRequest{
		DomainID:        domain.DomainID,
		VisitorID:       visitorID,
		Decisions:       map[string]bool{"necessary": true, "analytics": true},
		ConfigVersionID: firstVersion.VersionID,
	})
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.INVALID_DECISION.Code, clientErr.Code)

	// A fresh decision against the new version is accepted and served.
	record, err := consentSvc.RecordDecision(&consentModel.DecisionRequest{
		DomainID:        domain.DomainID,
		VisitorID:       visitorID,
		Decisions:       map[string]bool{"necessary": true, "analytics": false, "marketing": false},
		ConfigVersionID: secondVersion.VersionID,
	})
	require.NoError(t, err)
	assert.Equal(t, secondVersion.VersionID, record.ConfigVersionID)

	stored, err = consentSvc.GetValidDecision(domain.DomainID, visitorID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, secondVersion.VersionID, stored.ConfigVersionID)
}
