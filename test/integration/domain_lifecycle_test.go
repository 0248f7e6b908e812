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
	configService "github.com/wso2/identity-cookie-consent-service/internal/configuration/service"
	consentModel "github.com/wso2/identity-cookie-consent-service/internal/consent/model"
	consentService "github.com/wso2/identity-cookie-consent-service/internal/consent/service"
	deliveryService "github.com/wso2/identity-cookie-consent-service/internal/delivery/service"
	domainService "github.com/wso2/identity-cookie-consent-service/internal/domain/service"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
)

// Test_Domain_Registration_And_First_Delivery registers a new domain and
// verifies that a delivery read before any configuration is saved reports
// that no configuration exists, leaving the fallback to the browser side.
func Test_Domain_Registration_And_First_Delivery(t *testing.T) {

	ownerID := fmt.Sprintf("owner-reg-%d", time.Now().UnixNano())
	hostname := fmt.Sprintf("first-delivery-%d.example.com", time.Now().UnixNano())

	domainSvc := domainService.GetDomainService()
	deliverySvc := deliveryService.GetDeliveryService()

	domain, err := domainSvc.RegisterDomain(ownerID, "https://"+hostname+"/shop?ref=1")
	require.NoError(t, err)
	assert.Equal(t, hostname, domain.Hostname)
	assert.Equal(t, constants.DomainStatusUnverified, domain.Status)
	assert.Len(t, domain.VerificationToken, 32)

	// Same hostname again for the same owner is rejected.
	_, err = domainSvc.RegisterDomain(ownerID, hostname)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.DUPLICATE_DOMAIN.Code, clientErr.Code)

	// No configuration has ever been saved for this domain.
	_, err = deliverySvc.GetCookieSettings(hostname)
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.CONFIGURATION_NOT_FOUND.Code, clientErr.Code)

	domains, err := domainSvc.ListDomains(ownerID)
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, domain.DomainID, domains[0].DomainID)
}

// Test_Remove_Domain_Cascades_All_Data removes a domain that has accumulated
// configuration versions and consent records and verifies nothing referencing
// it survives.
func Test_Remove_Domain_Cascades_All_Data(t *testing.T) {

	ownerID := fmt.Sprintf("owner-rm-%d", time.Now().UnixNano())
	hostname := fmt.Sprintf("cascade-%d.example.com", time.Now().UnixNano())

	domainSvc := domainService.GetDomainService()
	configSvc := configService.GetConfigurationService()
	consentSvc := consentService.GetConsentService()

	domain, err := domainSvc.RegisterDomain(ownerID, hostname)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = configSvc.SaveConfiguration(ownerID, domain.DomainID, newTestConfiguration())
		require.NoError(t, err)
	}

	for i := 0; i < 50; i++ {
		_, err = consentSvc.RecordDecision(&consentModel.DecisionRequest{
			DomainID:  domain.DomainID,
			VisitorID: fmt.Sprintf("visitor-%03d", i),
			Decisions: map[string]bool{"necessary": true, "analytics": i%2 == 0},
		})
		require.NoError(t, err)
	}

	// A different owner cannot remove the domain.
	err = domainSvc.RemoveDomain("someone-else", domain.DomainID)
	var clientErr *errors2.ClientError
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.DOMAIN_NOT_FOUND.Code, clientErr.Code)
	assert.Equal(t, 50, countRows(t, "consent_records", domain.DomainID))

	err = domainSvc.RemoveDomain(ownerID, domain.DomainID)
	require.NoError(t, err)

	assert.Equal(t, 0, countRows(t, "domains", domain.DomainID))
	assert.Equal(t, 0, countRows(t, "configuration_versions", domain.DomainID))
	assert.Equal(t, 0, countRows(t, "consent_records", domain.DomainID))

	_, err = domainSvc.GetDomain(ownerID, domain.DomainID)
	require.ErrorAs(t, err, &clientErr)
	assert.Equal(t, errors2.DOMAIN_NOT_FOUND.Code, clientErr.Code)
}

func countRows(t *testing.T, table, domainID string) int {

	t.Helper()
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE domain_id = $1", table)
	err := testDB.QueryRow(query, domainID).Scan(&count)
	require.NoError(t, err)
	return count
}
