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

package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/wso2/identity-cookie-consent-service/internal/consent/model"
	"github.com/wso2/identity-cookie-consent-service/internal/system/database/provider"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

// ConsentStoreInterface defines the persistence operations for consent
// records.
type ConsentStoreInterface interface {
	UpsertConsentRecord(record *model.ConsentRecord) error
	GetConsentRecord(domainID, visitorID string) (*model.ConsentRecord, error)
}

// ConsentStore is the PostgreSQL implementation of ConsentStoreInterface.
type ConsentStore struct{}

// NewConsentStore creates a new instance of ConsentStore.
func NewConsentStore() ConsentStoreInterface {
	return &ConsentStore{}
}

// UpsertConsentRecord stores the decision, replacing any earlier decision by
// the same visitor for the same domain.
func (s *ConsentStore) UpsertConsentRecord(record *model.ConsentRecord) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for recording consent of domain: %s", record.DomainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_CONSENT.Code,
			Message:     errors2.ADD_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	decisions, err := json.Marshal(record.Decisions)
	if err != nil {
		errorMsg := "Failed to marshal consent decisions."
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.MARSHAL_JSON.Code,
			Message:     errors2.MARSHAL_JSON.Message,
			Description: errorMsg,
		}, err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for recording consent of domain: %s", record.DomainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_CONSENT.Code,
			Message:     errors2.ADD_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}

	query := `INSERT INTO consent_records (domain_id, visitor_id, decisions, config_version_id, decided_at, expires_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (domain_id, visitor_id) DO UPDATE SET
					decisions = EXCLUDED.decisions,
					config_version_id = EXCLUDED.config_version_id,
					decided_at = EXCLUDED.decided_at,
					expires_at = EXCLUDED.expires_at`
	_, err = tx.Exec(query, record.DomainID, record.VisitorID, decisions, record.ConfigVersionID,
		record.DecidedAt, record.ExpiresAt)
	if err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to execute upsert for consent of domain: %s", record.DomainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_CONSENT.Code,
			Message:     errors2.ADD_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	return tx.Commit()
}

// GetConsentRecord retrieves a visitor's stored decision for the domain.
// Returns nil when no record exists. Expiry is not evaluated here.
func (s *ConsentStore) GetConsentRecord(domainID, visitorID string) (*model.ConsentRecord, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for fetching consent record."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONSENT.Code,
			Message:     errors2.FETCH_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT domain_id, visitor_id, decisions, config_version_id, decided_at, expires_at
				FROM consent_records WHERE domain_id = $1 AND visitor_id = $2`
	results, err := dbClient.ExecuteQuery(query, domainID, visitorID)
	if err != nil {
		errorMsg := "Failed to execute query for fetching consent record."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONSENT.Code,
			Message:     errors2.FETCH_CONSENT.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return rowToConsentRecord(results[0])
}

func rowToConsentRecord(row map[string]interface{}) (*model.ConsentRecord, error) {

	record := model.ConsentRecord{
		DomainID:        asString(row["domain_id"]),
		VisitorID:       asString(row["visitor_id"]),
		ConfigVersionID: asString(row["config_version_id"]),
	}
	if decidedAt, ok := row["decided_at"].(time.Time); ok {
		record.DecidedAt = decidedAt
	}
	if expiresAt, ok := row["expires_at"].(time.Time); ok {
		record.ExpiresAt = expiresAt
	}

	var decisions []byte
	switch v := row["decisions"].(type) {
	case []byte:
		decisions = v
	case string:
		decisions = []byte(v)
	}
	if err := json.Unmarshal(decisions, &record.Decisions); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNMARSHAL_JSON.Code,
			Message:     errors2.UNMARSHAL_JSON.Message,
			Description: "Failed to unmarshal stored consent decisions.",
		}, err)
	}
	return &record, nil
}

func asString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
