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
	"fmt"
	"time"

	model "github.com/wso2/identity-cookie-consent-service/internal/domain/model"
	"github.com/wso2/identity-cookie-consent-service/internal/system/database/provider"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

// DomainStoreInterface defines the persistence operations for domains.
type DomainStoreInterface interface {
	InsertDomain(domain *model.Domain) error
	GetDomainByID(domainID string) (*model.Domain, error)
	GetDomainByHostname(hostname string) (*model.Domain, error)
	GetDomainByOwnerAndHostname(ownerID, hostname string) (*model.Domain, error)
	GetDomainsByOwner(ownerID string) ([]model.Domain, error)
	MarkVerified(domainID string, verifiedAt time.Time) error
	DeleteDomainCascade(domainID string) error
}

// DomainStore is the PostgreSQL implementation of DomainStoreInterface.
type DomainStore struct{}

// NewDomainStore creates a new instance of DomainStore.
func NewDomainStore() DomainStoreInterface {
	return &DomainStore{}
}

const domainColumns = `domain_id, owner_id, hostname, status, verification_token, current_config_version_id, created_at, verified_at`

// InsertDomain inserts a new domain record.
func (s *DomainStore) InsertDomain(domain *model.Domain) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for inserting domain: %s", domain.Hostname)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_DOMAIN.Code,
			Message:     errors2.ADD_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `INSERT INTO domains (domain_id, owner_id, hostname, status, verification_token, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)`
	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for inserting domain: %s", domain.Hostname)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_DOMAIN.Code,
			Message:     errors2.ADD_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}
	_, err = tx.Exec(query, domain.DomainID, domain.OwnerID, domain.Hostname, domain.Status,
		domain.VerificationToken, domain.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to execute query for inserting domain: %s", domain.Hostname)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_DOMAIN.Code,
			Message:     errors2.ADD_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}
	logger.Info(fmt.Sprintf("Successfully registered domain: %s", domain.Hostname))
	return tx.Commit()
}

// GetDomainByID retrieves a domain by its id.
func (s *DomainStore) GetDomainByID(domainID string) (*model.Domain, error) {

	return s.getDomain(`SELECT `+domainColumns+` FROM domains WHERE domain_id = $1`, domainID)
}

// GetDomainByHostname retrieves a domain by its normalized hostname.
func (s *DomainStore) GetDomainByHostname(hostname string) (*model.Domain, error) {

	return s.getDomain(`SELECT `+domainColumns+` FROM domains WHERE hostname = $1`, hostname)
}

// GetDomainByOwnerAndHostname retrieves a domain owned by the given account.
func (s *DomainStore) GetDomainByOwnerAndHostname(ownerID, hostname string) (*model.Domain, error) {

	return s.getDomain(`SELECT `+domainColumns+` FROM domains WHERE owner_id = $1 AND hostname = $2`,
		ownerID, hostname)
}

func (s *DomainStore) getDomain(query string, args ...interface{}) (*model.Domain, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for fetching domain."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_DOMAIN.Code,
			Message:     errors2.FETCH_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed to execute query for fetching domain."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_DOMAIN.Code,
			Message:     errors2.FETCH_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}

	if len(results) == 0 {
		return nil, nil
	}
	domain := rowToDomain(results[0])
	return &domain, nil
}

// GetDomainsByOwner retrieves all domains registered by the given account.
func (s *DomainStore) GetDomainsByOwner(ownerID string) ([]model.Domain, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for fetching domains of owner: %s", ownerID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_DOMAIN.Code,
			Message:     errors2.FETCH_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT ` + domainColumns + ` FROM domains WHERE owner_id = $1 ORDER BY created_at`
	results, err := dbClient.ExecuteQuery(query, ownerID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to execute query for fetching domains of owner: %s", ownerID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_DOMAIN.Code,
			Message:     errors2.FETCH_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}

	domains := make([]model.Domain, 0, len(results))
	for _, row := range results {
		domains = append(domains, rowToDomain(row))
	}
	return domains, nil
}

// MarkVerified flips the domain status to verified. The verification token is
// never rotated.
func (s *DomainStore) MarkVerified(domainID string, verifiedAt time.Time) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for verifying domain: %s", domainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_DOMAIN.Code,
			Message:     errors2.UPDATE_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for verifying domain: %s", domainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_DOMAIN.Code,
			Message:     errors2.UPDATE_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}

	query := `UPDATE domains SET status = 'verified', verified_at = $1 WHERE domain_id = $2`
	_, err = tx.Exec(query, verifiedAt, domainID)
	if err != nil {
		_ = tx.Rollback()
		logger.Debug("Failed to mark domain verified", log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UPDATE_DOMAIN.Code,
			Message:     errors2.UPDATE_DOMAIN.Message,
			Description: "Failed to mark domain verified.",
		}, err)
	}
	return tx.Commit()
}

// DeleteDomainCascade removes the domain with all of its configuration
// versions and consent records in a single transaction. Either everything is
// deleted or nothing is.
func (s *DomainStore) DeleteDomainCascade(domainID string) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for removing domain: %s", domainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_DOMAIN.Code,
			Message:     errors2.DELETE_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for removing domain: %s", domainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.DELETE_DOMAIN.Code,
			Message:     errors2.DELETE_DOMAIN.Message,
			Description: errorMsg,
		}, err)
	}

	// The current version pointer references configuration_versions rows, so
	// it is cleared before the versions are deleted.
	statements := []string{
		`DELETE FROM consent_records WHERE domain_id = $1`,
		`UPDATE domains SET current_config_version_id = NULL WHERE domain_id = $1`,
		`DELETE FROM configuration_versions WHERE domain_id = $1`,
		`DELETE FROM domains WHERE domain_id = $1`,
	}
	for _, statement := range statements {
		if _, err := tx.Exec(statement, domainID); err != nil {
			_ = tx.Rollback()
			errorMsg := fmt.Sprintf("Failed to execute cascade delete for domain: %s", domainID)
			logger.Debug(errorMsg, log.Error(err))
			return errors2.NewServerError(errors2.ErrorMessage{
				Code:        errors2.DELETE_DOMAIN.Code,
				Message:     errors2.DELETE_DOMAIN.Message,
				Description: errorMsg,
			}, err)
		}
	}
	logger.Info(fmt.Sprintf("Successfully removed domain: %s", domainID))
	return tx.Commit()
}

func rowToDomain(row map[string]interface{}) model.Domain {

	domain := model.Domain{
		DomainID:          asString(row["domain_id"]),
		OwnerID:           asString(row["owner_id"]),
		Hostname:          asString(row["hostname"]),
		Status:            asString(row["status"]),
		VerificationToken: asString(row["verification_token"]),
	}
	domain.CurrentConfigVersionID = asString(row["current_config_version_id"])
	if createdAt, ok := row["created_at"].(time.Time); ok {
		domain.CreatedAt = createdAt
	}
	if verifiedAt, ok := row["verified_at"].(time.Time); ok {
		domain.VerifiedAt = &verifiedAt
	}
	return domain
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
