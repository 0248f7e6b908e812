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

	"github.com/wso2/identity-cookie-consent-service/internal/configuration/model"
	"github.com/wso2/identity-cookie-consent-service/internal/system/database/provider"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

// ConfigurationStoreInterface defines the persistence operations for banner
// configuration versions.
type ConfigurationStoreInterface interface {
	InsertVersionAndRepoint(version *model.ConfigurationVersion) error
	GetVersionByID(domainID, versionID string) (*model.ConfigurationVersion, error)
	GetCurrentVersion(domainID string) (*model.ConfigurationVersion, error)
	ListVersions(domainID string) ([]model.ConfigurationVersion, error)
}

// ConfigurationStore is the PostgreSQL implementation of ConfigurationStoreInterface.
type ConfigurationStore struct{}

// NewConfigurationStore creates a new instance of ConfigurationStore.
func NewConfigurationStore() ConfigurationStoreInterface {
	return &ConfigurationStore{}
}

// InsertVersionAndRepoint stores a new configuration version and repoints the
// domain's current version pointer in the same transaction. Readers see either
// the previous version or the new one, never an in-between state.
func (s *ConfigurationStore) InsertVersionAndRepoint(version *model.ConfigurationVersion) error {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for saving configuration of domain: %s", version.DomainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_CONFIGURATION.Code,
			Message:     errors2.ADD_CONFIGURATION.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	payload, err := json.Marshal(version.Config)
	if err != nil {
		errorMsg := "Failed to marshal configuration payload."
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.MARSHAL_JSON.Code,
			Message:     errors2.MARSHAL_JSON.Message,
			Description: errorMsg,
		}, err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to begin transaction for saving configuration of domain: %s", version.DomainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_CONFIGURATION.Code,
			Message:     errors2.ADD_CONFIGURATION.Message,
			Description: errorMsg,
		}, err)
	}

	insertQuery := `INSERT INTO configuration_versions (version_id, domain_id, payload, created_at)
					VALUES ($1, $2, $3, $4)`
	if _, err := tx.Exec(insertQuery, version.VersionID, version.DomainID, payload, version.CreatedAt); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to insert configuration version for domain: %s", version.DomainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_CONFIGURATION.Code,
			Message:     errors2.ADD_CONFIGURATION.Message,
			Description: errorMsg,
		}, err)
	}

	repointQuery := `UPDATE domains SET current_config_version_id = $1 WHERE domain_id = $2`
	if _, err := tx.Exec(repointQuery, version.VersionID, version.DomainID); err != nil {
		_ = tx.Rollback()
		errorMsg := fmt.Sprintf("Failed to repoint current configuration for domain: %s", version.DomainID)
		logger.Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.ADD_CONFIGURATION.Code,
			Message:     errors2.ADD_CONFIGURATION.Message,
			Description: errorMsg,
		}, err)
	}

	logger.Info(fmt.Sprintf("Saved configuration version %s for domain: %s", version.VersionID, version.DomainID))
	return tx.Commit()
}

// GetVersionByID retrieves one stored version of a domain's configuration.
func (s *ConfigurationStore) GetVersionByID(domainID, versionID string) (*model.ConfigurationVersion, error) {

	query := `SELECT version_id, domain_id, payload, created_at FROM configuration_versions
				WHERE domain_id = $1 AND version_id = $2`
	return s.getVersion(query, domainID, versionID)
}

// GetCurrentVersion retrieves the version the domain's current pointer
// references. Returns nil when the domain has never saved a configuration.
func (s *ConfigurationStore) GetCurrentVersion(domainID string) (*model.ConfigurationVersion, error) {

	query := `SELECT cv.version_id, cv.domain_id, cv.payload, cv.created_at
				FROM configuration_versions cv
				JOIN domains d ON d.current_config_version_id = cv.version_id
				WHERE d.domain_id = $1`
	return s.getVersion(query, domainID)
}

func (s *ConfigurationStore) getVersion(query string, args ...interface{}) (*model.ConfigurationVersion, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := "Failed to get db client for fetching configuration."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONFIGURATION.Code,
			Message:     errors2.FETCH_CONFIGURATION.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	results, err := dbClient.ExecuteQuery(query, args...)
	if err != nil {
		errorMsg := "Failed to execute query for fetching configuration."
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONFIGURATION.Code,
			Message:     errors2.FETCH_CONFIGURATION.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return rowToVersion(results[0])
}

// ListVersions retrieves every stored version of a domain, newest first.
func (s *ConfigurationStore) ListVersions(domainID string) ([]model.ConfigurationVersion, error) {

	dbClient, err := provider.NewDBProvider().GetDBClient()
	logger := log.GetLogger()
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to get db client for listing configurations of domain: %s", domainID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONFIGURATION.Code,
			Message:     errors2.FETCH_CONFIGURATION.Message,
			Description: errorMsg,
		}, err)
	}
	defer dbClient.Close()

	query := `SELECT version_id, domain_id, payload, created_at FROM configuration_versions
				WHERE domain_id = $1 ORDER BY created_at DESC`
	results, err := dbClient.ExecuteQuery(query, domainID)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to execute query for listing configurations of domain: %s", domainID)
		logger.Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_CONFIGURATION.Code,
			Message:     errors2.FETCH_CONFIGURATION.Message,
			Description: errorMsg,
		}, err)
	}

	versions := make([]model.ConfigurationVersion, 0, len(results))
	for _, row := range results {
		version, err := rowToVersion(row)
		if err != nil {
			return nil, err
		}
		versions = append(versions, *version)
	}
	return versions, nil
}

func rowToVersion(row map[string]interface{}) (*model.ConfigurationVersion, error) {

	version := model.ConfigurationVersion{
		VersionID: asString(row["version_id"]),
		DomainID:  asString(row["domain_id"]),
	}
	if createdAt, ok := row["created_at"].(time.Time); ok {
		version.CreatedAt = createdAt
	}

	var payload []byte
	switch v := row["payload"].(type) {
	case []byte:
		payload = v
	case string:
		payload = []byte(v)
	}
	if err := json.Unmarshal(payload, &version.Config); err != nil {
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.UNMARSHAL_JSON.Code,
			Message:     errors2.UNMARSHAL_JSON.Message,
			Description: "Failed to unmarshal stored configuration payload.",
		}, err)
	}
	return &version, nil
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
