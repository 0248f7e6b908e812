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

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wso2/identity-cookie-consent-service/internal/configuration/model"
	"github.com/wso2/identity-cookie-consent-service/internal/configuration/provider"
	"github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/utils"
)

// ConfigurationHandler handles save and read operations for banner
// configurations.
type ConfigurationHandler struct{}

// NewConfigurationHandler returns a new ConfigurationHandler instance.
func NewConfigurationHandler() *ConfigurationHandler {
	return &ConfigurationHandler{}
}

// SaveConfiguration handles PUT /domains/{id}/configuration
func (h *ConfigurationHandler) SaveConfiguration(w http.ResponseWriter, r *http.Request) {

	ownerID, err := utils.AuthnAndAuthz(r, "configuration:update")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var config model.Configuration
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "banner configuration"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	configurationService := provider.NewConfigurationProvider().GetConfigurationService()
	version, err := configurationService.SaveConfiguration(ownerID, r.PathValue("id"), config)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, version)
}

// GetConfiguration handles GET /domains/{id}/configuration
func (h *ConfigurationHandler) GetConfiguration(w http.ResponseWriter, r *http.Request) {

	ownerID, err := utils.AuthnAndAuthz(r, "configuration:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	configurationService := provider.NewConfigurationProvider().GetConfigurationService()
	version, err := configurationService.GetCurrentConfiguration(ownerID, r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, version)
}

// ListConfigurationVersions handles GET /domains/{id}/configuration/versions
func (h *ConfigurationHandler) ListConfigurationVersions(w http.ResponseWriter, r *http.Request) {

	ownerID, err := utils.AuthnAndAuthz(r, "configuration:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	configurationService := provider.NewConfigurationProvider().GetConfigurationService()
	versions, err := configurationService.ListConfigurationVersions(ownerID, r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, versions)
}
