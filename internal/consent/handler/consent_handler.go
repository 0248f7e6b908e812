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

	"github.com/wso2/identity-cookie-consent-service/internal/consent/model"
	"github.com/wso2/identity-cookie-consent-service/internal/consent/provider"
	"github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/utils"
)

// ConsentHandler handles the public consent endpoints browsers call. No
// bearer token is involved, the visitor id is an anonymous identifier minted
// by the banner script.
type ConsentHandler struct{}

// NewConsentHandler returns a new ConsentHandler instance.
func NewConsentHandler() *ConsentHandler {
	return &ConsentHandler{}
}

// RecordDecision handles POST /consent
func (h *ConsentHandler) RecordDecision(w http.ResponseWriter, r *http.Request) {

	var request model.DecisionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "consent decision"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	consentService := provider.NewConsentProvider().GetConsentService()
	record, err := consentService.RecordDecision(&request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, record)
}

// GetDecision handles GET /consent?domain_id=...&visitor_id=...
// Responds 204 when the visitor has no valid decision and must be prompted.
func (h *ConsentHandler) GetDecision(w http.ResponseWriter, r *http.Request) {

	domainID := r.URL.Query().Get("domain_id")
	visitorID := r.URL.Query().Get("visitor_id")
	if domainID == "" || visitorID == "" {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: "domain_id and visitor_id query parameters are required.",
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	consentService := provider.NewConsentProvider().GetConsentService()
	record, err := consentService.GetValidDecision(domainID, visitorID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if record == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, record)
}
