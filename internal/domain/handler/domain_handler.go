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

	"github.com/wso2/identity-cookie-consent-service/internal/domain/model"
	"github.com/wso2/identity-cookie-consent-service/internal/domain/provider"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	"github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/utils"
)

// DomainHandler handles CRUD and verification operations for registered domains.
type DomainHandler struct{}

// NewDomainHandler returns a new DomainHandler instance.
func NewDomainHandler() *DomainHandler {
	return &DomainHandler{}
}

// RegisterDomain handles POST /domains
func (h *DomainHandler) RegisterDomain(w http.ResponseWriter, r *http.Request) {

	ownerID, err := utils.AuthnAndAuthz(r, "domain:create")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var req model.DomainCreateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "domain"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}

	domainService := provider.NewDomainProvider().GetDomainService()
	domain, err := domainService.RegisterDomain(ownerID, req.Hostname)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	resp := toDomainResponse(domain, true)
	utils.WriteJSONResponse(w, http.StatusCreated, resp)
}

// ListDomains handles GET /domains
func (h *DomainHandler) ListDomains(w http.ResponseWriter, r *http.Request) {

	ownerID, err := utils.AuthnAndAuthz(r, "domain:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	domainService := provider.NewDomainProvider().GetDomainService()
	domains, err := domainService.ListDomains(ownerID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	resp := make([]model.DomainResponse, 0, len(domains))
	for i := range domains {
		resp = append(resp, *toDomainResponse(&domains[i], false))
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// GetDomain handles GET /domains/{id}
func (h *DomainHandler) GetDomain(w http.ResponseWriter, r *http.Request) {

	ownerID, err := utils.AuthnAndAuthz(r, "domain:view")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	domainService := provider.NewDomainProvider().GetDomainService()
	domain, err := domainService.GetDomain(ownerID, r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toDomainResponse(domain, true))
}

// VerifyDomain handles POST /domains/{id}/verify
func (h *DomainHandler) VerifyDomain(w http.ResponseWriter, r *http.Request) {

	ownerID, err := utils.AuthnAndAuthz(r, "domain:create")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	domainService := provider.NewDomainProvider().GetDomainService()
	domain, err := domainService.VerifyDomain(ownerID, r.PathValue("id"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, toDomainResponse(domain, false))
}

// RemoveDomain handles DELETE /domains/{id}
func (h *DomainHandler) RemoveDomain(w http.ResponseWriter, r *http.Request) {

	ownerID, err := utils.AuthnAndAuthz(r, "domain:delete")
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	domainService := provider.NewDomainProvider().GetDomainService()
	if err := domainService.RemoveDomain(ownerID, r.PathValue("id")); err != nil {
		utils.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toDomainResponse maps a domain to its API representation. The verification
// file name is only included when the token itself is exposed.
func toDomainResponse(domain *model.Domain, includeToken bool) *model.DomainResponse {

	resp := &model.DomainResponse{
		DomainID:               domain.DomainID,
		Hostname:               domain.Hostname,
		Status:                 domain.Status,
		CurrentConfigVersionID: domain.CurrentConfigVersionID,
		CreatedAt:              domain.CreatedAt,
		VerifiedAt:             domain.VerifiedAt,
	}
	if includeToken && !domain.IsVerified() {
		resp.VerificationToken = domain.VerificationToken
		resp.VerificationFile = constants.VerificationFilePrefix + domain.TokenPrefix() + ".html"
	}
	return resp
}
