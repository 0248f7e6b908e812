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
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/google/uuid"
	auditmodel "github.com/wso2/identity-cookie-consent-service/internal/audit/model"
	audit "github.com/wso2/identity-cookie-consent-service/internal/audit/service"
	"github.com/wso2/identity-cookie-consent-service/internal/delivery/verifier"
	model "github.com/wso2/identity-cookie-consent-service/internal/domain/model"
	"github.com/wso2/identity-cookie-consent-service/internal/domain/store"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
)

// DomainServiceInterface defines the service interface for the domain registry.
type DomainServiceInterface interface {
	RegisterDomain(ownerID, hostname string) (*model.Domain, error)
	ListDomains(ownerID string) ([]model.Domain, error)
	GetDomain(ownerID, domainID string) (*model.Domain, error)
	VerifyDomain(ownerID, domainID string) (*model.Domain, error)
	RemoveDomain(ownerID, domainID string) error
}

// DomainService is the default implementation.
type DomainService struct {
	store    store.DomainStoreInterface
	verifier verifier.OwnershipVerifierInterface
}

// GetDomainService returns a new instance.
func GetDomainService() DomainServiceInterface {
	return &DomainService{
		store:    store.NewDomainStore(),
		verifier: verifier.NewHTTPVerifier(),
	}
}

// RegisterDomain normalizes the hostname and creates an unverified domain with
// a fresh verification token.
func (ds *DomainService) RegisterDomain(ownerID, hostname string) (*model.Domain, error) {

	normalized := model.NormalizeHostname(hostname)
	if normalized == "" {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.INVALID_HOSTNAME.Code,
			Message:     errors2.INVALID_HOSTNAME.Message,
			Description: "The provided hostname is empty or not a valid hostname.",
		}, http.StatusBadRequest)
	}

	existing, err := ds.store.GetDomainByOwnerAndHostname(ownerID, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.DUPLICATE_DOMAIN.Code,
			Message:     errors2.DUPLICATE_DOMAIN.Message,
			Description: errors2.DUPLICATE_DOMAIN.Description,
		}, http.StatusConflict)
	}

	token, err := generateVerificationToken()
	if err != nil {
		return nil, err
	}

	domain := &model.Domain{
		DomainID:          uuid.New().String(),
		OwnerID:           ownerID,
		Hostname:          normalized,
		Status:            constants.DomainStatusUnverified,
		VerificationToken: token,
		CreatedAt:         time.Now().UTC(),
	}
	if err := ds.store.InsertDomain(domain); err != nil {
		return nil, err
	}

	audit.EnqueueAuditEvent(ownerID, auditmodel.ActionDomainRegister, domain.DomainID,
		map[string]interface{}{"hostname": normalized})
	return domain, nil
}

// ListDomains returns every domain registered by the owner.
func (ds *DomainService) ListDomains(ownerID string) ([]model.Domain, error) {

	domains, err := ds.store.GetDomainsByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return []model.Domain{}, nil
	}
	return domains, nil
}

// GetDomain retrieves a single domain owned by the caller.
func (ds *DomainService) GetDomain(ownerID, domainID string) (*model.Domain, error) {

	return ds.getOwnedDomain(ownerID, domainID)
}

// VerifyDomain confirms ownership by fetching the well-known verification
// file. Verifying an already-verified domain is a no-op returning the same
// domain, and the token is never rotated.
func (ds *DomainService) VerifyDomain(ownerID, domainID string) (*model.Domain, error) {

	domain, err := ds.getOwnedDomain(ownerID, domainID)
	if err != nil {
		return nil, err
	}
	if domain.IsVerified() {
		return domain, nil
	}

	ok, err := ds.verifier.VerifyOwnership(domain.Hostname, domain.VerificationToken)
	if err != nil || !ok {
		// Not fatal. The owner uploads the file and retries at will.
		return nil, errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.VERIFICATION_FAILED.Code,
			Message:     errors2.VERIFICATION_FAILED.Message,
			Description: errors2.VERIFICATION_FAILED.Description,
		}, http.StatusUnprocessableEntity)
	}

	verifiedAt := time.Now().UTC()
	if err := ds.store.MarkVerified(domain.DomainID, verifiedAt); err != nil {
		return nil, err
	}
	domain.Status = constants.DomainStatusVerified
	domain.VerifiedAt = &verifiedAt

	audit.EnqueueAuditEvent(ownerID, auditmodel.ActionDomainVerify, domain.DomainID,
		map[string]interface{}{"hostname": domain.Hostname})
	return domain, nil
}

// RemoveDomain deletes the domain together with all of its configuration
// versions and consent records.
func (ds *DomainService) RemoveDomain(ownerID, domainID string) error {

	domain, err := ds.getOwnedDomain(ownerID, domainID)
	if err != nil {
		return err
	}

	if err := ds.store.DeleteDomainCascade(domain.DomainID); err != nil {
		return err
	}

	audit.EnqueueAuditEvent(ownerID, auditmodel.ActionDomainRemove, domain.DomainID,
		map[string]interface{}{"hostname": domain.Hostname})
	return nil
}

func (ds *DomainService) getOwnedDomain(ownerID, domainID string) (*model.Domain, error) {

	domain, err := ds.store.GetDomainByID(domainID)
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

// generateVerificationToken returns a 128-bit cryptographically random token,
// hex encoded.
func generateVerificationToken() (string, error) {

	buf := make([]byte, constants.VerificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.TOKEN_GENERATION.Code,
			Message:     errors2.TOKEN_GENERATION.Message,
			Description: "Failed to read random bytes for the verification token.",
		}, err)
	}
	return hex.EncodeToString(buf), nil
}
