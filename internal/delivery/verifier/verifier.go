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

package verifier

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

// maxVerificationFileSize bounds how much of the verification file is read.
const maxVerificationFileSize = 64 * 1024

// OwnershipVerifierInterface checks that a verification token is reachable on
// a hostname.
type OwnershipVerifierInterface interface {
	VerifyOwnership(hostname, token string) (bool, error)
}

// HTTPVerifier fetches the well-known verification file over HTTPS. The call
// is user-triggered, so a single attempt with a short timeout is used and the
// owner retries at will.
type HTTPVerifier struct {
	client *http.Client
	scheme string
}

// NewHTTPVerifier creates a verifier with the default fetch timeout.
func NewHTTPVerifier() OwnershipVerifierInterface {
	return &HTTPVerifier{
		client: &http.Client{Timeout: constants.VerificationFetchTimeout},
		scheme: "https",
	}
}

// VerificationURL returns the well-known location of the verification file
// for the given hostname and token.
func (v *HTTPVerifier) VerificationURL(hostname, token string) string {

	prefix := token
	if len(prefix) > constants.VerificationTokenPrefixLength {
		prefix = prefix[:constants.VerificationTokenPrefixLength]
	}
	return fmt.Sprintf("%s://%s/%s%s.html", v.scheme, hostname, constants.VerificationFilePrefix, prefix)
}

// VerifyOwnership fetches the verification file and checks that it contains
// the full token. A false result with a nil error means the file was fetched
// but did not contain the token.
func (v *HTTPVerifier) VerifyOwnership(hostname, token string) (bool, error) {

	logger := log.GetLogger()
	url := v.VerificationURL(hostname, token)

	resp, err := v.client.Get(url)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch verification file from: %s", url)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.VERIFICATION_FETCH.Code,
			Message:     errors2.VERIFICATION_FETCH.Message,
			Description: errorMsg,
		}, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug(fmt.Sprintf("Verification file fetch returned status %d for: %s", resp.StatusCode, url))
		return false, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVerificationFileSize))
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to read verification file from: %s", url)
		logger.Debug(errorMsg, log.Error(err))
		return false, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.VERIFICATION_FETCH.Code,
			Message:     errors2.VERIFICATION_FETCH.Message,
			Description: errorMsg,
		}, err)
	}

	return strings.Contains(string(body), token), nil
}
