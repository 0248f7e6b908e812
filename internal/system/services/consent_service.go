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

package services

import (
	"net/http"

	"github.com/wso2/identity-cookie-consent-service/internal/consent/handler"
)

// ConsentService registers the public consent ledger routes. Browsers call
// these directly, so they sit outside the authenticated API base path.
type ConsentService struct {
	handler *handler.ConsentHandler
}

// NewConsentService creates a new ConsentService instance and registers its
// routes on the shared mux.
func NewConsentService(mux *http.ServeMux) *ConsentService {
	s := &ConsentService{
		handler: handler.NewConsentHandler(),
	}

	mux.HandleFunc("POST /consent", s.handler.RecordDecision)
	mux.HandleFunc("GET /consent", s.handler.GetDecision)

	return s
}
