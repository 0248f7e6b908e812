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

	"github.com/wso2/identity-cookie-consent-service/internal/domain/handler"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
)

// DomainService registers the owner-facing domain registry routes.
type DomainService struct {
	handler *handler.DomainHandler
}

// NewDomainService creates a new DomainService instance and registers its
// routes on the shared mux.
func NewDomainService(mux *http.ServeMux) *DomainService {
	s := &DomainService{
		handler: handler.NewDomainHandler(),
	}

	const base = constants.ApiBasePath
	mux.HandleFunc("POST "+base+"/domains", s.handler.RegisterDomain)
	mux.HandleFunc("GET "+base+"/domains", s.handler.ListDomains)
	mux.HandleFunc("GET "+base+"/domains/{id}", s.handler.GetDomain)
	mux.HandleFunc("POST "+base+"/domains/{id}/verify", s.handler.VerifyDomain)
	mux.HandleFunc("DELETE "+base+"/domains/{id}", s.handler.RemoveDomain)

	return s
}
