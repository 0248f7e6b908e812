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

	"github.com/wso2/identity-cookie-consent-service/internal/configuration/handler"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
)

// ConfigurationService registers the owner-facing banner configuration routes.
type ConfigurationService struct {
	handler *handler.ConfigurationHandler
}

// NewConfigurationService creates a new ConfigurationService instance and
// registers its routes on the shared mux.
func NewConfigurationService(mux *http.ServeMux) *ConfigurationService {
	s := &ConfigurationService{
		handler: handler.NewConfigurationHandler(),
	}

	const base = constants.ApiBasePath
	mux.HandleFunc("PUT "+base+"/domains/{id}/configuration", s.handler.SaveConfiguration)
	mux.HandleFunc("GET "+base+"/domains/{id}/configuration", s.handler.GetConfiguration)
	mux.HandleFunc("GET "+base+"/domains/{id}/configuration/versions", s.handler.ListConfigurationVersions)

	return s
}
