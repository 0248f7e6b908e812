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

package provider

import "github.com/wso2/identity-cookie-consent-service/internal/configuration/service"

// ConfigurationProviderInterface defines the interface for the configuration provider.
type ConfigurationProviderInterface interface {
	GetConfigurationService() service.ConfigurationServiceInterface
}

// ConfigurationProvider is the default implementation of the ConfigurationProviderInterface.
type ConfigurationProvider struct{}

// NewConfigurationProvider creates a new instance of ConfigurationProvider.
func NewConfigurationProvider() ConfigurationProviderInterface {
	return &ConfigurationProvider{}
}

// GetConfigurationService returns the configuration service instance.
func (cp *ConfigurationProvider) GetConfigurationService() service.ConfigurationServiceInterface {
	return service.GetConfigurationService()
}
