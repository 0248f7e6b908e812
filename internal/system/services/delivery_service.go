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

	"github.com/wso2/identity-cookie-consent-service/internal/delivery/handler"
)

// DeliveryService registers the public configuration delivery route embed
// scripts hit on every page load.
type DeliveryService struct {
	handler *handler.DeliveryHandler
}

// NewDeliveryService creates a new DeliveryService instance and registers its
// routes on the shared mux.
func NewDeliveryService(mux *http.ServeMux) *DeliveryService {
	s := &DeliveryService{
		handler: handler.NewDeliveryHandler(),
	}

	mux.HandleFunc("GET /cookie-settings", s.handler.GetCookieSettings)

	return s
}
