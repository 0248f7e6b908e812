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
	"fmt"
	"net/http"

	"github.com/wso2/identity-cookie-consent-service/internal/delivery/provider"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	"github.com/wso2/identity-cookie-consent-service/internal/system/utils"
)

// DeliveryHandler handles the public configuration read path.
type DeliveryHandler struct{}

// NewDeliveryHandler returns a new DeliveryHandler instance.
func NewDeliveryHandler() *DeliveryHandler {
	return &DeliveryHandler{}
}

// GetCookieSettings handles GET /cookie-settings?domain=<hostname>
// Successful responses carry a Cache-Control header matching the server-side
// cache window so CDNs and browsers can absorb repeat page loads.
func (h *DeliveryHandler) GetCookieSettings(w http.ResponseWriter, r *http.Request) {

	hostname := r.URL.Query().Get("domain")

	deliveryService := provider.NewDeliveryProvider().GetDeliveryService()
	settings, err := deliveryService.GetCookieSettings(hostname)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(constants.DeliveryCacheTTL.Seconds())))
	utils.WriteJSONResponse(w, http.StatusOK, settings)
}
