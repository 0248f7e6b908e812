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

package constants

import "time"

const ApiBasePath = "/api/v1"

// Domain verification statuses.
const (
	DomainStatusUnverified = "unverified"
	DomainStatusVerified   = "verified"
)

// Verification file contract. The owner uploads
// https://<hostname>/privacyvet-verify-<tokenPrefix>.html containing the full token.
const (
	VerificationFilePrefix        = "privacyvet-verify-"
	VerificationTokenPrefixLength = 8
	VerificationTokenBytes        = 16
)

// NecessaryCategoryKey is the one category every configuration must carry and
// every visitor decision must accept.
const NecessaryCategoryKey = "necessary"

// Banner layouts.
const (
	LayoutBar      = "bar"
	LayoutPopup    = "popup"
	LayoutFloating = "floating"
)

var AllowedLayouts = map[string]bool{
	LayoutBar:      true,
	LayoutPopup:    true,
	LayoutFloating: true,
}

// Banner screen anchors.
var AllowedPositions = map[string]bool{
	"top-left":      true,
	"top-center":    true,
	"top-right":     true,
	"bottom-left":   true,
	"bottom-center": true,
	"bottom-right":  true,
}

// Banner themes.
var AllowedThemes = map[string]bool{
	"light": true,
	"dark":  true,
	"auto":  true,
}

// Numeric configuration ranges. Values are clamped to these ranges at write
// time so stored data can never violate them.
const (
	MinExpiryDays     = 1
	MaxExpiryDays     = 365
	DefaultExpiryDays = 180

	MinCornerRadius     = 0
	MaxCornerRadius     = 20
	DefaultCornerRadius = 4

	MinFontSize     = 10
	MaxFontSize     = 24
	DefaultFontSize = 14
)

// Timeouts and cache windows for the delivery path.
const (
	DeliveryCacheTTL         = 5 * time.Minute
	DeliveryReadTimeout      = 2 * time.Second
	VerificationFetchTimeout = 10 * time.Second
)

// DefaultQueueSize bounds the audit event queue.
const DefaultQueueSize = 100

// Embed script attributes a host page provides when bootstrapping the banner.
const (
	EmbedAttrDomainID = "data-domain-id"
	EmbedAttrDomain   = "data-domain"
	EmbedAttrAPIURL   = "data-api-url"
)
