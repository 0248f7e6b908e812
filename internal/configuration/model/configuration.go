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

package model

import (
	"time"

	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
)

// Category is a consent category a visitor accepts or declines as a unit.
type Category struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// CategoryScript binds a script source to the category that gates it.
type CategoryScript struct {
	Category string `json:"category"`
	Src      string `json:"src"`
}

// ConsentHooks are owner-supplied script snippets run around the consent
// flow: pre-consent before the banner renders, post-consent after a decision
// is applied.
type ConsentHooks struct {
	PreConsent  string `json:"pre_consent,omitempty"`
	PostConsent string `json:"post_consent,omitempty"`
}

// Labels holds the visitor-facing banner text.
type Labels struct {
	Title         string `json:"title,omitempty"`
	Message       string `json:"message,omitempty"`
	AcceptAll     string `json:"accept_all,omitempty"`
	DeclineAll    string `json:"decline_all,omitempty"`
	Customize     string `json:"customize,omitempty"`
	SavePreferred string `json:"save_preferences,omitempty"`
}

// Colors holds the banner color palette as #RRGGBB values.
type Colors struct {
	Background string `json:"background,omitempty"`
	Text       string `json:"text,omitempty"`
	Accent     string `json:"accent,omitempty"`
	Button     string `json:"button,omitempty"`
	ButtonText string `json:"button_text,omitempty"`
}

// Configuration is a banner configuration as owners edit it and browsers
// consume it.
type Configuration struct {
	Layout           string           `json:"layout"`
	Position         string           `json:"position"`
	Theme            string           `json:"theme"`
	Colors           Colors           `json:"colors,omitempty"`
	CornerRadius     int              `json:"corner_radius"`
	FontSize         int              `json:"font_size"`
	Labels           Labels           `json:"labels,omitempty"`
	Categories       []Category       `json:"categories"`
	Scripts          []CategoryScript `json:"scripts,omitempty"`
	Hooks            ConsentHooks     `json:"hooks,omitempty"`
	ExpiryDays       int              `json:"expiry_days"`
	AutoBlockCookies bool             `json:"auto_block_cookies"`
	RespectDNT       bool             `json:"respect_dnt"`
}

// ConfigurationVersion is one immutable stored revision of a domain's
// configuration.
type ConfigurationVersion struct {
	VersionID string        `json:"version_id"`
	DomainID  string        `json:"domain_id"`
	Config    Configuration `json:"config"`
	CreatedAt time.Time     `json:"created_at"`
}

// RequiredCategories returns the keys of categories a decision must accept.
func (c *Configuration) RequiredCategories() []string {
	var keys []string
	for _, cat := range c.Categories {
		if cat.Required {
			keys = append(keys, cat.Key)
		}
	}
	return keys
}

// CategoryKeys returns every category key in declaration order.
func (c *Configuration) CategoryKeys() []string {
	keys := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		keys = append(keys, cat.Key)
	}
	return keys
}

// HasCategory reports whether the configuration declares the key.
func (c *Configuration) HasCategory(key string) bool {
	for _, cat := range c.Categories {
		if cat.Key == key {
			return true
		}
	}
	return false
}

// DefaultConfiguration returns the configuration served for domains that have
// never saved one.
func DefaultConfiguration() Configuration {
	return Configuration{
		Layout:       constants.LayoutBar,
		Position:     "bottom-center",
		Theme:        "light",
		CornerRadius: constants.DefaultCornerRadius,
		FontSize:     constants.DefaultFontSize,
		Labels: Labels{
			Title:      "We value your privacy",
			Message:    "We use cookies to improve your experience. Choose which categories you allow.",
			AcceptAll:  "Accept all",
			DeclineAll: "Decline all",
			Customize:  "Customize",
		},
		Categories: []Category{
			{
				Key:         constants.NecessaryCategoryKey,
				DisplayName: "Strictly necessary",
				Description: "Required for the site to function and always active.",
				Required:    true,
			},
			{
				Key:         "analytics",
				DisplayName: "Analytics",
				Description: "Helps us understand how the site is used.",
			},
			{
				Key:         "marketing",
				DisplayName: "Marketing",
				Description: "Used to deliver relevant advertising.",
			},
		},
		ExpiryDays:       constants.DefaultExpiryDays,
		AutoBlockCookies: true,
		RespectDNT:       true,
	}
}
