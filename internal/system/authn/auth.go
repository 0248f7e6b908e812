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

package authn

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wso2/identity-cookie-consent-service/internal/system/config"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

var (
	expectedAudience = "iam-ccs"
)

// ValidateAuthenticationAndReturnClaims validates a bearer token and returns its claims.
func ValidateAuthenticationAndReturnClaims(token string) (map[string]interface{}, error) {

	var claims map[string]interface{}
	var err error
	logger := log.GetLogger()

	// Detect if token is JWT or opaque
	if strings.Count(token, ".") == 2 {
		claims, err = parseAndVerifyJWT(token)
		if err != nil {
			return claims, unauthorizedError()
		}
	} else {
		logger.Debug("Expecting a JWT token but received an opaque token.")
		return claims, unauthorizedError()
	}

	if !validateClaims(claims) {
		return claims, unauthorizedError()
	}

	return claims, nil
}

// parseAndVerifyJWT parses the token and verifies its signature against the
// configured signing key. Only HMAC signed tokens are accepted.
func parseAndVerifyJWT(tokenString string) (map[string]interface{}, error) {

	logger := log.GetLogger()
	signingKey := config.GetCCSRuntime().Config.Auth.TokenSigningKey
	if signingKey == "" {
		logger.Debug("No token signing key configured, rejecting token.")
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PARSING_ERROR.Code,
			Message:     errors2.PARSING_ERROR.Message,
			Description: "Token signing key is not configured.",
		}, nil)
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(signingKey), nil
	})
	if err != nil {
		errMsg := "Token signature validation failed."
		logger.Debug(errMsg, log.Error(err))
		serverError := errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PARSING_ERROR.Code,
			Message:     errors2.PARSING_ERROR.Message,
			Description: errMsg,
		}, err)
		return nil, serverError
	}
	return claims, nil
}

// validateClaims ensures the token carries a subject, is unexpired and has the expected audience.
func validateClaims(claims map[string]interface{}) bool {

	logger := log.GetLogger()
	subRaw, ok := claims["sub"]
	if !ok {
		logger.Debug("Token does not have the expected sub claim.")
		return false
	}
	sub, ok := subRaw.(string)
	if !ok || sub == "" {
		logger.Debug("Token sub claim is not valid.")
		return false
	}

	expRaw, ok := claims["exp"]
	if !ok {
		logger.Debug("Token does not have an expiration time.")
		return false
	}
	expFloat, ok := expRaw.(float64)
	if !ok {
		logger.Debug("Token does not have a valid expiration time.", log.Any("exp", expRaw))
		return false
	}
	expUnix := int64(expFloat)
	currentTime := time.Now().Unix()
	if expUnix < currentTime {
		logger.Debug("Token has expired.", log.String("exp", time.Unix(expUnix, 0).String()))
		return false
	}

	audRaw, ok := claims["aud"]
	if !ok {
		logger.Debug("Token does not have an audience claim.")
		return false
	}

	var audList []string
	switch aud := audRaw.(type) {
	case []interface{}:
		for _, a := range aud {
			if s, ok := a.(string); ok {
				audList = append(audList, s)
			}
		}
	case string:
		audList = append(audList, aud)
	}

	for _, aud := range audList {
		if aud == expectedAudience {
			return true
		}
	}
	logger.Debug("Token audience does not match expected audience.")
	return false
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: errors2.UN_AUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
