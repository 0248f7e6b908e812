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
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/identity-cookie-consent-service/internal/system/config"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

const testSigningKey = "unit-test-signing-key"

func TestMain(m *testing.M) {
	config.OverrideCCSRuntime(config.Config{
		Auth: config.AuthConfig{TokenSigningKey: testSigningKey},
		Log:  config.LogConfig{LogLevel: "error"},
	})
	_ = log.Init("error")
	os.Exit(m.Run())
}

func mintToken(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func TestValidTokenReturnsClaims(t *testing.T) {

	token := mintToken(t, testSigningKey, jwt.MapClaims{
		"sub": "owner-1",
		"aud": "iam-ccs",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := ValidateAuthenticationAndReturnClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims["sub"])
}

// A token signed with a different key must be rejected even when its claims
// are well formed.
func TestForgedSignatureRejected(t *testing.T) {

	token := mintToken(t, "some-other-key", jwt.MapClaims{
		"sub": "owner-1",
		"aud": "iam-ccs",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ValidateAuthenticationAndReturnClaims(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {

	token := mintToken(t, testSigningKey, jwt.MapClaims{
		"sub": "owner-1",
		"aud": "iam-ccs",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := ValidateAuthenticationAndReturnClaims(token)
	assert.Error(t, err)
}

func TestWrongAudienceRejected(t *testing.T) {

	token := mintToken(t, testSigningKey, jwt.MapClaims{
		"sub": "owner-1",
		"aud": "some-other-service",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ValidateAuthenticationAndReturnClaims(token)
	assert.Error(t, err)
}

func TestMissingSubjectRejected(t *testing.T) {

	token := mintToken(t, testSigningKey, jwt.MapClaims{
		"aud": "iam-ccs",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ValidateAuthenticationAndReturnClaims(token)
	assert.Error(t, err)
}

func TestAudienceListAccepted(t *testing.T) {

	token := mintToken(t, testSigningKey, jwt.MapClaims{
		"sub": "owner-1",
		"aud": []string{"other", "iam-ccs"},
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := ValidateAuthenticationAndReturnClaims(token)
	assert.NoError(t, err)
}

func TestOpaqueTokenRejected(t *testing.T) {

	_, err := ValidateAuthenticationAndReturnClaims("opaque-access-token")
	assert.Error(t, err)
}

// Tokens signed with the "none" algorithm carry no signature at all and are
// never accepted.
func TestUnsignedTokenRejected(t *testing.T) {

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "owner-1",
		"aud": "iam-ccs",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, validateErr := ValidateAuthenticationAndReturnClaims(token)
	assert.Error(t, validateErr)
}
