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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The shipped deployment.yaml must resolve against the environment variable
// names documented in config/database.env and config/server.env.
func TestLoadConfigExpandsShippedEnvNames(t *testing.T) {

	t.Setenv("CCS_DB_HOST", "db.internal")
	t.Setenv("CCS_DB_NAME", "ccsdb")
	t.Setenv("CCS_DB_USERNAME", "ccs_user")
	t.Setenv("CCS_DB_PASSWORD", "secret")
	t.Setenv("CCS_JWT_SIGNING_KEY", "signing-key")
	t.Setenv("CCS_MONGODB_URI", "")

	cfg, err := LoadConfig("../../..", "repository/conf/deployment.yaml")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DataSource.Hostname)
	assert.Equal(t, "ccsdb", cfg.DataSource.Name)
	assert.Equal(t, "ccs_user", cfg.DataSource.Username)
	assert.Equal(t, "secret", cfg.DataSource.Password)
	assert.Equal(t, 5432, cfg.DataSource.Port)
	assert.Equal(t, "signing-key", cfg.Auth.TokenSigningKey)
}

func TestLoadConfigMissingFile(t *testing.T) {

	_, err := LoadConfig(t.TempDir(), "deployment.yaml")
	assert.Error(t, err)
}
