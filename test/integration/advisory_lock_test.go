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

package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/identity-cookie-consent-service/internal/system/database/lock"
)

// A lock acquired through one PostgresLock instance must stay held until it
// is released, even though both instances draw connections from one pool.
func Test_Advisory_Lock_Held_Until_Release(t *testing.T) {
	key := fmt.Sprintf("lock:test:%d", time.Now().UnixNano())
	holder := lock.NewPostgresLock()
	contender := lock.NewPostgresLock()

	acquired, err := holder.Acquire(key)
	require.NoError(t, err)
	require.True(t, acquired)

	blocked, err := contender.Acquire(key)
	require.NoError(t, err)
	assert.False(t, blocked, "a held lock must not be granted a second time")

	require.NoError(t, holder.Release(key))

	acquired, err = contender.Acquire(key)
	require.NoError(t, err)
	assert.True(t, acquired, "a released lock must be available again")
	require.NoError(t, contender.Release(key))
}

// Releasing a key that was never acquired reports an error instead of
// silently succeeding.
func Test_Advisory_Lock_Release_Without_Acquire_Fails(t *testing.T) {
	key := fmt.Sprintf("lock:test:orphan:%d", time.Now().UnixNano())
	err := lock.NewPostgresLock().Release(key)
	assert.Error(t, err)
}
