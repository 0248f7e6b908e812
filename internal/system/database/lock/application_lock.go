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

package lock

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/wso2/identity-cookie-consent-service/internal/system/database/client"
	"github.com/wso2/identity-cookie-consent-service/internal/system/database/provider"
	"github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

type DistributedLock interface {
	Acquire(key string) (bool, error)
	Release(key string) error
}

// lockSession pins an advisory lock to the single connection that holds it.
// Advisory locks are session scoped in PostgreSQL, so the connection must
// stay checked out until the lock is released.
type lockSession struct {
	dbClient client.DBClientInterface
	conn     *sql.Conn
}

// PostgresLock implements DistributedLock using PostgreSQL advisory locks.
type PostgresLock struct {
	mu       sync.Mutex
	sessions map[string]*lockSession
}

func NewPostgresLock() *PostgresLock {
	return &PostgresLock{
		sessions: make(map[string]*lockSession),
	}
}

// PostgreSQL advisory locks take a bigint key, so string keys are hashed.
func (l *PostgresLock) generateLockKey(key string) (int64, error) {

	logger := log.GetLogger()
	h := fnv.New64a()
	_, err := h.Write([]byte(key))
	if err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		logger.Debug(errorMsg, log.Error(err))
		serverError := errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
		return 0, serverError
	}
	return int64(h.Sum64()), nil
}

func (l *PostgresLock) Acquire(key string) (bool, error) {

	logger := log.GetLogger()
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		errorMsg := "Failed during DB client creation for advisory lock acquiring."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.DB_CLIENT_INIT.Code,
			Message:     errors.DB_CLIENT_INIT.Message,
			Description: errorMsg,
		}, err)
	}
	lockID, err := l.generateLockKey(key)
	if err != nil {
		dbClient.Close()
		return false, err
	}
	logger.Debug(fmt.Sprintf("Generated lock id: %d", lockID))

	ctx := context.Background()
	conn, err := dbClient.Conn(ctx)
	if err != nil {
		dbClient.Close()
		errorMsg := "Failed to check out a connection for the advisory lock."
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}

	var acquired bool
	err = conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&acquired)
	if err != nil {
		conn.Close()
		dbClient.Close()
		errorMsg := "Failed to execute pg_try_advisory_lock"
		logger.Error(errorMsg, log.Error(err))
		return false, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_ACQUIRE.Code,
			Message:     errors.LOCK_ACQUIRE.Message,
			Description: errorMsg,
		}, err)
	}
	if !acquired {
		conn.Close()
		dbClient.Close()
		return false, nil
	}

	l.mu.Lock()
	l.sessions[key] = &lockSession{dbClient: dbClient, conn: conn}
	l.mu.Unlock()
	return true, nil
}

func (l *PostgresLock) Release(key string) error {

	logger := log.GetLogger()
	l.mu.Lock()
	session, ok := l.sessions[key]
	delete(l.sessions, key)
	l.mu.Unlock()
	if !ok {
		errorMsg := fmt.Sprintf("No held advisory lock found for key '%s'", key)
		logger.Error(errorMsg)
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, nil)
	}
	defer session.dbClient.Close()
	defer session.conn.Close()

	lockID, err := l.generateLockKey(key)
	if err != nil {
		return err
	}

	var released bool
	err = session.conn.QueryRowContext(
		context.Background(), "SELECT pg_advisory_unlock($1)", lockID).Scan(&released)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to release advisory lock for key '%s'", key)
		logger.Error(errorMsg, log.Error(err))
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, err)
	}
	if !released {
		errorMsg := fmt.Sprintf("pg_advisory_unlock reported no lock held for key '%s'", key)
		logger.Error(errorMsg)
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_RELEASE.Code,
			Message:     errors.LOCK_RELEASE.Message,
			Description: errorMsg,
		}, nil)
	}
	return nil
}
