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

package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	model "github.com/wso2/identity-cookie-consent-service/internal/audit/model"
	"github.com/wso2/identity-cookie-consent-service/internal/system/config"
	errors2 "github.com/wso2/identity-cookie-consent-service/internal/system/errors"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

const defaultCollection = "audit_events"

// AuditStoreInterface defines the persistence operations for audit events.
type AuditStoreInterface interface {
	InsertAuditEvent(event *model.AuditEvent) error
}

// AuditStore writes audit events to a MongoDB collection.
type AuditStore struct {
	collection *mongo.Collection
}

var (
	mongoClient *mongo.Client
	connectOnce sync.Once
	connectErr  error
)

// GetAuditStore returns the audit store, or nil when the document store is
// not configured (audit writes are then disabled).
func GetAuditStore() (AuditStoreInterface, error) {

	cfg := config.GetCCSRuntime().Config.DocumentStore
	if cfg.URI == "" {
		return nil, nil
	}

	connectOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient, connectErr = mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	})
	if connectErr != nil {
		errorMsg := "Failed to connect to the document store for audit events."
		log.GetLogger().Debug(errorMsg, log.Error(connectErr))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_WRITE.Code,
			Message:     errors2.AUDIT_WRITE.Message,
			Description: errorMsg,
		}, connectErr)
	}

	collectionName := cfg.Collection
	if collectionName == "" {
		collectionName = defaultCollection
	}
	return &AuditStore{
		collection: mongoClient.Database(cfg.Database).Collection(collectionName),
	}, nil
}

// InsertAuditEvent appends an audit event to the collection.
func (s *AuditStore) InsertAuditEvent(event *model.AuditEvent) error {

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.collection.InsertOne(ctx, event)
	if err != nil {
		errorMsg := "Failed to insert audit event."
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.AUDIT_WRITE.Code,
			Message:     errors2.AUDIT_WRITE.Message,
			Description: errorMsg,
		}, err)
	}
	return nil
}
