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

package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	model "github.com/wso2/identity-cookie-consent-service/internal/audit/model"
	"github.com/wso2/identity-cookie-consent-service/internal/audit/store"
	"github.com/wso2/identity-cookie-consent-service/internal/system/constants"
	"github.com/wso2/identity-cookie-consent-service/internal/system/log"
)

var auditQueue chan model.AuditEvent

// StartAuditWorker starts the background worker that drains the audit queue.
// Audit writes are best-effort and never block a request path.
func StartAuditWorker() {

	auditQueue = make(chan model.AuditEvent, constants.DefaultQueueSize)

	go func() {
		for event := range auditQueue {
			auditStore, err := store.GetAuditStore()
			logger := log.GetLogger()
			if err != nil {
				logger.Debug("Audit store unavailable, dropping audit event.", log.Error(err))
				continue
			}
			if auditStore == nil {
				continue
			}
			if err := auditStore.InsertAuditEvent(&event); err != nil {
				logger.Debug(fmt.Sprintf("Failed to persist audit event: %s", event.Action), log.Error(err))
			}
		}
	}()
}

// EnqueueAuditEvent records a state-changing operation. The event is dropped
// when the queue is full or the worker has not been started.
func EnqueueAuditEvent(actor, action, domainID string, details map[string]interface{}) {

	if auditQueue == nil {
		return
	}
	event := model.AuditEvent{
		EventID:   uuid.New().String(),
		Actor:     actor,
		Action:    action,
		DomainID:  domainID,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	select {
	case auditQueue <- event:
	default:
		logger := log.GetLogger()
		if logger != nil {
			logger.Warn(fmt.Sprintf("Audit queue full, dropping audit event: %s", action))
		}
	}
}
