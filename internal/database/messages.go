/**
 * Copyright 2025-present Profit Bliss
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"profitbliss-backend-go/internal/models"
	"profitbliss-backend-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SendMessage stores one message in an account's support thread.
func (s *Service) SendMessage(ctx context.Context, params store.SendMessageParams) (*models.Message, error) {
	message := &models.Message{
		Id:        uuid.New().String(),
		AccountId: params.AccountId,
		Subject:   params.Subject,
		Body:      params.Body,
		FromAdmin: params.FromAdmin,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, queryInsertMessage,
		message.Id, message.AccountId, message.Subject, message.Body,
		message.FromAdmin, message.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("unable to insert message: %w", err)
	}

	zap.L().Info("Stored message",
		zap.String("message_id", message.Id),
		zap.String("account_id", message.AccountId),
		zap.Bool("from_admin", message.FromAdmin))
	return message, nil
}

// ListMessages returns an account's messages newest first.
func (s *Service) ListMessages(ctx context.Context, accountId string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, queryGetMessagesByAccount, accountId)
	if err != nil {
		return nil, fmt.Errorf("unable to query messages: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var messages []models.Message
	for rows.Next() {
		var message models.Message
		var subject sql.NullString

		err := rows.Scan(&message.Id, &message.AccountId, &subject,
			&message.Body, &message.FromAdmin, &message.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan message row: %w", err)
		}
		message.Subject = subject.String
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}
