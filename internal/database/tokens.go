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
	"errors"
	"fmt"
	"time"

	"profitbliss-backend-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InsertVerifyToken stores a fresh verification token for an account.
// Multiple live tokens per account are allowed; any of them verifies.
func (s *Service) InsertVerifyToken(ctx context.Context, accountId, token string) error {
	_, err := s.db.ExecContext(ctx, queryInsertVerifyToken,
		uuid.New().String(), accountId, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("unable to insert verification token: %w", err)
	}
	return nil
}

// ConsumeVerifyToken looks up the token, checks its age against ttl, marks
// the owning account verified and deletes the token, all in one transaction.
// Expired tokens are deleted and reported as ErrTokenExpired.
func (s *Service) ConsumeVerifyToken(ctx context.Context, token string, ttl time.Duration) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back transaction", zap.Error(err))
		}
	}(tx)

	var tokenId, accountId string
	var createdAt time.Time
	err = tx.QueryRowContext(ctx, queryGetVerifyToken, token).Scan(&tokenId, &accountId, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrTokenNotFound
		}
		return "", fmt.Errorf("unable to query verification token: %w", err)
	}

	if time.Since(createdAt) > ttl {
		if _, err := tx.ExecContext(ctx, queryDeleteVerifyToken, tokenId); err != nil {
			return "", fmt.Errorf("unable to delete expired token: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return "", fmt.Errorf("unable to commit transaction: %w", err)
		}
		return "", fmt.Errorf("token for account %s: %w", accountId, store.ErrTokenExpired)
	}

	if _, err := tx.ExecContext(ctx, queryMarkAccountVerified, accountId); err != nil {
		return "", fmt.Errorf("unable to mark account verified: %w", err)
	}
	if _, err := tx.ExecContext(ctx, queryDeleteVerifyToken, tokenId); err != nil {
		return "", fmt.Errorf("unable to delete verification token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("unable to commit transaction: %w", err)
	}

	zap.L().Info("Consumed verification token", zap.String("account_id", accountId))
	return accountId, nil
}
