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
	"strings"

	"profitbliss-backend-go/internal/models"
	"profitbliss-backend-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// scanAccount reads one account row; balance is stored as a decimal string.
func scanAccount(row interface {
	Scan(dest ...interface{}) error
}) (*models.Account, error) {
	var account models.Account
	var phone, referral sql.NullString
	var balanceStr string

	err := row.Scan(&account.Id, &account.Email, &account.PasswordHash, &phone,
		&account.Verified, &account.IsAdmin, &balanceStr, &referral, &account.CreatedAt)
	if err != nil {
		return nil, err
	}

	account.Phone = phone.String
	account.Referral = referral.String

	account.Balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse balance %q: %w", balanceStr, err)
	}

	return &account, nil
}

// CreateAccount inserts a new account. The email is lower-cased and
// trimmed here; the password must already be hashed by the caller.
func (s *Service) CreateAccount(ctx context.Context, params store.CreateAccountParams) (*models.Account, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	accountId := uuid.New().String()

	zap.L().Info("Creating account", zap.String("id", accountId), zap.String("email", email))

	result, err := s.db.ExecContext(ctx, queryInsertAccount,
		accountId, email, params.PasswordHash, params.Phone,
		params.Verified, params.IsAdmin, params.Balance.String(), params.Referral)
	if err != nil {
		zap.L().Error("Failed to insert account", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("unable to insert account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, store.ErrDuplicateEmail
	}

	return s.GetAccountByEmail(ctx, email)
}

func (s *Service) GetAccountById(ctx context.Context, accountId string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccountById, accountId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", accountId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query account by id: %w", err)
	}
	return account, nil
}

func (s *Service) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := scanAccount(s.db.QueryRowContext(ctx, queryGetAccountByEmail, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", email, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query account by email: %w", err)
	}
	return account, nil
}

func (s *Service) GetAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, queryGetAccounts)
	if err != nil {
		return nil, fmt.Errorf("unable to query accounts: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan account row: %w", err)
		}
		accounts = append(accounts, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}

// DeleteAccount removes an account; tokens, instances and ledger entries
// cascade.
func (s *Service) DeleteAccount(ctx context.Context, accountId string) error {
	_, err := s.db.ExecContext(ctx, queryDeleteAccount, accountId)
	if err != nil {
		return fmt.Errorf("unable to delete account: %w", err)
	}
	return nil
}

// MarkAccountVerified transitions an account to verified.
func (s *Service) MarkAccountVerified(ctx context.Context, accountId string) error {
	result, err := s.db.ExecContext(ctx, queryMarkAccountVerified, accountId)
	if err != nil {
		return fmt.Errorf("unable to mark account verified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %s: %w", accountId, store.ErrNotFound)
	}

	return nil
}
