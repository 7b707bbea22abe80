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

	"profitbliss-backend-go/internal/models"
	"profitbliss-backend-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// maxBalanceRetries bounds optimistic-locking retries before surfacing
// ErrConcurrentModification to the caller.
const maxBalanceRetries = 3

// entryParams describes one balance mutation. Amount is signed: positive
// credits the account, negative debits it.
type entryParams struct {
	AccountId string
	EntryType string
	Amount    decimal.Decimal
	Reference string
}

// applyEntry runs one balance mutation in its own transaction, retrying on
// version conflicts.
func (s *Service) applyEntry(ctx context.Context, params entryParams) (decimal.Decimal, error) {
	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return decimal.Zero, fmt.Errorf("unable to begin transaction: %w", err)
		}

		newBalance, err := s.applyEntryTx(ctx, tx, params)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				zap.L().Warn("Failed to roll back transaction", zap.Error(rbErr))
			}
			if errors.Is(err, store.ErrConcurrentModification) {
				zap.L().Debug("Version conflict, retrying balance update",
					zap.String("account_id", params.AccountId),
					zap.Int("attempt", attempt+1))
				continue
			}
			return decimal.Zero, err
		}

		if err := tx.Commit(); err != nil {
			return decimal.Zero, fmt.Errorf("unable to commit transaction: %w", err)
		}
		return newBalance, nil
	}

	return decimal.Zero, fmt.Errorf("account %s: %w", params.AccountId, store.ErrConcurrentModification)
}

// applyEntryTx performs the mutation inside the caller's transaction:
// duplicate-reference check, balance read, overdraft check, ledger insert and
// compare-and-swap balance update. The caller owns commit/rollback.
func (s *Service) applyEntryTx(ctx context.Context, tx *sql.Tx, params entryParams) (decimal.Decimal, error) {
	if params.Reference != "" {
		var existingId string
		err := tx.QueryRowContext(ctx, queryCheckDuplicateEntry, params.Reference).Scan(&existingId)
		if err == nil {
			return decimal.Zero, fmt.Errorf("reference %s: %w", params.Reference, store.ErrDuplicateEntry)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("unable to check for duplicate entry: %w", err)
		}
	}

	var balanceStr string
	var version int64
	err := tx.QueryRowContext(ctx, queryGetAccountBalance, params.AccountId).Scan(&balanceStr, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("account %s: %w", params.AccountId, store.ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("unable to read balance: %w", err)
	}

	balanceBefore, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse balance %q: %w", balanceStr, err)
	}

	balanceAfter := balanceBefore.Add(params.Amount)
	if balanceAfter.IsNegative() {
		return decimal.Zero, fmt.Errorf("account %s balance %s, change %s: %w",
			params.AccountId, balanceBefore.String(), params.Amount.String(), store.ErrInsufficientFunds)
	}

	_, err = tx.ExecContext(ctx, queryInsertLedgerEntry,
		uuid.New().String(), params.AccountId, params.EntryType,
		params.Amount.String(), balanceBefore.String(), balanceAfter.String(),
		params.Reference, time.Now().UTC())
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to insert ledger entry: %w", err)
	}

	result, err := tx.ExecContext(ctx, queryUpdateAccountBalance,
		balanceAfter.String(), params.AccountId, version)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to update balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return decimal.Zero, store.ErrConcurrentModification
	}

	return balanceAfter, nil
}

// Credit increases the account balance and records a ledger entry. The amount
// must be strictly positive.
func (s *Service) Credit(ctx context.Context, accountId string, amount decimal.Decimal, entryType, reference string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("credit amount must be positive, got %s: %w", amount.String(), store.ErrInvalidInput)
	}

	newBalance, err := s.applyEntry(ctx, entryParams{
		AccountId: accountId,
		EntryType: entryType,
		Amount:    amount,
		Reference: reference,
	})
	if err != nil {
		return decimal.Zero, err
	}

	zap.L().Info("Credited account",
		zap.String("account_id", accountId),
		zap.String("entry_type", entryType),
		zap.String("amount", amount.String()),
		zap.String("balance", newBalance.String()))
	return newBalance, nil
}

// Debit decreases the account balance and records a ledger entry. Fails with
// ErrInsufficientFunds when the balance would go negative; the account is left
// untouched in that case.
func (s *Service) Debit(ctx context.Context, accountId string, amount decimal.Decimal, entryType, reference string) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("debit amount must be positive, got %s: %w", amount.String(), store.ErrInvalidInput)
	}

	newBalance, err := s.applyEntry(ctx, entryParams{
		AccountId: accountId,
		EntryType: entryType,
		Amount:    amount.Neg(),
		Reference: reference,
	})
	if err != nil {
		return decimal.Zero, err
	}

	zap.L().Info("Debited account",
		zap.String("account_id", accountId),
		zap.String("entry_type", entryType),
		zap.String("amount", amount.String()),
		zap.String("balance", newBalance.String()))
	return newBalance, nil
}

func (s *Service) GetBalance(ctx context.Context, accountId string) (decimal.Decimal, error) {
	var balanceStr string
	var version int64
	err := s.db.QueryRowContext(ctx, queryGetAccountBalance, accountId).Scan(&balanceStr, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("account %s: %w", accountId, store.ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("unable to read balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unable to parse balance %q: %w", balanceStr, err)
	}
	return balance, nil
}

// GetLedgerHistory returns an account's ledger entries newest first.
func (s *Service) GetLedgerHistory(ctx context.Context, accountId string, limit, offset int) ([]models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx, queryGetLedgerHistory, accountId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unable to query ledger history: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		var amount, before, after string
		var reference sql.NullString

		err := rows.Scan(&entry.Id, &entry.AccountId, &entry.EntryType,
			&amount, &before, &after, &reference, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan ledger row: %w", err)
		}

		entry.Reference = reference.String
		if entry.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("unable to parse amount %q: %w", amount, err)
		}
		if entry.BalanceBefore, err = decimal.NewFromString(before); err != nil {
			return nil, fmt.Errorf("unable to parse balance_before %q: %w", before, err)
		}
		if entry.BalanceAfter, err = decimal.NewFromString(after); err != nil {
			return nil, fmt.Errorf("unable to parse balance_after %q: %w", after, err)
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}

	return entries, nil
}
