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

	"profitbliss-backend-go/internal/auth"
	"profitbliss-backend-go/internal/models"
	"profitbliss-backend-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.AccountStore.
var _ store.AccountStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema() error {
	schema := `
	-- Accounts (hot data: the spendable balance lives here, guarded by version)
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		phone TEXT,
		verified INTEGER NOT NULL DEFAULT 0,
		is_admin INTEGER NOT NULL DEFAULT 0,
		balance TEXT NOT NULL DEFAULT '0',
		version INTEGER NOT NULL DEFAULT 1,
		referral TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);

	-- One-time email verification tokens
	CREATE TABLE IF NOT EXISTS verify_tokens (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		token TEXT UNIQUE NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_verify_tokens_account ON verify_tokens(account_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_verify_tokens_token ON verify_tokens(token);

	-- Plan catalog (read-mostly, seeded at startup)
	CREATE TABLE IF NOT EXISTS plans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		stake TEXT NOT NULL,
		daily_roi TEXT NOT NULL,
		duration_days INTEGER NOT NULL DEFAULT 30
	);

	-- Active plan instances; plan terms are snapshotted at open time
	CREATE TABLE IF NOT EXISTS active_plans (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		plan_id TEXT REFERENCES plans(id) ON DELETE SET NULL,
		plan_name TEXT NOT NULL,
		stake TEXT NOT NULL,
		daily_roi TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		started_at TIMESTAMP NOT NULL,
		ends_at TIMESTAMP NOT NULL,
		last_credited_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_active_plans_account ON active_plans(account_id);
	CREATE INDEX IF NOT EXISTS idx_active_plans_status ON active_plans(status);

	-- Ledger entries (audit trail - cold data)
	CREATE TABLE IF NOT EXISTS ledger_entries (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		entry_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		balance_before TEXT NOT NULL,
		balance_after TEXT NOT NULL,
		reference TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_entries_account ON ledger_entries(account_id);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_reference ON ledger_entries(reference);
	CREATE INDEX IF NOT EXISTS idx_ledger_entries_created_at ON ledger_entries(created_at);

	-- Support messages between accounts and the platform
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		subject TEXT,
		body TEXT NOT NULL,
		from_admin INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_messages_account ON messages(account_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SeedPlans inserts the plan catalog if the plans table is empty.
func (s *Service) SeedPlans(ctx context.Context, plans []models.Plan) error {
	var count int
	if err := s.db.QueryRowContext(ctx, queryCountPlans).Scan(&count); err != nil {
		return fmt.Errorf("unable to count plans: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, plan := range plans {
		_, err := s.db.ExecContext(ctx, queryInsertPlan,
			plan.Id, plan.Name, plan.Stake.String(), plan.DailyRoi.String(), plan.DurationDays)
		if err != nil {
			return fmt.Errorf("unable to seed plan %s: %w", plan.Name, err)
		}
		zap.L().Info("Seeded plan",
			zap.String("name", plan.Name),
			zap.String("stake", plan.Stake.String()),
			zap.String("daily_roi", plan.DailyRoi.String()),
			zap.Int("duration_days", plan.DurationDays))
	}

	return nil
}

// SeedAccounts provisions the administrative and demo accounts at first boot
// if they are absent.
func (s *Service) SeedAccounts(ctx context.Context) error {
	seeds := []struct {
		email    string
		password string
		isAdmin  bool
		balance  decimal.Decimal
	}{
		{"admin@profitbliss.com", "admin123", true, decimal.Zero},
		{"user@profitbliss.com", "password123", false, decimal.NewFromInt(500)},
	}

	for _, seed := range seeds {
		_, err := s.GetAccountByEmail(ctx, seed.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("unable to check seed account %s: %w", seed.email, err)
		}

		hash, err := auth.HashPassword(seed.password)
		if err != nil {
			return fmt.Errorf("unable to hash seed password: %w", err)
		}

		account, err := s.CreateAccount(ctx, store.CreateAccountParams{
			Email:        seed.email,
			PasswordHash: hash,
			Verified:     true,
			IsAdmin:      seed.isAdmin,
			Balance:      seed.balance,
		})
		if err != nil {
			return fmt.Errorf("unable to seed account %s: %w", seed.email, err)
		}

		zap.L().Info("Seeded account",
			zap.String("id", account.Id),
			zap.String("email", account.Email),
			zap.Bool("is_admin", account.IsAdmin),
			zap.String("balance", account.Balance.String()))
	}

	return nil
}
