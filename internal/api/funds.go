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

package api

import (
	"context"

	"profitbliss-backend-go/internal/models"

	"github.com/shopspring/decimal"
)

// Deposit credits the session's account and returns the new balance.
func (s *AccountService) Deposit(ctx context.Context, sessionToken string, req DepositRequest) (decimal.Decimal, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return decimal.Zero, err
	}
	if err := req.Validate(); err != nil {
		return decimal.Zero, err
	}
	return s.store.Credit(ctx, accountId, req.Amount, models.EntryTypeDeposit, "")
}

// Withdraw debits the session's account and returns the new balance. Fails
// with ErrInsufficientFunds when the balance cannot cover the amount.
func (s *AccountService) Withdraw(ctx context.Context, sessionToken string, req WithdrawRequest) (decimal.Decimal, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return decimal.Zero, err
	}
	if err := req.Validate(); err != nil {
		return decimal.Zero, err
	}
	return s.store.Debit(ctx, accountId, req.Amount, models.EntryTypeWithdrawal, "")
}

// Balance returns the session account's current balance.
func (s *AccountService) Balance(ctx context.Context, sessionToken string) (decimal.Decimal, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return decimal.Zero, err
	}
	return s.store.GetBalance(ctx, accountId)
}

// History returns the session account's ledger entries, newest first.
func (s *AccountService) History(ctx context.Context, sessionToken string, limit, offset int) ([]models.LedgerEntry, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return nil, err
	}
	return s.store.GetLedgerHistory(ctx, accountId, limit, offset)
}
