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
	"fmt"
	"time"

	"profitbliss-backend-go/internal/auth"
	"profitbliss-backend-go/internal/mailer"
	"profitbliss-backend-go/internal/store"
)

// AccountService is the application-facing surface: signup, verification,
// sessions, funds movement and plan management. Every mutation on behalf of
// a user resolves the account from a bearer session token first.
type AccountService struct {
	store     store.AccountStore
	sessions  *auth.SessionIssuer
	mail      mailer.Mailer
	referral  string
	baseURL   string
	verifyTTL time.Duration
}

type AccountServiceConfig struct {
	Store        store.AccountStore
	Sessions     *auth.SessionIssuer
	Mailer       mailer.Mailer
	ReferralCode string
	BaseURL      string
	VerifyTTL    time.Duration
}

func NewAccountService(cfg AccountServiceConfig) *AccountService {
	return &AccountService{
		store:     cfg.Store,
		sessions:  cfg.Sessions,
		mail:      cfg.Mailer,
		referral:  cfg.ReferralCode,
		baseURL:   cfg.BaseURL,
		verifyTTL: cfg.VerifyTTL,
	}
}

func (s *AccountService) HealthCheck(ctx context.Context) error {
	if _, err := s.store.ListPlans(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
