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
	"errors"
	"fmt"

	"profitbliss-backend-go/internal/auth"
	"profitbliss-backend-go/internal/mailer"
	"profitbliss-backend-go/internal/models"
	"profitbliss-backend-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Signup registers a new account and sends a verification email. The
// referral code is optional; a non-empty one must match the platform code
// and is checked before any row is written, so a rejected signup leaves
// nothing behind. Mail delivery is best-effort and never fails the
// registration.
func (s *AccountService) Signup(ctx context.Context, req SignupRequest) (*models.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.Referral != "" && req.Referral != s.referral {
		zap.L().Info("Signup rejected, wrong referral code", zap.String("email", req.Email))
		return nil, store.ErrInvalidReferral
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("unable to hash password: %w", err)
	}

	account, err := s.store.CreateAccount(ctx, store.CreateAccountParams{
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Referral:     req.Referral,
		Balance:      decimal.Zero,
	})
	if err != nil {
		return nil, err
	}

	token, err := auth.NewVerifyToken()
	if err == nil {
		err = s.store.InsertVerifyToken(ctx, account.Id, token)
	}
	if err != nil {
		// The account is unusable without a verification path; roll it back
		// so the email can be retried.
		if delErr := s.store.DeleteAccount(ctx, account.Id); delErr != nil {
			zap.L().Error("Failed to clean up account after token failure",
				zap.String("account_id", account.Id), zap.Error(delErr))
		}
		return nil, fmt.Errorf("unable to issue verification token: %w", err)
	}

	s.sendVerification(account.Email, token)

	zap.L().Info("Account registered",
		zap.String("account_id", account.Id),
		zap.String("email", account.Email))
	return account, nil
}

// VerifyEmail consumes a verification token and returns the verified
// account's id.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token is required: %w", store.ErrInvalidInput)
	}
	return s.store.ConsumeVerifyToken(ctx, token, s.verifyTTL)
}

// ResendVerification issues a fresh token for an unverified account. Older
// tokens stay valid until they expire or the account verifies.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.Verified {
		return store.ErrAlreadyVerified
	}

	token, err := auth.NewVerifyToken()
	if err != nil {
		return err
	}
	if err := s.store.InsertVerifyToken(ctx, account.Id, token); err != nil {
		return err
	}

	s.sendVerification(account.Email, token)
	return nil
}

// Login checks credentials and returns a signed session token. The password
// is checked before the verified flag so the two failure modes stay
// distinct: wrong password yields ErrInvalidCredentials, a correct password
// on an unverified account yields ErrNotVerified.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (string, *models.Account, error) {
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	account, err := s.store.GetAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, store.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !auth.CheckPassword(req.Password, account.PasswordHash) {
		return "", nil, store.ErrInvalidCredentials
	}
	if !account.Verified {
		return "", nil, store.ErrNotVerified
	}

	token, err := s.sessions.Issue(account.Id)
	if err != nil {
		return "", nil, fmt.Errorf("unable to issue session: %w", err)
	}

	zap.L().Info("Account logged in", zap.String("account_id", account.Id))
	return token, account, nil
}

// Me resolves a session token to its account.
func (s *AccountService) Me(ctx context.Context, sessionToken string) (*models.Account, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return nil, err
	}
	return s.store.GetAccountById(ctx, accountId)
}

func (s *AccountService) sendVerification(email, token string) {
	subject, html := mailer.VerificationEmail(s.baseURL, token)
	if err := s.mail.Send(email, subject, html); err != nil {
		zap.L().Warn("Verification email delivery failed",
			zap.String("email", email), zap.Error(err))
	}
}
