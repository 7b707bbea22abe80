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
	"profitbliss-backend-go/internal/store"
)

// SendMessage files a support message on the session account's thread.
// Messages from admin accounts are flagged as platform replies.
func (s *AccountService) SendMessage(ctx context.Context, sessionToken string, req MessageRequest) (*models.Message, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.store.GetAccountById(ctx, accountId)
	if err != nil {
		return nil, err
	}

	return s.store.SendMessage(ctx, store.SendMessageParams{
		AccountId: account.Id,
		Subject:   req.Subject,
		Body:      req.Body,
		FromAdmin: account.IsAdmin,
	})
}

// MyMessages returns the session account's message thread, newest first.
func (s *AccountService) MyMessages(ctx context.Context, sessionToken string) ([]models.Message, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, accountId)
}
