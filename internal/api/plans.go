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
	"time"

	"profitbliss-backend-go/internal/models"
)

// ListPlans returns the investment catalog ordered by stake.
func (s *AccountService) ListPlans(ctx context.Context) ([]models.Plan, error) {
	return s.store.ListPlans(ctx)
}

// OpenPlan stakes the session's account into a plan. The stake is debited
// and the instance created atomically; an account that cannot cover the
// stake gets ErrInsufficientFunds and no instance.
func (s *AccountService) OpenPlan(ctx context.Context, sessionToken string, req OpenPlanRequest) (*models.ActivePlan, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.store.OpenPlan(ctx, accountId, req.PlanId, time.Now().UTC())
}

// MyPlans returns the session account's plan instances, newest first.
func (s *AccountService) MyPlans(ctx context.Context, sessionToken string) ([]models.ActivePlan, error) {
	accountId, err := s.sessions.Validate(sessionToken)
	if err != nil {
		return nil, err
	}
	return s.store.ListActivePlans(ctx, accountId)
}
