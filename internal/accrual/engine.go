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

package accrual

import (
	"context"
	"errors"
	"fmt"
	"time"

	"profitbliss-backend-go/internal/models"
	"profitbliss-backend-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// Engine computes and applies daily ROI for active plan instances. All math
// derives from stored timestamps, so a run at any wall-clock time produces
// the same totals as any number of smaller runs covering the same span.
type Engine struct {
	store store.AccountStore
}

func NewEngine(s store.AccountStore) *Engine {
	return &Engine{store: s}
}

// AccrualResult describes one instance's outcome from a sweep.
type AccrualResult struct {
	InstanceId string
	AccountId  string
	Amount     decimal.Decimal
	Days       int
	Completed  bool
}

// AccrueDue sweeps every active instance once, crediting whole elapsed days
// up to each instance's end and completing matured instances. Failures on
// one instance never block the rest.
func (e *Engine) AccrueDue(ctx context.Context, now time.Time) ([]AccrualResult, error) {
	instances, err := e.store.ListAccruablePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to list accruable plans: %w", err)
	}

	var results []AccrualResult
	for _, instance := range instances {
		result, err := e.accrueInstance(ctx, instance, now)
		if err != nil {
			// Duplicate references and version conflicts mean another worker
			// got there first; the next sweep recomputes from the anchor.
			if errors.Is(err, store.ErrDuplicateEntry) || errors.Is(err, store.ErrConcurrentModification) {
				zap.L().Debug("Skipping instance, already advanced elsewhere",
					zap.String("instance_id", instance.Id))
				continue
			}
			zap.L().Error("Failed to accrue instance",
				zap.String("instance_id", instance.Id),
				zap.String("account_id", instance.AccountId),
				zap.Error(err))
			continue
		}
		if result != nil {
			results = append(results, *result)
		}
	}

	return results, nil
}

// accrueInstance credits the whole days elapsed since the instance's anchor,
// capped at its end time. The anchor advances by exactly the days credited,
// never to now, so partial days are preserved for the next sweep. Returns
// nil when nothing was owed and the instance has not matured.
func (e *Engine) accrueInstance(ctx context.Context, instance models.ActivePlan, now time.Time) (*AccrualResult, error) {
	anchor := instance.StartedAt
	if instance.LastCreditedAt != nil {
		anchor = *instance.LastCreditedAt
	}

	cutoff := now
	if instance.EndsAt.Before(cutoff) {
		cutoff = instance.EndsAt
	}

	days := 0
	if cutoff.After(anchor) {
		days = int(cutoff.Sub(anchor).Hours() / 24)
	}

	completed := !now.Before(instance.EndsAt)
	if days == 0 && !completed {
		return nil, nil
	}

	amount := decimal.Zero
	newAnchor := anchor
	if days > 0 {
		amount = instance.Stake.Mul(instance.DailyRoi).Div(hundred).Mul(decimal.NewFromInt(int64(days)))
		newAnchor = anchor.Add(time.Duration(days) * 24 * time.Hour)
	}

	// The day index of the first day in this batch makes the reference
	// deterministic: a crashed run that retries produces the same key and
	// the ledger rejects the duplicate.
	dayIndex := int(anchor.Sub(instance.StartedAt).Hours()/24) + 1

	err := e.store.ApplyAccrual(ctx, store.ApplyAccrualParams{
		InstanceId:      instance.Id,
		AccountId:       instance.AccountId,
		Amount:          amount,
		Reference:       fmt.Sprintf("roi:%s:%d", instance.Id, dayIndex),
		NewLastCredited: newAnchor,
		Completed:       completed,
	})
	if err != nil {
		return nil, err
	}

	if amount.IsPositive() {
		zap.L().Info("Accrued ROI",
			zap.String("instance_id", instance.Id),
			zap.String("account_id", instance.AccountId),
			zap.String("plan", instance.PlanName),
			zap.Int("days", days),
			zap.String("amount", amount.String()),
			zap.Bool("completed", completed))
	} else {
		zap.L().Info("Plan instance matured",
			zap.String("instance_id", instance.Id),
			zap.String("plan", instance.PlanName))
	}

	return &AccrualResult{
		InstanceId: instance.Id,
		AccountId:  instance.AccountId,
		Amount:     amount,
		Days:       days,
		Completed:  completed,
	}, nil
}
