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

func scanPlan(row interface {
	Scan(dest ...interface{}) error
}) (*models.Plan, error) {
	var plan models.Plan
	var stake, dailyRoi string

	if err := row.Scan(&plan.Id, &plan.Name, &stake, &dailyRoi, &plan.DurationDays); err != nil {
		return nil, err
	}

	var err error
	if plan.Stake, err = decimal.NewFromString(stake); err != nil {
		return nil, fmt.Errorf("unable to parse stake %q: %w", stake, err)
	}
	if plan.DailyRoi, err = decimal.NewFromString(dailyRoi); err != nil {
		return nil, fmt.Errorf("unable to parse daily_roi %q: %w", dailyRoi, err)
	}

	return &plan, nil
}

func scanActivePlan(rows *sql.Rows) (*models.ActivePlan, error) {
	var instance models.ActivePlan
	var planId sql.NullString
	var stake, dailyRoi string
	var lastCredited sql.NullTime

	err := rows.Scan(&instance.Id, &instance.AccountId, &planId, &instance.PlanName,
		&stake, &dailyRoi, &instance.Status, &instance.StartedAt, &instance.EndsAt, &lastCredited)
	if err != nil {
		return nil, err
	}

	instance.PlanId = planId.String
	if lastCredited.Valid {
		t := lastCredited.Time
		instance.LastCreditedAt = &t
	}

	if instance.Stake, err = decimal.NewFromString(stake); err != nil {
		return nil, fmt.Errorf("unable to parse stake %q: %w", stake, err)
	}
	if instance.DailyRoi, err = decimal.NewFromString(dailyRoi); err != nil {
		return nil, fmt.Errorf("unable to parse daily_roi %q: %w", dailyRoi, err)
	}

	return &instance, nil
}

func (s *Service) ListPlans(ctx context.Context) ([]models.Plan, error) {
	rows, err := s.db.QueryContext(ctx, queryGetPlans)
	if err != nil {
		return nil, fmt.Errorf("unable to query plans: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var plans []models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan plan row: %w", err)
		}
		plans = append(plans, *plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan rows: %w", err)
	}

	return plans, nil
}

func (s *Service) GetPlan(ctx context.Context, planId string) (*models.Plan, error) {
	plan, err := scanPlan(s.db.QueryRowContext(ctx, queryGetPlan, planId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", planId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query plan: %w", err)
	}
	return plan, nil
}

// OpenPlan debits the plan's stake and creates the instance in one
// transaction. If the account cannot cover the stake the whole operation
// fails and no instance is created.
func (s *Service) OpenPlan(ctx context.Context, accountId, planId string, now time.Time) (*models.ActivePlan, error) {
	plan, err := s.GetPlan(ctx, planId)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	instance := &models.ActivePlan{
		Id:        uuid.New().String(),
		AccountId: accountId,
		PlanId:    plan.Id,
		PlanName:  plan.Name,
		Stake:     plan.Stake,
		DailyRoi:  plan.DailyRoi,
		Status:    models.PlanStatusActive,
		StartedAt: now,
		EndsAt:    now.Add(time.Duration(plan.DurationDays) * 24 * time.Hour),
	}

	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("unable to begin transaction: %w", err)
		}

		_, err = s.applyEntryTx(ctx, tx, entryParams{
			AccountId: accountId,
			EntryType: models.EntryTypeStake,
			Amount:    plan.Stake.Neg(),
			Reference: "stake:" + instance.Id,
		})
		if err == nil {
			_, err = tx.ExecContext(ctx, queryInsertActivePlan,
				instance.Id, instance.AccountId, instance.PlanId, instance.PlanName,
				instance.Stake.String(), instance.DailyRoi.String(), instance.Status,
				instance.StartedAt, instance.EndsAt)
			if err != nil {
				err = fmt.Errorf("unable to insert plan instance: %w", err)
			}
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				zap.L().Warn("Failed to roll back transaction", zap.Error(rbErr))
			}
			if errors.Is(err, store.ErrConcurrentModification) {
				continue
			}
			return nil, err
		}

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("unable to commit transaction: %w", err)
		}

		zap.L().Info("Opened plan",
			zap.String("instance_id", instance.Id),
			zap.String("account_id", accountId),
			zap.String("plan", plan.Name),
			zap.String("stake", plan.Stake.String()))
		return instance, nil
	}

	return nil, fmt.Errorf("account %s: %w", accountId, store.ErrConcurrentModification)
}

func (s *Service) ListActivePlans(ctx context.Context, accountId string) ([]models.ActivePlan, error) {
	return s.queryActivePlans(ctx, queryGetActivePlansByAccount, accountId)
}

// ListAccruablePlans returns every instance still in the active state,
// across all accounts.
func (s *Service) ListAccruablePlans(ctx context.Context) ([]models.ActivePlan, error) {
	return s.queryActivePlans(ctx, queryGetAccruablePlans)
}

func (s *Service) queryActivePlans(ctx context.Context, query string, args ...interface{}) ([]models.ActivePlan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query plan instances: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var instances []models.ActivePlan
	for rows.Next() {
		instance, err := scanActivePlan(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan plan instance row: %w", err)
		}
		instances = append(instances, *instance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan instance rows: %w", err)
	}

	return instances, nil
}

// ApplyAccrual credits earned ROI and advances the instance's anchor in one
// transaction. A zero Amount means the instance matured with no whole day
// owed; only the instance row is touched then. The status guard in the
// update keeps a completed instance from ever being advanced again. Accrual
// runs are idempotent, so conflicts are surfaced rather than retried; the
// next sweep recomputes from the stored anchor.
func (s *Service) ApplyAccrual(ctx context.Context, params store.ApplyAccrualParams) error {
	status := models.PlanStatusActive
	if params.Completed {
		status = models.PlanStatusCompleted
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("unable to begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			zap.L().Warn("Failed to roll back transaction", zap.Error(err))
		}
	}(tx)

	if params.Amount.IsPositive() {
		if _, err := s.applyEntryTx(ctx, tx, entryParams{
			AccountId: params.AccountId,
			EntryType: models.EntryTypeRoi,
			Amount:    params.Amount,
			Reference: params.Reference,
		}); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx, queryAdvanceActivePlan,
		params.NewLastCredited.UTC(), status, params.InstanceId)
	if err != nil {
		return fmt.Errorf("unable to advance plan instance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("instance %s: %w", params.InstanceId, store.ErrConcurrentModification)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit transaction: %w", err)
	}
	return nil
}
