package accrual

import (
	"context"
	"testing"
	"time"

	"profitbliss-backend-go/internal/database"
	"profitbliss-backend-go/internal/models"
	"profitbliss-backend-go/internal/store"

	"github.com/shopspring/decimal"
)

// fixture opens an in-memory store with one account holding 500 and a
// 100-stake, 20%-daily, 30-day plan, mirroring the standard catalog tier.
func fixture(t *testing.T) (*Engine, store.AccountStore, string, string, func()) {
	t.Helper()

	service, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	ctx := context.Background()
	plan := models.Plan{
		Id:           "plan-gold",
		Name:         "Gold",
		Stake:        decimal.NewFromInt(100),
		DailyRoi:     decimal.NewFromInt(20),
		DurationDays: 30,
	}
	if err := service.SeedPlans(ctx, []models.Plan{plan}); err != nil {
		t.Fatalf("Failed to seed plan: %v", err)
	}

	account, err := service.CreateAccount(ctx, store.CreateAccountParams{
		Email:        "investor@example.com",
		PasswordHash: "hash",
		Verified:     true,
		Balance:      decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}

	return NewEngine(service), service, account.Id, plan.Id, func() {
		service.Close()
	}
}

func TestAccrueThreeWholeDays(t *testing.T) {
	engine, s, accountId, planId, cleanup := fixture(t)
	defer cleanup()

	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.OpenPlan(ctx, accountId, planId, t0); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}

	// 3 days and change elapsed: exactly 3 days credited at 20/day.
	results, err := engine.AccrueDue(ctx, t0.Add(3*24*time.Hour+5*time.Hour))
	if err != nil {
		t.Fatalf("AccrueDue failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Days != 3 {
		t.Errorf("Expected 3 days, got %d", results[0].Days)
	}
	if !results[0].Amount.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected amount 60, got %s", results[0].Amount.String())
	}
	if results[0].Completed {
		t.Error("Instance should not be completed")
	}

	balance, err := s.GetBalance(ctx, accountId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	// 500 - 100 stake + 60 roi
	if !balance.Equal(decimal.NewFromInt(460)) {
		t.Errorf("Expected balance 460, got %s", balance.String())
	}

	// The anchor advances by whole days only, never to now.
	instances, err := s.ListActivePlans(ctx, accountId)
	if err != nil {
		t.Fatalf("ListActivePlans failed: %v", err)
	}
	expectedAnchor := t0.Add(3 * 24 * time.Hour)
	if instances[0].LastCreditedAt == nil || !instances[0].LastCreditedAt.Equal(expectedAnchor) {
		t.Errorf("Expected anchor %v, got %v", expectedAnchor, instances[0].LastCreditedAt)
	}
}

func TestAccrueCapsAtPlanEnd(t *testing.T) {
	engine, s, accountId, planId, cleanup := fixture(t)
	defer cleanup()

	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.OpenPlan(ctx, accountId, planId, t0); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}

	// First sweep at day 3.
	if _, err := engine.AccrueDue(ctx, t0.Add(3*24*time.Hour)); err != nil {
		t.Fatalf("AccrueDue failed: %v", err)
	}

	// Second sweep at day 31: only the remaining 27 days to the cap accrue,
	// and the instance completes.
	results, err := engine.AccrueDue(ctx, t0.Add(31*24*time.Hour))
	if err != nil {
		t.Fatalf("AccrueDue failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Days != 27 {
		t.Errorf("Expected 27 days, got %d", results[0].Days)
	}
	if !results[0].Amount.Equal(decimal.NewFromInt(540)) {
		t.Errorf("Expected amount 540, got %s", results[0].Amount.String())
	}
	if !results[0].Completed {
		t.Error("Instance should be completed")
	}

	balance, err := s.GetBalance(ctx, accountId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	// 500 - 100 stake + 600 total roi over the plan's 30 days
	if !balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected balance 1000, got %s", balance.String())
	}

	// A later sweep finds nothing: the instance left the active set.
	results, err = engine.AccrueDue(ctx, t0.Add(40*24*time.Hour))
	if err != nil {
		t.Fatalf("AccrueDue failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no results after completion, got %d", len(results))
	}
}

func TestAccrueNothingUnderOneDay(t *testing.T) {
	engine, s, accountId, planId, cleanup := fixture(t)
	defer cleanup()

	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.OpenPlan(ctx, accountId, planId, t0); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}

	results, err := engine.AccrueDue(ctx, t0.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("AccrueDue failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no accrual under 24h, got %d results", len(results))
	}

	balance, err := s.GetBalance(ctx, accountId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected balance 400 (stake only), got %s", balance.String())
	}
}

func TestAccrueIdempotentAtSameInstant(t *testing.T) {
	engine, s, accountId, planId, cleanup := fixture(t)
	defer cleanup()

	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.OpenPlan(ctx, accountId, planId, t0); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}

	now := t0.Add(5 * 24 * time.Hour)
	if _, err := engine.AccrueDue(ctx, now); err != nil {
		t.Fatalf("First AccrueDue failed: %v", err)
	}

	// Re-running at the same instant owes nothing more.
	results, err := engine.AccrueDue(ctx, now)
	if err != nil {
		t.Fatalf("Second AccrueDue failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected idempotent re-run to credit nothing, got %d results", len(results))
	}

	balance, err := s.GetBalance(ctx, accountId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	// 500 - 100 stake + 5 days * 20
	if !balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected balance 500, got %s", balance.String())
	}
}

func TestSplitRunsMatchSingleRun(t *testing.T) {
	engine, s, accountId, planId, cleanup := fixture(t)
	defer cleanup()

	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if _, err := s.OpenPlan(ctx, accountId, planId, t0); err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}

	// Sweep at day 1, day 2 and day 10: totals must equal one sweep at day 10.
	for _, offset := range []time.Duration{24 * time.Hour, 2 * 24 * time.Hour, 10 * 24 * time.Hour} {
		if _, err := engine.AccrueDue(ctx, t0.Add(offset)); err != nil {
			t.Fatalf("AccrueDue at offset %v failed: %v", offset, err)
		}
	}

	balance, err := s.GetBalance(ctx, accountId)
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	// 500 - 100 stake + 10 days * 20
	if !balance.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected balance 600, got %s", balance.String())
	}
}
