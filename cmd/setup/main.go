package main

import (
	"context"
	"flag"
	"fmt"

	"profitbliss-backend-go/internal/common"
	"profitbliss-backend-go/internal/config"

	"go.uber.org/zap"
)

// setup initializes the database schema, seeds the plan catalog and, when
// enabled, the demo accounts. Safe to re-run: seeding is skipped once rows
// exist.
func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	plansFlag := flag.String("plans", "", "Optional path to a plans.yaml catalog file (default: value of PLANS_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}
	if *plansFlag != "" {
		cfg.Platform.PlansFile = *plansFlag
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	plans, err := services.DbService.ListPlans(ctx)
	if err != nil {
		zap.L().Fatal("Failed to read plan catalog", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("PLAN CATALOG", common.DefaultWidth)
	for i, plan := range plans {
		fmt.Printf("%s %-10s stake: %8s  daily roi: %5s%%  duration: %d days\n",
			common.BoxPrefix(i == len(plans)-1),
			plan.Name, plan.Stake.String(), plan.DailyRoi.String(), plan.DurationDays)
	}
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("Setup complete",
		zap.String("database", cfg.Database.Path),
		zap.Int("plans", len(plans)),
		zap.Bool("demo_accounts", cfg.Database.SeedDemoAccounts))
}
