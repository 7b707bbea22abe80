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

package main

import (
	"context"
	"flag"
	"fmt"

	"profitbliss-backend-go/internal/common"
	"profitbliss-backend-go/internal/config"
	"profitbliss-backend-go/internal/database"
	"profitbliss-backend-go/internal/models"

	"go.uber.org/zap"
)

type balanceStats struct {
	totalAccounts     int
	accountsWithPlans int
	totalActivePlans  int
}

func formatReference(ref string) string {
	if ref == "" {
		return "none"
	}
	if len(ref) > 20 {
		return ref[:20] + "..."
	}
	return ref
}

func printEntry(entry models.LedgerEntry, isLast bool) {
	fmt.Printf("%s %-11s %12s  %12s -> %-12s  ref: %-23s %s\n",
		common.BoxPrefix(isLast),
		entry.EntryType,
		entry.Amount.String(),
		entry.BalanceBefore.String(),
		entry.BalanceAfter.String(),
		formatReference(entry.Reference),
		entry.CreatedAt.Format("2006-01-02 15:04:05"))
}

func printAccountHeader(account models.Account, planCount int) {
	fmt.Printf("\n┌─ Account: %s\n", account.Email)
	fmt.Printf("│  ID: %s\n", account.Id)
	fmt.Printf("│  Balance: %s  Verified: %t  Active plans: %d\n",
		account.Balance.String(), account.Verified, planCount)
	common.PrintSeparator("-", common.DefaultWidth)
}

func processAccount(ctx context.Context, account models.Account, dbService *database.Service, historyLimit int) (int, error) {
	instances, err := dbService.ListActivePlans(ctx, account.Id)
	if err != nil {
		return 0, fmt.Errorf("failed to get plan instances: %w", err)
	}

	active := 0
	for _, instance := range instances {
		if instance.Status == models.PlanStatusActive {
			active++
		}
	}

	printAccountHeader(account, active)

	for i, instance := range instances {
		fmt.Printf("%s plan %-8s stake: %8s  roi: %5s%%/day  status: %-9s ends: %s\n",
			common.BoxPrefix(i == len(instances)-1),
			instance.PlanName, instance.Stake.String(), instance.DailyRoi.String(),
			instance.Status, instance.EndsAt.Format("2006-01-02"))
	}

	if historyLimit > 0 {
		entries, err := dbService.GetLedgerHistory(ctx, account.Id, historyLimit, 0)
		if err != nil {
			return active, fmt.Errorf("failed to get ledger history: %w", err)
		}
		for i, entry := range entries {
			printEntry(entry, i == len(entries)-1)
		}
	}

	return active, nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific account email (optional)")
	historyFlag := flag.Int("history", 0, "Show the most recent N ledger entries per account")
	flag.Parse()

	logger.Info("Starting balance query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	var accounts []models.Account
	if *emailFlag != "" {
		account, err := dbService.GetAccountByEmail(ctx, *emailFlag)
		if err != nil {
			logger.Fatal("Account not found", zap.String("email", *emailFlag), zap.Error(err))
		}
		accounts = []models.Account{*account}
	} else {
		accounts, err = dbService.GetAccounts(ctx)
		if err != nil {
			logger.Fatal("Failed to read accounts from database", zap.Error(err))
		}
	}

	common.PrintHeader("ACCOUNT BALANCE REPORT", common.DefaultWidth)

	stats := balanceStats{}
	for _, account := range accounts {
		stats.totalAccounts++

		activePlans, err := processAccount(ctx, account, dbService, *historyFlag)
		if err != nil {
			logger.Error("Failed to process account",
				zap.String("account_id", account.Id),
				zap.String("email", account.Email),
				zap.Error(err))
			continue
		}

		if activePlans > 0 {
			stats.accountsWithPlans++
			stats.totalActivePlans += activePlans
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d accounts queried, %d with active plans (%d active plans total)",
		stats.totalAccounts, stats.accountsWithPlans, stats.totalActivePlans)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Balance query completed",
		zap.Int("accounts_queried", stats.totalAccounts),
		zap.Int("accounts_with_plans", stats.accountsWithPlans),
		zap.Int("total_active_plans", stats.totalActivePlans))
}
