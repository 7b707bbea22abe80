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
	"errors"
	"flag"
	"fmt"
	"regexp"

	"profitbliss-backend-go/internal/auth"
	"profitbliss-backend-go/internal/common"
	"profitbliss-backend-go/internal/config"
	"profitbliss-backend-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// adduser registers an account directly, bypassing the referral and email
// verification flow. Intended for operators.
func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Account email address (required)")
	passwordFlag := flag.String("password", "", "Account password (required)")
	phoneFlag := flag.String("phone", "", "Optional phone number")
	balanceFlag := flag.String("balance", "0", "Initial balance")
	verifyFlag := flag.Bool("verify", true, "Mark the account as verified")
	adminFlag := flag.Bool("admin", false, "Grant admin rights")
	flag.Parse()

	if *emailFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("Both flags are required: --email and --password")
	}
	if err := validateEmail(*emailFlag); err != nil {
		zap.L().Fatal("Invalid email", zap.Error(err))
	}
	if len(*passwordFlag) < 6 {
		zap.L().Fatal("Password must be at least 6 characters")
	}

	balance, err := decimal.NewFromString(*balanceFlag)
	if err != nil || balance.IsNegative() {
		zap.L().Fatal("Invalid balance", zap.String("balance", *balanceFlag))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	hash, err := auth.HashPassword(*passwordFlag)
	if err != nil {
		zap.L().Fatal("Failed to hash password", zap.Error(err))
	}

	account, err := dbService.CreateAccount(ctx, store.CreateAccountParams{
		Email:        *emailFlag,
		PasswordHash: hash,
		Phone:        *phoneFlag,
		Verified:     *verifyFlag,
		IsAdmin:      *adminFlag,
		Balance:      balance,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			zap.L().Fatal("Account already exists with this email", zap.String("email", *emailFlag))
		}
		zap.L().Fatal("Failed to create account", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("ACCOUNT CREATED", common.DefaultWidth)
	fmt.Printf("ID:       %s\n", account.Id)
	fmt.Printf("Email:    %s\n", account.Email)
	fmt.Printf("Verified: %t\n", account.Verified)
	fmt.Printf("Admin:    %t\n", account.IsAdmin)
	fmt.Printf("Balance:  %s\n", account.Balance.String())
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()

	zap.L().Info("Account created successfully", zap.String("id", account.Id))
}
