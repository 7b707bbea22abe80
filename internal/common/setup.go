package common

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"profitbliss-backend-go/internal/accrual"
	"profitbliss-backend-go/internal/api"
	"profitbliss-backend-go/internal/auth"
	"profitbliss-backend-go/internal/database"
	"profitbliss-backend-go/internal/mailer"
	"profitbliss-backend-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	}
}

type Services struct {
	DbService  *database.Service
	ApiService *api.AccountService
	Engine     *accrual.Engine
	Mailer     mailer.Mailer
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the database, seeds the catalog and demo
// accounts, and wires the mailer, session issuer, API service and accrual
// engine together.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	plans, err := LoadPlanCatalog(cfg.Platform.PlansFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zap.L().Warn("Could not load plan catalog file, using defaults",
				zap.String("file", cfg.Platform.PlansFile), zap.Error(err))
		}
		plans = DefaultCatalog()
	}
	if err := dbService.SeedPlans(ctx, plans); err != nil {
		dbService.Close()
		return nil, err
	}

	if cfg.Database.SeedDemoAccounts {
		if err := dbService.SeedAccounts(ctx); err != nil {
			dbService.Close()
			return nil, err
		}
	}

	var mail mailer.Mailer
	if cfg.Mail.Host != "" {
		mail = mailer.NewSMTP(cfg.Mail)
		zap.L().Info("Outbound mail enabled",
			zap.String("host", cfg.Mail.Host), zap.Int("port", cfg.Mail.Port))
	} else {
		mail = mailer.Noop{}
		zap.L().Info("No SMTP host configured, outbound mail disabled")
	}

	sessions := auth.NewSessionIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)

	apiService := api.NewAccountService(api.AccountServiceConfig{
		Store:        dbService,
		Sessions:     sessions,
		Mailer:       mail,
		ReferralCode: cfg.Platform.ReferralCode,
		BaseURL:      cfg.Mail.BaseURL,
		VerifyTTL:    cfg.Auth.VerifyTokenTTL,
	})

	return &Services{
		DbService:  dbService,
		ApiService: apiService,
		Engine:     accrual.NewEngine(dbService),
		Mailer:     mail,
	}, nil
}

// InitializeDatabaseOnly initializes just the database service.
// Useful for read-only operations like querying balances.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return dbService, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
