package store

import (
	"context"
	"errors"
	"time"

	"profitbliss-backend-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all layers. Callers branch with errors.Is.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrDuplicateEmail         = errors.New("email already registered")
	ErrInvalidReferral        = errors.New("invalid referral code")
	ErrNotFound               = errors.New("not found")
	ErrTokenNotFound          = errors.New("verification token not found")
	ErrTokenExpired           = errors.New("verification token expired")
	ErrAlreadyVerified        = errors.New("account already verified")
	ErrNotVerified            = errors.New("email not verified")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidSession         = errors.New("invalid session token")
	ErrSessionExpired         = errors.New("session token expired")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrDuplicateEntry         = errors.New("duplicate ledger entry")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// CreateAccountParams contains the parameters for creating an account.
// The password must already be hashed; the store never sees plaintext.
type CreateAccountParams struct {
	Email        string
	PasswordHash string
	Phone        string
	Referral     string
	Verified     bool
	IsAdmin      bool
	Balance      decimal.Decimal
}

// ApplyAccrualParams carries one instance's accrual outcome: the ROI credit,
// the advanced anchor and (optionally) the terminal transition. Amount may be
// zero when an instance matures with no whole day owed.
type ApplyAccrualParams struct {
	InstanceId      string
	AccountId       string
	Amount          decimal.Decimal
	Reference       string
	NewLastCredited time.Time
	Completed       bool
}

// SendMessageParams describes one message in an account's support thread.
type SendMessageParams struct {
	AccountId string
	Subject   string
	Body      string
	FromAdmin bool
}

// AccountStore defines the contract the SQLite backend satisfies.
type AccountStore interface {
	// --- Accounts ---
	CreateAccount(ctx context.Context, params CreateAccountParams) (*models.Account, error)
	GetAccountById(ctx context.Context, accountId string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	DeleteAccount(ctx context.Context, accountId string) error
	MarkAccountVerified(ctx context.Context, accountId string) error
	GetAccounts(ctx context.Context) ([]models.Account, error)

	// --- Verification tokens ---
	InsertVerifyToken(ctx context.Context, accountId, token string) error
	ConsumeVerifyToken(ctx context.Context, token string, ttl time.Duration) (string, error)

	// --- Ledger ---
	Credit(ctx context.Context, accountId string, amount decimal.Decimal, entryType, reference string) (decimal.Decimal, error)
	Debit(ctx context.Context, accountId string, amount decimal.Decimal, entryType, reference string) (decimal.Decimal, error)
	GetBalance(ctx context.Context, accountId string) (decimal.Decimal, error)
	GetLedgerHistory(ctx context.Context, accountId string, limit, offset int) ([]models.LedgerEntry, error)

	// --- Plans ---
	ListPlans(ctx context.Context) ([]models.Plan, error)
	GetPlan(ctx context.Context, planId string) (*models.Plan, error)
	OpenPlan(ctx context.Context, accountId, planId string, now time.Time) (*models.ActivePlan, error)
	ListActivePlans(ctx context.Context, accountId string) ([]models.ActivePlan, error)
	ListAccruablePlans(ctx context.Context) ([]models.ActivePlan, error)
	ApplyAccrual(ctx context.Context, params ApplyAccrualParams) error

	// --- Messages ---
	SendMessage(ctx context.Context, params SendMessageParams) (*models.Message, error)
	ListMessages(ctx context.Context, accountId string) ([]models.Message, error)

	// --- Lifecycle ---
	Close()
}
