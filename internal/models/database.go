package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a platform user and their spendable balance
type Account struct {
	Id           string          `db:"id"`
	Email        string          `db:"email"`
	PasswordHash string          `db:"password_hash"`
	Phone        string          `db:"phone"`
	Verified     bool            `db:"verified"`
	IsAdmin      bool            `db:"is_admin"`
	Balance      decimal.Decimal `db:"balance"`
	Referral     string          `db:"referral"`
	CreatedAt    time.Time       `db:"created_at"`
}

// VerifyToken is a one-time email verification credential
type VerifyToken struct {
	Id        string    `db:"id"`
	AccountId string    `db:"account_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
}

// Plan is a catalog entry; immutable once seeded
type Plan struct {
	Id           string          `db:"id"`
	Name         string          `db:"name"`
	Stake        decimal.Decimal `db:"stake"`
	DailyRoi     decimal.Decimal `db:"daily_roi"` // percent of stake per day
	DurationDays int             `db:"duration_days"`
}

// Active plan statuses
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
)

// ActivePlan is one account's commitment to a catalog plan. Name, stake and
// rate are snapshotted at open time so later catalog edits cannot change a
// running instance.
type ActivePlan struct {
	Id             string          `db:"id"`
	AccountId      string          `db:"account_id"`
	PlanId         string          `db:"plan_id"`
	PlanName       string          `db:"plan_name"`
	Stake          decimal.Decimal `db:"stake"`
	DailyRoi       decimal.Decimal `db:"daily_roi"`
	Status         string          `db:"status"`
	StartedAt      time.Time       `db:"started_at"`
	EndsAt         time.Time       `db:"ends_at"`
	LastCreditedAt *time.Time      `db:"last_credited_at"`
}

// Ledger entry types
const (
	EntryTypeDeposit    = "deposit"
	EntryTypeWithdrawal = "withdrawal"
	EntryTypeStake      = "stake"
	EntryTypeRoi        = "roi"
)

// Message is one item in an account's support thread. FromAdmin marks
// platform replies.
type Message struct {
	Id        string    `db:"id"`
	AccountId string    `db:"account_id"`
	Subject   string    `db:"subject"`
	Body      string    `db:"body"`
	FromAdmin bool      `db:"from_admin"`
	CreatedAt time.Time `db:"created_at"`
}

// LedgerEntry represents immutable balance mutation history (cold data)
type LedgerEntry struct {
	Id            string          `db:"id"`
	AccountId     string          `db:"account_id"`
	EntryType     string          `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Reference     string          `db:"reference"`
	CreatedAt     time.Time       `db:"created_at"`
}
