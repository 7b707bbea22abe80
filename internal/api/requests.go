package api

import (
	"fmt"
	"strings"

	"profitbliss-backend-go/internal/store"

	"github.com/shopspring/decimal"
)

// SignupRequest carries a new registration. Email is normalized to lower
// case before any lookup or insert.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Referral string `json:"referral"`
}

func (r *SignupRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return fmt.Errorf("a valid email is required: %w", store.ErrInvalidInput)
	}
	if len(r.Password) < 6 {
		return fmt.Errorf("password must be at least 6 characters: %w", store.ErrInvalidInput)
	}
	r.Referral = strings.TrimSpace(r.Referral)
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required: %w", store.ErrInvalidInput)
	}
	return nil
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r *DepositRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return fmt.Errorf("deposit amount must be positive: %w", store.ErrInvalidInput)
	}
	return nil
}

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r *WithdrawRequest) Validate() error {
	if !r.Amount.IsPositive() {
		return fmt.Errorf("withdrawal amount must be positive: %w", store.ErrInvalidInput)
	}
	return nil
}

type OpenPlanRequest struct {
	PlanId string `json:"plan_id"`
}

func (r *OpenPlanRequest) Validate() error {
	if strings.TrimSpace(r.PlanId) == "" {
		return fmt.Errorf("plan_id is required: %w", store.ErrInvalidInput)
	}
	return nil
}

type MessageRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (r *MessageRequest) Validate() error {
	if strings.TrimSpace(r.Body) == "" {
		return fmt.Errorf("message body is required: %w", store.ErrInvalidInput)
	}
	return nil
}
