package api

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"profitbliss-backend-go/internal/auth"
	"profitbliss-backend-go/internal/database"
	"profitbliss-backend-go/internal/models"
	"profitbliss-backend-go/internal/store"

	"github.com/shopspring/decimal"
)

const testReferral = "tmdf28dns"

// captureMailer records outbound mail so tests can fish the verification
// token out of the rendered link.
type captureMailer struct {
	lastTo   string
	lastHTML string
}

func (m *captureMailer) Send(to, subject, html string) error {
	m.lastTo = to
	m.lastHTML = html
	return nil
}

func (m *captureMailer) lastToken(t *testing.T) string {
	t.Helper()
	marker := "/api/auth/verify/"
	idx := strings.Index(m.lastHTML, marker)
	if idx < 0 {
		t.Fatalf("No verification link in mail: %s", m.lastHTML)
	}
	rest := m.lastHTML[idx+len(marker):]
	end := strings.IndexAny(rest, `"<`)
	if end < 0 {
		t.Fatalf("Malformed verification link in mail: %s", m.lastHTML)
	}
	return rest[:end]
}

func newTestService(t *testing.T) (*AccountService, *database.Service, *captureMailer, func()) {
	t.Helper()

	dbService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	mail := &captureMailer{}
	service := NewAccountService(AccountServiceConfig{
		Store:        dbService,
		Sessions:     auth.NewSessionIssuer("test-secret", time.Hour),
		Mailer:       mail,
		ReferralCode: testReferral,
		BaseURL:      "http://localhost:8080",
		VerifyTTL:    24 * time.Hour,
	})

	return service, dbService, mail, func() {
		dbService.Close()
	}
}

func signupAndVerify(t *testing.T, service *AccountService, mail *captureMailer, email, password string) {
	t.Helper()
	ctx := context.Background()

	if _, err := service.Signup(ctx, SignupRequest{
		Email:    email,
		Password: password,
		Referral: testReferral,
	}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if _, err := service.VerifyEmail(ctx, mail.lastToken(t)); err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
}

func TestSignupVerifyLogin(t *testing.T) {
	service, _, mail, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()

	account, err := service.Signup(ctx, SignupRequest{
		Email:    "Alice@Example.com",
		Password: "password123",
		Referral: testReferral,
	})
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	if account.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %s", account.Email)
	}
	if account.Verified {
		t.Error("Fresh signup should be unverified")
	}
	if mail.lastTo != "alice@example.com" {
		t.Errorf("Verification mail sent to %s", mail.lastTo)
	}

	// Login before verification fails with the dedicated error.
	if _, _, err := service.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "password123"}); !errors.Is(err, store.ErrNotVerified) {
		t.Fatalf("Expected ErrNotVerified, got %v", err)
	}

	accountId, err := service.VerifyEmail(ctx, mail.lastToken(t))
	if err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if accountId != account.Id {
		t.Errorf("Expected account id %s, got %s", account.Id, accountId)
	}

	token, loggedIn, err := service.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.Id != account.Id {
		t.Errorf("Login returned wrong account")
	}

	me, err := service.Me(ctx, token)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if me.Id != account.Id || !me.Verified {
		t.Errorf("Me returned unexpected account: %+v", me)
	}
}

func TestSignupWithoutReferral(t *testing.T) {
	service, _, mail, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()

	// The referral code is optional; leaving it blank registers normally.
	account, err := service.Signup(ctx, SignupRequest{
		Email:    "noref@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Signup without referral failed: %v", err)
	}
	if account.Referral != "" {
		t.Errorf("Expected empty referral, got %q", account.Referral)
	}

	if _, err := service.VerifyEmail(ctx, mail.lastToken(t)); err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if _, _, err := service.Login(ctx, LoginRequest{Email: "noref@example.com", Password: "password123"}); err != nil {
		t.Fatalf("Login after no-referral signup failed: %v", err)
	}
}

func TestSignupWrongReferral(t *testing.T) {
	service, _, _, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()

	_, err := service.Signup(ctx, SignupRequest{
		Email:    "bob@example.com",
		Password: "password123",
		Referral: "wrong-code",
	})
	if !errors.Is(err, store.ErrInvalidReferral) {
		t.Fatalf("Expected ErrInvalidReferral, got %v", err)
	}

	// The rejected signup left nothing behind; the same email with no
	// referral at all goes through.
	if _, err := service.Signup(ctx, SignupRequest{
		Email:    "bob@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("Signup after rejected referral failed: %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	service, _, mail, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()
	signupAndVerify(t, service, mail, "carol@example.com", "password123")

	_, err := service.Signup(ctx, SignupRequest{
		Email:    "CAROL@example.com",
		Password: "different456",
		Referral: testReferral,
	})
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("Expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	service, _, mail, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()
	signupAndVerify(t, service, mail, "dave@example.com", "password123")

	if _, _, err := service.Login(ctx, LoginRequest{Email: "dave@example.com", Password: "nope"}); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := service.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "password123"}); !errors.Is(err, store.ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestResendVerification(t *testing.T) {
	service, _, mail, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.Signup(ctx, SignupRequest{
		Email:    "erin@example.com",
		Password: "password123",
		Referral: testReferral,
	}); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	firstToken := mail.lastToken(t)

	if err := service.ResendVerification(ctx, "erin@example.com"); err != nil {
		t.Fatalf("ResendVerification failed: %v", err)
	}
	secondToken := mail.lastToken(t)
	if firstToken == secondToken {
		t.Error("Resend should issue a fresh token")
	}

	// The older token still works until it expires.
	if _, err := service.VerifyEmail(ctx, firstToken); err != nil {
		t.Fatalf("VerifyEmail with original token failed: %v", err)
	}

	if err := service.ResendVerification(ctx, "erin@example.com"); !errors.Is(err, store.ErrAlreadyVerified) {
		t.Fatalf("Expected ErrAlreadyVerified, got %v", err)
	}
	if err := service.ResendVerification(ctx, "ghost@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestDepositAndWithdraw(t *testing.T) {
	service, _, mail, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()
	signupAndVerify(t, service, mail, "frank@example.com", "password123")

	token, _, err := service.Login(ctx, LoginRequest{Email: "frank@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	balance, err := service.Deposit(ctx, token, DepositRequest{Amount: decimal.NewFromInt(250)})
	if err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected balance 250, got %s", balance.String())
	}

	balance, err = service.Withdraw(ctx, token, WithdrawRequest{Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected balance 150, got %s", balance.String())
	}

	if _, err := service.Withdraw(ctx, token, WithdrawRequest{Amount: decimal.NewFromInt(1000)}); !errors.Is(err, store.ErrInsufficientFunds) {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	entries, err := service.History(ctx, token, 10, 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 ledger entries, got %d", len(entries))
	}
}

func TestOpenPlanViaSession(t *testing.T) {
	service, dbService, mail, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()
	plan := models.Plan{
		Id:           "plan-basic",
		Name:         "Basic",
		Stake:        decimal.NewFromInt(50),
		DailyRoi:     decimal.NewFromInt(20),
		DurationDays: 30,
	}
	if err := dbService.SeedPlans(ctx, []models.Plan{plan}); err != nil {
		t.Fatalf("Failed to seed plan: %v", err)
	}

	signupAndVerify(t, service, mail, "grace@example.com", "password123")
	token, _, err := service.Login(ctx, LoginRequest{Email: "grace@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := service.Deposit(ctx, token, DepositRequest{Amount: decimal.NewFromInt(75)}); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	instance, err := service.OpenPlan(ctx, token, OpenPlanRequest{PlanId: plan.Id})
	if err != nil {
		t.Fatalf("OpenPlan failed: %v", err)
	}
	if instance.PlanName != "Basic" {
		t.Errorf("Expected plan Basic, got %s", instance.PlanName)
	}

	plans, err := service.MyPlans(ctx, token)
	if err != nil {
		t.Fatalf("MyPlans failed: %v", err)
	}
	if len(plans) != 1 || plans[0].Id != instance.Id {
		t.Fatalf("Expected the opened instance, got %+v", plans)
	}

	balance, err := service.Balance(ctx, token)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected balance 25 after stake, got %s", balance.String())
	}
}

func TestSendAndReadMessages(t *testing.T) {
	service, _, mail, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()
	signupAndVerify(t, service, mail, "henry@example.com", "password123")
	token, _, err := service.Login(ctx, LoginRequest{Email: "henry@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	sent, err := service.SendMessage(ctx, token, MessageRequest{
		Subject: "Plan question",
		Body:    "When does my plan start crediting?",
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if sent.FromAdmin {
		t.Error("Regular account message should not be flagged from_admin")
	}

	messages, err := service.MyMessages(ctx, token)
	if err != nil {
		t.Fatalf("MyMessages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Id != sent.Id {
		t.Fatalf("Expected the sent message back, got %+v", messages)
	}

	if _, err := service.SendMessage(ctx, token, MessageRequest{Subject: "Empty"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput for empty body, got %v", err)
	}
	if _, err := service.SendMessage(ctx, "not-a-token", MessageRequest{Body: "hi"}); !errors.Is(err, store.ErrInvalidSession) {
		t.Fatalf("Expected ErrInvalidSession, got %v", err)
	}
	if _, err := service.MyMessages(ctx, "not-a-token"); !errors.Is(err, store.ErrInvalidSession) {
		t.Fatalf("Expected ErrInvalidSession, got %v", err)
	}
}

func TestGarbageSessionRejected(t *testing.T) {
	service, _, _, cleanup := newTestService(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := service.Me(ctx, "not-a-token"); !errors.Is(err, store.ErrInvalidSession) {
		t.Fatalf("Expected ErrInvalidSession, got %v", err)
	}
	if _, err := service.Deposit(ctx, "not-a-token", DepositRequest{Amount: decimal.NewFromInt(1)}); !errors.Is(err, store.ErrInvalidSession) {
		t.Fatalf("Expected ErrInvalidSession, got %v", err)
	}
}
