package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Mail     MailConfig
	Accrual  AccrualConfig
	Platform PlatformConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path             string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	ConnMaxIdleTime  time.Duration
	PingTimeout      time.Duration
	SeedDemoAccounts bool
}

// AuthConfig holds credential and session settings
type AuthConfig struct {
	JWTSecret      string
	SessionTTL     time.Duration
	VerifyTokenTTL time.Duration
}

// MailConfig holds SMTP settings for verification mail. An empty Host
// disables outbound mail entirely.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// AccrualConfig holds ROI scheduler settings
type AccrualConfig struct {
	Interval time.Duration
}

// PlatformConfig holds platform-wide policy knobs
type PlatformConfig struct {
	ReferralCode string
	PlansFile    string
}
