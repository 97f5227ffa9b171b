// Package config provides runtime configuration values for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/light-bringer/sale-notifier/internal/app/sale/retry"
)

const dateLayout = "2006-01-02"

// Config is read once at startup and passed by reference; nothing below
// the cmd layer reads the environment.
type Config struct {
	SpannerDatabase        string        `validate:"required"`
	AnalyticalMaxStaleness time.Duration `validate:"min=0"`

	TinyAPIURL   string        `validate:"required,url"`
	TinyAPIToken string        `validate:"required"`
	ERPTimeout   time.Duration `validate:"gt=0"`

	Email Email

	Retry            retry.Policy
	InvocationBudget time.Duration `validate:"min=0"`

	LoyaltySince    time.Time
	LoyaltyTimezone string `validate:"required,timezone"`

	HTTPAddr string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
}

// Email holds the SendGrid settings.
type Email struct {
	SendGridAPIKey   string `validate:"required"`
	TemplateID       string `validate:"required"`
	FromAddress      string `validate:"required,email"`
	FromName         string
	ASMGroupID       int `validate:"min=0"`
	ASMGroupsDisplay []int
	TestMode         bool
	TestRecipient    string `validate:"required_if=TestMode true,omitempty,email"`
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// durenv accepts Go durations ("90s", "2m") or bare seconds.
func durenv(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second
	}
	return def
}

func intsenv(key string, def []int) []int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return def
		}
		out = append(out, n)
	}
	return out
}

func dateenv(key string, def time.Time) time.Time {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return def
	}
	return t
}

// Load collects configuration from environment with defaults.
func Load() Config {
	defaults := retry.DefaultPolicy()

	return Config{
		SpannerDatabase:        getenv("SPANNER_DATABASE", "projects/test-project/instances/dev-instance/databases/sale-notifier-db"),
		AnalyticalMaxStaleness: durenv("ANALYTICAL_MAX_STALENESS", 15*time.Second),

		TinyAPIURL:   getenv("TINY_API_URL", "https://api.tiny.com.br/api2"),
		TinyAPIToken: getenv("TINY_API_TOKEN", ""),
		ERPTimeout:   durenv("ERP_TIMEOUT", 30*time.Second),

		Email: Email{
			SendGridAPIKey:   getenv("SENDGRID_API_KEY", ""),
			TemplateID:       getenv("SENDGRID_TEMPLATE_ID", ""),
			FromAddress:      getenv("EMAIL_FROM", ""),
			FromName:         getenv("EMAIL_FROM_NAME", ""),
			ASMGroupID:       atoienv("EMAIL_ASM_GROUP", 23816),
			ASMGroupsDisplay: intsenv("EMAIL_ASM_GROUPS_DISPLAY", []int{23816, 23831, 23817}),
			TestMode:         boolenv("EMAIL_TEST_MODE", false),
			TestRecipient:    getenv("EMAIL_TEST_RECIPIENT", ""),
		},

		Retry: retry.Policy{
			MaxAttempts:       atoienv("RETRY_MAX_ATTEMPTS", defaults.MaxAttempts),
			BaseDelay:         durenv("RETRY_BASE_DELAY", defaults.BaseDelay),
			BackoffMultiplier: floatenv("RETRY_BACKOFF_MULTIPLIER", defaults.BackoffMultiplier),
			MaxDelay:          durenv("RETRY_MAX_DELAY", defaults.MaxDelay),
			MaxElapsed:        durenv("RETRY_MAX_ELAPSED", defaults.MaxElapsed),
			PurchaseFallback:  boolenv("PURCHASE_FALLBACK", false),
		},
		InvocationBudget: durenv("INVOCATION_BUDGET", 540*time.Second),

		LoyaltySince:    dateenv("LOYALTY_SINCE", time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)),
		LoyaltyTimezone: getenv("LOYALTY_TIMEZONE", "America/Sao_Paulo"),

		HTTPAddr: getenv("HTTP_ADDR", ":8080"),
		LogLevel: strings.ToLower(getenv("LOG_LEVEL", "info")),
	}
}

// Validate checks the full configuration needed to process sale events.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.Retry.FitsBudget(c.InvocationBudget); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateAnalytical checks only what read-only analytical commands need.
func (c *Config) ValidateAnalytical() error {
	err := validator.New().StructPartial(c,
		"SpannerDatabase",
		"AnalyticalMaxStaleness",
		"LoyaltyTimezone",
		"LogLevel",
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Location returns the loyalty time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.LoyaltyTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoyaltySinceIn returns the programme start date at midnight in loc.
func (c *Config) LoyaltySinceIn(loc *time.Location) time.Time {
	y, m, d := c.LoyaltySince.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
