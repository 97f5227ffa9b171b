package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"SPANNER_DATABASE", "ANALYTICAL_MAX_STALENESS", "TINY_API_URL", "TINY_API_TOKEN", "ERP_TIMEOUT",
	"SENDGRID_API_KEY", "SENDGRID_TEMPLATE_ID", "EMAIL_FROM", "EMAIL_FROM_NAME", "EMAIL_ASM_GROUP",
	"EMAIL_ASM_GROUPS_DISPLAY", "EMAIL_TEST_MODE", "EMAIL_TEST_RECIPIENT", "RETRY_MAX_ATTEMPTS",
	"RETRY_BASE_DELAY", "RETRY_BACKOFF_MULTIPLIER", "RETRY_MAX_DELAY", "RETRY_MAX_ELAPSED",
	"PURCHASE_FALLBACK", "INVOCATION_BUDGET", "LOYALTY_SINCE", "LOYALTY_TIMEZONE", "HTTP_ADDR", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func withCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("TINY_API_TOKEN", "tiny-token")
	t.Setenv("SENDGRID_API_KEY", "SG.key")
	t.Setenv("SENDGRID_TEMPLATE_ID", "d-123")
	t.Setenv("EMAIL_FROM", "loja@example.com")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c := Load()

	assert.Equal(t, "projects/test-project/instances/dev-instance/databases/sale-notifier-db", c.SpannerDatabase)
	assert.Equal(t, 15*time.Second, c.AnalyticalMaxStaleness)
	assert.Equal(t, "https://api.tiny.com.br/api2", c.TinyAPIURL)
	assert.Equal(t, 30*time.Second, c.ERPTimeout)
	assert.Equal(t, 23816, c.Email.ASMGroupID)
	assert.Equal(t, []int{23816, 23831, 23817}, c.Email.ASMGroupsDisplay)
	assert.False(t, c.Email.TestMode)
	assert.Equal(t, 4, c.Retry.MaxAttempts)
	assert.Equal(t, 30*time.Second, c.Retry.BaseDelay)
	assert.Equal(t, 2.0, c.Retry.BackoffMultiplier)
	assert.Equal(t, 90*time.Second, c.Retry.MaxDelay)
	assert.False(t, c.Retry.PurchaseFallback)
	assert.Equal(t, 540*time.Second, c.InvocationBudget)
	assert.Equal(t, time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), c.LoyaltySince)
	assert.Equal(t, "America/Sao_Paulo", c.LoyaltyTimezone)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETRY_MAX_ATTEMPTS", "6")
	t.Setenv("RETRY_BASE_DELAY", "2s")
	t.Setenv("RETRY_BACKOFF_MULTIPLIER", "1.5")
	t.Setenv("RETRY_MAX_ELAPSED", "120")
	t.Setenv("PURCHASE_FALLBACK", "true")
	t.Setenv("EMAIL_ASM_GROUPS_DISPLAY", "1, 2")
	t.Setenv("EMAIL_TEST_MODE", "1")
	t.Setenv("LOYALTY_SINCE", "2024-01-15")
	t.Setenv("LOG_LEVEL", "DEBUG")

	c := Load()

	assert.Equal(t, 6, c.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, c.Retry.BaseDelay)
	assert.Equal(t, 1.5, c.Retry.BackoffMultiplier)
	assert.Equal(t, 120*time.Second, c.Retry.MaxElapsed)
	assert.True(t, c.Retry.PurchaseFallback)
	assert.Equal(t, []int{1, 2}, c.Email.ASMGroupsDisplay)
	assert.True(t, c.Email.TestMode)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), c.LoyaltySince)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RETRY_MAX_ATTEMPTS", "many")
	t.Setenv("RETRY_BASE_DELAY", "soon")
	t.Setenv("LOYALTY_SINCE", "01/10/2023")
	t.Setenv("EMAIL_ASM_GROUPS_DISPLAY", "1,x")

	c := Load()

	assert.Equal(t, 4, c.Retry.MaxAttempts)
	assert.Equal(t, 30*time.Second, c.Retry.BaseDelay)
	assert.Equal(t, 2023, c.LoyaltySince.Year())
	assert.Equal(t, []int{23816, 23831, 23817}, c.Email.ASMGroupsDisplay)
}

func TestValidate(t *testing.T) {
	t.Run("defaults with credentials are valid", func(t *testing.T) {
		clearEnv(t)
		withCredentials(t)
		c := Load()
		require.NoError(t, c.Validate())
	})

	t.Run("missing credentials", func(t *testing.T) {
		clearEnv(t)
		c := Load()
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TinyAPIToken")
		assert.Contains(t, err.Error(), "SendGridAPIKey")
	})

	t.Run("test mode requires a recipient", func(t *testing.T) {
		clearEnv(t)
		withCredentials(t)
		t.Setenv("EMAIL_TEST_MODE", "true")
		c := Load()
		require.Error(t, c.Validate())

		c.Email.TestRecipient = "qa@example.com"
		require.NoError(t, c.Validate())
	})

	t.Run("retry policy must fit the invocation budget", func(t *testing.T) {
		clearEnv(t)
		withCredentials(t)
		t.Setenv("INVOCATION_BUDGET", "60s")
		c := Load()
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invocation budget")

		c.Retry.MaxElapsed = 30 * time.Second
		require.NoError(t, c.Validate())
	})

	t.Run("invalid retry values", func(t *testing.T) {
		clearEnv(t)
		withCredentials(t)
		c := Load()
		c.Retry.MaxAttempts = 0
		require.Error(t, c.Validate())

		c = Load()
		c.Retry.BackoffMultiplier = 0.5
		require.Error(t, c.Validate())
	})

	t.Run("unknown time zone", func(t *testing.T) {
		clearEnv(t)
		withCredentials(t)
		t.Setenv("LOYALTY_TIMEZONE", "Mars/Olympus")
		c := Load()
		require.Error(t, c.Validate())
		assert.Equal(t, time.UTC, c.Location())
	})
}

func TestValidateAnalytical(t *testing.T) {
	clearEnv(t)
	c := Load()

	require.NoError(t, c.ValidateAnalytical())

	c.SpannerDatabase = ""
	require.Error(t, c.ValidateAnalytical())
}

func TestLoyaltySinceIn(t *testing.T) {
	clearEnv(t)
	c := Load()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	since := c.LoyaltySinceIn(loc)
	assert.Equal(t, time.Date(2023, 10, 1, 0, 0, 0, 0, loc), since)
}
