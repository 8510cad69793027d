package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PAYMENT_PROVIDER", " Stripe ")
	t.Setenv("PAYMENT_CURRENCY", "inr")

	cfg := LoadConfig()
	assert.Equal(t, "production", cfg.App.Env)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ProviderStripe, cfg.Payment.Provider)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, 720*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 15*time.Minute, cfg.Storage.PresignTTL)
	assert.Equal(t, 60, cfg.HTTP.RateLimitMax)
}

func TestPaymentsConfigured(t *testing.T) {
	cfg := &Config{Payment: PaymentConfig{Provider: ProviderRazorpay}}
	ok, missing := cfg.PaymentsConfigured()
	assert.False(t, ok)
	assert.Equal(t, []string{"RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET", "RAZORPAY_WEBHOOK_SECRET"}, missing)

	cfg.Razorpay = RazorpayConfig{KeyID: "k", KeySecret: "s", WebhookSecret: "w"}
	ok, missing = cfg.PaymentsConfigured()
	assert.True(t, ok)
	assert.Empty(t, missing)

	cfg.Payment.Provider = ProviderStripe
	ok, missing = cfg.PaymentsConfigured()
	assert.False(t, ok)
	assert.Equal(t, []string{"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET"}, missing)
}

func TestActiveProvider(t *testing.T) {
	for provider, want := range map[string]string{
		ProviderRazorpay: ProviderRazorpay,
		ProviderStripe:   ProviderStripe,
		"":               ProviderRazorpay,
		"paypal":         ProviderRazorpay,
	} {
		cfg := &Config{Payment: PaymentConfig{Provider: provider}}
		assert.Equal(t, want, cfg.ActiveProvider(), provider)
	}
}

func TestNormalizeEnv(t *testing.T) {
	cases := map[string]string{
		"dev":     "development",
		" LOCAL ": "development",
		"stage":   "staging",
		"testing": "test",
		"Preview": "preview",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeEnv(in), in)
	}
}
