package server

import (
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func webhookRoutes(app *fiber.App) []string {
	var paths []string
	for _, route := range app.GetRoutes(true) {
		if route.Method == fiber.MethodPost && strings.HasPrefix(route.Path, "/api/webhooks/") {
			paths = append(paths, route.Path)
		}
	}
	return paths
}

func TestWebhookRouteFollowsProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{config.ProviderRazorpay, "/api/webhooks/razorpay"},
		{config.ProviderStripe, "/api/webhooks/stripe"},
		{"", "/api/webhooks/razorpay"},
	}
	for _, tt := range tests {
		cfg := &config.Config{
			Payment: config.PaymentConfig{Provider: tt.provider},
			HTTP:    config.HTTPConfig{CORSOrigins: "http://localhost:3000"},
		}
		app := New(cfg, zap.NewNop(), nil, &Handlers{})
		assert.Equal(t, []string{tt.want}, webhookRoutes(app), tt.provider)
	}
}
