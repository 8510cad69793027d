package main

import (
	"context"

	"github.com/meritrix/meritrix-backend/internal/config"
	"github.com/meritrix/meritrix-backend/internal/handler"
	"github.com/meritrix/meritrix-backend/internal/middleware"
	"github.com/meritrix/meritrix-backend/internal/repository"
	"github.com/meritrix/meritrix-backend/internal/server"
	"github.com/meritrix/meritrix-backend/internal/service"
	"github.com/meritrix/meritrix-backend/pkg/captcha"
	"github.com/meritrix/meritrix-backend/pkg/email"
	"github.com/meritrix/meritrix-backend/pkg/idempotency"
	"github.com/meritrix/meritrix-backend/pkg/jwt"
	"github.com/meritrix/meritrix-backend/pkg/payment"
	"github.com/meritrix/meritrix-backend/pkg/qrcode"
	"github.com/meritrix/meritrix-backend/pkg/storage"
	"go.uber.org/zap"
)

const qrCodeSize = 256

// provideGateway anahtarlar eksikse nil döner; servisler 503 verir
func provideGateway(cfg *config.Config, log *zap.Logger) payment.Gateway {
	if ok, missing := cfg.PaymentsConfigured(); !ok {
		log.Warn("payments disabled", zap.String("provider", cfg.Payment.Provider), zap.Strings("missing", missing))
		return nil
	}
	switch cfg.ActiveProvider() {
	case config.ProviderStripe:
		return payment.NewStripeGateway(payment.StripeConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			WebhookSecret: cfg.Stripe.WebhookSecret,
		})
	default:
		return payment.NewRazorpayGateway(payment.RazorpayConfig{
			KeyID:         cfg.Razorpay.KeyID,
			KeySecret:     cfg.Razorpay.KeySecret,
			WebhookSecret: cfg.Razorpay.WebhookSecret,
			BaseURL:       cfg.Razorpay.BaseURL,
		})
	}
}

// provideIdempotencyStore Redis yoksa tek süreçlik bellek deposu
func provideIdempotencyStore(cfg *config.Config, log *zap.Logger) (idempotency.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set, using in-memory webhook dedupe")
		return idempotency.NewMemoryStore(), func() {}, nil
	}
	store, err := idempotency.NewRedisStore(idempotency.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close redis", zap.Error(err))
		}
	}, nil
}

func provideStorage(cfg *config.Config, log *zap.Logger) (storage.StorageService, error) {
	if !cfg.StorageConfigured() {
		log.Warn("object storage disabled: STORAGE_BUCKET or credentials missing")
		return storage.NoopStorage{}, nil
	}
	return storage.NewR2Storage(context.Background(), cfg)
}

func provideMailer(cfg *config.Config, log *zap.Logger) (email.Mailer, error) {
	return email.NewMailer(email.Config{
		APIKey:      cfg.Email.ResendAPIKey,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		FrontendURL: cfg.Email.FrontendURL,
	}, log)
}

func provideCaptcha(cfg *config.Config) captcha.Verifier {
	return captcha.NewVerifier(cfg.TurnstileSecret)
}

func provideTokens(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)
}

func provideQR() *qrcode.QRService {
	return qrcode.NewQRService(qrCodeSize)
}

func provideContentService(
	contentRepo *repository.ContentRepository,
	purchaseRepo *repository.PurchaseRepository,
	packageRepo *repository.PackageRepository,
	storageService storage.StorageService,
	cfg *config.Config,
	log *zap.Logger,
) *service.ContentService {
	return service.NewContentService(contentRepo, purchaseRepo, packageRepo, storageService, cfg.Storage.PresignTTL, log)
}

func provideAuthenticator(auth *service.AuthService) middleware.Authenticator {
	return auth
}

func provideHandlers(
	auth *handler.AuthHandler,
	content *handler.ContentHandler,
	pay *handler.PaymentHandler,
	pass *handler.PassHandler,
	booking *handler.BookingHandler,
	sessions *handler.LiveSessionHandler,
	users *handler.UserHandler,
	packages *handler.PackageHandler,
	admin *handler.AdminHandler,
) *server.Handlers {
	return &server.Handlers{
		Auth:        auth,
		Content:     content,
		Payment:     pay,
		Pass:        pass,
		Booking:     booking,
		LiveSession: sessions,
		User:        users,
		Package:     packages,
		Admin:       admin,
	}
}
