package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderRazorpay = "razorpay"
	ProviderStripe   = "stripe"
)

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

type JWTConfig struct {
	Secret string
	Issuer string
	Expiry time.Duration
}

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	BaseURL       string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type PaymentConfig struct {
	Provider string
	Currency string
}

// R2 ve S3 uyumlu depolama
type StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PresignTTL      time.Duration
}

type EmailConfig struct {
	ResendAPIKey string
	FromAddress  string
	FromName     string
	FrontendURL  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type HTTPConfig struct {
	CORSOrigins     string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

type Config struct {
	App             AppConfig
	Database        DatabaseConfig
	JWT             JWTConfig
	Payment         PaymentConfig
	Razorpay        RazorpayConfig
	Stripe          StripeConfig
	Storage         StorageConfig
	Email           EmailConfig
	Redis           RedisConfig
	Log             LogConfig
	HTTP            HTTPConfig
	TurnstileSecret string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  normalizeEnv(v.GetString("APP_ENV")),
			Port: v.GetString("PORT"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			LogLevel:        v.GetString("DB_LOG_LEVEL"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
			Expiry: v.GetDuration("JWT_EXPIRY"),
		},
		Payment: PaymentConfig{
			Provider: strings.ToLower(strings.TrimSpace(v.GetString("PAYMENT_PROVIDER"))),
			Currency: strings.ToUpper(v.GetString("PAYMENT_CURRENCY")),
		},
		Razorpay: RazorpayConfig{
			KeyID:         v.GetString("RAZORPAY_KEY_ID"),
			KeySecret:     v.GetString("RAZORPAY_KEY_SECRET"),
			WebhookSecret: v.GetString("RAZORPAY_WEBHOOK_SECRET"),
			BaseURL:       v.GetString("RAZORPAY_BASE_URL"),
		},
		Stripe: StripeConfig{
			SecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		Storage: StorageConfig{
			Endpoint:        v.GetString("STORAGE_ENDPOINT"),
			Region:          v.GetString("STORAGE_REGION"),
			AccessKeyID:     v.GetString("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("STORAGE_SECRET_ACCESS_KEY"),
			Bucket:          v.GetString("STORAGE_BUCKET"),
			PresignTTL:      v.GetDuration("STORAGE_PRESIGN_TTL"),
		},
		Email: EmailConfig{
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
			FromAddress:  v.GetString("EMAIL_FROM_ADDRESS"),
			FromName:     v.GetString("EMAIL_FROM_NAME"),
			FrontendURL:  v.GetString("FRONTEND_URL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		HTTP: HTTPConfig{
			CORSOrigins:     v.GetString("CORS_ALLOW_ORIGINS"),
			RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
			RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		TurnstileSecret: v.GetString("CF_TURNSTILE_SECRET_KEY"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "meritrix")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_ISSUER", "meritrix")
	v.SetDefault("JWT_EXPIRY", "720h")
	v.SetDefault("PAYMENT_PROVIDER", ProviderRazorpay)
	v.SetDefault("PAYMENT_CURRENCY", "INR")
	v.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1")
	v.SetDefault("STORAGE_REGION", "auto")
	v.SetDefault("STORAGE_PRESIGN_TTL", "15m")
	v.SetDefault("EMAIL_FROM_NAME", "Meritrix")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_MAX", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")
}

// ActiveProvider tanınmayan değerler razorpay sayılır
func (c *Config) ActiveProvider() string {
	if c.Payment.Provider == ProviderStripe {
		return ProviderStripe
	}
	return ProviderRazorpay
}

// PaymentsConfigured seçili sağlayıcının anahtarları tam mı, eksik olanları döner
func (c *Config) PaymentsConfigured() (bool, []string) {
	var missing []string
	switch c.Payment.Provider {
	case ProviderStripe:
		if c.Stripe.SecretKey == "" {
			missing = append(missing, "STRIPE_SECRET_KEY")
		}
		if c.Stripe.WebhookSecret == "" {
			missing = append(missing, "STRIPE_WEBHOOK_SECRET")
		}
	default:
		if c.Razorpay.KeyID == "" {
			missing = append(missing, "RAZORPAY_KEY_ID")
		}
		if c.Razorpay.KeySecret == "" {
			missing = append(missing, "RAZORPAY_KEY_SECRET")
		}
		if c.Razorpay.WebhookSecret == "" {
			missing = append(missing, "RAZORPAY_WEBHOOK_SECRET")
		}
	}
	return len(missing) == 0, missing
}

func (c *Config) StorageConfigured() bool {
	return c.Storage.Bucket != "" && c.Storage.AccessKeyID != "" && c.Storage.SecretAccessKey != ""
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
