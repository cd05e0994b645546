package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	AccessTokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL,     default=30m"`
	RefreshTokenTTL   time.Duration `env:"REFRESH_TOKEN_TTL,    default=168h"`
	SingleUseTokenTTL time.Duration `env:"SINGLE_USE_TOKEN_TTL, default=15m"`

	RateLimitAttempts int           `env:"RATE_LIMIT_ATTEMPTS, default=5"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW,   default=15m"`

	Mongo    MongoConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	OAuth    OAuthConfig
	Frontend FrontendConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=identity_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_SERVER"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

type OAuthConfig struct {
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	// CallbackBaseURL is this service's externally reachable callback
	// prefix; the provider name is appended as the final path segment.
	CallbackBaseURL string `env:"OAUTH_CALLBACK_BASE_URL, default=http://localhost:8080/auth/callback"`
}

type FrontendConfig struct {
	SuccessURL       string `env:"FRONTEND_SUCCESS_URL,        default=http://127.0.0.1:5500/frontend/dashboard.html"`
	ErrorURL         string `env:"FRONTEND_ERROR_URL,          default=http://127.0.0.1:5500/frontend/index.html"`
	VerifyEmailURL   string `env:"FRONTEND_VERIFY_EMAIL_URL,   default=http://127.0.0.1:5500/frontend/verify.html"`
	ResetPasswordURL string `env:"FRONTEND_RESET_PASSWORD_URL, default=http://127.0.0.1:5500/frontend/reset-password.html"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
