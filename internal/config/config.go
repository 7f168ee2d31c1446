package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	AppURL  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret   string
	JWTExpiry   time.Duration
	AllowSignup bool

	// Site owner: the identity whose profile the public page shows
	SiteOwnerEmail    string
	SiteOwnerPassword string
	SiteOwnerID       string

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GitHubClientID     string
	GitHubClientSecret string

	// Email / contact relay
	EmailFrom         string
	ResendAPIKey      string
	ContactOwnerEmail string
	ContactOwnerName  string
	CORSAllowOrigin   string

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, Supabase Storage S3 gateway, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for S3-compatible services
	S3PublicURL string // Optional: CDN or public bucket URL used for asset links

	// Cache + realtime fan-out (optional, in-process when empty)
	RedisAddr     string
	RedisPassword string
	RedisChannel  string
	CacheTTL      time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Portfolio"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:  envRequired("APP_URL"), // Required: base URL for OAuth redirects
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/portfolio.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:   envRequired("JWT_SECRET"),
		JWTExpiry:   envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days
		AllowSignup: envBool("ALLOW_SIGNUP", false),

		// Site owner
		SiteOwnerEmail:    strings.ToLower(envRequired("SITE_OWNER_EMAIL")),
		SiteOwnerPassword: envString("SITE_OWNER_PASSWORD", ""),
		SiteOwnerID:       envString("SITE_OWNER_ID", ""),

		// OAuth
		GoogleClientID:     envString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: envString("GOOGLE_CLIENT_SECRET", ""),
		GitHubClientID:     envString("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: envString("GITHUB_CLIENT_SECRET", ""),

		// Email (RESEND_API_KEY optional in development, required in production)
		EmailFrom:         envString("EMAIL_FROM", "Portfolio Contact <onboarding@resend.dev>"),
		ResendAPIKey:      envString("RESEND_API_KEY", ""),
		ContactOwnerEmail: envString("CONTACT_OWNER_EMAIL", envString("SITE_OWNER_EMAIL", "")),
		ContactOwnerName:  envString("CONTACT_OWNER_NAME", "Portfolio Owner"),
		CORSAllowOrigin:   envString("CORS_ALLOW_ORIGIN", "*"),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage (S3-compatible - required for image uploads)
		S3Region:    envRequired("S3_REGION"),
		S3Bucket:    envRequired("S3_BUCKET"),
		S3AccessKey: envRequired("S3_ACCESS_KEY"),
		S3SecretKey: envRequired("S3_SECRET_KEY"),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),

		// Redis
		RedisAddr:     envString("REDIS_ADDR", ""),
		RedisPassword: envString("REDIS_PASSWORD", ""),
		RedisChannel:  envString("REDIS_CHANNEL", "portfolio:realtime"),
		CacheTTL:      envDuration("CACHE_TTL", 10*time.Minute),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development logs outgoing email instead of sending it.
func validateProduction(cfg *Config) {
	if cfg.ResendAPIKey == "" {
		slog.Error("production deployment requires RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
	if cfg.ContactOwnerEmail == "" {
		slog.Error("production deployment requires CONTACT_OWNER_EMAIL")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and client-facing contexts.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		AppURL:  c.AppURL,
		Port:    c.Port,

		SiteOwnerID: c.SiteOwnerID,

		GoogleClientID: c.GoogleClientID,
		GitHubClientID: c.GitHubClientID,

		CORSAllowOrigin: c.CORSAllowOrigin,
		S3Endpoint:      c.S3Endpoint,
		S3PublicURL:     c.S3PublicURL,
	}
}
