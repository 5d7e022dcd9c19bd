package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	SessionCookieName string

	DefaultCurrency string

	// Reputation (Karma) check
	KarmaBaseURL        string `mapstructure:"KARMA_BASE_URL"`
	KarmaAPIKey         string `mapstructure:"KARMA_API_KEY"`
	SkipReputationCheck bool   `mapstructure:"SKIP_REPUTATION_CHECK"`

	AMQPURL        string `mapstructure:"AMQP_URL"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	LoginRateLimit string `mapstructure:"LOGIN_RATE_LIMIT"`
	PosthogAPIKey  string `mapstructure:"POSTHOG_API_KEY"`

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "72h")
	viper.SetDefault("JWT_ISSUER", "wallet-app")
	viper.SetDefault("SESSION_COOKIE_NAME", "token")
	viper.SetDefault("DEFAULT_CURRENCY", "NGN")
	viper.SetDefault("KARMA_BASE_URL", "https://adjutor.lendsqr.com/v2")
	viper.SetDefault("KARMA_API_KEY", "")
	viper.SetDefault("SKIP_REPUTATION_CHECK", false)
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	if cfg.StorageDriver != StorageDriverPostgres && cfg.StorageDriver != StorageDriverMemory {
		log.Printf("Warning: unknown STORAGE_DRIVER '%s'. Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	// Load JWT Expiry Duration (e.g., "60m", "72h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 72 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.SessionCookieName = viper.GetString("SESSION_COOKIE_NAME")
	cfg.DefaultCurrency = strings.ToUpper(viper.GetString("DEFAULT_CURRENCY"))

	cfg.KarmaBaseURL = strings.TrimRight(viper.GetString("KARMA_BASE_URL"), "/")
	cfg.KarmaAPIKey = viper.GetString("KARMA_API_KEY")
	cfg.SkipReputationCheck = viper.GetBool("SKIP_REPUTATION_CHECK")
	if !cfg.SkipReputationCheck && cfg.KarmaAPIKey == "" {
		log.Println("Warning: KARMA_API_KEY not set. Reputation checks will be rejected by the provider.")
	}

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
