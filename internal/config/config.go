package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
		CorsMaxAgeSeconds  int      `mapstructure:"cors_max_age_seconds"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		MaxConns int    `mapstructure:"max_conns"`
	} `mapstructure:"database"`

	Redis struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Session struct {
		CookieName string `mapstructure:"cookie_name"`
		TTLHours   int    `mapstructure:"ttl_hours"`
		Secure     bool   `mapstructure:"secure"`
	} `mapstructure:"session"`

	// TimeBook business-rule policy knobs.
	TimeBook struct {
		MaxDurationHours       int     `mapstructure:"max_duration_hours"`
		AllowFutureDates       bool    `mapstructure:"allow_future_dates"`
		LockInvoicedEntries    bool    `mapstructure:"lock_invoiced_entries"`
		DefaultTaxRate         float64 `mapstructure:"default_tax_rate"`
		DefaultPaymentTermDays int     `mapstructure:"default_payment_term_days"`
	} `mapstructure:"timebook"`

	// Optional S3-compatible archive for generated invoice PDFs.
	Storage struct {
		Enabled   bool   `mapstructure:"enabled"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"storage"`
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	v.AutomaticEnv()

	// Sensible defaults so the binary runs without a config file
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_max_age_seconds", 300)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "timebook_db")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "timebook-backend")
	v.SetDefault("session.cookie_name", "timebook_session")
	v.SetDefault("session.ttl_hours", 12)
	v.SetDefault("session.secure", true)
	v.SetDefault("timebook.max_duration_hours", 16)
	v.SetDefault("timebook.allow_future_dates", false)
	v.SetDefault("timebook.lock_invoiced_entries", false)
	v.SetDefault("timebook.default_tax_rate", 20.0)
	v.SetDefault("timebook.default_payment_term_days", 30)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Info().Msg("no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatal().Err(err).Msg("config unmarshal failed")
	}

	// Override database settings from DB_* environment variables
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		if cfg.JWT.Secret == "" {
			log.Fatal().Msg("JWT_SECRET not set in config or environment")
		}
	}

	if key := os.Getenv("STORAGE_ACCESS_KEY"); key != "" {
		cfg.Storage.AccessKey = key
	}
	if key := os.Getenv("STORAGE_SECRET_KEY"); key != "" {
		cfg.Storage.SecretKey = key
	}

	return &cfg
}
