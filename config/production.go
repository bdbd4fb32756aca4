// Package config provides configuration management and environment variable handling for the application
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"os"
)

// ProductionConfig holds all configuration for the CRM backend
type ProductionConfig struct {
	Database DatabaseConfig `json:"database"`
	Server   ServerConfig   `json:"server"`
	Security SecurityConfig `json:"security"`
	JWT      JWTConfig      `json:"jwt"`
	Vendor   VendorConfig   `json:"vendor"`
	TextGen  TextGenConfig  `json:"textgen"`
	Dispatch DispatchConfig `json:"dispatch"`
	Cache    CacheConfig    `json:"cache"`
	Metrics  MetricsConfig  `json:"metrics"`
}

type DatabaseConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Name            string        `json:"name"`
	User            string        `json:"user"`
	Password        string        `json:"password"`
	SSLMode         string        `json:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
}

type ServerConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	BodyLimit       int           `json:"body_limit"`
}

type SecurityConfig struct {
	AllowedOrigins  []string      `json:"allowed_origins"`
	AllowedMethods  []string      `json:"allowed_methods"`
	AllowedHeaders  []string      `json:"allowed_headers"`
	GlobalRateLimit int           `json:"global_rate_limit"`
	RateLimitWindow time.Duration `json:"rate_limit_window"`
}

type JWTConfig struct {
	SecretKey string        `json:"-"`
	TokenTTL  time.Duration `json:"token_ttl"`
	Issuer    string        `json:"issuer"`
}

// VendorConfig configures the simulated message gateway and the client that
// talks to it.
type VendorConfig struct {
	SendURL       string        `json:"send_url"`
	ReceiptURL    string        `json:"receipt_url"`
	SuccessRate   float64       `json:"success_rate"`
	CallbackDelay time.Duration `json:"callback_delay"`
	Timeout       time.Duration `json:"timeout"`
}

// TextGenConfig configures the text-generation collaborator.
type TextGenConfig struct {
	Enabled   bool          `json:"enabled"`
	APIURL    string        `json:"api_url"`
	APIKey    string        `json:"-"`
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Timeout   time.Duration `json:"timeout"`
}

// DispatchConfig configures campaign fan-out.
type DispatchConfig struct {
	PoolSize int `json:"pool_size"`
}

type CacheConfig struct {
	Enabled  bool          `json:"enabled"`
	RedisURL string        `json:"redis_url"`
	RedisDB  int           `json:"redis_db"`
	TTL      time.Duration `json:"ttl"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// LoadProductionConfig loads configuration from environment variables
func LoadProductionConfig() (*ProductionConfig, error) {
	cfg := &ProductionConfig{
		Database: DatabaseConfig{
			Host:            getEnvString("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnvString("DB_NAME", "pulsecrm"),
			User:            getEnvString("DB_USER", "postgres"),
			Password:        getEnvString("DB_PASSWORD", ""),
			SSLMode:         getEnvString("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvDuration("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		},
		Server: ServerConfig{
			Host:            getEnvString("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			BodyLimit:       getEnvInt("SERVER_BODY_LIMIT", 4*1024*1024),
		},
		Security: SecurityConfig{
			AllowedOrigins:  getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:  getEnvStringSlice("ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:  getEnvStringSlice("ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"}),
			GlobalRateLimit: getEnvInt("GLOBAL_RATE_LIMIT", 300),
			RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		JWT: JWTConfig{
			SecretKey: getEnvString("JWT_SECRET_KEY", ""),
			TokenTTL:  getEnvDuration("JWT_TOKEN_TTL", time.Hour),
			Issuer:    getEnvString("JWT_ISSUER", "pulse-crm"),
		},
		Vendor: VendorConfig{
			SendURL:       getEnvString("VENDOR_SEND_URL", "http://localhost:8080/api/v1/vendor/send"),
			ReceiptURL:    getEnvString("VENDOR_RECEIPT_URL", "http://localhost:8080/api/v1/vendor/receipt"),
			SuccessRate:   getEnvFloat("VENDOR_SUCCESS_RATE", 0.9),
			CallbackDelay: getEnvDuration("VENDOR_CALLBACK_DELAY", time.Second),
			Timeout:       getEnvDuration("VENDOR_TIMEOUT", 10*time.Second),
		},
		TextGen: TextGenConfig{
			Enabled:   getEnvBool("TEXTGEN_ENABLED", false),
			APIURL:    getEnvString("TEXTGEN_API_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:    getEnvString("TEXTGEN_API_KEY", ""),
			Model:     getEnvString("TEXTGEN_MODEL", "gpt-3.5-turbo"),
			MaxTokens: getEnvInt("TEXTGEN_MAX_TOKENS", 100),
			Timeout:   getEnvDuration("TEXTGEN_TIMEOUT", 15*time.Second),
		},
		Dispatch: DispatchConfig{
			PoolSize: getEnvInt("DISPATCH_POOL_SIZE", 8),
		},
		Cache: CacheConfig{
			Enabled:  getEnvBool("CACHE_ENABLED", false),
			RedisURL: getEnvString("CACHE_REDIS_URL", ""),
			RedisDB:  getEnvInt("CACHE_REDIS_DB", 0),
			TTL:      getEnvDuration("CACHE_TTL", time.Hour),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnvString("METRICS_PATH", "/metrics"),
		},
	}

	if err := ValidateProductionConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ValidateProductionConfig validates the loaded configuration
func ValidateProductionConfig(cfg *ProductionConfig) error {
	var errors []string

	if cfg.Database.Host == "" {
		errors = append(errors, "DB_HOST is required")
	}
	if cfg.Database.Port <= 0 || cfg.Database.Port > 65535 {
		errors = append(errors, "DB_PORT must be between 1 and 65535")
	}
	if cfg.Database.Name == "" {
		errors = append(errors, "DB_NAME is required")
	}
	if cfg.Database.User == "" {
		errors = append(errors, "DB_USER is required")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if cfg.JWT.SecretKey == "" {
		errors = append(errors, "JWT_SECRET_KEY is required")
	} else if len(cfg.JWT.SecretKey) < 32 {
		errors = append(errors, "JWT_SECRET_KEY must be at least 32 characters long")
	}

	if cfg.Vendor.SendURL == "" {
		errors = append(errors, "VENDOR_SEND_URL is required")
	}
	if cfg.Vendor.ReceiptURL == "" {
		errors = append(errors, "VENDOR_RECEIPT_URL is required")
	}
	if cfg.Vendor.SuccessRate < 0 || cfg.Vendor.SuccessRate > 1 {
		errors = append(errors, "VENDOR_SUCCESS_RATE must be between 0 and 1")
	}

	if cfg.TextGen.Enabled && cfg.TextGen.APIKey == "" {
		errors = append(errors, "TEXTGEN_API_KEY is required when text generation is enabled")
	}

	if cfg.Dispatch.PoolSize <= 0 {
		errors = append(errors, "DISPATCH_POOL_SIZE must be positive")
	}

	if cfg.Cache.Enabled && cfg.Cache.RedisURL == "" {
		errors = append(errors, "CACHE_REDIS_URL is required when cache is enabled")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
