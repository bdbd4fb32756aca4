package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func validTestConfig() *ProductionConfig {
	return &ProductionConfig{
		Database: DatabaseConfig{
			Host: "localhost",
			Port: 5432,
			Name: "pulsecrm",
			User: "postgres",
		},
		Server: ServerConfig{Port: 8080},
		JWT:    JWTConfig{SecretKey: testJWTSecret},
		Vendor: VendorConfig{
			SendURL:     "http://localhost:8080/api/v1/vendor/send",
			ReceiptURL:  "http://localhost:8080/api/v1/vendor/receipt",
			SuccessRate: 0.9,
		},
		Dispatch: DispatchConfig{PoolSize: 8},
	}
}

func TestLoadProductionConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testJWTSecret)

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, "pulse-crm", cfg.JWT.Issuer)
	assert.Equal(t, 0.9, cfg.Vendor.SuccessRate)
	assert.Equal(t, time.Second, cfg.Vendor.CallbackDelay)
	assert.Equal(t, 8, cfg.Dispatch.PoolSize)
	assert.False(t, cfg.TextGen.Enabled)
	assert.False(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadProductionConfigReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testJWTSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("VENDOR_SUCCESS_RATE", "0.5")
	t.Setenv("VENDOR_CALLBACK_DELAY", "250ms")
	t.Setenv("DISPATCH_POOL_SIZE", "16")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Vendor.SuccessRate)
	assert.Equal(t, 250*time.Millisecond, cfg.Vendor.CallbackDelay)
	assert.Equal(t, 16, cfg.Dispatch.PoolSize)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Security.AllowedOrigins)
}

func TestLoadProductionConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	cfg, err := LoadProductionConfig()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestValidateProductionConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ProductionConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *ProductionConfig) {},
		},
		{
			name:    "short jwt secret",
			mutate:  func(cfg *ProductionConfig) { cfg.JWT.SecretKey = "too-short" },
			wantErr: "JWT_SECRET_KEY must be at least 32 characters",
		},
		{
			name:    "bad database port",
			mutate:  func(cfg *ProductionConfig) { cfg.Database.Port = 0 },
			wantErr: "DB_PORT",
		},
		{
			name:    "success rate above one",
			mutate:  func(cfg *ProductionConfig) { cfg.Vendor.SuccessRate = 1.5 },
			wantErr: "VENDOR_SUCCESS_RATE",
		},
		{
			name:    "missing receipt url",
			mutate:  func(cfg *ProductionConfig) { cfg.Vendor.ReceiptURL = "" },
			wantErr: "VENDOR_RECEIPT_URL",
		},
		{
			name:    "non-positive pool size",
			mutate:  func(cfg *ProductionConfig) { cfg.Dispatch.PoolSize = 0 },
			wantErr: "DISPATCH_POOL_SIZE",
		},
		{
			name:    "textgen enabled without key",
			mutate:  func(cfg *ProductionConfig) { cfg.TextGen.Enabled = true },
			wantErr: "TEXTGEN_API_KEY",
		},
		{
			name:    "cache enabled without redis url",
			mutate:  func(cfg *ProductionConfig) { cfg.Cache.Enabled = true },
			wantErr: "CACHE_REDIS_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := ValidateProductionConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
