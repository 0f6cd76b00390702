package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("LATE_FEE_PER_DAY", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("TIMEZONE", "")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(5000), cfg.LateFeePerDay)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "Asia/Jakarta", cfg.Timezone)
	assert.Equal(t, ":8080", cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("LATE_FEE_PER_DAY", "7500")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg := Load()

	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(7500), cfg.LateFeePerDay)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadInvalidNumberFallsBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "ten")

	cfg := Load()

	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppEnv:          "prod",
			JWTSecret:       "s3cret",
			TokenTTL:        time.Hour,
			LateFeePerDay:   5000,
			BcryptCost:      10,
			Timezone:        "Asia/Jakarta",
			LoginRatePerMin: 10,
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.JWTSecret = defaultJWTSecret
	assert.Error(t, cfg.Validate())

	cfg.AppEnv = "dev"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.TokenTTL = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.BcryptCost = 2
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}
