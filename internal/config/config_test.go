package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "0.0.0.0:8081", cfg.AdminServer.Addr())
	assert.Equal(t, int64(500), cfg.Pricing.TaxRateBP)
	assert.Equal(t, int64(5000), cfg.Pricing.ShippingFlat)
	assert.Equal(t, int64(99900), cfg.Pricing.FreeShippingMin)
	assert.NotEmpty(t, cfg.Razorpay.KeySecret)
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 9000
razorpay:
  key_id: rzp_live_abc
pricing:
  tax_rate_bp: 1200
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "rzp_live_abc", cfg.Razorpay.KeyID)
	assert.Equal(t, int64(1200), cfg.Pricing.TaxRateBP)
	// Untouched keys keep their defaults.
	assert.Equal(t, int64(5000), cfg.Pricing.ShippingFlat)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("VEDESSA_SERVER_PORT", "9100")
	t.Setenv("VEDESSA_JWT_SECRET", "from-env")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}
