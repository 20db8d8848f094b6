package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, 2048, cfg.Keys.Bits)
	assert.Equal(t, 100.0, cfg.Demo.CoinbaseAmount)
	assert.Equal(t, 25.0, cfg.Demo.TransferAmount)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  pretty: false
keys:
  bits: 3072
  dir: /tmp/ledger-keys
demo:
  coinbase_amount: 50
  transfer_amount: 12.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, LogConfig{Level: "debug", Pretty: false}, cfg.Log)
	assert.Equal(t, KeyConfig{Bits: 3072, Dir: "/tmp/ledger-keys"}, cfg.Keys)
	assert.Equal(t, DemoConfig{CoinbaseAmount: 50, TransferAmount: 12.5}, cfg.Demo)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, Default().Keys, cfg.Keys)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_PRETTY", "0")
	t.Setenv("KEY_BITS", "4096")
	t.Setenv("KEY_DIR", "/var/keys")
	t.Setenv("DEMO_COINBASE_AMOUNT", "10")
	t.Setenv("DEMO_TRANSFER_AMOUNT", "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, 4096, cfg.Keys.Bits)
	assert.Equal(t, "/var/keys", cfg.Keys.Dir)
	assert.Equal(t, 10.0, cfg.Demo.CoinbaseAmount)
	assert.Equal(t, 2.5, cfg.Demo.TransferAmount)
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Run("key bits", func(t *testing.T) {
		t.Setenv("KEY_BITS", "lots")
		_, err := Load("")
		assert.ErrorContains(t, err, "KEY_BITS")
	})

	t.Run("amount", func(t *testing.T) {
		t.Setenv("DEMO_TRANSFER_AMOUNT", "ten")
		_, err := Load("")
		assert.ErrorContains(t, err, "DEMO_TRANSFER_AMOUNT")
	})
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "log: [unterminated\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = Load(t.TempDir())
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"small key", func(c *Config) { c.Keys.Bits = 512 }, "keys.bits"},
		{"empty key dir", func(c *Config) { c.Keys.Dir = "" }, "keys.dir"},
		{"zero coinbase", func(c *Config) { c.Demo.CoinbaseAmount = 0 }, "demo.coinbase_amount"},
		{"negative transfer", func(c *Config) { c.Demo.TransferAmount = -1 }, "demo.transfer_amount"},
		{"transfer exceeds coinbase", func(c *Config) { c.Demo.TransferAmount = 100 }, "must be less than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
