package config

import (
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// MinKeyBits is the smallest RSA modulus accepted for generated keys
const MinKeyBits = 1024

// Config represents the application configuration
type Config struct {
	Log  LogConfig  `yaml:"log"`
	Keys KeyConfig  `yaml:"keys"`
	Demo DemoConfig `yaml:"demo"`
}

// LogConfig represents the logger configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"` // Console output instead of JSON lines
}

// KeyConfig represents RSA key generation and storage settings
type KeyConfig struct {
	Bits int    `yaml:"bits"`
	Dir  string `yaml:"dir"`
}

// DemoConfig represents the amounts used by the demo command
type DemoConfig struct {
	CoinbaseAmount float64 `yaml:"coinbase_amount"`
	TransferAmount float64 `yaml:"transfer_amount"` // Must stay below coinbase_amount so there is change
}

// Default returns the configuration used when no file or environment overrides exist
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
		Keys: KeyConfig{
			Bits: 2048,
			Dir:  "./keys",
		},
		Demo: DemoConfig{
			CoinbaseAmount: 100,
			TransferAmount: 25,
		},
	}
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrap(err, "failed to read config file")
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "failed to parse config file")
			}
		}
	}

	// Override with environment variables
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the demo cannot work with
func (c *Config) Validate() error {
	if c.Keys.Bits < MinKeyBits {
		return errors.Newf("keys.bits must be at least %d, got %d", MinKeyBits, c.Keys.Bits)
	}
	if c.Keys.Dir == "" {
		return errors.New("keys.dir must not be empty")
	}
	if !(c.Demo.CoinbaseAmount > 0) {
		return errors.Newf("demo.coinbase_amount must be positive, got %v", c.Demo.CoinbaseAmount)
	}
	if !(c.Demo.TransferAmount > 0) {
		return errors.Newf("demo.transfer_amount must be positive, got %v", c.Demo.TransferAmount)
	}
	if c.Demo.TransferAmount >= c.Demo.CoinbaseAmount {
		return errors.Newf("demo.transfer_amount (%v) must be less than demo.coinbase_amount (%v)",
			c.Demo.TransferAmount, c.Demo.CoinbaseAmount)
	}
	return nil
}

func (c *Config) loadEnv() error {
	// Log config
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if pretty := os.Getenv("LOG_PRETTY"); pretty != "" {
		c.Log.Pretty = pretty == "true" || pretty == "1"
	}

	// Key config
	if bits := os.Getenv("KEY_BITS"); bits != "" {
		b, err := strconv.Atoi(bits)
		if err != nil {
			return errors.Wrapf(err, "invalid KEY_BITS %q", bits)
		}
		c.Keys.Bits = b
	}
	if dir := os.Getenv("KEY_DIR"); dir != "" {
		c.Keys.Dir = dir
	}

	// Demo config
	if err := loadFloatEnv("DEMO_COINBASE_AMOUNT", &c.Demo.CoinbaseAmount); err != nil {
		return err
	}
	return loadFloatEnv("DEMO_TRANSFER_AMOUNT", &c.Demo.TransferAmount)
}

func loadFloatEnv(name string, dst *float64) error {
	value := os.Getenv(name)
	if value == "" {
		return nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid %s %q", name, value)
	}
	*dst = f
	return nil
}
