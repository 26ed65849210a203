package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultEndpoint      = "http://127.0.0.1:5000/query"
	DefaultListenAddress = "127.0.0.1:8080"
)

// The global, read-only config variable.
var (
	cfg  *Config
	once sync.Once
)

// LoadConfig reads .env, the optional config file, PROMPTUI_* environment
// variables and the command line flags, then initializes the global cfg.
// It ensures that the configuration is set only once.
func LoadConfig(cli *CliConfig) (*Config, error) {
	var err error
	once.Do(func() {
		var configuration *Config
		configuration, err = load(viper.New(), cli)
		if err != nil {
			return
		}
		cfg = configuration
	})

	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, errors.New("configuration was not set")
	}

	return cfg, nil
}

func load(v *viper.Viper, cli *CliConfig) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("policy", PolicyLastResolved)
	v.SetDefault("listen_address", DefaultListenAddress)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("promptui")
	v.AutomaticEnv()

	if cli != nil && cli.ConfigFile != "" {
		v.SetConfigFile(cli.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if cli != nil && cli.flags != nil {
		for key, name := range map[string]string{
			"endpoint":       "endpoint",
			"timeout":        "timeout",
			"policy":         "policy",
			"listen_address": "listen",
		} {
			if f := cli.flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cli != nil && cli.Debug {
		configuration.Debug = true
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute http(s) URL, got %q", c.Endpoint)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	switch c.Policy {
	case PolicyLastResolved, PolicySupersede:
	default:
		return fmt.Errorf("unknown policy %q", c.Policy)
	}
	return nil
}

// GetConfig returns the loaded configuration.
// It panics if the configuration has not been set.
func GetConfig() *Config {
	if cfg == nil {
		panic("Config has not been set! Call LoadConfig first.")
	}
	return cfg
}
