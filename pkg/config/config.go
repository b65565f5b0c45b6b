package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds the runtime settings shared by the CLI and the dashboard
// server.
type Config struct {
	StorePath   string `mapstructure:"store_path"`
	DomainHint  string `mapstructure:"domain_hint"`
	ListenAddr  string `mapstructure:"listen_addr"`
	TopProducts int    `mapstructure:"top_products"`
	TopOrders   int    `mapstructure:"top_orders"`
}

// flagBindings maps config keys to the CLI flag that overrides them.
var flagBindings = map[string]string{
	"store_path":   "store",
	"domain_hint":  "domain",
	"listen_addr":  "listen",
	"top_products": "top-products",
	"top_orders":   "top-orders",
}

// Build loads configuration from, lowest to highest precedence: defaults,
// config.yaml, environment variables (ZEPLENS_*, with .env loaded when
// present), and command-line flags.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = gotenv.Load() // a missing .env is fine

	v := viper.New()
	v.SetDefault("store_path", defaultStorePath())
	v.SetDefault("domain_hint", "zepto")
	v.SetDefault("listen_addr", "0.0.0.0:3000")
	v.SetDefault("top_products", 5)
	v.SetDefault("top_orders", 3)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("ZEPLENS")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// The implicit config.yaml is optional; an explicit --config that
		// cannot be read is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "zeplens.db"
	}
	return filepath.Join(home, ".zeplens", "orders.db")
}
