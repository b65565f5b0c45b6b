package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.DomainHint != "zepto" {
		t.Errorf("domain hint = %q, want zepto", cfg.DomainHint)
	}
	if cfg.TopProducts != 5 || cfg.TopOrders != 3 {
		t.Errorf("top sizes = %d/%d, want 5/3", cfg.TopProducts, cfg.TopOrders)
	}
	if cfg.StorePath == "" {
		t.Error("expected a default store path")
	}
}

func TestBuildFromFile(t *testing.T) {
	content := `store_path: /tmp/test-orders.db
domain_hint: example
top_products: 10
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.StorePath != "/tmp/test-orders.db" {
		t.Errorf("store path = %q", cfg.StorePath)
	}
	if cfg.DomainHint != "example" {
		t.Errorf("domain hint = %q", cfg.DomainHint)
	}
	if cfg.TopProducts != 10 {
		t.Errorf("top products = %d, want 10", cfg.TopProducts)
	}
	if cfg.TopOrders != 3 {
		t.Errorf("top orders = %d, want default 3", cfg.TopOrders)
	}
}

func TestBuildFlagOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("domain", "", "")
	flags.String("store", "", "")
	if err := flags.Parse([]string{"--domain", "blinkit"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Build("", flags)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.DomainHint != "blinkit" {
		t.Errorf("domain hint = %q, want flag override", cfg.DomainHint)
	}
	if cfg.StorePath == "" {
		t.Error("unset flag must not blank the default store path")
	}
}

func TestBuildMissingExplicitConfig(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}
