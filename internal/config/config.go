package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

type PricingConfig struct {
	CatalogURL string `yaml:"catalog_url"`
	TTLHours   int    `yaml:"ttl_hours"`
	CacheDir   string `yaml:"cache_dir"`
}

type UIConfig struct {
	SessionLimit int `yaml:"session_limit"`
	TableHeight  int `yaml:"table_height"`
}

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Pricing PricingConfig `yaml:"pricing"`
	UI      UIConfig      `yaml:"ui"`
}

func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Storage: StorageConfig{
			DBPath: filepath.Join(homeDir, ".local", "share", "opencode", "opencode.db"),
		},
		Pricing: PricingConfig{
			TTLHours: 24,
		},
		UI: UIConfig{
			SessionLimit: 50,
			TableHeight:  8,
		},
	}
}

func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "ocmetrics", "config.yaml")
}

func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) CatalogTTL() time.Duration {
	return time.Duration(c.Pricing.TTLHours) * time.Hour
}
