package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config carries the daemon's startup settings.
type Config struct {
	DataDir       string `toml:"DataDir"`
	PlatformName  string `toml:"PlatformName"`
	Authority     string `toml:"Authority"`
	RewardDealer  string `toml:"RewardDealer"`
	RewardSymbol  string `toml:"RewardSymbol"`
	Precision     uint8  `toml:"Precision"`
	AirdropAgent  string `toml:"AirdropAgent"`
	RoundEmission string `toml:"RoundEmission"`
}

// Load reads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./attn-data"
	}
	if strings.TrimSpace(c.PlatformName) == "" {
		c.PlatformName = "attn-local"
	}
	if strings.TrimSpace(c.Authority) == "" {
		c.Authority = "platform"
	}
	if strings.TrimSpace(c.RewardSymbol) == "" {
		c.RewardSymbol = "ATTN"
		c.Precision = 4
	}
	if c.Precision > 18 {
		return fmt.Errorf("config: precision %d out of range", c.Precision)
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
