package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type PortalConfig struct {
	Name        string       `toml:"name"`
	Addr        string       `toml:"addr"`
	CorsOrigins []string     `toml:"cors_origins"`
	HistoryDB   string       `toml:"history_db"`
	AllowPurge  bool         `toml:"allow_purge"`
	PurgeToken  string       `toml:"purge_token"`
	Client      ClientConfig `toml:"client"`
}

// ClientConfig carries the tunable knobs of the Gemini client.
// Zero values fall back to the client defaults.
type ClientConfig struct {
	ConnectTimeoutMS int   `toml:"connect_timeout_ms"`
	ReadTimeoutMS    int   `toml:"read_timeout_ms"`
	WriteTimeoutMS   int   `toml:"write_timeout_ms"`
	MaxBodyBytes     int64 `toml:"max_body_bytes"`
	MaxRedirects     int   `toml:"max_redirects"`
}

func LoadPortalConfig(path string) (PortalConfig, error) {
	var cfg PortalConfig
	if err := loadToml(path, &cfg); err != nil {
		return PortalConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "gemnav-portal"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8965"
	}
	if err := ValidatePortalConfig(cfg); err != nil {
		return PortalConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidatePortalConfig(cfg PortalConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("portal config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("portal config missing addr")
	}
	if err := ValidateClientConfig(cfg.Client); err != nil {
		return fmt.Errorf("client config invalid: %w", err)
	}
	return nil
}

func ValidateClientConfig(cfg ClientConfig) error {
	if cfg.ConnectTimeoutMS < 0 || cfg.ReadTimeoutMS < 0 || cfg.WriteTimeoutMS < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if cfg.MaxBodyBytes < 0 {
		return fmt.Errorf("max_body_bytes must not be negative")
	}
	if cfg.MaxRedirects < 0 {
		return fmt.Errorf("max_redirects must not be negative")
	}
	return nil
}
