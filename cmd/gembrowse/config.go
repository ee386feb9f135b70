package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gemnav/gemnav/internal/gemini"
)

type fileConfig struct {
	TimeoutMS    int    `toml:"timeout_ms"`
	MaxRedirects int    `toml:"max_redirects"`
	HistoryDB    string `toml:"history_db"`
	NoColor      bool   `toml:"no_color"`
}

// browserConfig is the resolved runtime configuration for one session.
type browserConfig struct {
	Client    gemini.Config
	HistoryDB string
	NoColor   bool
}

func defaultBrowserConfig() browserConfig {
	return browserConfig{Client: gemini.DefaultConfig()}
}

// loadBrowserConfig overlays file values onto the defaults. Only keys
// present in the file override; timeout_ms bounds the connect, read,
// and write phases of every fetch.
func loadBrowserConfig(path string) (browserConfig, error) {
	cfg := defaultBrowserConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return browserConfig{}, fmt.Errorf("load browser config: %w", err)
	}

	if meta.IsDefined("timeout_ms") {
		if raw.TimeoutMS <= 0 {
			return browserConfig{}, fmt.Errorf("timeout_ms must be positive, got %d", raw.TimeoutMS)
		}
		d := time.Duration(raw.TimeoutMS) * time.Millisecond
		cfg.Client.ConnectTimeout = d
		cfg.Client.ReadTimeout = d
		cfg.Client.WriteTimeout = d
	}

	if meta.IsDefined("max_redirects") {
		if raw.MaxRedirects <= 0 {
			return browserConfig{}, fmt.Errorf("max_redirects must be positive, got %d", raw.MaxRedirects)
		}
		cfg.Client.MaxRedirects = raw.MaxRedirects
	}

	if meta.IsDefined("history_db") {
		cfg.HistoryDB = strings.TrimSpace(raw.HistoryDB)
	}

	if meta.IsDefined("no_color") {
		cfg.NoColor = raw.NoColor
	}

	return cfg, nil
}
