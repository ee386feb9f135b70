package config

import (
	"time"

	"github.com/gemnav/gemnav/internal/gemini"
)

// GeminiConfig converts the TOML client section into a client config,
// filling unset knobs from the protocol defaults.
func GeminiConfig(cfg ClientConfig) gemini.Config {
	out := gemini.DefaultConfig()
	if cfg.ConnectTimeoutMS > 0 {
		out.ConnectTimeout = time.Duration(cfg.ConnectTimeoutMS) * time.Millisecond
	}
	if cfg.ReadTimeoutMS > 0 {
		out.ReadTimeout = time.Duration(cfg.ReadTimeoutMS) * time.Millisecond
	}
	if cfg.WriteTimeoutMS > 0 {
		out.WriteTimeout = time.Duration(cfg.WriteTimeoutMS) * time.Millisecond
	}
	if cfg.MaxBodyBytes > 0 {
		out.MaxBodyBytes = cfg.MaxBodyBytes
	}
	if cfg.MaxRedirects > 0 {
		out.MaxRedirects = cfg.MaxRedirects
	}
	return out
}
