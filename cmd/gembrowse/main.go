package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gemnav/gemnav/internal/config"
	"github.com/gemnav/gemnav/internal/observability"
)

func main() {
	var (
		configPath string
		initConfig bool
		noColor    bool
	)
	flag.StringVar(&configPath, "config", "", "path to gembrowse.toml (default: user config dir)")
	flag.BoolVar(&initConfig, "init-config", false, "write a starter config file and exit")
	flag.BoolVar(&noColor, "no-color", false, "disable styled output")
	flag.Parse()

	observability.InitLogger("gembrowse")

	path := configPath
	if path == "" {
		path = defaultConfigPath()
	}

	if initConfig {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "gembrowse: %v\n", err)
			os.Exit(1)
		}
		if err := config.WriteTemplate(path, "browser", false); err != nil {
			fmt.Fprintf(os.Stderr, "gembrowse: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	// The default config file is optional; an explicitly named one is not.
	cfg := defaultBrowserConfig()
	if configPath != "" || fileExists(path) {
		loaded, err := loadBrowserConfig(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gembrowse: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if noColor {
		cfg.NoColor = true
	}

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gembrowse: %v\n", err)
		os.Exit(1)
	}

	err = app.Run(flag.Arg(0))
	app.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gembrowse: %v\n", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gembrowse.toml"
	}
	return filepath.Join(dir, "gemnav", "gembrowse.toml")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
