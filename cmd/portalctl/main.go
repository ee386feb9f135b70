package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/gemnav/gemnav/internal/config"
	"github.com/gemnav/gemnav/internal/gemini"
	"github.com/gemnav/gemnav/internal/history"
	"github.com/gemnav/gemnav/internal/observability"
	"github.com/gemnav/gemnav/internal/portal"
)

func main() {
	var (
		configPath string
		initConfig bool
	)
	flag.StringVar(&configPath, "config", "cmd/portalctl/config.toml", "path to the portal config")
	flag.BoolVar(&initConfig, "init-config", false, "write a starter config file and exit")
	flag.Parse()

	observability.InitLogger("portal")

	if initConfig {
		if err := config.WriteTemplate(configPath, "portal", false); err != nil {
			log.Fatal().Err(err).Msg("failed to write portal config template")
		}
		log.Info().Str("path", configPath).Msg("wrote portal config template")
		return
	}

	cfg, err := config.LoadPortalConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load portal config")
	}
	log.Info().Str("path", configPath).Msg("loaded portal config")

	client := gemini.NewClient(config.GeminiConfig(cfg.Client))

	var visits *history.Store
	if cfg.HistoryDB != "" {
		visits, err = history.Open(cfg.HistoryDB)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open visit log")
		}
		log.Info().Str("path", cfg.HistoryDB).Msg("visit log open")
	}

	srv := portal.New(cfg, client, visits)
	log.Info().Str("name", srv.Name).Str("addr", srv.Addr).Msg("portal started")
	if err := srv.Serve(); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}
