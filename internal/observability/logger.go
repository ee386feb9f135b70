package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel   = "GEMNAV_LOG_LEVEL"
	EnvLogNoColor = "GEMNAV_LOG_NOCOLOR"
)

// InitLogger builds the process logger and installs it as the global
// default. Output goes to stderr so page bodies written to stdout by
// the command-line tools stay clean. GEMNAV_LOG_LEVEL and
// GEMNAV_LOG_NOCOLOR override the defaults (info, colored).
func InitLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		output.NoColor = v
	}

	logger := zerolog.New(output).
		Level(envLevel()).
		With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}

func envLevel() zerolog.Level {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel)))
	switch raw {
	case "":
		return zerolog.InfoLevel
	case "off", "none", "disabled":
		return zerolog.Disabled
	}
	lvl, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
