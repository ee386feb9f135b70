// Package testlog routes global log output through the test runner so
// log lines interleave with test output and fail nothing on their own.
package testlog

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Start points the global logger at t for the duration of the test.
func Start(t *testing.T) {
	t.Helper()
	prev := log.Logger
	log.Logger = zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	t.Cleanup(func() { log.Logger = prev })
}
