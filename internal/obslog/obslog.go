// Package obslog wraps github.com/rs/zerolog with the structured event
// shape this module's store mutations, policy decisions, and planner
// failures all log through: a narrated message plus typed fields, since
// every downstream consumer here (the audit log, the index) is itself
// structured JSON.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide structured logger, initialized by Init (or
// lazily defaulted to stderr at info level if a caller logs before Init).
var Logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()

// Init configures the global Logger's output and minimum level. Called once
// from cmd/* entrypoints; tests construct their own zerolog.Logger directly
// against a buffer instead of touching this global.
func Init(w io.Writer, level zerolog.Level) {
	Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// RunEvent logs one structured event tied to a run_id — the shape every
// store mutation, policy decision, and planner failure in this module
// shares.
func RunEvent(runID, event string) *zerolog.Event {
	return Logger.Info().Str("run_id", runID).Str("event", event)
}

// RunError logs a failed run-scoped operation at error level.
func RunError(runID, event string, err error) {
	Logger.Error().Str("run_id", runID).Str("event", event).Err(err).Send()
}
