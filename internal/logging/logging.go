package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Verbosity levels for the CLI.
const (
	Quiet   = -1
	Normal  = 0
	Verbose = 1
)

// New returns a console logger writing to w at the given verbosity.
func New(w io.Writer, verbosity int) zerolog.Logger {
	if w == nil {
		return zerolog.Nop()
	}

	var lvl zerolog.Level
	switch {
	case verbosity <= Quiet:
		lvl = zerolog.WarnLevel
	case verbosity >= Verbose:
		lvl = zerolog.DebugLevel
	default:
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
