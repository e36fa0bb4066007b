package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger writes human readable logs to w. Warnings only by default.
func newLogger(w io.Writer, verbose, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case debug:
		level = zerolog.DebugLevel
	case verbose:
		level = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	logger.Debug().Str("level", level.String()).Msg("logger initialized")
	return logger
}
