package main

import (
	"io"
	"time"

	"github.com/9seconds/geolocator/geolib"
	"github.com/rs/zerolog"
)

type logger struct {
	lookupLog zerolog.Logger
}

func (l *logger) LookupError(ip, provider string, err error) {
	l.lookupLog.Error().Str("provider", provider).Str("ip", ip).Err(err).Msg("")
}

func (l *logger) LookupDone(ip, provider string, elapsed time.Duration) {
	l.lookupLog.Debug().
		Str("provider", provider).
		Str("ip", ip).
		Dur("elapsed", elapsed).
		Msg("Lookup is done")
}

func newLogger(w io.Writer, debug bool) geolib.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return &logger{
		lookupLog: zerolog.New(w).
			Level(level).
			With().
			Timestamp().
			Str("event_name", "lookup").
			Logger(),
	}
}
