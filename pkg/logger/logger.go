// Package logger configures the process-wide zerolog logger.
//
// Call Init once at startup; Component derives per-package child loggers
// from the root instance.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the root logger is built.
type Options struct {
	// Level is the minimum level emitted: trace, debug, info, warn, error.
	// Unknown or empty values fall back to info.
	Level string
	// Pretty switches to coloured console output for local development.
	// Production deployments leave this false and emit JSON lines.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	root zerolog.Logger
	once sync.Once
	done bool
)

// Init builds the root logger. Subsequent calls return the logger from the
// first call unchanged.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
		}

		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		root = zerolog.New(out).
			Level(lvl).
			With().
			Timestamp().
			Caller().
			Logger()

		done = true
	})
	return root
}

// Get returns the root logger. Panics when Init has not run yet, which
// surfaces wiring mistakes immediately instead of silently dropping logs.
func Get() zerolog.Logger {
	if !done {
		panic("logger: Get called before Init")
	}
	return root
}

// Component returns a child logger tagged with a component name, e.g.
// Component("notify") for the Slack dispatcher.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
