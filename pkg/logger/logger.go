// Package logger builds the process-wide zerolog logger from configuration.
//
// Services receive a child logger through their constructors; Component tags
// the child with the subsystem it belongs to.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where entries go and how they look.
type Options struct {
	// Level is a zerolog level name such as "debug" or "warn". Empty or
	// unknown names fall back to info.
	Level string
	// Pretty switches to the colored console writer for local runs.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service, when set, is stamped on every entry.
	Service string
}

// New returns a JSON (or console) logger filtered at the configured level.
func New(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(Level(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
}

// Component derives a logger whose entries carry component=name.
func Component(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("component", name).Logger()
}

// Level resolves a configured level name, defaulting to info.
func Level(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.TrimSpace(name))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
