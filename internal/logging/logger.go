package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	Service     string
	Level       string
	Development bool
	// Extra receives a copy of every JSON line, e.g. a LogstashWriter.
	Extra []io.Writer
}

// New builds the process logger. Development mode pretty-prints to stdout;
// otherwise lines are JSON. Extra writers always receive JSON.
func New(opts Options) zerolog.Logger {
	return NewWithOutput(os.Stdout, opts)
}

func NewWithOutput(out io.Writer, opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	primary := out
	if opts.Development {
		primary = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	writers := []io.Writer{primary}
	for _, w := range opts.Extra {
		if w != nil {
			writers = append(writers, w)
		}
	}

	var sink io.Writer = primary
	if len(writers) > 1 {
		sink = zerolog.MultiLevelWriter(writers...)
	}

	ctx := zerolog.New(sink).Level(ParseLevel(opts.Level)).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	return ctx.Logger()
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
