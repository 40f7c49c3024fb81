package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindspace/internal/config"
)

// New returns the process logger: JSON lines on stdout, or a console writer
// when cfg.Pretty is set. Unknown levels fall back to info.
func New(cfg config.LogConfig, service string) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
