package logger

import (
	"io"
	"os"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

// Init configures the process logger. level is one of zerolog's level names;
// unknown values fall back to info. Debug level writes human-friendly console
// output, everything else writes JSON lines.
func Init(level string) {
	InitWithWriter(level, nil)
}

// InitWithWriter is Init with an explicit destination, used by tests.
func InitWithWriter(level string, w io.Writer) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	writer := w
	if writer == nil {
		if lvl == zerolog.DebugLevel {
			writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		} else {
			writer = os.Stdout
		}
	}

	log = zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func init() {
	Init("info")
}

func Debug() *zerolog.Event { return log.Debug() }
func Info() *zerolog.Event  { return log.Info() }
func Warn() *zerolog.Event  { return log.Warn() }
func Error() *zerolog.Event { return log.Error() }
func Fatal() *zerolog.Event { return log.Fatal() }

// Get returns the underlying logger.
func Get() zerolog.Logger {
	return log
}

// Requests logs every request handled by the drift app.
func Requests() drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Str("ip", c.Request.RemoteAddr).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
