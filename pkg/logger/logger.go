// Package logger builds the service's structured logger on top of zerolog.
//
// The logger is created once in main and passed down explicitly. When an
// error log directory is configured, every event at ERROR or above is also
// written to a daily-rotated file so operators keep a short history of
// failures independent of stdout collection.
//
//	TRACE (-1) → DEBUG (0) → INFO (1) → WARN (2) → ERROR (3)
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
)

const (
	errorLogPattern  = "errors.%Y%m%d.log"
	errorLogLink     = "errors.log"
	defaultRetention = 30
	errorLogRotation = 24 * time.Hour
)

// Options controls logger behaviour at construction time.
type Options struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Defaults to "info" when empty or unrecognised.
	Level string
	// Pretty enables human-friendly console output. Use false in production
	// to emit pure JSON.
	Pretty bool
	// Output is the writer logs are sent to. Defaults to os.Stdout.
	Output io.Writer
	// ErrorLogDir enables the rotated error log when non-empty.
	ErrorLogDir string
	// ErrorLogRetention is how many daily files are kept. Defaults to 30.
	ErrorLogRetention uint
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the configured logger and a Closer for the error log file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if opts.ErrorLogDir != "" {
		rl, err := newErrorLog(opts.ErrorLogDir, opts.ErrorLogRetention)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		closer = rl
		out = zerolog.MultiLevelWriter(out, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: rl},
			Level:  zerolog.ErrorLevel,
		})
	}

	log := zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Caller().
		Logger()

	return log, closer, nil
}

func newErrorLog(dir string, retention uint) (*rotatelogs.RotateLogs, error) {
	if retention == 0 {
		retention = defaultRetention
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	rl, err := rotatelogs.New(
		filepath.Join(dir, errorLogPattern),
		rotatelogs.WithLinkName(filepath.Join(dir, errorLogLink)),
		rotatelogs.WithRotationTime(errorLogRotation),
		// MaxAge and RotationCount are mutually exclusive.
		rotatelogs.WithMaxAge(-1),
		rotatelogs.WithRotationCount(retention),
	)
	if err != nil {
		return nil, fmt.Errorf("open error log: %w", err)
	}
	return rl, nil
}

// parseLevel converts a string to a zerolog.Level.
//
//	"trace" → TraceLevel (-1)
//	"debug" → DebugLevel ( 0)
//	"info"  → InfoLevel  ( 1)  ← default
//	"warn"  → WarnLevel  ( 2)
//	"error" → ErrorLevel ( 3)
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
