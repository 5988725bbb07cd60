package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/AntonStoeckl/university-library-go/library"
	"github.com/AntonStoeckl/university-library-go/library/oteladapters"
)

const (
	FormatJSON    = "json"
	FormatText    = "text"
	FormatConsole = "console"
	FormatOTel    = "otel"

	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"

	defaultLoggerName = "university-library"
)

var (
	// ErrUnknownFormat is returned for a format other than the Format constants.
	ErrUnknownFormat = errors.New("unknown log format")

	// ErrUnknownLevel is returned for a level other than the Level constants.
	ErrUnknownLevel = errors.New("unknown log level")
)

// Logger is what the services and the SQL engine log to.
type Logger interface {
	library.Logger
	library.ContextualLogger
}

// Options selects the logger New builds.
type Options struct {
	Format string
	Level  string

	// Output defaults to os.Stderr. The otel format ignores it.
	Output io.Writer

	// Name is the instrumentation scope of the otel format.
	Name string
}

// New builds the logger selected by opts.
func New(opts Options) (Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(opts.Format) {
	case FormatJSON, "":
		return slog.New(slog.NewJSONHandler(output, handlerOptions)), nil
	case FormatText:
		return slog.New(slog.NewTextHandler(output, handlerOptions)), nil
	case FormatConsole:
		return NewZerologAdapter(output, level), nil
	case FormatOTel:
		name := opts.Name
		if name == "" {
			name = defaultLoggerName
		}

		return oteladapters.NewSlogBridgeLogger(name).Slog(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// ParseLevel maps a level name to its slog.Level. The empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo, "":
		return slog.LevelInfo, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
}
