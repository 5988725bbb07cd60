package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// ZerologAdapter implements Logger with zerolog and slog-style key/value args.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter writes colored console output to out, dropping records below level.
func NewZerologAdapter(out io.Writer, level slog.Level) *ZerologAdapter {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}

	return NewZerologAdapterWithLogger(zerolog.New(output).Level(zerologLevel(level)).With().Timestamp().Logger())
}

// NewZerologAdapterWithLogger wraps an existing zerolog.Logger.
func NewZerologAdapterWithLogger(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

func (z *ZerologAdapter) Debug(msg string, args ...any) {
	write(z.logger.Debug(), msg, args)
}

func (z *ZerologAdapter) Info(msg string, args ...any) {
	write(z.logger.Info(), msg, args)
}

func (z *ZerologAdapter) Warn(msg string, args ...any) {
	write(z.logger.Warn(), msg, args)
}

func (z *ZerologAdapter) Error(msg string, args ...any) {
	write(z.logger.Error(), msg, args)
}

func (z *ZerologAdapter) DebugContext(ctx context.Context, msg string, args ...any) {
	write(z.logger.Debug().Ctx(ctx), msg, args)
}

func (z *ZerologAdapter) InfoContext(ctx context.Context, msg string, args ...any) {
	write(z.logger.Info().Ctx(ctx), msg, args)
}

func (z *ZerologAdapter) WarnContext(ctx context.Context, msg string, args ...any) {
	write(z.logger.Warn().Ctx(ctx), msg, args)
}

func (z *ZerologAdapter) ErrorContext(ctx context.Context, msg string, args ...any) {
	write(z.logger.Error().Ctx(ctx), msg, args)
}

// Logger returns the underlying zerolog.Logger.
func (z *ZerologAdapter) Logger() zerolog.Logger {
	return z.logger
}

// write adds the key/value pairs in args. A key that is not a string is printed with %v.
// A trailing key without a value is logged under "!BADKEY", as slog does.
func write(event *zerolog.Event, msg string, args []any) {
	if event == nil {
		return
	}

	for i := 0; i < len(args); i += 2 {
		if i+1 == len(args) {
			event = event.Interface("!BADKEY", args[i])
			break
		}

		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}

		event = addField(event, key, args[i+1])
	}

	event.Msg(msg)
}

func addField(event *zerolog.Event, key string, value any) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return event.Str(key, v)
	case int:
		return event.Int(key, v)
	case int64:
		return event.Int64(key, v)
	case float64:
		return event.Float64(key, v)
	case bool:
		return event.Bool(key, v)
	case time.Duration:
		return event.Dur(key, v)
	case time.Time:
		return event.Time(key, v)
	case error:
		return event.AnErr(key, v)
	case fmt.Stringer:
		return event.Stringer(key, v)
	default:
		return event.Interface(key, v)
	}
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level <= slog.LevelDebug:
		return zerolog.DebugLevel
	case level <= slog.LevelInfo:
		return zerolog.InfoLevel
	case level <= slog.LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

var _ Logger = (*ZerologAdapter)(nil)
