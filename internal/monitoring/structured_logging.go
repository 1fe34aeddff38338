package monitoring

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLogLevel maps a configuration string to a LogLevel. The empty string
// is info.
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "":
		return LevelInfo, nil
	case "warning":
		return LevelWarn, nil
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("invalid log level '%s': must be one of [%s]", s, strings.Join(levelNames[:], ", "))
}

// slog levels are spaced four apart starting at debug.
func (l LogLevel) slog() slog.Level {
	return slog.LevelDebug + slog.Level(4*l)
}

// LogFormat selects the handler a StructuredLogger writes through.
type LogFormat int

const (
	FormatJSON LogFormat = iota
	FormatText
	FormatConsole
)

var formatNames = [...]string{"json", "text", "console"}

func (f LogFormat) String() string {
	if f < FormatJSON || f > FormatConsole {
		return "json"
	}
	return formatNames[f]
}

// ParseLogFormat maps a configuration string to a LogFormat. The empty string
// is json.
func ParseLogFormat(s string) (LogFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return FormatJSON, nil
	}
	for i, n := range formatNames {
		if n == name {
			return LogFormat(i), nil
		}
	}
	return FormatJSON, fmt.Errorf("invalid log format '%s': must be one of [%s]", s, strings.Join(formatNames[:], ", "))
}

// LoggerConfig configures the structured logger
type LoggerConfig struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer
	Component string
	Fields    map[string]any
}

// StructuredLogger is a leveled slog logger tagged with service=magicjson and
// the configured component. Messages take slog style key/value pairs.
type StructuredLogger struct {
	logger *slog.Logger
}

// NewStructuredLogger creates a logger writing to config.Output, stdout when
// nil.
func NewStructuredLogger(config LoggerConfig) *StructuredLogger {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: config.Level.slog()}
	var handler slog.Handler
	switch config.Format {
	case FormatText:
		handler = slog.NewTextHandler(out, opts)
	case FormatConsole:
		handler = NewConsoleHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	attrs := []any{slog.String("service", "magicjson")}
	if config.Component != "" {
		attrs = append(attrs, slog.String("component", config.Component))
	}
	attrs = append(attrs, sortedAttrs(config.Fields)...)

	return &StructuredLogger{logger: slog.New(handler).With(attrs...)}
}

// With returns a child logger carrying the extra key/value pairs.
func (l *StructuredLogger) With(args ...any) *StructuredLogger {
	return &StructuredLogger{logger: l.logger.With(args...)}
}

// Slog exposes the underlying slog logger.
func (l *StructuredLogger) Slog() *slog.Logger {
	return l.logger
}

// Log writes msg at level. It satisfies the Logger interface used by
// LoggingObservabilityHook.
func (l *StructuredLogger) Log(ctx context.Context, level LogLevel, msg string, args ...any) {
	l.logger.Log(ctx, level.slog(), msg, args...)
}

func (l *StructuredLogger) Debug(msg string, args ...any) {
	l.Log(context.Background(), LevelDebug, msg, args...)
}

func (l *StructuredLogger) Info(msg string, args ...any) {
	l.Log(context.Background(), LevelInfo, msg, args...)
}

func (l *StructuredLogger) Warn(msg string, args ...any) {
	l.Log(context.Background(), LevelWarn, msg, args...)
}

func (l *StructuredLogger) Error(msg string, args ...any) {
	l.Log(context.Background(), LevelError, msg, args...)
}

// LogCodecOperation logs one encode or decode. Completed operations go out at
// debug level; a decode that left fields unresolved goes out at warn level
// with the error attached.
func (l *StructuredLogger) LogCodecOperation(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	args := append([]any{
		slog.String("operation", operation),
		slog.Duration("duration", duration),
	}, sortedAttrs(metadata)...)

	if err != nil {
		l.Log(ctx, LevelWarn, "codec operation incomplete", append(args, slog.String("error", err.Error()))...)
		return
	}
	l.Log(ctx, LevelDebug, "codec operation completed", args...)
}

func sortedAttrs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	return attrs
}

// ConsoleHandler writes one colored line per record:
//
//	15:04:05.000 [LEVEL] message key=value ...
type ConsoleHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	out    io.Writer
	prefix []slog.Attr
	group  string
}

// NewConsoleHandler creates a console handler. A nil opts logs info and
// above.
func NewConsoleHandler(out io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	h := &ConsoleHandler{mu: &sync.Mutex{}, out: out}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

var levelColors = map[slog.Level]string{
	slog.LevelDebug: "\033[36m",
	slog.LevelInfo:  "\033[32m",
	slog.LevelWarn:  "\033[33m",
	slog.LevelError: "\033[31m",
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

func (h *ConsoleHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(record.Time.Format("15:04:05.000"))
	if color, ok := levelColors[record.Level]; ok {
		fmt.Fprintf(&buf, " [%s%s\033[0m] ", color, record.Level)
	} else {
		fmt.Fprintf(&buf, " [%s] ", record.Level)
	}
	buf.WriteString(record.Message)

	for _, a := range h.prefix {
		writeAttr(&buf, "", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		writeAttr(&buf, h.group, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func writeAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	fmt.Fprintf(buf, " %s=%s", key, a.Value.Resolve())
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.prefix = make([]slog.Attr, 0, len(h.prefix)+len(attrs))
	clone.prefix = append(clone.prefix, h.prefix...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.prefix = append(clone.prefix, a)
	}
	return &clone
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "." + name
	} else {
		clone.group = name
	}
	return &clone
}
