package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ObservabilityHook receives codec lifecycle events.
type ObservabilityHook interface {
	// Called before an encode or decode starts
	OnProcessStart(ctx context.Context, operation string, metadata map[string]any)

	// Called after an encode or decode completes (success or failure)
	OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any)

	// Called when a decode reports unresolved fields or an invalid target
	OnError(ctx context.Context, operation string, err error, metadata map[string]any)
}

// NoOpObservabilityHook is a no-op implementation of ObservabilityHook
type NoOpObservabilityHook struct{}

func (n *NoOpObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
}
func (n *NoOpObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
}

// Logger is the logging surface LoggingObservabilityHook writes through.
// *StructuredLogger satisfies it.
type Logger interface {
	Log(ctx context.Context, level LogLevel, msg string, args ...any)
}

// LoggingObservabilityHook logs every lifecycle event with the operation and
// its metadata as attributes.
type LoggingObservabilityHook struct {
	logger Logger
}

// NewLoggingObservabilityHook creates a new logging observability hook. A nil
// logger falls back to a JSON logger on stdout.
func NewLoggingObservabilityHook(logger Logger) *LoggingObservabilityHook {
	if logger == nil {
		logger = NewStructuredLogger(LoggerConfig{Level: LevelInfo, Format: FormatJSON, Component: "codec"})
	}
	return &LoggingObservabilityHook{logger: logger}
}

func (l *LoggingObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
	l.logger.Log(ctx, LevelDebug, "operation started", eventAttrs(operation, metadata)...)
}

func (l *LoggingObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	args := append(eventAttrs(operation, metadata), slog.Duration("duration", duration))
	if err != nil {
		l.logger.Log(ctx, LevelError, "operation failed", append(args, slog.String("error", err.Error()))...)
		return
	}
	l.logger.Log(ctx, LevelDebug, "operation completed", args...)
}

func (l *LoggingObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
	l.logger.Log(ctx, LevelInfo, "operation error", append(eventAttrs(operation, metadata), slog.String("error", err.Error()))...)
}

func eventAttrs(operation string, metadata map[string]any) []any {
	return append([]any{slog.String("operation", operation)}, sortedAttrs(metadata)...)
}

// MetricsObservabilityHook collects metrics for operations
type MetricsObservabilityHook struct {
	collector MetricsCollector
}

// NewMetricsObservabilityHook creates a new metrics observability hook
func NewMetricsObservabilityHook(collector MetricsCollector) *MetricsObservabilityHook {
	if collector == nil {
		collector = &NoOpMetricsCollector{}
	}
	return &MetricsObservabilityHook{
		collector: collector,
	}
}

func (m *MetricsObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
	m.collector.IncrementCounter(MetricStarted, operationTags(operation, metadata))
}

func (m *MetricsObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	tags := operationTags(operation, metadata)
	if err != nil {
		tags["status"] = "error"
		m.collector.IncrementCounter(MetricFailed, tags)
	} else {
		tags["status"] = "success"
		m.collector.IncrementCounter(MetricSucceeded, tags)
	}

	m.collector.RecordTiming(MetricDuration, duration, tags)
	if n, ok := metadata["bytes"].(int); ok {
		m.collector.RecordValue(MetricBytes, float64(n), map[string]string{"operation": operation})
	}
}

func (m *MetricsObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
	tags := map[string]string{
		"operation": operation,
		"error":     fmt.Sprintf("%T", err),
	}
	m.collector.IncrementCounter(MetricErrors, tags)
}

func operationTags(operation string, metadata map[string]any) map[string]string {
	tags := map[string]string{"operation": operation}
	if typeName, ok := metadata["type"].(string); ok {
		tags["type"] = typeName
	}
	return tags
}

// CompositeObservabilityHook combines multiple hooks
type CompositeObservabilityHook struct {
	hooks []ObservabilityHook
}

// NewCompositeObservabilityHook creates a new composite hook
func NewCompositeObservabilityHook(hooks ...ObservabilityHook) *CompositeObservabilityHook {
	return &CompositeObservabilityHook{
		hooks: hooks,
	}
}

func (c *CompositeObservabilityHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnProcessStart(ctx, operation, metadata)
	}
}

func (c *CompositeObservabilityHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnProcessComplete(ctx, operation, duration, err, metadata)
	}
}

func (c *CompositeObservabilityHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
	for _, hook := range c.hooks {
		hook.OnError(ctx, operation, err, metadata)
	}
}
