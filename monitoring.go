package magicjson

import "github.com/hengadev/magicjson/internal/monitoring"

// ObservabilityHook receives a start and a completion event for every
// operation, and an error event when a decode leaves fields unresolved.
type ObservabilityHook = monitoring.ObservabilityHook

// MetricsCollector receives counters, timings and sizes from a Codec.
type MetricsCollector = monitoring.MetricsCollector

type InMemoryMetricsCollector = monitoring.InMemoryMetricsCollector

// MetricSummary aggregates one metric series of an InMemoryMetricsCollector.
type MetricSummary = monitoring.MetricSummary

// Logger is the structured logger used by Codec and the command line tools.
type Logger = monitoring.StructuredLogger

type LoggerConfig = monitoring.LoggerConfig

type LogLevel = monitoring.LogLevel

const (
	LevelDebug = monitoring.LevelDebug
	LevelInfo  = monitoring.LevelInfo
	LevelWarn  = monitoring.LevelWarn
	LevelError = monitoring.LevelError
)

type LogFormat = monitoring.LogFormat

const (
	FormatJSON    = monitoring.FormatJSON
	FormatText    = monitoring.FormatText
	FormatConsole = monitoring.FormatConsole
)

// Metric names recorded when a MetricsCollector is configured.
const (
	MetricStarted   = monitoring.MetricStarted
	MetricSucceeded = monitoring.MetricSucceeded
	MetricFailed    = monitoring.MetricFailed
	MetricDuration  = monitoring.MetricDuration
	MetricBytes     = monitoring.MetricBytes
	MetricErrors    = monitoring.MetricErrors
)

func NewInMemoryMetricsCollector() *InMemoryMetricsCollector {
	return monitoring.NewInMemoryMetricsCollector()
}

func NewLogger(cfg LoggerConfig) *Logger {
	return monitoring.NewStructuredLogger(cfg)
}

// NewLoggingObservabilityHook returns a hook that logs every event. A nil
// logger logs JSON to stdout.
func NewLoggingObservabilityHook(logger *Logger) ObservabilityHook {
	if logger == nil {
		return monitoring.NewLoggingObservabilityHook(nil)
	}
	return monitoring.NewLoggingObservabilityHook(logger)
}

// NewCompositeObservabilityHook fans events out to hooks in order.
func NewCompositeObservabilityHook(hooks ...ObservabilityHook) ObservabilityHook {
	return monitoring.NewCompositeObservabilityHook(hooks...)
}
