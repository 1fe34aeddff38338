package magicjson

import (
	"fmt"

	"github.com/hengadev/magicjson/internal/magicerr"
	"github.com/hengadev/magicjson/internal/monitoring"
)

type Option func(c *Codec) error

// WithScanner replaces the text scanner used for decoding.
func WithScanner(scanner Scanner) Option {
	return func(c *Codec) error {
		if scanner == nil {
			return magicerr.NewInvalidConfigurationError("scanner", "must not be nil")
		}
		c.scanner = scanner
		return nil
	}
}

// WithFieldTag sets the struct tag consulted before json for field names.
func WithFieldTag(tag string) Option {
	return func(c *Codec) error {
		if err := validateFieldTag(tag); err != nil {
			return err
		}
		c.classifier.Tag = tag
		return nil
	}
}

// WithStrict makes Decode report unresolved fields.
func WithStrict(strict bool) Option {
	return func(c *Codec) error {
		c.strict = strict
		return nil
	}
}

func WithObservabilityHook(hook ObservabilityHook) Option {
	return func(c *Codec) error {
		if hook == nil {
			return magicerr.NewInvalidConfigurationError("observability hook", "must not be nil")
		}
		c.hooks = append(c.hooks, hook)
		return nil
	}
}

func WithMetricsCollector(collector MetricsCollector) Option {
	return func(c *Codec) error {
		c.metrics = collector
		return nil
	}
}

// WithLogger logs every operation through logger: successes at debug level,
// decodes with unresolved fields at warn level.
func WithLogger(logger *Logger) Option {
	return func(c *Codec) error {
		c.logger = logger
		return nil
	}
}

// WithConfig applies a validated Config. A logger writing to stderr is
// installed at the configured level and format.
func WithConfig(cfg Config) Option {
	return func(c *Codec) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}

		level, _ := monitoring.ParseLogLevel(cfg.LogLevel)
		format, _ := monitoring.ParseLogFormat(cfg.LogFormat)

		c.strict = cfg.Strict
		c.classifier.Tag = cfg.FieldTag
		c.logger = NewLogger(LoggerConfig{Level: level, Format: format, Output: cfg.logOutput(), Component: "codec"})
		return nil
	}
}
