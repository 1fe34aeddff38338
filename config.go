package magicjson

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hengadev/errsx"
	"github.com/hengadev/magicjson/internal/magicerr"
	"github.com/hengadev/magicjson/internal/monitoring"
)

// Config holds the settings for creating a Codec with WithConfig.
//
// All fields are optional; Validate fills in defaults.
//
//	cfg := magicjson.Config{Strict: true}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	codec, err := magicjson.New(magicjson.WithConfig(cfg))
type Config struct {
	// Strict makes Decode return an errsx.Map of unresolved fields.
	Strict bool

	// FieldTag is the struct tag consulted first for field names.
	//
	// Default: magic
	FieldTag string

	// LogLevel is one of debug, info, warn, error.
	//
	// Default: info
	LogLevel string

	// LogFormat is one of json, text, console.
	//
	// Default: json
	LogFormat string

	// LogOutput receives log records. Default: os.Stderr
	LogOutput io.Writer
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		FieldTag:  DefaultFieldTag,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Validate applies defaults to empty fields and checks the rest. All problems
// are returned together as an errsx.Map keyed by field.
func (c *Config) Validate() error {
	if c.FieldTag == "" {
		c.FieldTag = DefaultFieldTag
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}

	var errs errsx.Map
	if err := validateFieldTag(c.FieldTag); err != nil {
		errs.Set("field_tag", err)
	}
	if _, err := monitoring.ParseLogLevel(c.LogLevel); err != nil {
		errs.Set("log_level", magicerr.NewInvalidConfigurationError("log level", err.Error()))
	}
	if _, err := monitoring.ParseLogFormat(c.LogFormat); err != nil {
		errs.Set("log_format", magicerr.NewInvalidConfigurationError("log format", err.Error()))
	}
	return errs.AsError()
}

func (c Config) logOutput() io.Writer {
	if c.LogOutput == nil {
		return os.Stderr
	}
	return c.LogOutput
}

// validateFieldTag accepts the characters allowed in a struct tag key.
func validateFieldTag(tag string) error {
	if tag == "" {
		return magicerr.NewInvalidConfigurationError("field tag", "must not be empty")
	}
	if len(tag) > MaxFieldTagLength {
		return magicerr.NewInvalidConfigurationError("field tag",
			fmt.Sprintf("must be %d characters or less, got %d", MaxFieldTagLength, len(tag)))
	}
	if i := strings.IndexAny(tag, " \t\n:\"`"); i >= 0 {
		return magicerr.NewInvalidConfigurationError("field tag", fmt.Sprintf("contains invalid character %q", tag[i]))
	}
	return nil
}
