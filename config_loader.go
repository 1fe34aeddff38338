package magicjson

import (
	"fmt"
	"os"
	"strconv"
)

// LoadConfigFromEnvironment loads configuration from environment variables.
//
// Every variable is optional:
//   - MAGICJSON_STRICT: strict decoding (default: false)
//   - MAGICJSON_FIELD_TAG: primary struct tag (default: magic)
//   - MAGICJSON_LOG_LEVEL: debug, info, warn or error (default: info)
//   - MAGICJSON_LOG_FORMAT: json, text or console (default: json)
//
// The command line tools load a .env file into the environment first, so the
// same names work there.
func LoadConfigFromEnvironment() (Config, error) {
	strict := false
	if raw := os.Getenv(EnvStrict); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean, got %q", EnvStrict, raw)
		}
		strict = v
	}

	cfg := Config{
		Strict:    strict,
		FieldTag:  getEnvOrDefault(EnvFieldTag, DefaultFieldTag),
		LogLevel:  getEnvOrDefault(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvOrDefault(EnvLogFormat, DefaultLogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration from environment: %w", err)
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
