package magicjson

import (
	"testing"

	"github.com/hengadev/errsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		errKeys []string
	}{
		{
			name:   "empty config gets defaults",
			config: Config{},
		},
		{
			name:   "explicit values",
			config: Config{Strict: true, FieldTag: "db", LogLevel: "debug", LogFormat: "console"},
		},
		{
			name:    "invalid log level",
			config:  Config{LogLevel: "verbose"},
			errKeys: []string{"log_level"},
		},
		{
			name:    "every field invalid",
			config:  Config{FieldTag: "has space", LogLevel: "verbose", LogFormat: "xml"},
			errKeys: []string{"field_tag", "log_level", "log_format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := cfg.Validate()

			if len(tt.errKeys) == 0 {
				require.NoError(t, err)
				assert.NotEmpty(t, cfg.FieldTag)
				assert.NotEmpty(t, cfg.LogLevel)
				assert.NotEmpty(t, cfg.LogFormat)
				return
			}

			errs, ok := err.(errsx.Map)
			require.True(t, ok, "expected error to be of type errsx.Map")
			assert.Len(t, errs, len(tt.errKeys))
			for _, key := range tt.errKeys {
				assert.Contains(t, errs, key)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultFieldTag, cfg.FieldTag)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.False(t, cfg.Strict)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvStrict, "")
		t.Setenv(EnvFieldTag, "")
		t.Setenv(EnvLogLevel, "")
		t.Setenv(EnvLogFormat, "")

		cfg, err := LoadConfigFromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().FieldTag, cfg.FieldTag)
		assert.False(t, cfg.Strict)
	})

	t.Run("explicit values", func(t *testing.T) {
		t.Setenv(EnvStrict, "true")
		t.Setenv(EnvFieldTag, "db")
		t.Setenv(EnvLogLevel, "warn")
		t.Setenv(EnvLogFormat, "text")

		cfg, err := LoadConfigFromEnvironment()
		require.NoError(t, err)
		assert.Equal(t, Config{Strict: true, FieldTag: "db", LogLevel: "warn", LogFormat: "text"}, cfg)
	})

	t.Run("invalid strict flag", func(t *testing.T) {
		t.Setenv(EnvStrict, "sometimes")
		_, err := LoadConfigFromEnvironment()
		assert.ErrorContains(t, err, EnvStrict)
	})

	t.Run("invalid log format", func(t *testing.T) {
		t.Setenv(EnvStrict, "")
		t.Setenv(EnvLogFormat, "xml")
		_, err := LoadConfigFromEnvironment()
		assert.True(t, IsInvalidConfiguration(err))
	})
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(EnvStrict, "1")
	t.Setenv(EnvFieldTag, "")
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "")

	c, err := NewFromEnv()
	require.NoError(t, err)
	assert.True(t, c.Strict())
	assert.Equal(t, DefaultFieldTag, c.FieldTag())
}
