package magicjson

// Environment variable names
const (
	// EnvStrict enables strict decoding when set to a true value
	// ("1", "t", "true", ...).
	EnvStrict = "MAGICJSON_STRICT"

	// EnvFieldTag names the struct tag read before json.
	// Default: magic
	EnvFieldTag = "MAGICJSON_FIELD_TAG"

	// EnvLogLevel is one of debug, info, warn, error.
	// Default: info
	EnvLogLevel = "MAGICJSON_LOG_LEVEL"

	// EnvLogFormat is one of json, text, console.
	// Default: json
	EnvLogFormat = "MAGICJSON_LOG_FORMAT"
)

// Default values
const (
	DefaultFieldTag  = "magic"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// MaxFieldTagLength bounds the configured struct tag name.
const MaxFieldTagLength = 64
