package magicjson

import (
	"github.com/hengadev/magicjson/internal/monitoring"
	"github.com/hengadev/magicjson/internal/shape"
)

var defaultCodec = &Codec{
	scanner:    NaiveScanner{},
	classifier: shape.Classifier{Tag: DefaultFieldTag},
	hook:       &monitoring.NoOpObservabilityHook{},
}

// Encode returns the text form of v.
func Encode(v any) string {
	return defaultCodec.Encode(v)
}

// Decode returns a T filled from text. Fields that cannot be resolved keep
// their default value.
func Decode[T any](text string) T {
	var v T
	_ = defaultCodec.decode(OperationDecode, text, &v, false)
	return v
}

// DecodeInto fills target, a non-nil pointer, from text. The only error is an
// invalid target.
func DecodeInto(text string, target any) error {
	return defaultCodec.decode(OperationDecode, text, target, false)
}

// DecodeStrict returns the same value as Decode and an errsx.Map keyed by
// field path (employees[1].salary) for every field that was missing,
// malformed or unterminated. The error is nil when every field resolved.
func DecodeStrict[T any](text string) (T, error) {
	var v T
	err := defaultCodec.decode(OperationDecodeStrict, text, &v, true)
	return v, err
}
