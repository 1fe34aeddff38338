package magicjson

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/hengadev/magicjson/internal/magicerr"
	"github.com/hengadev/magicjson/internal/monitoring"
	"github.com/hengadev/magicjson/internal/shape"
)

// Operation names passed to observability hooks.
const (
	OperationEncode       = "encode"
	OperationDecode       = "decode"
	OperationDecodeStrict = "decode_strict"
)

// Codec encodes and decodes with a fixed set of options. It is immutable after
// New and safe for concurrent use.
type Codec struct {
	scanner    Scanner
	classifier shape.Classifier
	strict     bool

	hooks   []ObservabilityHook
	hook    ObservabilityHook
	metrics MetricsCollector
	logger  *monitoring.StructuredLogger
}

// New creates a Codec. Without options it behaves like the package-level
// functions.
func New(opts ...Option) (*Codec, error) {
	c := &Codec{
		scanner:    NaiveScanner{},
		classifier: shape.Classifier{Tag: DefaultFieldTag},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("apply codec option: %w", err)
		}
	}

	hooks := c.hooks
	if c.metrics != nil {
		hooks = append(hooks, monitoring.NewMetricsObservabilityHook(c.metrics))
	}
	switch len(hooks) {
	case 0:
		c.hook = &monitoring.NoOpObservabilityHook{}
	case 1:
		c.hook = hooks[0]
	default:
		c.hook = monitoring.NewCompositeObservabilityHook(hooks...)
	}

	return c, nil
}

// NewFromEnv creates a Codec configured from MAGICJSON_* environment
// variables.
func NewFromEnv() (*Codec, error) {
	cfg, err := LoadConfigFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("load configuration from environment: %w", err)
	}
	return New(WithConfig(cfg))
}

// Strict reports whether Decode reports unresolved fields.
func (c *Codec) Strict() bool {
	return c.strict
}

// FieldTag returns the struct tag consulted first for field names.
func (c *Codec) FieldTag() string {
	return c.classifier.Tag
}

// Encode returns the text form of v. It never fails; values of unknown shape
// are written as "unknown type".
func (c *Codec) Encode(v any) string {
	ctx := context.Background()
	metadata := map[string]any{"type": typeName(v)}
	start := time.Now()
	c.hook.OnProcessStart(ctx, OperationEncode, metadata)

	out := unknownType
	if v != nil {
		e := encoder{classifier: c.classifier}
		e.encode(reflect.ValueOf(v), reflect.TypeOf(v))
		out = e.buf.String()
	}

	metadata["bytes"] = len(out)
	c.complete(ctx, OperationEncode, time.Since(start), nil, metadata)
	return out
}

// Decode fills target, which must be a non-nil pointer, from text. Fields
// that cannot be resolved keep their default value. In strict mode the
// returned error is an errsx.Map naming them; otherwise an error is returned
// only for an invalid target.
func (c *Codec) Decode(text string, target any) error {
	if c.strict {
		return c.decode(OperationDecodeStrict, text, target, true)
	}
	return c.decode(OperationDecode, text, target, false)
}

// DecodeStrict is Decode with strict reporting regardless of configuration.
func (c *Codec) DecodeStrict(text string, target any) error {
	return c.decode(OperationDecodeStrict, text, target, true)
}

func (c *Codec) decode(operation, text string, target any, strict bool) error {
	ctx := context.Background()
	metadata := map[string]any{"type": typeName(target), "bytes": len(text)}
	start := time.Now()
	c.hook.OnProcessStart(ctx, operation, metadata)

	rv := reflect.ValueOf(target)
	if target == nil || rv.Kind() != reflect.Ptr || rv.IsNil() {
		err := magicerr.NewInvalidTargetError(fmt.Sprintf("target must be a non-nil pointer, got %T", target), magicerr.Decode)
		c.hook.OnError(ctx, operation, err, metadata)
		c.complete(ctx, operation, time.Since(start), err, metadata)
		return err
	}

	v := rv.Elem()
	v.SetZero()
	d := decoder{scanner: c.scanner, classifier: c.classifier, strict: strict}
	d.initialize(v)
	d.decode(text, v, "")

	err := d.errs.AsError()
	if err != nil {
		metadata["unresolved"] = len(d.errs)
		c.hook.OnError(ctx, operation, err, metadata)
	}
	c.complete(ctx, operation, time.Since(start), err, metadata)
	return err
}

func (c *Codec) complete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	c.hook.OnProcessComplete(ctx, operation, duration, err, metadata)
	if c.logger != nil {
		c.logger.LogCodecOperation(ctx, operation, duration, err, metadata)
	}
}

// DecodeWith decodes text into a new T using c.
func DecodeWith[T any](c *Codec, text string) (T, error) {
	var v T
	err := c.Decode(text, &v)
	return v, err
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
