package monitoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) Log(ctx context.Context, level LogLevel, msg string, args ...any) {
	line := level.String() + " " + msg
	for _, arg := range args {
		line += " " + fmt.Sprint(arg)
	}
	r.mu.Lock()
	r.lines = append(r.lines, line)
	r.mu.Unlock()
}

type countingHook struct {
	starts, completes, errors int
}

func (c *countingHook) OnProcessStart(ctx context.Context, operation string, metadata map[string]any) {
	c.starts++
}

func (c *countingHook) OnProcessComplete(ctx context.Context, operation string, duration time.Duration, err error, metadata map[string]any) {
	c.completes++
}

func (c *countingHook) OnError(ctx context.Context, operation string, err error, metadata map[string]any) {
	c.errors++
}

func TestNoOpObservabilityHook(t *testing.T) {
	hook := &NoOpObservabilityHook{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		hook.OnProcessStart(ctx, "encode", nil)
		hook.OnProcessComplete(ctx, "encode", time.Millisecond, nil, nil)
		hook.OnError(ctx, "decode", errors.New("boom"), nil)
	})
}

func TestLoggingObservabilityHook(t *testing.T) {
	logger := &recordingLogger{}
	hook := NewLoggingObservabilityHook(logger)
	ctx := context.Background()
	metadata := map[string]any{"type": "db.Employee"}

	hook.OnProcessStart(ctx, "encode", metadata)
	hook.OnProcessComplete(ctx, "encode", time.Millisecond, nil, metadata)
	hook.OnProcessComplete(ctx, "decode", time.Millisecond, errors.New("missing"), metadata)
	hook.OnError(ctx, "decode", errors.New("missing"), metadata)

	if assert.Len(t, logger.lines, 4) {
		assert.Equal(t, "debug operation started operation=encode type=db.Employee", logger.lines[0])
		assert.Equal(t, "debug operation completed operation=encode type=db.Employee duration=1ms", logger.lines[1])
		assert.Equal(t, "error operation failed operation=decode type=db.Employee duration=1ms error=missing", logger.lines[2])
		assert.Equal(t, "info operation error operation=decode type=db.Employee error=missing", logger.lines[3])
	}
}

func TestLoggingObservabilityHook_DefaultLogger(t *testing.T) {
	hook := NewLoggingObservabilityHook(nil)
	assert.NotNil(t, hook.logger)
}

func TestMetricsObservabilityHook(t *testing.T) {
	collector := NewInMemoryMetricsCollector()
	hook := NewMetricsObservabilityHook(collector)
	ctx := context.Background()
	metadata := map[string]any{"type": "db.Employee", "bytes": 64}

	hook.OnProcessStart(ctx, "encode", metadata)
	hook.OnProcessComplete(ctx, "encode", 5*time.Millisecond, nil, metadata)
	hook.OnProcessComplete(ctx, "decode", 5*time.Millisecond, errors.New("missing"), metadata)
	hook.OnError(ctx, "decode", errors.New("missing"), metadata)

	started := map[string]string{"operation": "encode", "type": "db.Employee"}
	assert.Equal(t, int64(1), collector.GetCounter(MetricStarted, started))

	succeeded := map[string]string{"operation": "encode", "type": "db.Employee", "status": "success"}
	assert.Equal(t, int64(1), collector.GetCounter(MetricSucceeded, succeeded))
	assert.Equal(t, []time.Duration{5 * time.Millisecond}, collector.GetTimings(MetricDuration, succeeded))

	failed := map[string]string{"operation": "decode", "type": "db.Employee", "status": "error"}
	assert.Equal(t, int64(1), collector.GetCounter(MetricFailed, failed))

	assert.Equal(t, []float64{64}, collector.GetValues(MetricBytes, map[string]string{"operation": "encode"}))
	assert.Equal(t, int64(1), collector.GetCounter(MetricErrors, map[string]string{"operation": "decode", "error": "*errors.errorString"}))
}

func TestMetricsObservabilityHook_NilCollector(t *testing.T) {
	hook := NewMetricsObservabilityHook(nil)
	assert.NotPanics(t, func() {
		hook.OnProcessComplete(context.Background(), "encode", time.Millisecond, nil, nil)
	})
}

func TestCompositeObservabilityHook(t *testing.T) {
	first, second := &countingHook{}, &countingHook{}
	hook := NewCompositeObservabilityHook(first, second)
	ctx := context.Background()

	hook.OnProcessStart(ctx, "encode", nil)
	hook.OnProcessComplete(ctx, "encode", time.Millisecond, nil, nil)
	hook.OnError(ctx, "encode", errors.New("x"), nil)

	for _, h := range []*countingHook{first, second} {
		assert.Equal(t, 1, h.starts)
		assert.Equal(t, 1, h.completes)
		assert.Equal(t, 1, h.errors)
	}
}
