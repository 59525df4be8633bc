package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("mytool")
	if cfg.ServiceName != "mytool" {
		t.Errorf("expected service name 'mytool', got %q", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected default endpoint, got %q", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %v", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected insecure default for development")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("mytool")
	if cfg.ServiceName != "mytool" {
		t.Errorf("expected service name 'mytool', got %q", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %v", cfg.Interval)
	}
}

func TestStartSpanWithoutProvider(t *testing.T) {
	// With no provider installed the global tracer is a no-op; spans must
	// still be usable.
	ctx, span := StartSpan(context.Background(), SpanCommandRun)
	if span == nil {
		t.Fatal("expected non-nil span")
	}
	SetSpanAttribute(ctx, AttrBinary, "cat")
	SetSpanAttribute(ctx, AttrExitCode, 0)
	SetSpanAttribute(ctx, AttrArgs, []string{"-n"})
	SetSpanError(ctx, errors.New("boom"))
	span.End()
}

func TestSpanFromContextWithoutSpan(t *testing.T) {
	span := SpanFromContext(context.Background())
	if span == nil {
		t.Fatal("expected non-nil no-op span")
	}
}

func TestNewMetrics(t *testing.T) {
	m, err := NewMetrics(Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	ctx := context.Background()
	// No provider installed: instruments are no-ops but must not panic.
	m.RecordCommandStart(ctx)
	m.RecordCommandEnd(ctx, "sort", "ok", 100*time.Millisecond)
	m.RecordLines(ctx, "stdout", 42)
	m.RecordMemo(ctx, "replay")
	m.RecordError(ctx, "io_failure", "proc")
}

func TestRunContextRoundTrip(t *testing.T) {
	rc := NewRunContext("grep", []string{"-v", "noise"}, "run-1", nil)
	ctx := WithRunContext(context.Background(), rc)

	got := RunContextFromContext(ctx)
	if got != rc {
		t.Fatal("expected stored run context back")
	}
	if got.Binary != "grep" || got.RunID != "run-1" {
		t.Errorf("unexpected run context: %+v", got)
	}
}

func TestRunContextFromEmptyContext(t *testing.T) {
	if rc := RunContextFromContext(context.Background()); rc != nil {
		t.Errorf("expected nil, got %+v", rc)
	}
}

func TestRunContextSpanLifecycle(t *testing.T) {
	rc := NewRunContext("cat", nil, "run-2", nil)
	ctx, span := rc.StartSpanForRun(context.Background(), SpanCommandRun)
	if span == nil {
		t.Fatal("expected non-nil span")
	}
	rc.EndRun(ctx, span, "ok", nil)

	if rc.Duration() < 0 {
		t.Error("expected non-negative duration")
	}
}

func TestRunContextEndRunWithError(t *testing.T) {
	rc := NewRunContext("false", nil, "", nil)
	ctx, span := rc.StartSpanForRun(context.Background(), SpanCommandRun)
	rc.EndRun(ctx, span, "error", errors.New("exit status 1"))
}
