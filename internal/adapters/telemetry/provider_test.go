package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/offline/internal/adapters/telemetry"
	"go.trai.ch/offline/internal/core/domain"
)

func newRecordingTracer(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewOTelTracerWithProvider(tp, "test"), rec
}

func TestOTelTracer_Attributes(t *testing.T) {
	tracer, rec := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "worker.fetch")
	span.SetAttribute("url", "http://game.test/")
	span.SetAttribute("status", 200)
	span.SetAttribute("bytes", int64(512))
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("navigation", true)
	span.SetAttribute("assets", []string{"/", "/manifest.json"})
	span.SetAttribute("generation", domain.Generation("v1"))
	span.SetAttribute("source", domain.SourceCache)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "worker.fetch", ended[0].Name())

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "http://game.test/", attrs["url"].AsString())
	assert.Equal(t, int64(200), attrs["status"].AsInt64())
	assert.Equal(t, int64(512), attrs["bytes"].AsInt64())
	assert.InDelta(t, 0.5, attrs["ratio"].AsFloat64(), 0)
	assert.True(t, attrs["navigation"].AsBool())
	assert.Equal(t, []string{"/", "/manifest.json"}, attrs["assets"].AsStringSlice())
	assert.Equal(t, "v1", attrs["generation"].AsString())
	assert.Equal(t, "hit", attrs["source"].AsString())
}

func TestOTelSpan_RecordError(t *testing.T) {
	tracer, rec := newRecordingTracer(t)

	_, span := tracer.Start(context.Background(), "worker.install")
	span.RecordError(nil)
	span.RecordError(errors.New("asset unreachable"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "asset unreachable", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestNoOpTracer(t *testing.T) {
	ctx := context.Background()
	got, span := telemetry.NewNoOpTracer().Start(ctx, "anything")
	assert.Equal(t, ctx, got)
	span.SetAttribute("k", "v")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func TestSetup_NoopWithoutEndpoint(t *testing.T) {
	t.Setenv(telemetry.EndpointEnv, "")
	t.Setenv(telemetry.EnabledEnv, "")

	shutdown, err := telemetry.Setup(context.Background(), "offline", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_NoopWhenDisabled(t *testing.T) {
	t.Setenv(telemetry.EndpointEnv, "http://192.0.2.1:4318")
	t.Setenv(telemetry.EnabledEnv, "false")

	shutdown, err := telemetry.Setup(context.Background(), "offline", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
