package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/designlog/pkg/observability"
)

func TestNewLogger_JSONCarriesService(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := observability.NewLogger(&buf, slog.LevelInfo, observability.FormatJSON, "designlog")
	log.Info("hello", slog.String("k", "v"))

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "designlog", record["service"])
	assert.Equal(t, "v", record["k"])
	assert.Equal(t, "hello", record["msg"])
}

func TestNewLogger_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := observability.NewLogger(&buf, slog.LevelInfo, observability.FormatText, "designlog")
	log.Debug("invisible")

	assert.Empty(t, buf.String())
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	log := slog.New(observability.NewTracingHandler(inner, "designlog"))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})

	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	log.InfoContext(ctx, "traced")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, traceID.String(), record["trace_id"])
	assert.Equal(t, spanID.String(), record["span_id"])
}

func TestTracingHandler_NoSpanNoAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	log := slog.New(observability.NewTracingHandler(inner, "designlog"))

	log.Info("untraced")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.NotContains(t, record, "trace_id")
}
