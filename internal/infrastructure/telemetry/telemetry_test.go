package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/mrops-br/inventory-browser/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTelemetry(t *testing.T, level string) (*Telemetry, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	telem, err := NewNoOpTelemetry(
		&config.OTLPConfig{ServiceName: "inventory-browser-test", Environment: "test"},
		&config.LogConfig{Level: level},
		&buf,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = telem.Shutdown(context.Background()) })
	return telem, &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &record))
	return record
}

func TestLogger_InjectsContextAttributes(t *testing.T) {
	telem, buf := newTestTelemetry(t, "info")

	ctx, span := telem.TracerProvider.Tracer("test").Start(context.Background(), "op")
	ctx = WithSessionID(ctx, "session-1")
	ctx = WithHTTPRoute(ctx, "/health")
	telem.Logger.InfoContext(ctx, "hello")
	span.End()

	record := lastRecord(t, buf)
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "inventory-browser-test", record["service.name"])
	assert.Equal(t, "session-1", record["session.id"])
	assert.Equal(t, "/health", record["http.route"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
}

func TestLogger_Level(t *testing.T) {
	telem, buf := newTestTelemetry(t, "warn")
	buf.Reset()

	telem.Logger.Info("dropped")
	assert.Empty(t, buf.String())

	telem.Logger.Warn("kept")
	assert.Equal(t, "kept", lastRecord(t, buf)["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}

func TestNoOpTelemetry_MetricsReachRegistry(t *testing.T) {
	telem, _ := newTestTelemetry(t, "info")

	counter, err := telem.MeterProvider.Meter("test").Int64Counter("browser.test.events")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	families, err := telem.Registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "browser_test_events") {
			found = true
			require.NotEmpty(t, mf.GetMetric())
			assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "counter not exported to the prometheus registry")
}
