package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutEndpoints(t *testing.T) {
	_, err := Setup(context.Background(), "test:telemetry", Config{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestShutdownEmpty(t *testing.T) {
	require.NoError(t, Telemetry{}.Shutdown(context.Background()))
}

func TestHandlerLevel(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := slog.New(newHandler(buf, false, true))
	logger.Debug("hidden")
	logger.Info("shown", "page", 3)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "page=3")

	buf.Reset()
	logger = slog.New(newHandler(buf, true, true))
	logger.Debug("visible")
	require.Contains(t, buf.String(), "visible")
}

func TestMetricInterval(t *testing.T) {
	require.Equal(t, 5*time.Second, OtlpConfig{}.metricInterval())
	require.Equal(t, time.Minute, OtlpConfig{MetricIntervalSeconds: 60}.metricInterval())
}
