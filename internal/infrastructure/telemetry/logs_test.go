package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func (e *recordingExporter) bodies() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.records))
	for i, r := range e.records {
		out[i] = r.Body().AsString()
	}
	return out
}

func TestProviders_BridgeLogger(t *testing.T) {
	exp := &recordingExporter{}
	p := &Providers{
		logs:   sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp))),
		logger: zap.NewNop(),
	}
	core, observed := observer.New(zapcore.InfoLevel)

	log := p.BridgeLogger(zap.New(core)).With(zap.String("period", "monthly"))
	log.Debug("snapshot lookup missed")
	log.Info("snapshot generated")
	log.Warn("snapshot claim unavailable")

	assert.Equal(t, 2, observed.Len())
	assert.Equal(t, []string{"snapshot generated", "snapshot claim unavailable"}, exp.bodies())
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestProviders_BridgeLoggerWithoutLogExport(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{}, "test", nil)
	require.NoError(t, err)

	base := zap.NewExample()
	assert.Same(t, base, p.BridgeLogger(base))
}

func TestSetup_LogsEnabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{
		LogsEnabled:       true,
		ServiceName:       "backoffice-reporting-test",
		CollectorEndpoint: "localhost:14317",
		Insecure:          true,
	}, "test", nil)
	require.NoError(t, err)
	require.NotNil(t, p.logs)
	assert.Nil(t, p.tracer)
	assert.Same(t, p.logs, global.GetLoggerProvider())
	assert.NoError(t, p.Shutdown(context.Background()))
}
