package observability

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	lg := NewLoggerFromZap(zap.New(core))

	lg.Info("item committed", "customer_id", "c1", "price", int64(1900))
	lg.With("component", "order").Error("compensation failed", "reason", "db down")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "item committed", entries[0].Message)
	require.Equal(t, "c1", entries[0].ContextMap()["customer_id"])
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	require.Equal(t, "order", entries[1].ContextMap()["component"])
}

func TestLogger_NilIsNoop(t *testing.T) {
	var lg *Logger
	require.NotPanics(t, func() {
		lg.Debug("x")
		lg.Info("x")
		lg.Warn("x")
		lg.Error("x", "k", "v")
		lg.With("k", "v").Info("x")
		lg.Sync()
	})
}

func TestNewLoggerWithConfig(t *testing.T) {
	var tests = []struct {
		name string
		cfg  func(t *testing.T) LogConfig
	}{
		{
			name: "json stdout",
			cfg:  func(t *testing.T) LogConfig { return DefaultLogConfig() },
		},
		{
			name: "console stderr with bad level falls back to info",
			cfg: func(t *testing.T) LogConfig {
				return LogConfig{Level: "loud", Format: "console", Output: "stderr"}
			},
		},
		{
			name: "file output",
			cfg: func(t *testing.T) LogConfig {
				return LogConfig{Level: "debug", Format: "json", Output: filepath.Join(t.TempDir(), "app.log")}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lg, err := NewLoggerWithConfig(tt.cfg(t))
			require.NoError(t, err)
			require.NotNil(t, lg)
			lg.Info("hello")
		})
	}
}

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.ItemsCommitted.Add(2)
	m.CompensationFailures.Add(1)

	snap := m.Snapshot()
	require.Equal(t, int64(2), snap["items_committed"])
	require.Equal(t, int64(1), snap["compensation_failures"])
	require.Equal(t, int64(0), snap["forfeitures"])

	var nilMetrics *Metrics
	require.Empty(t, nilMetrics.Snapshot())
}
