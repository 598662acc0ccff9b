package dbroute

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func TestRouteModeLoggerIsIdempotent(t *testing.T) {
	l := newRouteModeLogger(logger.Discard)
	assert.Equal(t, l, newRouteModeLogger(l))
	_, ok := l.LogMode(logger.Info).(routeModeLogger)
	assert.True(t, ok, "LogMode keeps the wrapper")

	traced, ok := newTraceLogger(zap.NewNop(), logger.Silent).LogMode(logger.Info).(routeModeLogger)
	require.True(t, ok)
	assert.Equal(t, logger.Info, traced.level)
	assert.NotNil(t, traced.z)
}

func TestTracePrefixesNodeAndReason(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := context.Background()
	r := NewRouter(testCluster(t), WithLogger(zap.New(core)), WithTrace(logger.Info))
	defer r.DisconnectAll()

	_, err := r.ExecuteRead(WithDecision(ctx, RoutingDecision{Node: "FIQA", Reason: ReasonReadAny}), "FIQA", "SELECT 1 AS uno")
	require.NoError(t, err)
	_, err = r.ExecuteWrite(ctx, "FIS", "CREATE TABLE pasillo (num_pasillo INTEGER)")
	require.NoError(t, err)

	var traces []string
	for _, e := range logs.FilterLoggerName("sql").All() {
		traces = append(traces, e.Message)
		source, _ := e.ContextMap()["source"].(string)
		assert.NotContains(t, source, "logger.go", "trace source points at the wrapper")
		assert.Contains(t, source, "conn.go")
	}
	joined := strings.Join(traces, "\n")
	assert.Contains(t, joined, "[FIQA read-any] SELECT 1 AS uno")
	assert.Contains(t, joined, "[FIS] CREATE TABLE pasillo")
}

func TestTraceSilentAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := context.WithValue(context.Background(), routeMark, "FIS")
	fc := func() (string, int64) { return "EXEC sp_Eliminar_Libro ?", 0 }

	newTraceLogger(zap.New(core), logger.Silent).Trace(ctx, time.Now(), fc, nil)
	assert.Zero(t, logs.Len())

	l := newTraceLogger(zap.New(core), logger.Error)
	l.Trace(ctx, time.Now(), fc, nil)
	assert.Zero(t, logs.Len())
	l.Trace(ctx, time.Now(), fc, errors.New("procedure failed"))
	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, e.Level)
	assert.Equal(t, "[FIS] EXEC sp_Eliminar_Libro ?", e.Message)
}

func TestDecisionFromContext(t *testing.T) {
	_, ok := DecisionFrom(context.Background())
	assert.False(t, ok)

	d := RoutingDecision{Node: "FIS", Reason: ReasonFixedPrimary}
	got, ok := DecisionFrom(WithDecision(context.Background(), d))
	assert.True(t, ok)
	assert.Equal(t, d, got)
	assert.Equal(t, "FIS fixed-primary", got.String())
	assert.Equal(t, "FIS", RoutingDecision{Node: "FIS"}.String())
}
