package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_EmptyOutputPaths(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewDefaultLogger_NotNil(t *testing.T) {
	assert.NotNil(t, NewDefaultLogger())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapLogger_WritesTypedFields(t *testing.T) {
	l, buf := newTestLogger(t)

	l.Info("molecule processed",
		String("smiles", "CCO"),
		Int("atoms", 9),
		Float64("mw", 46.069),
		Bool("optimized", true),
		Duration("elapsed", 15*time.Millisecond),
		Err(errors.New("boom")),
	)

	out := buf.String()
	assert.Contains(t, out, `"msg":"molecule processed"`)
	assert.Contains(t, out, `"smiles":"CCO"`)
	assert.Contains(t, out, `"atoms":9`)
	assert.Contains(t, out, `"optimized":true`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("http").With(String("request_id", "abc"))

	l.Warn("slow request")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "http", entry.LoggerName)
	assert.Equal(t, "abc", entry.ContextMap()["request_id"])
}

func TestSetLevel_AppliesToDerivedLoggers(t *testing.T) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core, logs := observer.New(level)
	l := &zapLogger{z: zap.New(core), level: &level}
	child := l.Named("http").With(String("k", "v"))

	child.Debug("hidden")
	assert.True(t, SetLevel(l, LevelDebug))
	child.Debug("shown")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)

	assert.False(t, SetLevel(NewNopLogger(), LevelDebug))
	assert.False(t, SetLevel(NewLoggerFromCore(core), LevelDebug))
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Info("ignored", String("k", "v"))
	assert.Equal(t, l, l.With(String("a", "b")))
	assert.NoError(t, l.Sync())
}

func TestContextPropagation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core)

	ctx := WithContext(context.Background(), l)
	FromContext(ctx, nil).Info("from context")
	assert.Equal(t, 1, logs.Len())

	fallback := NewNopLogger()
	assert.Equal(t, fallback, FromContext(context.Background(), fallback))
}

func TestDefault_SetAndGet(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	SetDefault(nil)

	Default().Info("via default")
	assert.Equal(t, 1, logs.Len())
}

//Personal.AI order the ending
