package logging

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	mu.Lock()
	categories = nil
	mu.Unlock()
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestCategoryLoggersAreNamed(t *testing.T) {
	logs := observe(t)

	Catalog("loaded version %s", "14.1.1")
	ResolverDebug("stage %s failed", "fenced")
	APIError("boom")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "catalog", entries[0].LoggerName)
	assert.Equal(t, "loaded version 14.1.1", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "resolver", entries[1].LoggerName)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestDisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t)
	mu.Lock()
	categories = map[string]bool{"store": false}
	mu.Unlock()

	Store("should not appear")
	Catalog("should appear")

	assert.False(t, IsCategoryEnabled(CategoryStore))
	assert.True(t, IsCategoryEnabled(CategoryPerception))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "should appear", logs.All()[0].Message)
}

func TestWithAttachesFields(t *testing.T) {
	logs := observe(t)

	Get(CategoryAPI).With("request_id", "abc").Info("handled %d", 200)

	entries := logs.FilterField(zap.String("request_id", "abc")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "handled 200", entries[0].Message)
}

func TestTimerThreshold(t *testing.T) {
	logs := observe(t)

	timer := StartTimer(CategoryCatalog, "load")
	time.Sleep(2 * time.Millisecond)
	elapsed := timer.StopWithThreshold(time.Nanosecond)

	assert.Greater(t, elapsed, time.Duration(0))
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestInitializeWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lolmath.log")
	t.Cleanup(func() { SetLogger(nil) })

	err := Initialize(Config{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{path},
	})
	require.NoError(t, err)

	Catalog("hello")
	Sync()

	assert.FileExists(t, path)
}

func TestInitializeBadLevelFallsBackToInfo(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })
	err := Initialize(Config{Level: "chatty", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}})
	require.NoError(t, err)
	assert.False(t, Root().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, Root().Core().Enabled(zapcore.InfoLevel))
}
