package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LeoCommon/tracker/pkg/log"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// WriteFile writes content to name inside a fresh temporary directory
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ObserveLogs routes the global logger into memory for the duration of the test
func ObserveLogs(t *testing.T, level zapcore.LevelEnabler) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(level)
	log.Replace(zap.New(core, zap.AddCallerSkip(1)))

	t.Cleanup(func() {
		log.Replace(zap.NewNop())
	})

	return logs
}
