package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/kibblescan/sitecache/logger"
)

func TestNew(t *testing.T) {
	t.Run("json at warn", func(t *testing.T) {
		l, err := logger.New(logger.Config{Level: "warn", Format: "json"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("console defaults to info", func(t *testing.T) {
		l, err := logger.New(logger.Config{Format: "console"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		_, err := logger.New(logger.Config{Level: "loud"})
		assert.Error(t, err)

		_, err = logger.New(logger.Config{Format: "xml"})
		assert.Error(t, err)
	})
}
