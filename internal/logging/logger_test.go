package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/codefold/internal/logging"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"invalid", log.InfoLevel},
		{"", log.InfoLevel},
		{"DEBUG", log.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(tt.level)
			require.NotNil(t, logger)
			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	assert.True(t, logging.ValidLevel("Warn"))
	assert.False(t, logging.ValidLevel("verbose"))
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")
	logger.Info("hidden")
	logger.Warn("degraded", logging.FieldPath, "a.c", logging.FieldLanguage, "c")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "degraded")
	assert.Contains(t, out, "path=a.c")
	assert.Contains(t, out, "language=c")
}

func TestSetLevel(t *testing.T) {
	// Not parallel: modifies the default logger.
	original := logging.Default()
	defer logging.SetDefault(original)

	logging.SetDefault(logging.New("info"))
	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, logging.Default().GetLevel())
	logging.SetLevel("error")
	assert.Equal(t, log.ErrorLevel, logging.Default().GetLevel())
}

func TestContext(t *testing.T) {
	t.Parallel()

	logger := logging.New("debug")
	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))
	assert.NotNil(t, logging.FromContext(context.Background()))

	//nolint:staticcheck // nil context is tolerated
	assert.NotNil(t, logging.FromContext(nil))
}
