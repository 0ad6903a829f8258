package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"mnemosyne/pkg/observability"
)

func TestNewLogger_DevelopmentUsesDevelopmentConfig(t *testing.T) {
	logger, err := observability.NewLogger("development")

	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLogger_ProductionUsesProductionConfig(t *testing.T) {
	logger, err := observability.NewLogger("production")

	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
