package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "mnemosyne/infrastructure/config"
)

func localConfig() *infraconfig.Config {
	return &infraconfig.Config{
		Environment:         "development",
		StoreBackend:        "embedded",
		EmbedderProvider:    "native",
		CompletionProvider:  "native",
		RateLimitPerMinute:  60,
		ReinforceWorkers:    1,
		ReinforceQueueSize:  8,
		JWTSecret:           "test-secret",
		JWTIssuer:           "mnemosyne",
	}
}

func TestNewContainer_WiresFullGraphWithEmbeddedBackend(t *testing.T) {
	// Arrange
	cfg := localConfig()

	// Act
	c, err := NewContainer(context.Background(), cfg)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.NotNil(t, c.Store)
	assert.NotNil(t, c.Embedder)
	assert.NotNil(t, c.CompletionProvider)
	assert.NotNil(t, c.EventBus)
	assert.NotNil(t, c.ReinforceQueue)
	assert.NotNil(t, c.IngestService)
	assert.NotNil(t, c.TemporalService)
	assert.NotNil(t, c.CommandBus)
	assert.NotNil(t, c.QueryBus)
	assert.Nil(t, c.Metrics, "metrics are only wired when EnableMetrics and the dynamodb backend are both set")

	require.NoError(t, c.Close(context.Background()))
}

func TestNewContainer_RejectsUnknownStoreBackend(t *testing.T) {
	// Arrange
	cfg := localConfig()
	cfg.StoreBackend = "bogus"

	// Act
	_, err := NewContainer(context.Background(), cfg)

	// Assert
	assert.Error(t, err)
}

func TestNewContainer_RejectsUnknownEmbedderProvider(t *testing.T) {
	// Arrange
	cfg := localConfig()
	cfg.EmbedderProvider = "bogus"

	// Act
	_, err := NewContainer(context.Background(), cfg)

	// Assert
	assert.Error(t, err)
}

func TestNewContainer_RejectsUnknownCompletionProvider(t *testing.T) {
	// Arrange
	cfg := localConfig()
	cfg.CompletionProvider = "bogus"

	// Act
	_, err := NewContainer(context.Background(), cfg)

	// Assert
	assert.Error(t, err)
}
