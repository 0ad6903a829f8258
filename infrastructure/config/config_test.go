package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnemosyne/infrastructure/config"
)

func TestLoadConfig_AppliesDefaultsWithNoEnvironment(t *testing.T) {
	// Act
	cfg, err := config.LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "embedded", cfg.StoreBackend)
	assert.Equal(t, "native", cfg.EmbedderProvider)
	assert.Equal(t, "native", cfg.CompletionProvider)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_ReadsOverridesFromEnvironment(t *testing.T) {
	// Arrange
	t.Setenv("STORE_BACKEND", "dynamodb")
	t.Setenv("TABLE_NAME", "custom-table")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")

	// Act
	cfg, err := config.LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "dynamodb", cfg.StoreBackend)
	assert.Equal(t, "custom-table", cfg.DynamoDBTable)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
}

func TestLoadConfig_TableNameFallsBackToDynamoDBTable(t *testing.T) {
	// Arrange: TABLE_NAME unset, legacy DYNAMODB_TABLE set.
	t.Setenv("DYNAMODB_TABLE", "legacy-table")

	// Act
	cfg, err := config.LoadConfig()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "legacy-table", cfg.DynamoDBTable)
}

func TestValidate_RejectsUnknownStoreBackend(t *testing.T) {
	cfg := &config.Config{StoreBackend: "bogus", EmbedderProvider: "native", CompletionProvider: "native"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownEmbedderProvider(t *testing.T) {
	cfg := &config.Config{StoreBackend: "embedded", EmbedderProvider: "bogus", CompletionProvider: "native"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_RejectsUnknownCompletionProvider(t *testing.T) {
	cfg := &config.Config{StoreBackend: "embedded", EmbedderProvider: "native", CompletionProvider: "bogus"}
	assert.Error(t, cfg.Validate())
}

func TestValidate_AllowsEmbeddedDevelopmentWithNoSecrets(t *testing.T) {
	cfg := &config.Config{
		Environment:         "development",
		StoreBackend:        "embedded",
		EmbedderProvider:    "native",
		CompletionProvider:  "native",
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiresJWTSecretInProduction(t *testing.T) {
	cfg := &config.Config{
		Environment:         "production",
		StoreBackend:        "embedded",
		EmbedderProvider:    "native",
		CompletionProvider:  "native",
	}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "top-secret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiresDynamoDBTableInProductionWithDynamoDBBackend(t *testing.T) {
	cfg := &config.Config{
		Environment:         "production",
		StoreBackend:        "dynamodb",
		EmbedderProvider:    "native",
		CompletionProvider:  "native",
		JWTSecret:            "top-secret",
	}
	assert.Error(t, cfg.Validate())

	cfg.DynamoDBTable = "prod-table"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiresAnthropicAPIKeyInProductionWithAnthropicProvider(t *testing.T) {
	cfg := &config.Config{
		Environment:         "production",
		StoreBackend:        "embedded",
		EmbedderProvider:    "native",
		CompletionProvider:  "anthropic",
		JWTSecret:            "top-secret",
	}
	assert.Error(t, cfg.Validate())

	cfg.AnthropicAPIKey = "key"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RequiresHostedEmbedderURLInProductionWithHostedProvider(t *testing.T) {
	cfg := &config.Config{
		Environment:         "production",
		StoreBackend:        "embedded",
		EmbedderProvider:    "hosted",
		CompletionProvider:  "native",
		JWTSecret:            "top-secret",
	}
	assert.Error(t, cfg.Validate())

	cfg.HostedEmbedderURL = "https://embeddings.example.com"
	assert.NoError(t, cfg.Validate())
}
