package di

import (
	"fmt"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	infraconfig "mnemosyne/infrastructure/config"
	"mnemosyne/infrastructure/completion/anthropic"
	"mnemosyne/infrastructure/completion/native"
)

// ProvideCompletionProvider selects and constructs the extraction provider
// named by cfg.CompletionProvider.
func ProvideCompletionProvider(cfg *infraconfig.Config, logger *zap.Logger) (ports.CompletionProvider, error) {
	switch cfg.CompletionProvider {
	case "native":
		return native.New(), nil
	case "anthropic":
		return anthropic.New(anthropic.Config{
			APIKey: cfg.AnthropicAPIKey,
			Model:  cfg.AnthropicModel,
		}, logger), nil
	default:
		return nil, fmt.Errorf("di: unknown completion provider %q", cfg.CompletionProvider)
	}
}
