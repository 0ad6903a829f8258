package di

import (
	"fmt"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/domain/config"
	infraconfig "mnemosyne/infrastructure/config"
	"mnemosyne/infrastructure/embedding/hosted"
	"mnemosyne/infrastructure/embedding/native"
)

// ProvideEmbedder selects and constructs the embedding provider named by
// cfg.EmbedderProvider. The onnx case is resolved by a build-tagged
// companion file (embedder_onnx.go / embedder_noonnx.go) since
// yalue/onnxruntime_go requires a local shared library this module cannot
// assume is present in every build.
func ProvideEmbedder(cfg *infraconfig.Config, domainCfg *config.DomainConfig, logger *zap.Logger) (ports.Embedder, error) {
	switch cfg.EmbedderProvider {
	case "native":
		return native.New(domainCfg.EmbeddingDimension), nil
	case "hosted":
		return hosted.New(hosted.Config{
			BaseURL:    cfg.HostedEmbedderURL,
			APIKey:     cfg.HostedEmbedderKey,
			Model:      cfg.HostedEmbedderModel,
			Dimensions: domainCfg.EmbeddingDimension,
		}), nil
	case "onnx":
		return newOnnxEmbedder(cfg, domainCfg, logger)
	default:
		return nil, fmt.Errorf("di: unknown embedder provider %q", cfg.EmbedderProvider)
	}
}
