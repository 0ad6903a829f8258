//go:build onnx

package di

import (
	"go.uber.org/zap"

	"mnemosyne/application/ports"
	domainconfig "mnemosyne/domain/config"
	infraconfig "mnemosyne/infrastructure/config"
	"mnemosyne/infrastructure/embedding/onnx"
)

func newOnnxEmbedder(cfg *infraconfig.Config, domainCfg *domainconfig.DomainConfig, logger *zap.Logger) (ports.Embedder, error) {
	return onnx.New(onnx.Config{
		ModelPath:         cfg.OnnxModelPath,
		TokenizerPath:     cfg.OnnxTokenizerPath,
		SharedLibraryPath: cfg.OnnxSharedLibPath,
		Dimensions:        domainCfg.EmbeddingDimension,
		MaxSequenceLength: cfg.OnnxMaxSeqLength,
	}, logger)
}
