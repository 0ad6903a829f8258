//go:build !onnx

package di

import (
	"fmt"

	"go.uber.org/zap"

	"mnemosyne/application/ports"
	domainconfig "mnemosyne/domain/config"
	infraconfig "mnemosyne/infrastructure/config"
)

// newOnnxEmbedder is stubbed out in default builds: yalue/onnxruntime_go
// links against a local onnxruntime shared library that is not available
// in every build environment. Build with -tags onnx to pull in the real
// implementation.
func newOnnxEmbedder(_ *infraconfig.Config, _ *domainconfig.DomainConfig, _ *zap.Logger) (ports.Embedder, error) {
	return nil, fmt.Errorf("di: EMBEDDER_PROVIDER=onnx requires building with -tags onnx")
}
