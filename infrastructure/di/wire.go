//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	infraconfig "mnemosyne/infrastructure/config"
)

// SuperSet documents the provider graph container.go wires by hand. It is
// never built by this module (no wire_gen.go is checked in), but keeps the
// provider set discoverable for anyone who wants to regenerate it with
// `wire`.
var SuperSet = wire.NewSet(
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideStore,
	ProvideEmbedder,
	ProvideCompletionProvider,
	ProvideEventBus,
	ProvideMetrics,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer would create a fully wired container, if this file
// were compiled with the wireinject build tag and run through `wire`.
func InitializeContainer(ctx context.Context, cfg *infraconfig.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
