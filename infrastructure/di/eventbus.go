package di

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"mnemosyne/application/ports"
	"mnemosyne/infrastructure/config"
	"mnemosyne/infrastructure/events/eventbridge"
	"mnemosyne/infrastructure/events/inmemory"
)

// ProvideEventBridgeClient builds an EventBridge client from a loaded AWS
// config.
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideEventBus uses EventBridge when the store backend is cloud-backed,
// and falls back to the in-process bus for the embedded deployment and for
// local development. client is ignored when StoreBackend is not
// "dynamodb".
func ProvideEventBus(cfg *config.Config, client *awseventbridge.Client, logger *zap.Logger) ports.EventBus {
	if cfg.StoreBackend != "dynamodb" {
		return inmemory.New(logger)
	}
	return eventbridge.New(client, cfg.EventBusName, logger)
}
