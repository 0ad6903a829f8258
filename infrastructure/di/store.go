package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"mnemosyne/application/ports"
	infraconfig "mnemosyne/infrastructure/config"
	"mnemosyne/infrastructure/persistence/dynamodb"
	"mnemosyne/infrastructure/persistence/embedded"
)

// ProvideAWSConfig loads the default AWS config, used only when
// StoreBackend is "dynamodb".
func ProvideAWSConfig(ctx context.Context, cfg *infraconfig.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// ProvideDynamoDBClient builds a DynamoDB client from a loaded AWS config.
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideStore selects and constructs the backing store named by
// cfg.StoreBackend. client is ignored for the embedded backend.
func ProvideStore(cfg *infraconfig.Config, client *awsdynamodb.Client, logger *zap.Logger) (ports.Store, error) {
	switch cfg.StoreBackend {
	case "embedded":
		store := embedded.New()
		if cfg.SnapshotPath != "" {
			if err := store.Load(cfg.SnapshotPath); err != nil {
				logger.Warn("no existing snapshot to load", zap.String("path", cfg.SnapshotPath), zap.Error(err))
			}
		}
		return store, nil
	case "dynamodb":
		cache, err := dynamodb.NewEngramCache(cfg.EngramCacheSize)
		if err != nil {
			return nil, fmt.Errorf("di: build engram cache: %w", err)
		}
		return dynamodb.New(client, cfg.DynamoDBTable, logger, cache), nil
	default:
		return nil, fmt.Errorf("di: unknown store backend %q", cfg.StoreBackend)
	}
}
