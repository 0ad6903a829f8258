package di

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"mnemosyne/infrastructure/config"
	"mnemosyne/pkg/observability"
)

// ProvideCloudWatchClient builds a CloudWatch client from a loaded AWS
// config. Only constructed when metrics are enabled.
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics builds the CloudWatch-backed metrics publisher, namespaced
// per environment.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("Mnemosyne/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}
