package conf

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// LoadAwsConfig builds the shared SDK config. Store retries live here,
// the services themselves never retry.
func LoadAwsConfig(ctx context.Context, c *Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(c.AwsRegion),
		config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = c.AwsMaxAttempts
			})
		}),
	}
	if c.AwsProfile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.AwsProfile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

func NewDynamoDbClient(cfg aws.Config, c *Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if c.AwsEndpoint != "" {
			o.BaseEndpoint = aws.String(c.AwsEndpoint)
		}
	})
}

func NewS3Client(cfg aws.Config, c *Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.AwsEndpoint != "" {
			o.BaseEndpoint = aws.String(c.AwsEndpoint)
			o.UsePathStyle = true
		}
	})
}

func NewSqsClient(cfg aws.Config, c *Config) *sqs.Client {
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if c.AwsEndpoint != "" {
			o.BaseEndpoint = aws.String(c.AwsEndpoint)
		}
	})
}
