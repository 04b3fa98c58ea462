package conf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ResolveJwtKey returns the configured JWT key, reading it from Secrets
// Manager when only a secret ARN is configured. The secret is either the raw
// key or a JSON object with a "jwt_key" field.
func ResolveJwtKey(ctx context.Context, awsCfg aws.Config, c *Config) ([]byte, error) {
	if c.JwtKey != "" {
		return []byte(c.JwtKey), nil
	}
	if c.JwtSecretArn == "" {
		return nil, errors.New("neither jwt-key nor jwt-secret-arn is set")
	}

	svc := secretsmanager.NewFromConfig(awsCfg)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	result, err := svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(c.JwtSecretArn),
	})
	if err != nil {
		return nil, fmt.Errorf("get jwt secret: %w", err)
	}
	if result.SecretString == nil {
		return nil, errors.New("jwt secret has no string value")
	}
	return parseJwtSecret(*result.SecretString)
}

func parseJwtSecret(raw string) ([]byte, error) {
	var secret struct {
		JwtKey string `json:"jwt_key"`
	}
	if err := json.Unmarshal([]byte(raw), &secret); err == nil {
		if secret.JwtKey == "" {
			return nil, errors.New("jwt secret json has empty jwt_key")
		}
		return []byte(secret.JwtKey), nil
	}
	if raw == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return []byte(raw), nil
}
