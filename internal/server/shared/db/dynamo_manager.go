package db

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/dkovalev/authvault/internal/server/accounts"
	"github.com/dkovalev/authvault/internal/server/config"
)

type DynamoStoreManager struct {
	accounts accounts.Repository
}

// NewDynamoStoreManager connects to the configured DynamoDB table. When an
// endpoint override is set (a local table), static dummy credentials are used.
func NewDynamoStoreManager(ctx context.Context, cfg *config.Config) (*DynamoStoreManager, error) {

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.DynamoRegion),
	}
	if cfg.DynamoEndpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	})

	return &DynamoStoreManager{
		accounts: accounts.NewDynamoRepository(client, cfg.DynamoTable),
	}, nil
}

func (m *DynamoStoreManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *DynamoStoreManager) Close() error {
	return nil
}
