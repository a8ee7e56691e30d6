package accounts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dkovalev/authvault/internal/common"
)

// DynamoRepository stores accounts in a DynamoDB table with ApplicationID as
// the hash key and UserID as the range key.
type DynamoRepository struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoRepository(client *dynamodb.Client, table string) *DynamoRepository {
	return &DynamoRepository{client: client, table: table}
}

func (r *DynamoRepository) key(applicationID, userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"ApplicationID": &types.AttributeValueMemberS{Value: applicationID},
		"UserID":        &types.AttributeValueMemberS{Value: userID},
	}
}

func (r *DynamoRepository) Load(ctx context.Context, applicationID, userID string) (*Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       r.key(applicationID, userID),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get error: %w", err)
	}
	if out.Item == nil {
		return nil, common.ErrorNotFound
	}

	account := &Account{}
	if err := attributevalue.UnmarshalMap(out.Item, account); err != nil {
		return nil, fmt.Errorf("dynamodb unmarshal error: %w", err)
	}

	return account, nil
}

func (r *DynamoRepository) Save(ctx context.Context, account *Account) error {
	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		return fmt.Errorf("dynamodb marshal error: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put error: %w", err)
	}

	return nil
}
