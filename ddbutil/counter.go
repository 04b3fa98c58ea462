package ddbutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrItemMissing is returned by Increment when the keyed item does not exist.
var ErrItemMissing = errors.New("item does not exist")

type UpdateItemAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Increment atomically adds delta to a numeric attribute of an existing item.
// The first key attribute name guards against creating a new item.
func Increment(ctx context.Context, client UpdateItemAPI, table string, hashKey string, hashValue any, attr string, delta int) error {
	key, err := attributevalue.MarshalMap(map[string]any{hashKey: hashValue})
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}

	update := expression.Add(expression.Name(attr), expression.Value(delta))
	cond := expression.AttributeExists(expression.Name(hashKey))
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(cond).
		Build()
	if err != nil {
		return fmt.Errorf("build increment expression: %w", err)
	}

	_, err = client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key,
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrItemMissing
		}
		return fmt.Errorf("increment %s.%s: %w", table, attr, err)
	}
	return nil
}
