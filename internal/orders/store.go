package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-admin/internal/aws"
)

// DefaultTable is the orders collection name.
const DefaultTable = "orders"

// ErrStoreUnavailable wraps every failure talking to the orders table.
var ErrStoreUnavailable = errors.New("order store unavailable")

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	if tableName == "" {
		tableName = DefaultTable
	}
	return &Store{
		client:    client,
		tableName: tableName,
	}
}

// List reads the whole orders table, following Scan pagination.
func (s *Store) List(ctx context.Context) ([]Order, error) {
	var (
		out   []Order
		start map[string]types.AttributeValue
	)
	for {
		page, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, unavailable("scan", err)
		}
		for _, item := range page.Items {
			var o Order
			if err := attributevalue.UnmarshalMap(item, &o); err != nil {
				return nil, unavailable("unmarshal order", err)
			}
			if o.OrderDate != "" && o.Date() == nil {
				zap.L().Warn("order has malformed orderDate",
					zap.String("order_id", o.ID), zap.String("order_date", o.OrderDate))
			}
			out = append(out, o)
		}
		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		start = page.LastEvaluatedKey
	}
}

// Get fetches an order by id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key:       orderKey(orderID),
	})
	if err != nil {
		return nil, unavailable("get item", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, unavailable("unmarshal order", err)
	}
	return &o, nil
}

// UpdateStatus sets the explicit status of an order. It is the only write
// this service performs on the orders table. An order missing from the
// table is never recreated; the conditional check fails instead.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	input := &dyn.UpdateItemInput{
		TableName:                &s.tableName,
		Key:                      orderKey(orderID),
		UpdateExpression:         awsString("SET #s = :new"),
		ConditionExpression:      awsString("attribute_exists(id)"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":new": &types.AttributeValueMemberS{Value: string(status)},
		},
	}
	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		return unavailable("update item", err)
	}
	return nil
}

func orderKey(orderID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: orderID},
	}
}

// unavailable wraps err so that errors.Is(err, ErrStoreUnavailable) holds
// while the SDK error stays reachable through errors.As.
func unavailable(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s (%s): %w", ErrStoreUnavailable, op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

func awsString(s string) *string { return &s }
