package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/imrishuroy/storefront-admin/internal/aws"
)

// Store persists status changes against DynamoDB.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration // zero keeps entries forever
	nowFunc   func() time.Time
}

// NewStore returns a configured Store.
// ttlWindow: how long entries are retained (e.g., 90*24*time.Hour), zero for no expiry.
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	if tableName == "" {
		tableName = DefaultTable
	}
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// ErrMissingEventID is returned when a change has no event id to dedupe on.
var ErrMissingEventID = errors.New("status change has no event id")

// Record stores change unless an entry with the same EventID exists.
// Returns (created=true, nil) on first delivery, (false, nil) for a duplicate.
func (s *Store) Record(ctx context.Context, change StatusChange) (bool, error) {
	if change.EventID == "" {
		return false, ErrMissingEventID
	}
	now := s.nowFunc().UTC()
	change.RecordedAt = now
	if s.ttlWindow > 0 {
		change.ExpiresAt = now.Add(s.ttlWindow).Unix()
	}

	item, err := attributevalue.MarshalMap(change)
	if err != nil {
		return false, fmt.Errorf("marshal status change: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(event_id)"),
	})
	if err != nil {
		var sc smithy.APIError
		if errors.As(err, &sc) && sc.ErrorCode() == "ConditionalCheckFailedException" {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}
	return true, nil
}

// ListByOrder returns every recorded change for orderID, oldest first.
func (s *Store) ListByOrder(ctx context.Context, orderID string) ([]StatusChange, error) {
	var (
		out   []StatusChange
		start map[string]types.AttributeValue
	)
	for {
		page, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:                 &s.tableName,
			FilterExpression:          awsString("order_id = :oid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":oid": &types.AttributeValueMemberS{Value: orderID}},
			ExclusiveStartKey:         start,
		})
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		var batch []StatusChange
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal history: %w", err)
		}
		out = append(out, batch...)
		if len(page.LastEvaluatedKey) == 0 {
			break
		}
		start = page.LastEvaluatedKey
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChangedAt.Before(out[j].ChangedAt) })
	return out, nil
}

// Helper
func awsString(s string) *string { return &s }
