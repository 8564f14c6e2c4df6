package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-admin/internal/aws"
	"github.com/imrishuroy/storefront-admin/internal/history"
	"github.com/imrishuroy/storefront-admin/internal/orders"
)

// Processor records status changes published by the admin API.
type Processor struct {
	history *history.Store
	orders  *orders.Store
}

// NewProcessor creates a new worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients, historyTable, ordersTable string, ttl time.Duration) *Processor {
	return &Processor{
		history: history.NewStore(clients.DynamoDB, historyTable, ttl),
		orders:  orders.NewStore(clients.DynamoDB, ordersTable),
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	zap.L().Debug("received sqs batch", zap.Int("records", len(ev.Records)))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Lambda retries the batch; repeated failures go to the DLQ.
			zap.L().Error("worker error", zap.String("message_id", rec.MessageId), zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var change history.StatusChange
	if err := json.Unmarshal([]byte(rec.Body), &change); err != nil {
		// retrying cannot fix the body
		zap.L().Error("dropping malformed message", zap.String("message_id", rec.MessageId), zap.Error(err))
		return nil
	}

	log := zap.L().With(
		zap.String("event_id", change.EventID),
		zap.String("order_id", change.OrderID),
		zap.String("session_id", change.SessionID))

	created, err := p.history.Record(ctx, change)
	if errors.Is(err, history.ErrMissingEventID) {
		log.Error("dropping status change without event id", zap.String("message_id", rec.MessageId))
		return nil
	}
	if err != nil {
		return fmt.Errorf("record status change: %w", err)
	}
	if !created {
		log.Info("duplicate status change delivery")
		return nil
	}
	log.Info("status change recorded", zap.String("from", change.From), zap.String("to", change.To))

	// A later change may already have overwritten the order; the audit entry
	// stands either way.
	order, err := p.orders.Get(ctx, change.OrderID)
	if err != nil {
		log.Warn("could not read order after recording change", zap.Error(err))
		return nil
	}
	switch {
	case order == nil:
		log.Warn("status change for unknown order")
	case order.Status != orders.Status(change.To):
		log.Info("status change superseded", zap.String("current", string(order.Status)))
	}
	return nil
}
