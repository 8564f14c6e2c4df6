package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sender delivers a message body with string attributes. *aws.Publisher
// satisfies it.
type Sender interface {
	Send(ctx context.Context, messageBody string, attributes map[string]string) error
}

// Notifier publishes status changes for the history worker.
type Notifier struct {
	sender Sender
}

// NewNotifier wraps sender.
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// NewChange builds a StatusChange with a fresh event id.
func NewChange(orderID, from string, fromExplicit bool, to string, at time.Time) StatusChange {
	return StatusChange{
		EventID:      uuid.NewString(),
		OrderID:      orderID,
		From:         from,
		FromExplicit: fromExplicit,
		To:           to,
		ChangedAt:    at.UTC(),
	}
}

// Notify sends change as JSON.
func (n *Notifier) Notify(ctx context.Context, change StatusChange) error {
	body, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}
	attrs := map[string]string{
		"event_id":   change.EventID,
		"order_id":   change.OrderID,
		"session_id": change.SessionID,
	}
	return n.sender.Send(ctx, string(body), attrs)
}
