package history

import "time"

// DefaultTable is the status audit table name.
const DefaultTable = "order_status_history"

// StatusChange is one admin status update. It travels over SQS and is
// persisted once per EventID in the history table.
type StatusChange struct {
	EventID      string    `dynamodbav:"event_id" json:"event_id"` // PK
	OrderID      string    `dynamodbav:"order_id" json:"order_id"`
	From         string    `dynamodbav:"from" json:"from"`
	FromExplicit bool      `dynamodbav:"from_explicit" json:"from_explicit"`
	To           string    `dynamodbav:"to" json:"to"`
	ChangedAt    time.Time `dynamodbav:"changed_at" json:"changed_at"`
	SessionID    string    `dynamodbav:"session_id,omitempty" json:"session_id,omitempty"`
	RecordedAt   time.Time `dynamodbav:"recorded_at" json:"-"`
	ExpiresAt    int64     `dynamodbav:"expires_at,omitempty" json:"-"` // TTL epoch seconds
}
