package orders

import (
	"time"
)

// Order is a document in the orders table. Orders are written by the
// checkout flow; this service only reads them and sets Status.
type Order struct {
	ID             string   `dynamodbav:"id" json:"id"` // PK
	OrderDate      string   `dynamodbav:"orderDate,omitempty" json:"orderDate,omitempty"`
	Status         Status   `dynamodbav:"status,omitempty" json:"status,omitempty"` // explicit override
	TotalAmount    *float64 `dynamodbav:"totalAmount,omitempty" json:"totalAmount,omitempty"`
	DeliveryCharge *float64 `dynamodbav:"deliveryCharge,omitempty" json:"deliveryCharge,omitempty"`
	User           *User    `dynamodbav:"user,omitempty" json:"user,omitempty"`
	Items          []Item   `dynamodbav:"items,omitempty" json:"items,omitempty"`
}

// User is the customer snapshot embedded in an order.
type User struct {
	Email string `dynamodbav:"email,omitempty" json:"email,omitempty"`
}

// Item is a line item. Display-only.
type Item struct {
	ID        int      `dynamodbav:"id,omitempty" json:"id,omitempty"`
	Title     string   `dynamodbav:"title" json:"title"`
	Category  string   `dynamodbav:"category,omitempty" json:"category,omitempty"`
	Price     *float64 `dynamodbav:"price,omitempty" json:"price,omitempty"`
	Thumbnail string   `dynamodbav:"thumbnail,omitempty" json:"thumbnail,omitempty"`
}

// Date parses OrderDate. It returns nil when the date is absent or not a
// valid RFC 3339 timestamp.
func (o Order) Date() *time.Time {
	if o.OrderDate == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, o.OrderDate)
	if err != nil {
		return nil
	}
	return &t
}

// Effective returns the status shown for the order at now.
func (o Order) Effective(now time.Time) EffectiveStatus {
	if o.Status != "" {
		return Explicit(o.Status)
	}
	return Derived(o.Date(), now)
}

// Email returns the customer email, or "" when absent.
func (o Order) Email() string {
	if o.User == nil {
		return ""
	}
	return o.User.Email
}
