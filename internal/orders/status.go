package orders

import (
	"time"
)

// Status is an order lifecycle state.
type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusUnknown    Status = "Unknown"
)

const (
	shippedAfter   = 24 * time.Hour
	deliveredAfter = 48 * time.Hour
)

// WritableStatuses are the only values an admin may set.
var WritableStatuses = []Status{StatusProcessing, StatusShipped, StatusDelivered}

// Writable reports whether s may be stored as an explicit status.
func (s Status) Writable() bool {
	for _, w := range WritableStatuses {
		if s == w {
			return true
		}
	}
	return false
}

// Classify derives a status from the order date. A nil date is Unknown.
// Up to and including 24h elapsed is Processing, up to and including 48h is
// Shipped, anything older is Delivered. Future dates are Processing.
func Classify(orderDate *time.Time, now time.Time) Status {
	if orderDate == nil {
		return StatusUnknown
	}
	elapsed := now.Sub(*orderDate)
	switch {
	case elapsed <= shippedAfter:
		return StatusProcessing
	case elapsed <= deliveredAfter:
		return StatusShipped
	default:
		return StatusDelivered
	}
}

// EffectiveStatus is either an explicit override or a status derived from
// the order date.
type EffectiveStatus struct {
	value    Status
	explicit bool
}

// Explicit wraps a stored status override.
func Explicit(s Status) EffectiveStatus {
	return EffectiveStatus{value: s, explicit: true}
}

// Derived classifies orderDate at now.
func Derived(orderDate *time.Time, now time.Time) EffectiveStatus {
	return EffectiveStatus{value: Classify(orderDate, now)}
}

// Status collapses the union to the status value.
func (e EffectiveStatus) Status() Status { return e.value }

// IsExplicit reports whether the status came from a stored override.
func (e EffectiveStatus) IsExplicit() bool { return e.explicit }

func (e EffectiveStatus) String() string { return string(e.value) }
