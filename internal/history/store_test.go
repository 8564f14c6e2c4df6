package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestRecord_DedupesByEventID(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "", 24*time.Hour)
	fixed := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	s.nowFunc = func() time.Time { return fixed }

	ctx := context.Background()
	change := NewChange("order-1", "Processing", false, "Shipped", fixed)

	created, err := s.Record(ctx, change)
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}

	// redelivery of the same event must not create a second entry
	created, err = s.Record(ctx, change)
	if err != nil {
		t.Fatalf("second Record error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on duplicate")
	}

	item := mock.table[change.EventID]
	if exp, ok := item["expires_at"].(*types.AttributeValueMemberN); !ok || exp.Value != "1727870400" {
		t.Fatalf("expires_at not set from ttl window: %+v", item["expires_at"])
	}
}

func TestRecord_MissingEventID(t *testing.T) {
	s := NewStore(newSimpleMock(), "", 0)
	if _, err := s.Record(context.Background(), StatusChange{OrderID: "o"}); !errors.Is(err, ErrMissingEventID) {
		t.Fatalf("expected ErrMissingEventID, got %v", err)
	}
}

func TestRecord_StoreError(t *testing.T) {
	mock := newSimpleMock()
	mock.putErr = errors.New("throttled")
	s := NewStore(mock, "", 0)
	created, err := s.Record(context.Background(), NewChange("o", "Unknown", false, "Shipped", time.Now()))
	if err == nil || created {
		t.Fatalf("expected error, got created=%v err=%v", created, err)
	}
}

func TestListByOrder_SortedOldestFirst(t *testing.T) {
	mock := newSimpleMock()
	s := NewStore(mock, "", 0)
	ctx := context.Background()
	base := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

	for _, c := range []StatusChange{
		NewChange("o1", "Shipped", true, "Delivered", base.Add(2*time.Hour)),
		NewChange("o2", "Processing", false, "Shipped", base),
		NewChange("o1", "Processing", false, "Shipped", base),
	} {
		if _, err := s.Record(ctx, c); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	got, err := s.ListByOrder(ctx, "o1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].To != "Shipped" || got[1].To != "Delivered" || !got[1].FromExplicit {
		t.Fatalf("unexpected order: %+v", got)
	}
}
