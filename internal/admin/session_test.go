package admin

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/imrishuroy/storefront-admin/internal/history"
	"github.com/imrishuroy/storefront-admin/internal/orders"
)

var testNow = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	list      []orders.Order
	listErr   error
	updateErr error
	lists     int
	updates   []string
}

func (f *fakeStore) List(ctx context.Context) ([]orders.Order, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]orders.Order(nil), f.list...), nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, orderID string, status orders.Status) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, orderID+"="+string(status))
	return nil
}

type fakeNotifier struct{ changes []history.StatusChange }

func (f *fakeNotifier) Notify(ctx context.Context, c history.StatusChange) error {
	f.changes = append(f.changes, c)
	return nil
}

type fakeMetrics struct{ published []map[string]int }

func (f *fakeMetrics) PublishCounts(ctx context.Context, metric, dim string, counts map[string]int) error {
	f.published = append(f.published, counts)
	return nil
}

func threeOrders() []orders.Order {
	return []orders.Order{
		{ID: "recent", OrderDate: testNow.Add(-time.Hour).Format(time.RFC3339)},
		{ID: "middle", OrderDate: testNow.Add(-30 * time.Hour).Format(time.RFC3339)},
		{ID: "old", OrderDate: testNow.Add(-72 * time.Hour).Format(time.RFC3339)},
	}
}

func newTestSession(store OrderStore, mode TallyMode) (*Session, *fakeNotifier, *fakeMetrics) {
	n := &fakeNotifier{}
	m := &fakeMetrics{}
	s := NewSession("s1", Deps{
		Store:    store,
		Notifier: n,
		Metrics:  m,
		Password: "admin321",
		Mode:     mode,
		Now:      func() time.Time { return testNow },
	})
	return s, n, m
}

func TestSession_LoginLoadsOnce(t *testing.T) {
	store := &fakeStore{list: threeOrders()}
	s, _, m := newTestSession(store, TallyExact)
	ctx := context.Background()

	if err := s.Load(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated before login, got %v", err)
	}
	if err := s.Login(ctx, "admin321"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.lists != 1 {
		t.Fatalf("expected a single read per session, got %d", store.lists)
	}

	snap := s.Snapshot()
	want := orders.Tally{orders.StatusProcessing: 1, orders.StatusShipped: 1, orders.StatusDelivered: 1}
	if !reflect.DeepEqual(snap.Tally, want) {
		t.Fatalf("tally = %v, want %v", snap.Tally, want)
	}
	if len(m.published) != 1 {
		t.Fatalf("expected tally metrics after load, got %d", len(m.published))
	}

	if err := s.Reload(ctx); err != nil || store.lists != 2 {
		t.Fatalf("reload should read again: err=%v lists=%d", err, store.lists)
	}
}

func TestSession_UpdateMovesTally(t *testing.T) {
	store := &fakeStore{list: threeOrders()}
	s, notifier, _ := newTestSession(store, TallyExact)
	ctx := context.Background()
	if err := s.Login(ctx, "admin321"); err != nil {
		t.Fatal(err)
	}

	res := s.UpdateStatus(ctx, "recent", orders.StatusDelivered)
	if !res.OK() {
		t.Fatalf("update failed: %v", res.Err)
	}
	want := orders.Tally{orders.StatusProcessing: 0, orders.StatusShipped: 1, orders.StatusDelivered: 2}
	if !reflect.DeepEqual(res.Tally, want) {
		t.Fatalf("tally = %v, want %v", res.Tally, want)
	}
	if res.Prior.Status() != orders.StatusProcessing || res.Prior.IsExplicit() {
		t.Fatalf("unexpected prior %+v", res.Prior)
	}

	snap := s.Snapshot()
	if snap.Selected == nil || snap.Selected.ID != "recent" || snap.Selected.Status != orders.StatusDelivered {
		t.Fatalf("selection not refreshed: %+v", snap.Selected)
	}
	if store.updates[0] != "recent=Delivered" {
		t.Fatalf("store not written: %v", store.updates)
	}
	if len(notifier.changes) != 1 || notifier.changes[0].From != "Processing" || notifier.changes[0].SessionID != "s1" {
		t.Fatalf("unexpected change events: %+v", notifier.changes)
	}
}

// An order that already carries an explicit status must be decremented from
// that status, not from its date-derived one.
func TestSession_UpdateUsesPriorExplicitStatus(t *testing.T) {
	list := threeOrders()
	list[0].Status = orders.StatusShipped // recent, explicitly Shipped
	store := &fakeStore{list: list}
	s, _, _ := newTestSession(store, TallyExact)
	ctx := context.Background()
	if err := s.Login(ctx, "admin321"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Select("recent"); err != nil {
		t.Fatal(err)
	}

	res := s.UpdateStatus(ctx, "recent", orders.StatusDelivered)
	want := orders.Tally{orders.StatusShipped: 1, orders.StatusDelivered: 2}
	if !reflect.DeepEqual(res.Tally, want) {
		t.Fatalf("tally = %v, want %v", res.Tally, want)
	}
	if res.Tally.Total() != 3 {
		t.Fatalf("sum invariant broken: %v", res.Tally)
	}
}

func TestSession_LegacyModeDecrementsDerivedStatus(t *testing.T) {
	list := threeOrders()
	list[0].Status = orders.StatusShipped
	store := &fakeStore{list: list}
	s, _, _ := newTestSession(store, TallyLegacy)
	ctx := context.Background()
	if err := s.Login(ctx, "admin321"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Select("recent"); err != nil {
		t.Fatal(err)
	}

	res := s.UpdateStatus(ctx, "recent", orders.StatusDelivered)
	// Processing is floored at zero and Shipped keeps the stale count.
	want := orders.Tally{orders.StatusProcessing: 0, orders.StatusShipped: 2, orders.StatusDelivered: 2}
	if !reflect.DeepEqual(res.Tally, want) {
		t.Fatalf("tally = %v, want %v", res.Tally, want)
	}
}

func TestSession_LegacyModeUndatedOrderDecrementsDelivered(t *testing.T) {
	list := append(threeOrders(), orders.Order{ID: "undated"})
	store := &fakeStore{list: list}
	s, _, _ := newTestSession(store, TallyLegacy)
	ctx := context.Background()
	if err := s.Login(ctx, "admin321"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Select("undated"); err != nil {
		t.Fatal(err)
	}

	res := s.UpdateStatus(ctx, "undated", orders.StatusShipped)
	want := orders.Tally{
		orders.StatusProcessing: 1,
		orders.StatusShipped:    2,
		orders.StatusDelivered:  0,
		orders.StatusUnknown:    1,
	}
	if !reflect.DeepEqual(res.Tally, want) {
		t.Fatalf("tally = %v, want %v", res.Tally, want)
	}
}

func TestSession_UpdateFailureLeavesStateUntouched(t *testing.T) {
	store := &fakeStore{list: threeOrders()}
	s, notifier, _ := newTestSession(store, TallyExact)
	ctx := context.Background()
	if err := s.Login(ctx, "admin321"); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot()

	store.updateErr = orders.ErrStoreUnavailable
	res := s.UpdateStatus(ctx, "recent", orders.StatusDelivered)
	if res.OK() || !errors.Is(res.Err, orders.ErrStoreUnavailable) {
		t.Fatalf("expected store error, got %v", res.Err)
	}

	after := s.Snapshot()
	if !reflect.DeepEqual(before.Tally, after.Tally) {
		t.Fatalf("tally changed on failure: %v -> %v", before.Tally, after.Tally)
	}
	if after.Orders[0].Status != "" {
		t.Fatalf("order mutated on failure: %+v", after.Orders[0])
	}
	if after.Selected != nil {
		t.Fatalf("selection changed on failure")
	}
	if len(notifier.changes) != 0 {
		t.Fatalf("change published on failure")
	}
}

func TestSession_LoadFailureShowsEmptyState(t *testing.T) {
	store := &fakeStore{listErr: orders.ErrStoreUnavailable}
	s, _, _ := newTestSession(store, TallyExact)
	ctx := context.Background()

	if err := s.Login(ctx, "admin321"); err != nil {
		t.Fatalf("login must not fail on load error: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Orders) != 0 || len(snap.Tally) != 0 {
		t.Fatalf("expected empty state, got %d orders, tally %v", len(snap.Orders), snap.Tally)
	}
	if !errors.Is(snap.LoadErr, orders.ErrStoreUnavailable) {
		t.Fatalf("load error not recorded: %v", snap.LoadErr)
	}
}

func TestSession_Guards(t *testing.T) {
	store := &fakeStore{list: threeOrders()}
	s, _, _ := newTestSession(store, TallyExact)
	ctx := context.Background()

	if res := s.UpdateStatus(ctx, "recent", orders.StatusShipped); !errors.Is(res.Err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", res.Err)
	}
	if _, err := s.Select("recent"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if err := s.Login(ctx, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := s.Login(ctx, "admin321"); err != nil {
		t.Fatal(err)
	}
	if res := s.UpdateStatus(ctx, "recent", orders.StatusUnknown); !errors.Is(res.Err, ErrStatusNotWritable) {
		t.Fatalf("expected ErrStatusNotWritable, got %v", res.Err)
	}
	if res := s.UpdateStatus(ctx, "ghost", orders.StatusShipped); !errors.Is(res.Err, ErrOrderNotLoaded) {
		t.Fatalf("expected ErrOrderNotLoaded, got %v", res.Err)
	}
	if _, err := s.Select("ghost"); !errors.Is(err, ErrOrderNotLoaded) {
		t.Fatalf("expected ErrOrderNotLoaded, got %v", err)
	}
	if len(store.updates) != 0 {
		t.Fatalf("guarded updates reached the store: %v", store.updates)
	}
}
