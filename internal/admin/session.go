package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/imrishuroy/storefront-admin/internal/history"
	"github.com/imrishuroy/storefront-admin/internal/orders"
)

var (
	ErrNotAuthenticated  = errors.New("session is not logged in")
	ErrOrderNotLoaded    = errors.New("order is not in the loaded collection")
	ErrStatusNotWritable = errors.New("status cannot be set explicitly")
)

// OrderStore reads the order collection and writes order statuses.
type OrderStore interface {
	List(ctx context.Context) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status orders.Status) error
}

// ChangeNotifier receives every applied status change.
type ChangeNotifier interface {
	Notify(ctx context.Context, change history.StatusChange) error
}

// CountPublisher receives the tally after it changes.
type CountPublisher interface {
	PublishCounts(ctx context.Context, metricName, dimension string, counts map[string]int) error
}

// TallyMode selects which bucket an update decrements.
type TallyMode int

const (
	// TallyExact decrements the order's effective status before the update.
	TallyExact TallyMode = iota
	// TallyLegacy decrements the date-derived status of the selected order,
	// ignoring any explicit status it had. An undated selected order counts
	// as Delivered. Counts can drift in this mode.
	TallyLegacy
)

// TallyMetric is the CloudWatch metric name for tally gauges.
const TallyMetric = "OrdersByStatus"

// Deps are the collaborators shared by all sessions.
type Deps struct {
	Store    OrderStore
	Notifier ChangeNotifier // optional
	Metrics  CountPublisher // optional
	Password string
	Mode     TallyMode
	Now      func() time.Time
}

// Session is one operator's view of the admin panel: the gate, the loaded
// order collection, the tally and the selected order. Methods are safe for
// concurrent use and run one at a time.
type Session struct {
	mu        sync.Mutex
	id        string
	createdAt time.Time
	deps      Deps
	gate      *Gate

	loaded   bool
	loadErr  error
	list     []orders.Order
	index    map[string]int
	tally    orders.Tally
	selected string
}

// NewSession returns a LoggedOut session.
func NewSession(id string, deps Deps) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Session{
		id:        id,
		createdAt: deps.Now(),
		deps:      deps,
		gate:      NewGate(deps.Password),
		index:     map[string]int{},
		tally:     orders.Tally{},
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// CreatedAt returns when the session was opened.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// State returns the gate state.
func (s *Session) State() GateState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.State()
}

// Login tries the gate. The first successful login loads the collection.
func (s *Session) Login(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasIn := s.gate.State() == LoggedIn
	if err := s.gate.Login(password); err != nil {
		zap.L().Info("admin login rejected", zap.String("session_id", s.id))
		return err
	}
	if !wasIn {
		zap.L().Info("admin logged in", zap.String("session_id", s.id))
		s.load(ctx)
	}
	return nil
}

// Load reads the collection if it has not been read in this session.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate.State() != LoggedIn {
		return ErrNotAuthenticated
	}
	if !s.loaded {
		s.load(ctx)
	}
	return nil
}

// Reload re-reads the collection and rebuilds the tally.
func (s *Session) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate.State() != LoggedIn {
		return ErrNotAuthenticated
	}
	s.load(ctx)
	return nil
}

// load must be called with mu held. A store failure is logged and leaves
// the session with no orders and an empty tally.
func (s *Session) load(ctx context.Context) {
	s.loaded = true
	list, err := s.deps.Store.List(ctx)
	if err != nil {
		zap.L().Error("failed to load orders", zap.String("session_id", s.id), zap.Error(err))
		s.loadErr = err
		s.list = nil
		s.index = map[string]int{}
		s.tally = orders.Tally{}
		s.selected = ""
		return
	}

	s.loadErr = nil
	s.list = list
	s.index = make(map[string]int, len(list))
	for i, o := range list {
		s.index[o.ID] = i
	}
	s.tally = orders.BuildTally(list, s.deps.Now())
	if _, ok := s.index[s.selected]; !ok {
		s.selected = ""
	}
	zap.L().Info("orders loaded", zap.String("session_id", s.id), zap.Int("count", len(list)))
	s.publishTally(ctx)
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	State    GateState
	Orders   []orders.Order
	Tally    orders.Tally
	Selected *orders.Order
	LoadErr  error
	Now      time.Time
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:   s.gate.State(),
		Orders:  append([]orders.Order(nil), s.list...),
		Tally:   s.tally.Clone(),
		LoadErr: s.loadErr,
		Now:     s.deps.Now(),
	}
	if i, ok := s.index[s.selected]; ok {
		sel := s.list[i]
		snap.Selected = &sel
	}
	return snap
}

// Select makes orderID the selected order and returns it.
func (s *Session) Select(orderID string) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gate.State() != LoggedIn {
		return orders.Order{}, ErrNotAuthenticated
	}
	i, ok := s.index[orderID]
	if !ok {
		return orders.Order{}, fmt.Errorf("%w: %s", ErrOrderNotLoaded, orderID)
	}
	s.selected = orderID
	return s.list[i], nil
}

// UpdateResult reports the outcome of UpdateStatus. When Err is set the
// session state is unchanged.
type UpdateResult struct {
	OrderID string
	Prior   orders.EffectiveStatus
	Status  orders.Status
	Order   orders.Order
	Tally   orders.Tally
	Err     error
}

// OK reports whether the update was applied.
func (r UpdateResult) OK() bool { return r.Err == nil }

// UpdateStatus writes status to the store and, only once the write has
// succeeded, applies it to the loaded order, the selection and the tally.
// The updated order becomes the selected order.
func (s *Session) UpdateStatus(ctx context.Context, orderID string, status orders.Status) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := UpdateResult{OrderID: orderID, Status: status}
	if s.gate.State() != LoggedIn {
		res.Err = ErrNotAuthenticated
		return res
	}
	if !status.Writable() {
		res.Err = fmt.Errorf("%w: %q", ErrStatusNotWritable, status)
		return res
	}
	i, ok := s.index[orderID]
	if !ok {
		res.Err = fmt.Errorf("%w: %s", ErrOrderNotLoaded, orderID)
		return res
	}

	now := s.deps.Now()
	target := s.list[i]
	res.Prior = target.Effective(now)

	if err := s.deps.Store.UpdateStatus(ctx, orderID, status); err != nil {
		zap.L().Error("failed to update order status",
			zap.String("session_id", s.id),
			zap.String("order_id", orderID),
			zap.String("status", string(status)),
			zap.Error(err))
		res.Err = err
		res.Tally = s.tally.Clone()
		res.Order = target
		return res
	}

	decrement := res.Prior.Status()
	if s.deps.Mode == TallyLegacy {
		basis := target
		if j, ok := s.index[s.selected]; ok {
			basis = s.list[j]
		}
		decrement = orders.StatusDelivered
		if d := basis.Date(); d != nil {
			decrement = orders.Classify(d, now)
		}
	}

	target.Status = status
	s.list[i] = target
	s.selected = orderID
	s.tally.Move(decrement, status)

	res.Order = target
	res.Tally = s.tally.Clone()

	zap.L().Info("order status updated",
		zap.String("session_id", s.id),
		zap.String("order_id", orderID),
		zap.String("from", res.Prior.String()),
		zap.String("to", string(status)))

	if s.deps.Notifier != nil {
		change := history.NewChange(orderID, res.Prior.String(), res.Prior.IsExplicit(), string(status), now)
		change.SessionID = s.id
		if err := s.deps.Notifier.Notify(ctx, change); err != nil {
			zap.L().Warn("failed to publish status change", zap.String("order_id", orderID), zap.Error(err))
		}
	}
	s.publishTally(ctx)
	return res
}

func (s *Session) publishTally(ctx context.Context) {
	if s.deps.Metrics == nil {
		return
	}
	if err := s.deps.Metrics.PublishCounts(ctx, TallyMetric, "Status", s.tally.Counts()); err != nil {
		zap.L().Warn("failed to publish tally metrics", zap.Error(err))
	}
}
