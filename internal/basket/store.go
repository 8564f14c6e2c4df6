package basket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	radix "github.com/mediocregopher/radix/v3"

	"github.com/imrishuroy/storefront-admin/internal/catalog"
)

// Kind names a per-client product list.
type Kind string

const (
	Wishlist Kind = "wishlist"
	Cart     Kind = "cart"
)

// ErrUnknownKind is returned for list names other than wishlist and cart.
var ErrUnknownKind = errors.New("unknown basket kind")

// ParseKind validates a list name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Wishlist, Cart:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Store keeps wishlists and carts as Redis hashes keyed by product id, so a
// product appears at most once per list.
type Store struct {
	redis radix.Client
}

// NewStore wraps a Redis client.
func NewStore(client radix.Client) *Store {
	return &Store{redis: client}
}

func key(kind Kind, client string) string {
	return string(kind) + ":" + client
}

// Add stores p in the list unless a product with the same id is already
// there. It reports whether p was added.
func (s *Store) Add(ctx context.Context, kind Kind, client string, p catalog.Product) (bool, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("marshal product: %w", err)
	}
	var added int
	if err := s.redis.Do(radix.Cmd(&added, "HSETNX", key(kind, client), strconv.Itoa(p.ID), string(body))); err != nil {
		return false, fmt.Errorf("hsetnx %s: %w", kind, err)
	}
	return added == 1, nil
}

// List returns the products in the list ordered by id.
func (s *Store) List(ctx context.Context, kind Kind, client string) ([]catalog.Product, error) {
	var raw []string
	if err := s.redis.Do(radix.Cmd(&raw, "HVALS", key(kind, client))); err != nil {
		return nil, fmt.Errorf("hvals %s: %w", kind, err)
	}
	out := make([]catalog.Product, 0, len(raw))
	for _, r := range raw {
		var p catalog.Product
		if err := json.Unmarshal([]byte(r), &p); err != nil {
			return nil, fmt.Errorf("unmarshal %s entry: %w", kind, err)
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Remove deletes productID from the list and reports whether it was there.
func (s *Store) Remove(ctx context.Context, kind Kind, client string, productID int) (bool, error) {
	var removed int
	if err := s.redis.Do(radix.Cmd(&removed, "HDEL", key(kind, client), strconv.Itoa(productID))); err != nil {
		return false, fmt.Errorf("hdel %s: %w", kind, err)
	}
	return removed == 1, nil
}
