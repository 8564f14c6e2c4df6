package handlers

import (
	"context"

	"github.com/imrishuroy/storefront-admin/internal/admin"
	"github.com/imrishuroy/storefront-admin/internal/basket"
	"github.com/imrishuroy/storefront-admin/internal/catalog"
	"github.com/imrishuroy/storefront-admin/internal/history"
)

// HistoryReader lists recorded status changes for an order.
type HistoryReader interface {
	ListByOrder(ctx context.Context, orderID string) ([]history.StatusChange, error)
}

// HandlerConfig groups dependencies for the HTTP handlers. Catalog,
// Baskets and History are optional; their routes are not registered when
// nil.
type HandlerConfig struct {
	Sessions *admin.Registry
	Tokens   *admin.TokenIssuer
	History  HistoryReader
	Catalog  *catalog.Client
	Baskets  *basket.Store
}
