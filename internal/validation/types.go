package validation

// LoginRequest is the payload for POST /admin/login
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// UpdateStatusRequest is the payload for PUT /admin/orders/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Processing Shipped Delivered"` // only writable statuses
}

// ProductsQuery is the query for GET /products
type ProductsQuery struct {
	Category string `form:"category"`
	Visible  int    `form:"visible" validate:"gte=0"`
}
