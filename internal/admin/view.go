package admin

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/storefront-admin/internal/orders"
)

const notAvailable = "N/A"

// OrderRow is one line of the order list.
type OrderRow struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	OrderDate      string `json:"order_date"`
	Total          string `json:"total"`
	Status         string `json:"status"`
	StatusExplicit bool   `json:"status_explicit"`
}

// ItemRow is one line item in the order detail.
type ItemRow struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// OrderDetail is the selected order view.
type OrderDetail struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	OrderDate      string    `json:"order_date"`
	Total          string    `json:"total"`
	DeliveryCharge string    `json:"delivery_charge"`
	Status         string    `json:"status"`
	StatusExplicit bool      `json:"status_explicit"`
	StatusOptions  []string  `json:"status_options"`
	Items          []ItemRow `json:"items"`
}

// Rows renders the order list at now.
func Rows(list []orders.Order, now time.Time) []OrderRow {
	rows := make([]OrderRow, 0, len(list))
	for _, o := range list {
		eff := o.Effective(now)
		rows = append(rows, OrderRow{
			ID:             o.ID,
			Email:          email(o),
			OrderDate:      displayDate(o),
			Total:          money(o.TotalAmount),
			Status:         eff.String(),
			StatusExplicit: eff.IsExplicit(),
		})
	}
	return rows
}

// Detail renders a single order at now.
func Detail(o orders.Order, now time.Time) OrderDetail {
	eff := o.Effective(now)
	d := OrderDetail{
		ID:             o.ID,
		Email:          email(o),
		OrderDate:      displayDate(o),
		Total:          money(o.TotalAmount),
		DeliveryCharge: money(o.DeliveryCharge),
		Status:         eff.String(),
		StatusExplicit: eff.IsExplicit(),
		Items:          make([]ItemRow, 0, len(o.Items)),
	}
	for _, s := range orders.WritableStatuses {
		d.StatusOptions = append(d.StatusOptions, string(s))
	}
	for _, it := range o.Items {
		category := it.Category
		if category == "" {
			category = notAvailable
		}
		d.Items = append(d.Items, ItemRow{
			Title:     it.Title,
			Category:  category,
			Price:     money(it.Price),
			Thumbnail: it.Thumbnail,
		})
	}
	return d
}

func email(o orders.Order) string {
	if e := o.Email(); e != "" {
		return e
	}
	return "Unknown"
}

func displayDate(o orders.Order) string {
	d := o.Date()
	if d == nil {
		return notAvailable
	}
	return d.Format("2006-01-02")
}

// money renders an amount with two decimals; missing and zero amounts are N/A.
func money(v *float64) string {
	if v == nil || *v == 0 {
		return notAvailable
	}
	return decimal.NewFromFloat(*v).StringFixed(2)
}
