package validation

import (
	"testing"

	"github.com/imrishuroy/storefront-admin/internal/catalog"
)

func TestUpdateStatusRequest_Valid(t *testing.T) {
	v := New()
	for _, s := range []string{"Processing", "Shipped", "Delivered"} {
		if err := v.Struct(UpdateStatusRequest{Status: s}); err != nil {
			t.Fatalf("expected %s to be valid, got %v", s, err)
		}
	}
}

func TestUpdateStatusRequest_Invalid(t *testing.T) {
	v := New()
	for _, s := range []string{"", "Unknown", "delivered", "Cancelled"} {
		if err := v.Struct(UpdateStatusRequest{Status: s}); err == nil {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestLoginRequest_MissingPassword(t *testing.T) {
	if err := New().Struct(LoginRequest{}); err == nil {
		t.Fatal("expected validation error for missing password")
	}
}

func TestProduct_Validation(t *testing.T) {
	v := New()
	if err := v.Struct(catalog.Product{ID: 1, Title: "Lamp", Price: 3}); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}
	err := v.Struct(catalog.Product{Price: -1})
	if err == nil {
		t.Fatal("expected errors for missing id/title and negative price")
	}
	fields := validationErrorsToMap(err)
	for _, name := range []string{"id", "title", "price"} {
		if _, ok := fields[name]; !ok {
			t.Fatalf("missing field %q in %v", name, fields)
		}
	}
}
