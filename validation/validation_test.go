package validation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("nombre", "  ", v)
	Required("email", "x@example.com", v)
	if v["nombre"] != "required" {
		t.Fatalf("violations = %v", v)
	}
	if _, ok := v["email"]; ok {
		t.Fatalf("email no debería estar marcado: %v", v)
	}
}

func TestPositiveDecimal(t *testing.T) {
	v := Violations{}
	PositiveDecimal("cantidad", decimal.Zero, v)
	PositiveDecimal("costo", decimal.NewFromInt(-3), v)
	PositiveDecimal("ok", decimal.NewFromFloat(0.01), v)
	if len(v) != 2 || v["cantidad"] != "must_be_positive" || v["costo"] != "must_be_positive" {
		t.Fatalf("violations = %v", v)
	}
}

func TestISODate(t *testing.T) {
	v := Violations{}
	ISODate("ok", "2024-03-01", v)
	ISODate("mal", "01/03/2024", v)
	ISODate("imposible", "2024-02-30", v)
	if len(v) != 2 || v["mal"] != "invalid_date" || v["imposible"] != "invalid_date" {
		t.Fatalf("violations = %v", v)
	}
}

func TestDateOrder(t *testing.T) {
	v := Violations{}
	DateOrder("rango", "2024-03-31", "2024-03-01", v)
	DateOrder("igual", "2024-03-01", "2024-03-01", v)
	if v["rango"] != "inverted_range" {
		t.Fatalf("violations = %v", v)
	}
	if _, ok := v["igual"]; ok {
		t.Fatalf("rango de un día es válido: %v", v)
	}
}
