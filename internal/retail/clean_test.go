package retail

import (
	"reflect"
	"testing"
)

func customer(id string) *string { return &id }

func TestClean(t *testing.T) {
	raw := []TransactionLine{
		{InvoiceID: "1", Description: "  MUG ", Quantity: 2, CustomerID: customer("42")},
		{InvoiceID: "1", Description: "TEA", Quantity: 1, CustomerID: nil},
		{InvoiceID: "2", Description: "TEA", Quantity: 1, CustomerID: customer("  ")},
		{InvoiceID: "C3", Description: "MUG", Quantity: -1, CustomerID: customer("42")},
		{InvoiceID: "4", Description: "SPOON", Quantity: 0, CustomerID: customer("7")},
		{InvoiceID: "5", Description: "   ", Quantity: 3, CustomerID: customer("7")},
		{InvoiceID: "6", Description: "PLATE", Quantity: 1, CustomerID: customer("7")},
	}

	got, report := Clean(raw)

	wantReport := CleanReport{
		Original:         7,
		WithCustomer:     5,
		WithoutReturns:   4,
		PositiveQuantity: 3,
		WithDescription:  2,
	}
	if report != wantReport {
		t.Errorf("report = %+v, want %+v", report, wantReport)
	}

	if len(got) != 2 {
		t.Fatalf("len(Clean()) = %d, want 2", len(got))
	}
	if got[0].Description != "MUG" || got[1].Description != "PLATE" {
		t.Errorf("descriptions = [%q %q], want [MUG PLATE]", got[0].Description, got[1].Description)
	}
	if raw[0].Description != "  MUG " {
		t.Error("Clean modified its input")
	}
}

func TestClean_Empty(t *testing.T) {
	got, report := Clean(nil)
	if len(got) != 0 || report != (CleanReport{}) {
		t.Errorf("Clean(nil) = %v, %+v", got, report)
	}
}

func TestClean_Idempotent(t *testing.T) {
	raw := []TransactionLine{
		{InvoiceID: "1", Description: " MUG", Quantity: 2, CustomerID: customer("42")},
		{InvoiceID: "C2", Description: "TEA", Quantity: 1, CustomerID: customer("42")},
	}
	once, _ := Clean(raw)
	twice, report := Clean(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second Clean() changed output: %v vs %v", once, twice)
	}
	if report.Original != report.WithDescription {
		t.Errorf("second Clean() dropped rows: %+v", report)
	}
}
