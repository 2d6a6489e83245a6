package analyzer

import (
	"reflect"
	"slices"
	"testing"

	"github.com/blackwell-systems/cartlift/internal/retail"
)

// invoiceLines builds one line per product on the given invoice.
func invoiceLines(invoice string, products ...string) []retail.TransactionLine {
	var lines []retail.TransactionLine
	for _, p := range products {
		lines = append(lines, retail.TransactionLine{
			InvoiceID:   invoice,
			Description: p,
			Quantity:    1,
		})
	}
	return lines
}

// scenarioLines is the four-basket example: {A,B,C}, {A,B}, {B,C}, {A,C}.
func scenarioLines() []retail.TransactionLine {
	var lines []retail.TransactionLine
	lines = append(lines, invoiceLines("1", "A", "B", "C")...)
	lines = append(lines, invoiceLines("2", "A", "B")...)
	lines = append(lines, invoiceLines("3", "B", "C")...)
	lines = append(lines, invoiceLines("4", "A", "C")...)
	return lines
}

func collectBaskets(lines []retail.TransactionLine) []Basket {
	return slices.Collect(Baskets(slices.Values(lines)))
}

func TestBaskets_GroupsByInvoice(t *testing.T) {
	got := collectBaskets(scenarioLines())

	want := []Basket{
		{InvoiceID: "1", Items: []string{"A", "B", "C"}},
		{InvoiceID: "2", Items: []string{"A", "B"}},
		{InvoiceID: "3", Items: []string{"B", "C"}},
		{InvoiceID: "4", Items: []string{"A", "C"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Baskets() = %v, want %v", got, want)
	}
}

func TestBaskets_DropsSingleItemBaskets(t *testing.T) {
	var lines []retail.TransactionLine
	lines = append(lines, invoiceLines("1", "A")...)
	lines = append(lines, invoiceLines("2", "A", "B")...)
	lines = append(lines, invoiceLines("3", "C", "C", "C")...) // one distinct product

	got := collectBaskets(lines)
	if len(got) != 1 {
		t.Fatalf("got %d baskets, want 1: %v", len(got), got)
	}
	if got[0].InvoiceID != "2" {
		t.Errorf("InvoiceID = %s, want 2", got[0].InvoiceID)
	}
}

func TestBaskets_DeduplicatesAndKeepsArrivalOrder(t *testing.T) {
	lines := invoiceLines("9", "TEA", "MUG", "TEA", "SPOON", "MUG")

	got := collectBaskets(lines)
	if len(got) != 1 {
		t.Fatalf("got %d baskets, want 1", len(got))
	}
	want := []string{"TEA", "MUG", "SPOON"}
	if !reflect.DeepEqual(got[0].Items, want) {
		t.Errorf("Items = %v, want %v", got[0].Items, want)
	}
}

func TestBaskets_InterleavedInvoices(t *testing.T) {
	lines := []retail.TransactionLine{
		{InvoiceID: "1", Description: "A"},
		{InvoiceID: "2", Description: "X"},
		{InvoiceID: "1", Description: "B"},
		{InvoiceID: "2", Description: "Y"},
	}

	got := collectBaskets(lines)
	want := []Basket{
		{InvoiceID: "1", Items: []string{"A", "B"}},
		{InvoiceID: "2", Items: []string{"X", "Y"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Baskets() = %v, want %v", got, want)
	}
}

func TestBaskets_EarlyStop(t *testing.T) {
	n := 0
	for range Baskets(slices.Values(scenarioLines())) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated %d baskets, want 2", n)
	}
}

func TestBaskets_Empty(t *testing.T) {
	got := collectBaskets(nil)
	if len(got) != 0 {
		t.Errorf("expected no baskets, got %v", got)
	}
}
