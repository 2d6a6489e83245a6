package analyzer

import (
	"iter"

	"github.com/blackwell-systems/cartlift/internal/retail"
)

// Baskets groups cleaned transaction lines into one basket per invoice.
//
// Products are de-duplicated within an invoice (buying the same product
// twice still counts once) and keep their first-arrival order. Baskets with
// fewer than two distinct products are dropped. Invoices are yielded in the
// order they were first seen.
//
// The returned sequence consumes lines when iterated and should be ranged
// over once.
func Baskets(lines iter.Seq[retail.TransactionLine]) iter.Seq[Basket] {
	return func(yield func(Basket) bool) {
		var order []string
		groups := make(map[string]*basketBuilder)

		for line := range lines {
			b, ok := groups[line.InvoiceID]
			if !ok {
				b = &basketBuilder{seen: make(map[string]struct{})}
				groups[line.InvoiceID] = b
				order = append(order, line.InvoiceID)
			}
			b.add(line.Description)
		}

		for _, invoice := range order {
			b := groups[invoice]
			if len(b.items) < 2 {
				continue
			}
			if !yield(Basket{InvoiceID: invoice, Items: b.items}) {
				return
			}
		}
	}
}

type basketBuilder struct {
	items []string
	seen  map[string]struct{}
}

func (b *basketBuilder) add(product string) {
	if _, dup := b.seen[product]; dup {
		return
	}
	b.seen[product] = struct{}{}
	b.items = append(b.items, product)
}
