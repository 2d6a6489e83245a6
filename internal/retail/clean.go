package retail

import "strings"

// Clean applies the standard cleaning steps to raw lines, in order:
//   - drop rows without a customer id
//   - drop cancellation invoices (prefixed with CancellationPrefix)
//   - drop non-positive quantities
//   - trim descriptions and drop empty ones
//
// The input slice is not modified.
func Clean(lines []TransactionLine) ([]TransactionLine, CleanReport) {
	report := CleanReport{Original: len(lines)}

	out := make([]TransactionLine, 0, len(lines))
	for _, l := range lines {
		if l.CustomerID == nil || strings.TrimSpace(*l.CustomerID) == "" {
			continue
		}
		out = append(out, l)
	}
	report.WithCustomer = len(out)

	out = keep(out, func(l TransactionLine) bool {
		return !strings.HasPrefix(l.InvoiceID, CancellationPrefix)
	})
	report.WithoutReturns = len(out)

	out = keep(out, func(l TransactionLine) bool { return l.Quantity > 0 })
	report.PositiveQuantity = len(out)

	for i := range out {
		out[i].Description = strings.TrimSpace(out[i].Description)
	}
	out = keep(out, func(l TransactionLine) bool { return l.Description != "" })
	report.WithDescription = len(out)

	return out, report
}

// keep filters lines in place.
func keep(lines []TransactionLine, pred func(TransactionLine) bool) []TransactionLine {
	n := 0
	for _, l := range lines {
		if pred(l) {
			lines[n] = l
			n++
		}
	}
	return lines[:n]
}
