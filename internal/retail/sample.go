package retail

import (
	"math/rand"
	"sort"
)

// ProductFrequencies counts lines per product description, most frequent
// first. Ties are ordered by description so the ranking is stable.
func ProductFrequencies(lines []TransactionLine) []ProductFrequency {
	counts := make(map[string]int)
	for _, l := range lines {
		counts[l.Description]++
	}

	freqs := make([]ProductFrequency, 0, len(counts))
	for desc, n := range counts {
		freqs = append(freqs, ProductFrequency{Description: desc, Lines: n})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Lines != freqs[j].Lines {
			return freqs[i].Lines > freqs[j].Lines
		}
		return freqs[i].Description < freqs[j].Description
	})
	return freqs
}

// Sample restricts lines to the most popular products and then to a random
// subset of invoices. The same seed always selects the same invoices for the
// same input.
func Sample(lines []TransactionLine, opts SampleOptions) ([]TransactionLine, SampleReport) {
	var report SampleReport
	out := lines

	if opts.TopProducts > 0 {
		freqs := ProductFrequencies(lines)
		if len(freqs) > opts.TopProducts {
			freqs = freqs[:opts.TopProducts]
		}
		report.TopProducts = freqs

		top := make(map[string]struct{}, len(freqs))
		for _, f := range freqs {
			top[f.Description] = struct{}{}
		}
		filtered := make([]TransactionLine, 0, len(out))
		for _, l := range out {
			if _, ok := top[l.Description]; ok {
				filtered = append(filtered, l)
			}
		}
		out = filtered
	}

	if opts.Invoices > 0 {
		// Unique invoices in first-seen order, so the shuffle input is
		// deterministic.
		var invoices []string
		seen := make(map[string]struct{})
		for _, l := range out {
			if _, ok := seen[l.InvoiceID]; !ok {
				seen[l.InvoiceID] = struct{}{}
				invoices = append(invoices, l.InvoiceID)
			}
		}

		if len(invoices) > opts.Invoices {
			rng := rand.New(rand.NewSource(opts.Seed))
			rng.Shuffle(len(invoices), func(i, j int) {
				invoices[i], invoices[j] = invoices[j], invoices[i]
			})
			chosen := make(map[string]struct{}, opts.Invoices)
			for _, id := range invoices[:opts.Invoices] {
				chosen[id] = struct{}{}
			}
			filtered := make([]TransactionLine, 0, len(out))
			for _, l := range out {
				if _, ok := chosen[l.InvoiceID]; ok {
					filtered = append(filtered, l)
				}
			}
			out = filtered
		}
	}

	invoices := make(map[string]struct{})
	products := make(map[string]struct{})
	for _, l := range out {
		invoices[l.InvoiceID] = struct{}{}
		products[l.Description] = struct{}{}
	}
	report.Lines = len(out)
	report.Invoices = len(invoices)
	report.UniqueProducts = len(products)

	return out, report
}
