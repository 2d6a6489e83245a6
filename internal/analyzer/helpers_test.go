package analyzer

import (
	"fmt"

	"github.com/blackwell-systems/cartlift/internal/retail"
)

// syntheticLines generates n invoices with overlapping product sets. The
// output is deterministic; some invoices collapse to a single product.
func syntheticLines(n int) []retail.TransactionLine {
	var lines []retail.TransactionLine
	for i := 0; i < n; i++ {
		invoice := fmt.Sprintf("INV%04d", i)
		products := []string{
			fmt.Sprintf("P%d", i%7),
			fmt.Sprintf("P%d", (i*3)%11),
			fmt.Sprintf("P%d", (i*5)%13),
		}
		// Every fourth invoice buys only one product.
		if i%4 == 0 {
			products = products[:1]
		}
		lines = append(lines, invoiceLines(invoice, products...)...)
	}
	return lines
}
