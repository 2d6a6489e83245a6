package retail

import "time"

// TransactionLine is a single line item of a retail invoice.
type TransactionLine struct {
	InvoiceID   string
	StockCode   string
	Description string
	Quantity    int
	InvoiceDate time.Time
	Price       float64
	CustomerID  *string // nil when the source row has no customer
	Country     string
}

// CancellationPrefix marks invoices that reverse an earlier sale.
const CancellationPrefix = "C"

// CleanReport records how many rows survived each cleaning step.
type CleanReport struct {
	Original         int
	WithCustomer     int
	WithoutReturns   int
	PositiveQuantity int
	WithDescription  int
}

// ProductFrequency is a product and the number of lines that mention it.
type ProductFrequency struct {
	Description string
	Lines       int
}

// SampleOptions controls the optional down-sampling applied before basket
// extraction. Zero values disable the corresponding step.
type SampleOptions struct {
	TopProducts int   // keep only the N most frequent products
	Invoices    int   // keep at most N distinct invoices
	Seed        int64 // PRNG seed for invoice selection
}

// SampleReport summarizes what Sample kept.
type SampleReport struct {
	TopProducts    []ProductFrequency
	Lines          int
	Invoices       int
	UniqueProducts int
}
