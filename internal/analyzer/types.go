package analyzer

// Basket is the set of distinct products bought together on one invoice.
// Items keep the order in which each product first appeared on the invoice.
type Basket struct {
	InvoiceID string
	Items     []string
}

// Pair is an unordered product pair stored in canonical order (A < B), so
// (x, y) and (y, x) map to the same key.
type Pair struct {
	A string
	B string
}

// NewPair returns the canonical pair for two product names.
func NewPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Rule is the association between two products that co-occurred in at least
// one basket. All metrics are derived from basket-presence counts.
type Rule struct {
	ProductA       string  `json:"product_a"`
	ProductB       string  `json:"product_b"`
	Count          int     `json:"count"`
	Support        float64 `json:"support"`
	ConfidenceAToB float64 `json:"confidence_a_to_b"`
	ConfidenceBToA float64 `json:"confidence_b_to_a"`
	Lift           float64 `json:"lift"`
}

// Direction tells which side of a rule the queried product was on.
type Direction string

const (
	// DirectionAToB means the queried product is ProductA of the rule.
	DirectionAToB Direction = "A→B"
	// DirectionBToA means the queried product is ProductB of the rule.
	DirectionBToA Direction = "B→A"
)

// Recommendation is one ranked result of a recommendation query.
type Recommendation struct {
	RecommendedProduct string    `json:"recommended_product"`
	Support            float64   `json:"support"`
	Confidence         float64   `json:"confidence"`
	Lift               float64   `json:"lift"`
	Count              int       `json:"count"`
	Direction          Direction `json:"direction"`
}

// Query defaults.
const (
	DefaultTopN    = 5
	DefaultMinLift = 1.0
)

// QueryOptions bounds a recommendation query.
type QueryOptions struct {
	TopN    int     // maximum number of results, must be positive
	MinLift float64 // inclusive lower bound on lift
}

// DefaultQueryOptions returns top 5 with lift >= 1.0.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{TopN: DefaultTopN, MinLift: DefaultMinLift}
}
