package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Recommend returns up to opts.TopN products associated with product.
//
// A rule where product is ProductA yields ProductB with confidence A→B; a
// rule where product is ProductB yields ProductA with confidence B→A. Only
// rules with lift >= opts.MinLift qualify. Results are ordered by lift,
// confidence and support (descending); fully tied rows are ordered by
// recommended product name, then A→B before B→A.
//
// An empty result is not an error: the product is unknown or nothing clears
// MinLift. An empty product name or a non-positive TopN returns
// ErrInvalidArgument.
func (t *RuleTable) Recommend(product string, opts QueryOptions) ([]Recommendation, error) {
	if strings.TrimSpace(product) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrInvalidArgument)
	}
	if opts.TopN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", ErrInvalidArgument, opts.TopN)
	}
	if math.IsNaN(opts.MinLift) {
		return nil, fmt.Errorf("%w: min_lift must be a number", ErrInvalidArgument)
	}

	recs := []Recommendation{}
	if t == nil {
		return recs, nil
	}

	for _, i := range t.byProduct[product] {
		r := t.rules[i]
		if r.Lift < opts.MinLift {
			continue
		}
		switch product {
		case r.ProductA:
			recs = append(recs, Recommendation{
				RecommendedProduct: r.ProductB,
				Support:            r.Support,
				Confidence:         r.ConfidenceAToB,
				Lift:               r.Lift,
				Count:              r.Count,
				Direction:          DirectionAToB,
			})
		case r.ProductB:
			recs = append(recs, Recommendation{
				RecommendedProduct: r.ProductA,
				Support:            r.Support,
				Confidence:         r.ConfidenceBToA,
				Lift:               r.Lift,
				Count:              r.Count,
				Direction:          DirectionBToA,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recommendationLess(recs[i], recs[j])
	})

	if len(recs) > opts.TopN {
		recs = recs[:opts.TopN]
	}
	return recs, nil
}

func recommendationLess(a, b Recommendation) bool {
	if a.Lift != b.Lift {
		return a.Lift > b.Lift
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Support != b.Support {
		return a.Support > b.Support
	}
	if a.RecommendedProduct != b.RecommendedProduct {
		return a.RecommendedProduct < b.RecommendedProduct
	}
	return a.Direction == DirectionAToB && b.Direction == DirectionBToA
}
