package analyzer

import (
	"fmt"
	"sort"
)

// BuildRules derives one rule per observed pair:
//
//	support           = n / T
//	confidence_a_to_b = n / count[A]
//	confidence_b_to_a = n / count[B]
//	lift              = n * T / (count[A] * count[B])
//
// where n is the pair count and T the number of eligible baskets. Lift uses
// the multiplicative form, which equals support / (P(A) * P(B)).
//
// Returns ErrDivisionUndefined when T is zero. The table is ordered by lift
// then support (both descending), then by product names.
func BuildRules(c *Counts) (*RuleTable, error) {
	if c == nil || c.TotalBaskets <= 0 {
		return nil, ErrDivisionUndefined
	}

	total := float64(c.TotalBaskets)
	rules := make([]Rule, 0, len(c.Pairs))

	for _, pair := range c.SortedPairs() {
		n := c.Pairs[pair]
		countA := c.Products[pair.A]
		countB := c.Products[pair.B]
		if countA <= 0 || countB <= 0 {
			return nil, fmt.Errorf("%w: (%q, %q)", ErrInconsistentCounts, pair.A, pair.B)
		}

		pairCount := float64(n)
		rules = append(rules, Rule{
			ProductA:       pair.A,
			ProductB:       pair.B,
			Count:          n,
			Support:        pairCount / total,
			ConfidenceAToB: pairCount / float64(countA),
			ConfidenceBToA: pairCount / float64(countB),
			Lift:           pairCount * total / (float64(countA) * float64(countB)),
		})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return reportLess(rules[i], rules[j])
	})

	return newRuleTable(rules), nil
}

// reportLess orders rules for reporting and storage.
func reportLess(a, b Rule) bool {
	if a.Lift != b.Lift {
		return a.Lift > b.Lift
	}
	if a.Support != b.Support {
		return a.Support > b.Support
	}
	if a.ProductA != b.ProductA {
		return a.ProductA < b.ProductA
	}
	return a.ProductB < b.ProductB
}
