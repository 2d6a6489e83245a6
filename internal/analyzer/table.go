package analyzer

import (
	"slices"
	"sort"
)

// RuleTable is a frozen collection of rules. It is never modified after
// construction, so any number of goroutines may query it concurrently.
type RuleTable struct {
	rules     []Rule
	byProduct map[string][]int // product -> indexes into rules, ascending
}

// NewRuleTable freezes rules in the given order. It is used when loading a
// persisted table; BuildRules produces tables directly from counts.
func NewRuleTable(rules []Rule) *RuleTable {
	return newRuleTable(slices.Clone(rules))
}

func newRuleTable(rules []Rule) *RuleTable {
	idx := make(map[string][]int)
	for i, r := range rules {
		idx[r.ProductA] = append(idx[r.ProductA], i)
		idx[r.ProductB] = append(idx[r.ProductB], i)
	}
	return &RuleTable{rules: rules, byProduct: idx}
}

// Len returns the number of rules.
func (t *RuleTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Rules returns a copy of all rules in table order.
func (t *RuleTable) Rules() []Rule {
	if t == nil {
		return nil
	}
	return slices.Clone(t.rules)
}

// Top returns up to n rules in table order. n <= 0 returns all rules.
func (t *RuleTable) Top(n int) []Rule {
	if t == nil {
		return nil
	}
	if n <= 0 || n > len(t.rules) {
		n = len(t.rules)
	}
	return slices.Clone(t.rules[:n])
}

// Filter returns the rules with support >= minSupport and lift >= minLift,
// in table order.
func (t *RuleTable) Filter(minSupport, minLift float64) []Rule {
	if t == nil {
		return nil
	}
	var out []Rule
	for _, r := range t.rules {
		if r.Support >= minSupport && r.Lift >= minLift {
			out = append(out, r)
		}
	}
	return out
}

// Products returns every product that appears in at least one rule, sorted.
func (t *RuleTable) Products() []string {
	if t == nil {
		return nil
	}
	products := make([]string, 0, len(t.byProduct))
	for p := range t.byProduct {
		products = append(products, p)
	}
	sort.Strings(products)
	return products
}

// Contains reports whether the product appears in any rule.
func (t *RuleTable) Contains(product string) bool {
	if t == nil {
		return false
	}
	_, ok := t.byProduct[product]
	return ok
}
