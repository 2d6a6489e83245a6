package analyzer

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Counts holds basket-presence counts for products and product pairs.
type Counts struct {
	Products     map[string]int // baskets containing the product
	Pairs        map[Pair]int   // baskets containing both products
	TotalBaskets int            // eligible baskets seen
}

// NewCounts returns empty counters.
func NewCounts() *Counts {
	return &Counts{
		Products: make(map[string]int),
		Pairs:    make(map[Pair]int),
	}
}

// Add counts one basket. Every distinct product is incremented once and
// every 2-combination of distinct products is incremented once, so a basket
// of k products contributes k product and k*(k-1)/2 pair increments.
// Baskets with fewer than two distinct products are ignored.
func (c *Counts) Add(b Basket) {
	items := distinctSorted(b.Items)
	if len(items) < 2 {
		return
	}

	c.TotalBaskets++
	for _, p := range items {
		c.Products[p]++
	}
	// items is sorted, so items[i] < items[j] already gives the canonical pair.
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			c.Pairs[Pair{A: items[i], B: items[j]}]++
		}
	}
}

// Merge adds other's counters into c key by key.
func (c *Counts) Merge(other *Counts) {
	if other == nil {
		return
	}
	c.TotalBaskets += other.TotalBaskets
	for p, n := range other.Products {
		c.Products[p] += n
	}
	for pair, n := range other.Pairs {
		c.Pairs[pair] += n
	}
}

// SortedPairs returns the observed pairs ordered by (A, B).
func (c *Counts) SortedPairs() []Pair {
	pairs := make([]Pair, 0, len(c.Pairs))
	for p := range c.Pairs {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// Aggregate counts every basket in the sequence in a single pass.
func Aggregate(baskets iter.Seq[Basket]) *Counts {
	c := NewCounts()
	for b := range baskets {
		c.Add(b)
	}
	return c
}

// AggregateSharded distributes baskets round-robin over shards, counts each
// shard concurrently and merges the partial counts. The result is identical
// to Aggregate over the same baskets.
func AggregateSharded(ctx context.Context, baskets iter.Seq[Basket], shards int) (*Counts, error) {
	if shards <= 1 {
		return Aggregate(baskets), nil
	}

	parts := make([][]Basket, shards)
	i := 0
	for b := range baskets {
		parts[i%shards] = append(parts[i%shards], b)
		i++
	}

	partial := make([]*Counts, shards)
	g, ctx := errgroup.WithContext(ctx)
	for s := range parts {
		g.Go(func() error {
			c := NewCounts()
			for n, b := range parts[s] {
				if n%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				c.Add(b)
			}
			partial[s] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to aggregate baskets: %w", err)
	}

	total := NewCounts()
	for _, c := range partial {
		total.Merge(c)
	}
	return total, nil
}

func distinctSorted(items []string) []string {
	out := slices.Clone(items)
	slices.Sort(out)
	return slices.Compact(out)
}
