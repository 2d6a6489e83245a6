// Package analyzer computes pairwise association rules from retail baskets
// and answers recommendation queries over the resulting rule table.
//
// The pipeline is a sequence of pure passes:
//
//	lines -> Baskets -> Aggregate -> BuildRules -> *RuleTable
//
// A RuleTable is immutable once built; RuleTable.Recommend is safe for
// concurrent use.
package analyzer

import (
	"context"
	"slices"

	"github.com/blackwell-systems/cartlift/internal/retail"
)

// TrainOptions configures a training pass.
type TrainOptions struct {
	// Shards > 1 counts baskets concurrently across that many shards.
	Shards int
}

// Result is the output of a training pass.
type Result struct {
	Counts *Counts
	Table  *RuleTable
}

// Train runs the full pipeline over cleaned lines. It returns
// ErrDivisionUndefined when no invoice has two or more distinct products.
func Train(ctx context.Context, lines []retail.TransactionLine, opts TrainOptions) (*Result, error) {
	baskets := Baskets(slices.Values(lines))

	counts, err := AggregateSharded(ctx, baskets, opts.Shards)
	if err != nil {
		return nil, err
	}

	table, err := BuildRules(counts)
	if err != nil {
		return nil, err
	}

	return &Result{Counts: counts, Table: table}, nil
}
