package analyzer

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"testing"
)

func TestNewPair_Canonical(t *testing.T) {
	if NewPair("B", "A") != NewPair("A", "B") {
		t.Error("NewPair should not depend on argument order")
	}
	p := NewPair("WHITE MUG", "RED MUG")
	if p.A != "RED MUG" || p.B != "WHITE MUG" {
		t.Errorf("NewPair = %+v, want A=RED MUG B=WHITE MUG", p)
	}
}

func TestAggregate_Scenario(t *testing.T) {
	c := Aggregate(Baskets(slices.Values(scenarioLines())))

	if c.TotalBaskets != 4 {
		t.Errorf("TotalBaskets = %d, want 4", c.TotalBaskets)
	}

	wantProducts := map[string]int{"A": 3, "B": 3, "C": 3}
	if !reflect.DeepEqual(c.Products, wantProducts) {
		t.Errorf("Products = %v, want %v", c.Products, wantProducts)
	}

	wantPairs := map[Pair]int{
		{A: "A", B: "B"}: 2,
		{A: "A", B: "C"}: 2,
		{A: "B", B: "C"}: 2,
	}
	if !reflect.DeepEqual(c.Pairs, wantPairs) {
		t.Errorf("Pairs = %v, want %v", c.Pairs, wantPairs)
	}
}

func TestCounts_Add_CombinatorialExpansion(t *testing.T) {
	for k := 0; k <= 12; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			items := make([]string, k)
			for i := range items {
				items[i] = fmt.Sprintf("P%02d", i)
			}

			c := NewCounts()
			c.Add(Basket{InvoiceID: "x", Items: items})

			wantPairs, wantProducts, wantBaskets := 0, 0, 0
			if k >= 2 {
				wantPairs = k * (k - 1) / 2
				wantProducts = k
				wantBaskets = 1
			}

			pairIncrements := 0
			for _, n := range c.Pairs {
				pairIncrements += n
			}
			productIncrements := 0
			for _, n := range c.Products {
				productIncrements += n
			}

			if pairIncrements != wantPairs {
				t.Errorf("pair increments = %d, want %d", pairIncrements, wantPairs)
			}
			if productIncrements != wantProducts {
				t.Errorf("product increments = %d, want %d", productIncrements, wantProducts)
			}
			if c.TotalBaskets != wantBaskets {
				t.Errorf("TotalBaskets = %d, want %d", c.TotalBaskets, wantBaskets)
			}
		})
	}
}

func TestCounts_Add_OrderIndependent(t *testing.T) {
	a := NewCounts()
	a.Add(Basket{Items: []string{"Z", "M", "A"}})
	b := NewCounts()
	b.Add(Basket{Items: []string{"A", "Z", "M"}})

	if !reflect.DeepEqual(a, b) {
		t.Errorf("counts differ by item order: %v vs %v", a, b)
	}
	if a.Pairs[Pair{A: "M", B: "Z"}] != 1 {
		t.Errorf("expected canonical pair (M, Z), got %v", a.Pairs)
	}
}

func TestCounts_Add_DuplicatesCountOnce(t *testing.T) {
	c := NewCounts()
	c.Add(Basket{Items: []string{"A", "A", "B"}})

	if c.Products["A"] != 1 {
		t.Errorf("Products[A] = %d, want 1", c.Products["A"])
	}
	if c.Pairs[Pair{A: "A", B: "B"}] != 1 {
		t.Errorf("Pairs[(A,B)] = %d, want 1", c.Pairs[Pair{A: "A", B: "B"}])
	}
}

func TestCounts_ProductCountBoundsPairCount(t *testing.T) {
	c := Aggregate(Baskets(slices.Values(syntheticLines(200))))

	for pair, n := range c.Pairs {
		if c.Products[pair.A] < n || c.Products[pair.B] < n {
			t.Errorf("pair %v count %d exceeds product counts %d/%d",
				pair, n, c.Products[pair.A], c.Products[pair.B])
		}
	}
}

func TestCounts_Merge(t *testing.T) {
	a := NewCounts()
	a.Add(Basket{Items: []string{"A", "B"}})
	b := NewCounts()
	b.Add(Basket{Items: []string{"A", "B", "C"}})

	a.Merge(b)
	a.Merge(nil)

	if a.TotalBaskets != 2 {
		t.Errorf("TotalBaskets = %d, want 2", a.TotalBaskets)
	}
	if a.Products["A"] != 2 || a.Products["C"] != 1 {
		t.Errorf("Products = %v", a.Products)
	}
	if a.Pairs[Pair{A: "A", B: "B"}] != 2 {
		t.Errorf("Pairs[(A,B)] = %d, want 2", a.Pairs[Pair{A: "A", B: "B"}])
	}
}

func TestAggregateSharded_MatchesSinglePass(t *testing.T) {
	lines := syntheticLines(500)
	want := Aggregate(Baskets(slices.Values(lines)))

	for _, shards := range []int{0, 1, 2, 3, 8} {
		t.Run(fmt.Sprintf("shards=%d", shards), func(t *testing.T) {
			got, err := AggregateSharded(context.Background(), Baskets(slices.Values(lines)), shards)
			if err != nil {
				t.Fatalf("AggregateSharded() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Error("sharded counts differ from single pass")
			}
		})
	}
}

func TestAggregateSharded_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AggregateSharded(ctx, Baskets(slices.Values(syntheticLines(50))), 4)
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestSortedPairs(t *testing.T) {
	c := NewCounts()
	c.Add(Basket{Items: []string{"C", "B", "A"}})

	got := c.SortedPairs()
	want := []Pair{{A: "A", B: "B"}, {A: "A", B: "C"}, {A: "B", B: "C"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedPairs() = %v, want %v", got, want)
	}
}
