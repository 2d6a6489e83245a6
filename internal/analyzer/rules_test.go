package analyzer

import (
	"context"
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func scenarioTable(t *testing.T) *RuleTable {
	t.Helper()
	table, err := BuildRules(Aggregate(Baskets(slices.Values(scenarioLines()))))
	if err != nil {
		t.Fatalf("BuildRules() error = %v", err)
	}
	return table
}

func TestBuildRules_Scenario(t *testing.T) {
	table := scenarioTable(t)

	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}

	for _, r := range table.Rules() {
		if r.Count != 2 {
			t.Errorf("%s/%s Count = %d, want 2", r.ProductA, r.ProductB, r.Count)
		}
		if !almostEqual(r.Support, 0.5) {
			t.Errorf("%s/%s Support = %v, want 0.5", r.ProductA, r.ProductB, r.Support)
		}
		if !almostEqual(r.ConfidenceAToB, 2.0/3.0) {
			t.Errorf("%s/%s ConfidenceAToB = %v, want 2/3", r.ProductA, r.ProductB, r.ConfidenceAToB)
		}
		if !almostEqual(r.ConfidenceBToA, 2.0/3.0) {
			t.Errorf("%s/%s ConfidenceBToA = %v, want 2/3", r.ProductA, r.ProductB, r.ConfidenceBToA)
		}
		// 0.5 / (0.75 * 0.75)
		if !almostEqual(r.Lift, 0.5/0.5625) {
			t.Errorf("%s/%s Lift = %v, want %v", r.ProductA, r.ProductB, r.Lift, 0.5/0.5625)
		}
	}

	// Fully tied metrics fall back to product names.
	rules := table.Rules()
	wantOrder := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}}
	for i, w := range wantOrder {
		if rules[i].ProductA != w[0] || rules[i].ProductB != w[1] {
			t.Errorf("rule[%d] = (%s, %s), want (%s, %s)", i, rules[i].ProductA, rules[i].ProductB, w[0], w[1])
		}
	}
}

func TestBuildRules_ZeroBaskets(t *testing.T) {
	_, err := BuildRules(NewCounts())
	if !errors.Is(err, ErrDivisionUndefined) {
		t.Errorf("BuildRules(empty) error = %v, want ErrDivisionUndefined", err)
	}

	_, err = BuildRules(nil)
	if !errors.Is(err, ErrDivisionUndefined) {
		t.Errorf("BuildRules(nil) error = %v, want ErrDivisionUndefined", err)
	}
}

func TestBuildRules_InconsistentCounts(t *testing.T) {
	c := NewCounts()
	c.TotalBaskets = 1
	c.Pairs[Pair{A: "A", B: "B"}] = 1
	c.Products["A"] = 1

	_, err := BuildRules(c)
	if !errors.Is(err, ErrInconsistentCounts) {
		t.Errorf("error = %v, want ErrInconsistentCounts", err)
	}
}

func TestBuildRules_Properties(t *testing.T) {
	table, err := BuildRules(Aggregate(Baskets(slices.Values(syntheticLines(300)))))
	if err != nil {
		t.Fatalf("BuildRules() error = %v", err)
	}
	if table.Len() == 0 {
		t.Fatal("expected rules")
	}

	rules := table.Rules()
	for i, r := range rules {
		if r.ProductA >= r.ProductB {
			t.Errorf("rule %d not canonical: %s >= %s", i, r.ProductA, r.ProductB)
		}
		if r.Count < 1 {
			t.Errorf("rule %d has count %d", i, r.Count)
		}
		for _, c := range []float64{r.ConfidenceAToB, r.ConfidenceBToA} {
			if c < 0 || c > 1 {
				t.Errorf("rule %d confidence %v out of [0, 1]", i, c)
			}
		}
		if r.Support <= 0 || r.Support > 1 {
			t.Errorf("rule %d support %v out of (0, 1]", i, r.Support)
		}
		if math.IsNaN(r.Lift) || math.IsInf(r.Lift, 0) || r.Lift <= 0 {
			t.Errorf("rule %d lift %v not finite positive", i, r.Lift)
		}
		if i > 0 && reportLess(r, rules[i-1]) {
			t.Errorf("rule %d out of report order", i)
		}
	}
}

func TestBuildRules_LiftMatchesProbabilityForm(t *testing.T) {
	c := Aggregate(Baskets(slices.Values(syntheticLines(300))))
	table, err := BuildRules(c)
	if err != nil {
		t.Fatalf("BuildRules() error = %v", err)
	}

	total := float64(c.TotalBaskets)
	for _, r := range table.Rules() {
		probA := float64(c.Products[r.ProductA]) / total
		probB := float64(c.Products[r.ProductB]) / total
		want := r.Support / (probA * probB)
		if math.Abs(r.Lift-want) > 1e-9*want {
			t.Errorf("%s/%s lift = %v, probability form = %v", r.ProductA, r.ProductB, r.Lift, want)
		}
	}
}

func TestBuildRules_NoZeroCountRows(t *testing.T) {
	c := NewCounts()
	c.Add(Basket{Items: []string{"A", "B"}})
	c.Add(Basket{Items: []string{"C", "D"}})

	table, err := BuildRules(c)
	if err != nil {
		t.Fatalf("BuildRules() error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (A/C never co-occur)", table.Len())
	}
}

func TestTrain_Idempotent(t *testing.T) {
	lines := syntheticLines(400)

	first, err := Train(context.Background(), lines, TrainOptions{})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	second, err := Train(context.Background(), lines, TrainOptions{Shards: 4})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	if !reflect.DeepEqual(first.Table.Rules(), second.Table.Rules()) {
		t.Error("repeated training produced different rule tables")
	}
}

func TestTrain_NoEligibleBaskets(t *testing.T) {
	lines := invoiceLines("1", "A")
	lines = append(lines, invoiceLines("2", "B", "B")...)

	_, err := Train(context.Background(), lines, TrainOptions{})
	if !errors.Is(err, ErrDivisionUndefined) {
		t.Errorf("Train() error = %v, want ErrDivisionUndefined", err)
	}
}
