package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
	"github.com/blackwell-systems/cartlift/internal/output"
	"github.com/blackwell-systems/cartlift/internal/store"
)

var (
	rulesTop        int
	rulesMinSupport float64
	rulesMinLift    float64

	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "List stored association rules",
		Long: `List association rules from the rule database, strongest lift first.

Each row is an unordered product pair with its support, the confidence in
both directions and its lift. Lift above 1 means the products are bought
together more often than chance would predict.`,
		Example: `  # Top 20 rules
  cartlift rules

  # Pairs in at least 2% of baskets with lift of 3 or more
  cartlift rules --min-support 0.02 --min-lift 3 --top 50`,
		RunE: runRules,
	}
)

func init() {
	rulesCmd.Flags().IntVar(&rulesTop, "top", 20, "number of rules to show, 0 shows all")
	rulesCmd.Flags().Float64Var(&rulesMinSupport, "min-support", 0, "minimum support (fraction of baskets)")
	rulesCmd.Flags().Float64Var(&rulesMinLift, "min-lift", 0, "minimum lift")
}

func runRules(cmd *cobra.Command, args []string) error {
	if rulesTop < 0 {
		return fmt.Errorf("--top must be non-negative, got %d", rulesTop)
	}

	table, err := loadRuleTable()
	if err != nil {
		return err
	}

	rules := table.Filter(rulesMinSupport, rulesMinLift)
	total := len(rules)
	if rulesTop > 0 && len(rules) > rulesTop {
		rules = rules[:rulesTop]
	}

	fmt.Print(output.RenderRuleTable(rules))
	if len(rules) < total {
		fmt.Printf("\nShowing %d of %d rules. Use --top 0 to show all.\n", len(rules), total)
	}
	return nil
}

// loadRuleTable reads the trained rule table from the configured database.
func loadRuleTable() (*analyzer.RuleTable, error) {
	c, err := getConfig()
	if err != nil {
		return nil, err
	}

	db, err := store.Open(c.Store.Path)
	if err != nil {
		if errors.Is(err, store.ErrArtifactMissing) {
			return nil, fmt.Errorf("no rule database at %s: run 'cartlift train' first", c.Store.Path)
		}
		return nil, err
	}
	defer db.Close()

	return db.LoadRules()
}
