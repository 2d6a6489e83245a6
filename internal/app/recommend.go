package app

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
	"github.com/blackwell-systems/cartlift/internal/config"
	"github.com/blackwell-systems/cartlift/internal/logging"
	"github.com/blackwell-systems/cartlift/internal/output"
)

var (
	recommendTop     int
	recommendMinLift float64
	recommendJSON    bool

	recommendCmd = &cobra.Command{
		Use:   "recommend <product>",
		Short: "Show products frequently bought with a product",
		Long: `Show the products most often bought together with the given product.

Results come from rules where the product appears on either side, ranked by
lift, then confidence, then support. The product name must match the
dataset description exactly (e.g. "WHITE HANGING HEART T-LIGHT HOLDER");
short names can be defined in $XDG_CONFIG_HOME/cartlift/aliases as
alias=PRODUCT DESCRIPTION lines.`,
		Example: `  # Top 5 with lift of at least 1
  cartlift recommend "REGENCY CAKESTAND 3 TIER"

  # Using an alias, more results, machine-readable
  cartlift recommend cakestand --top 10 --min-lift 2 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRecommend,
	}
)

func init() {
	recommendCmd.Flags().IntVar(&recommendTop, "top", 0, "number of recommendations (default from config)")
	recommendCmd.Flags().Float64Var(&recommendMinLift, "min-lift", 0, "minimum lift (default from config)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "print JSON instead of a table")
}

type recommendResult struct {
	Product         string                    `json:"product"`
	Recommendations []analyzer.Recommendation `json:"recommendations"`
}

func runRecommend(cmd *cobra.Command, args []string) error {
	c, err := getConfig()
	if err != nil {
		return err
	}

	opts := analyzer.QueryOptions{TopN: c.Query.TopN, MinLift: c.Query.MinLift}
	if cmd != nil {
		if cmd.Flags().Changed("top") {
			opts.TopN = recommendTop
		}
		if cmd.Flags().Changed("min-lift") {
			opts.MinLift = recommendMinLift
		}
	}

	product := resolveProduct(strings.Join(args, " "))

	table, err := loadRuleTable()
	if err != nil {
		return err
	}

	recs, err := table.Recommend(product, opts)
	if err != nil {
		return err
	}

	if recommendJSON {
		data, err := json.MarshalIndent(recommendResult{Product: product, Recommendations: recs}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode recommendations: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Print(output.RenderRecommendations(product, recs))
	return nil
}

// resolveProduct expands a user alias to a product description.
func resolveProduct(name string) string {
	dir, err := config.Dir()
	if err != nil {
		return name
	}
	aliases, err := config.LoadAliases(dir)
	if err != nil {
		logging.Warn().Err(err).Msg("failed to read product aliases")
	}
	product := aliases.Resolve(name)
	if product != name {
		logging.Debug().Str("alias", name).Str("product", product).Msg("resolved product alias")
	}
	return product
}
