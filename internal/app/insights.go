package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cartlift/internal/output"
)

var (
	insightsMinSupport float64
	insightsMinLift    float64
	insightsLimit      int

	insightsCmd = &cobra.Command{
		Use:   "insights",
		Short: "Report cross-selling opportunities",
		Long: `Report strong associations that are worth acting on.

An association is strong when its support and lift both reach the
thresholds (1% of baskets and lift 1.5 unless configured otherwise). When
nothing qualifies, the top associations by lift are listed instead.`,
		Example: `  # Default thresholds
  cartlift insights

  # Stricter report
  cartlift insights --min-support 0.02 --min-lift 3`,
		RunE: runInsights,
	}
)

func init() {
	insightsCmd.Flags().Float64Var(&insightsMinSupport, "min-support", 0, "minimum support for a strong association (default from config)")
	insightsCmd.Flags().Float64Var(&insightsMinLift, "min-lift", 0, "minimum lift for a strong association (default from config)")
	insightsCmd.Flags().IntVar(&insightsLimit, "limit", 0, "strong associations to list (default from config)")
}

func runInsights(cmd *cobra.Command, args []string) error {
	c, err := getConfig()
	if err != nil {
		return err
	}

	opts := output.DefaultInsightOptions()
	opts.MinSupport = c.Insights.MinSupport
	opts.MinLift = c.Insights.MinLift
	opts.Limit = c.Insights.Limit
	if cmd != nil {
		if cmd.Flags().Changed("min-support") {
			opts.MinSupport = insightsMinSupport
		}
		if cmd.Flags().Changed("min-lift") {
			opts.MinLift = insightsMinLift
		}
		if cmd.Flags().Changed("limit") {
			opts.Limit = insightsLimit
		}
	}
	if opts.Limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", opts.Limit)
	}

	table, err := loadRuleTable()
	if err != nil {
		return err
	}

	fmt.Print(output.RenderInsights(table, opts))
	return nil
}
