package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cartlift/internal/config"
	"github.com/blackwell-systems/cartlift/internal/logging"
)

var (
	configPath string
	dbPath     string
	logLevel   string

	// cfg is the configuration of the running command, see getConfig.
	cfg *config.Config

	// RootCmd is the root command for cartlift
	RootCmd = &cobra.Command{
		Use:   "cartlift",
		Short: "Market basket analysis and product recommendations for retail data",
		Long: `cartlift mines retail transactions for products that are bought together
and serves "customers who bought X also bought Y" recommendations.

Training groups invoice lines into baskets, counts how often each pair of
products shares a basket and scores every pair by support, confidence and
lift. The resulting rule table is stored in a local SQLite artifact that the
query commands and the HTTP API read from.

Quick Start:
  1. cartlift train
  2. cartlift insights
  3. cartlift recommend "WHITE HANGING HEART T-LIGHT HOLDER"

Examples:
  # Train on a local export instead of the UCI dataset
  CARTLIFT_DATA__SOURCE=./sales.csv cartlift train

  # List the strongest associations
  cartlift rules --min-lift 2

  # Serve the HTTP API and pick up retrained rules automatically
  cartlift serve --watch`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getConfig()
			if err != nil {
				return err
			}
			fmt.Println("cartlift: market basket analysis for retail transactions")
			fmt.Println()
			if _, err := os.Stat(c.Store.Path); os.IsNotExist(err) {
				fmt.Println("Run 'cartlift train' to build the rule table.")
			} else {
				fmt.Println("Tip: Run 'cartlift insights' for cross-selling opportunities.")
				fmt.Println("     Run 'cartlift recommend <product>' to query recommendations.")
			}
			fmt.Println("Run 'cartlift --help' for all commands.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/cartlift/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "rule database path (default: $XDG_DATA_HOME/cartlift/cartlift.db)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(fetchCmd)
	RootCmd.AddCommand(trainCmd)
	RootCmd.AddCommand(rulesCmd)
	RootCmd.AddCommand(insightsCmd)
	RootCmd.AddCommand(recommendCmd)
	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(statusCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = nil
	_, err := getConfig()
	return err
}

// getConfig returns the configuration for this invocation, loading it on
// first use. Flags override the file and environment.
func getConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if dbPath != "" {
		c.Store.Path = dbPath
	}
	if logLevel != "" {
		if !logging.ValidLevel(logLevel) {
			return nil, fmt.Errorf("invalid --log-level %q", logLevel)
		}
		c.Log.Level = logLevel
	}

	logging.Init(logging.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: os.Stderr,
	})

	cfg = c
	return cfg, nil
}

// commandContext returns the command's context, or Background for commands
// invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
