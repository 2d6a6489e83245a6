package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
	"github.com/blackwell-systems/cartlift/internal/logging"
	"github.com/blackwell-systems/cartlift/internal/metrics"
	"github.com/blackwell-systems/cartlift/internal/output"
	"github.com/blackwell-systems/cartlift/internal/retail"
	"github.com/blackwell-systems/cartlift/internal/store"
)

const trainTopRules = 15

var (
	trainShards         int
	trainTopProducts    int
	trainSampleInvoices int
	trainSeed           int64

	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Build the association rule table from transaction data",
		Long: `Build the association rule table from the configured transaction dataset.

Training runs these steps:
  • Fetch the dataset if it is not cached yet
  • Read invoice lines from CSV or the Excel workbook
  • Drop lines without a customer, returns and non-positive quantities
  • Optionally keep only the most popular products and a sample of invoices
  • Group lines into baskets and count product pairs
  • Score every pair by support, confidence and lift

The rule table replaces the previous one in the rule database. A running
'cartlift serve --watch' picks it up without a restart.`,
		Example: `  # Train with the configured sampling
  cartlift train

  # Use every invoice of the 100 most popular products
  cartlift train --top-products 100 --sample-invoices 0

  # Count baskets across 8 shards
  cartlift train --shards 8`,
		RunE: runTrain,
	}
)

func init() {
	trainCmd.Flags().IntVar(&trainShards, "shards", 0, "count baskets concurrently across N shards (default from config)")
	trainCmd.Flags().IntVar(&trainTopProducts, "top-products", 0, "keep only the N most frequent products, 0 keeps all (default from config)")
	trainCmd.Flags().IntVar(&trainSampleInvoices, "sample-invoices", 0, "sample at most N invoices, 0 keeps all (default from config)")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "random seed for invoice sampling (default from config)")
}

func runTrain(cmd *cobra.Command, args []string) error {
	c, err := getConfig()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	shards := c.Training.Shards
	sampleOpts := retail.SampleOptions{
		TopProducts: c.Training.TopProducts,
		Invoices:    c.Training.SampleInvoices,
		Seed:        c.Training.Seed,
	}
	if cmd != nil {
		flags := cmd.Flags()
		if flags.Changed("shards") {
			shards = trainShards
		}
		if flags.Changed("top-products") {
			sampleOpts.TopProducts = trainTopProducts
		}
		if flags.Changed("sample-invoices") {
			sampleOpts.Invoices = trainSampleInvoices
		}
		if flags.Changed("seed") {
			sampleOpts.Seed = trainSeed
		}
	}

	res, err := fetchDataset(ctx, c)
	if err != nil {
		return err
	}

	// Read
	spinner := output.NewSpinner("Reading transactions")
	spinner.Start()
	start := time.Now()
	lines, err := retail.Open(res.Path, c.Data.Sheets...)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("failed to read transactions: %w", err)
	}
	stage("read", start)

	// Clean
	start = time.Now()
	lines, report := retail.Clean(lines)
	stage("clean", start)

	fmt.Println("Cleaning:")
	fmt.Print(output.RenderCleanReport(report))
	fmt.Println()

	// Sample
	start = time.Now()
	lines, sample := retail.Sample(lines, sampleOpts)
	stage("sample", start)

	if len(sample.TopProducts) > 0 {
		fmt.Print(output.RenderTopProducts(sample.TopProducts[:min(10, len(sample.TopProducts))]))
		fmt.Println()
	}
	fmt.Print(output.RenderSampleReport(sample))
	fmt.Println()

	// Aggregate
	spinner = output.NewSpinner("Counting product pairs")
	spinner.Start()
	start = time.Now()
	counts, err := analyzer.AggregateSharded(ctx, analyzer.Baskets(slices.Values(lines)), shards)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("failed to count baskets: %w", err)
	}
	stage("aggregate", start)

	// Rules
	start = time.Now()
	table, err := analyzer.BuildRules(counts)
	if err != nil {
		if errors.Is(err, analyzer.ErrDivisionUndefined) {
			return fmt.Errorf("no invoice contains two or more distinct products, nothing to train on: %w", err)
		}
		return err
	}
	stage("rules", start)

	// Save
	start = time.Now()
	run, err := saveRules(c.Store.Path, store.TrainingRun{
		Source:         c.Data.Source,
		TotalBaskets:   counts.TotalBaskets,
		UniqueProducts: len(counts.Products),
		UniquePairs:    len(counts.Pairs),
	}, table)
	if err != nil {
		return err
	}
	stage("save", start)

	fmt.Print(output.RenderCountsSummary(counts, table.Len()))
	fmt.Println()
	if table.Len() > 0 {
		fmt.Printf("Top %d associations by lift:\n\n", min(trainTopRules, table.Len()))
		fmt.Print(output.RenderRuleTable(table.Top(trainTopRules)))
		fmt.Println()
	}
	fmt.Printf("Saved %d rules to %s (run %s)\n", run.RuleCount, c.Store.Path, shortID(run.ID))

	return nil
}

func saveRules(path string, run store.TrainingRun, table *analyzer.RuleTable) (*store.TrainingRun, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.CreateSchema(); err != nil {
		return nil, fmt.Errorf("failed to create database schema: %w", err)
	}

	saved, err := db.SaveRules(run, table)
	if err != nil {
		return nil, fmt.Errorf("failed to save rules: %w", err)
	}
	return saved, nil
}

// stage records the duration of a training step.
func stage(name string, start time.Time) {
	d := time.Since(start)
	metrics.RecordTrainingStage(name, d)
	logging.Debug().Str("stage", name).Dur("duration", d).Msg("training stage complete")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
