package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cartlift/internal/output"
	"github.com/blackwell-systems/cartlift/internal/store"
)

const statusRuns = 5

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the dataset cache, rule database and recent training runs",
	Long: `Display where cartlift keeps its data and what the last training produced.

Shows:
  • Dataset source and whether it is cached
  • Rule database location, size and rule count
  • The most recent training runs`,
	Example: `  # Check status
  cartlift status`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := getConfig()
	if err != nil {
		return err
	}

	const label = "%-10s"

	fmt.Println()
	fmt.Printf(label+"%s\n", "Source:", c.Data.Source)
	if _, err := os.Stat(c.Data.Source); err == nil {
		fmt.Printf(label+"not used (local source)\n", "Cache:")
	} else if fi, err := os.Stat(c.CachePath()); err == nil {
		fmt.Printf(label+"%s (%s)\n", "Cache:", c.CachePath(), humanize.Bytes(uint64(fi.Size())))
	} else {
		fmt.Printf(label+"%s (not downloaded)\n", "Cache:", c.CachePath())
	}

	db, err := store.Open(c.Store.Path)
	switch {
	case errors.Is(err, store.ErrArtifactMissing), errors.Is(err, store.ErrNotInitialized):
		fmt.Printf(label+"%s (not trained)\n", "Rules:", c.Store.Path)
		fmt.Println()
		fmt.Println("Run 'cartlift train' to build the rule table.")
		return nil
	case err != nil:
		return fmt.Errorf("failed to open rule database: %w", err)
	}
	defer db.Close()

	count, err := db.RuleCount()
	if err != nil {
		return err
	}
	size := ""
	if fi, err := os.Stat(c.Store.Path); err == nil {
		size = humanize.Bytes(uint64(fi.Size())) + ", "
	}
	fmt.Printf(label+"%s (%s%s rules)\n", "Rules:", c.Store.Path, size, humanize.Comma(int64(count)))

	runs, err := db.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) > statusRuns {
		runs = runs[:statusRuns]
	}

	fmt.Println()
	fmt.Print(output.RenderRunTable(runs))
	return nil
}
