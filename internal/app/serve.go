package app

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cartlift/internal/logging"
	"github.com/blackwell-systems/cartlift/internal/metrics"
	"github.com/blackwell-systems/cartlift/internal/server"
	"github.com/blackwell-systems/cartlift/internal/store"
	"github.com/blackwell-systems/cartlift/internal/watcher"
)

var (
	serveAddr  string
	serveWatch bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Long: `Serve recommendation queries over HTTP.

Endpoints:
  GET /                          welcome message
  GET /recommend/{product_name}  recommendations, optional ?top_n=&min_lift=
  GET /healthz                   rule count and training run
  GET /metrics                   Prometheus metrics

With --watch the rule database is watched and a retrained table is swapped
in without dropping requests. A table that fails to load is ignored and the
current one keeps serving.`,
		Example: `  # Serve on the default address (:8000)
  cartlift serve

  # Serve on another port and follow retraining
  cartlift serve --addr :9090 --watch`,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the rule table when the database changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := getConfig()
	if err != nil {
		return err
	}

	scfg := server.Config{
		Addr:            c.Server.Addr,
		RateLimit:       c.Server.RateLimit,
		RateWindow:      c.Server.RateWindow,
		ShutdownTimeout: c.Server.ShutdownTimeout,
		TopN:            c.Query.TopN,
		MinLift:         c.Query.MinLift,
	}
	if serveAddr != "" {
		scfg.Addr = serveAddr
	}
	watch := c.Server.Watch || serveWatch

	table, run, err := watcher.Load(c.Store.Path)
	if err != nil {
		if errors.Is(err, store.ErrArtifactMissing) {
			return fmt.Errorf("no rule database at %s: run 'cartlift train' first", c.Store.Path)
		}
		return err
	}
	runID := run.ID

	model := server.NewModel(table, runID)
	metrics.RuleTableSize.Set(float64(table.Len()))
	logging.Info().Int("rules", table.Len()).Str("run_id", runID).Msg("rule table loaded")

	if watch {
		w, err := watcher.New(c.Store.Path, model)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(scfg, model).Run(ctx)
}
