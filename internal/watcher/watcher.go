package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
	"github.com/blackwell-systems/cartlift/internal/logging"
	"github.com/blackwell-systems/cartlift/internal/metrics"
	"github.com/blackwell-systems/cartlift/internal/store"
)

// DefaultDebounce is how long the artifact must be quiet before a reload.
const DefaultDebounce = 500 * time.Millisecond

// Target receives reloaded rule tables.
type Target interface {
	Swap(table *analyzer.RuleTable, runID string)
}

// Watcher reloads the rule table when the artifact at path changes.
type Watcher struct {
	path     string
	target   Target
	debounce time.Duration

	fs       *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Watcher for the artifact at path.
func New(path string, target Target) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("artifact path cannot be empty")
	}
	if target == nil {
		return nil, fmt.Errorf("reload target cannot be nil")
	}
	return &Watcher{
		path:     filepath.Clean(path),
		target:   target,
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
	}, nil
}

// SetDebounce overrides the quiet period before a reload. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching the artifact directory.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.fs = fsw

	w.wg.Add(1)
	go w.run()

	logging.Info().Str("path", w.path).Msg("watching rule artifact")
	return nil
}

// Stop halts the watcher and waits for a pending reload to finish. It is
// safe to call more than once, and without Start.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		if w.fs != nil {
			err = w.fs.Close()
		}
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.Reload(); err != nil {
				logging.Warn().Err(err).Str("path", w.path).Msg("rule reload failed, keeping current table")
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logging.Warn().Err(err).Msg("fsnotify error")

		case <-w.stopCh:
			return
		}
	}
}

// relevant reports whether ev touches the artifact or its sidecar files.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	switch name {
	case w.path, w.path + "-wal", w.path + "-journal":
		return true
	}
	return false
}

// Reload loads the artifact and swaps it into the target. On error the
// target is left untouched.
func (w *Watcher) Reload() error {
	table, run, err := Load(w.path)
	metrics.RecordReload(err)
	if err != nil {
		return err
	}

	runID := run.ID
	w.target.Swap(table, runID)
	metrics.RuleTableSize.Set(float64(table.Len()))

	logging.Info().Int("rules", table.Len()).Str("run_id", runID).Msg("rule table reloaded")
	return nil
}

// Load opens the artifact at path and returns its rule table together with
// the training run that produced it. An artifact without a training run
// returns store.ErrNoTrainingRun, and a malformed rule row fails the whole
// load.
func Load(path string) (*analyzer.RuleTable, *store.TrainingRun, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	table, err := st.LoadRules()
	if err != nil {
		return nil, nil, err
	}
	run, err := st.LatestRun()
	if err != nil {
		return nil, nil, err
	}
	if run == nil {
		return nil, nil, fmt.Errorf("%s: %w", path, store.ErrNoTrainingRun)
	}
	return table, run, nil
}
