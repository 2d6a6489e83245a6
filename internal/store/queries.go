package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
)

// Rule operations

// SaveRules replaces the stored rule table with table and records run in
// the same transaction. Rules keep their table order. An empty run ID is
// filled with a new UUID and a zero CreatedAt with the current time; the
// completed run is returned.
func (s *Store) SaveRules(run TrainingRun, table *analyzer.RuleTable) (*TrainingRun, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.RuleCount = table.Len()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rules"); err != nil {
		return nil, fmt.Errorf("failed to clear rules: %w", wrapQueryErr(err))
	}

	_, err = tx.Exec(`
		INSERT INTO training_runs
		(id, created_at, source, total_baskets, unique_products, unique_pairs, rule_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339),
		run.Source,
		run.TotalBaskets,
		run.UniqueProducts,
		run.UniquePairs,
		run.RuleCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert training run: %w", wrapQueryErr(err))
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rules
		(position, run_id, product_a, product_b, count, support, confidence_a_to_b, confidence_b_to_a, lift)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rule insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range table.Rules() {
		_, err := stmt.Exec(
			i,
			run.ID,
			r.ProductA,
			r.ProductB,
			r.Count,
			r.Support,
			r.ConfidenceAToB,
			r.ConfidenceBToA,
			r.Lift,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert rule (%s, %s): %w", r.ProductA, r.ProductB, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rules: %w", err)
	}

	return &run, nil
}

// LoadRules returns the stored rules as a frozen table in stored order.
func (s *Store) LoadRules() (*analyzer.RuleTable, error) {
	query := `
		SELECT product_a, product_b, count, support, confidence_a_to_b, confidence_b_to_a, lift
		FROM rules
		ORDER BY position
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", wrapQueryErr(err))
	}
	defer rows.Close()

	var rules []analyzer.Rule
	for rows.Next() {
		var r analyzer.Rule
		err := rows.Scan(
			&r.ProductA,
			&r.ProductB,
			&r.Count,
			&r.Support,
			&r.ConfidenceAToB,
			&r.ConfidenceBToA,
			&r.Lift,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		if err := validateRule(r); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return analyzer.NewRuleTable(rules), nil
}

// validateRule checks the invariants BuildRules guarantees: a canonical
// pair of distinct products, a positive count, fractions in [0, 1] and a
// finite positive lift.
func validateRule(r analyzer.Rule) error {
	inUnit := func(f float64) bool { return f >= 0 && f <= 1 }

	switch {
	case r.ProductA >= r.ProductB:
		return fmt.Errorf("%w: pair (%q, %q) is not in canonical order", ErrMalformedRule, r.ProductA, r.ProductB)
	case r.Count <= 0:
		return fmt.Errorf("%w: (%s, %s) has count %d", ErrMalformedRule, r.ProductA, r.ProductB, r.Count)
	case !inUnit(r.Support) || !inUnit(r.ConfidenceAToB) || !inUnit(r.ConfidenceBToA):
		return fmt.Errorf("%w: (%s, %s) has support or confidence outside [0, 1]", ErrMalformedRule, r.ProductA, r.ProductB)
	case math.IsNaN(r.Lift) || math.IsInf(r.Lift, 0) || r.Lift <= 0:
		return fmt.Errorf("%w: (%s, %s) has lift %v", ErrMalformedRule, r.ProductA, r.ProductB, r.Lift)
	}
	return nil
}

// RuleCount returns the number of stored rules.
func (s *Store) RuleCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM rules").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", wrapQueryErr(err))
	}
	return n, nil
}

// Training run operations

const runColumns = `id, created_at, source, total_baskets, unique_products, unique_pairs, rule_count`

// LatestRun returns the most recent training run.
// Returns nil if the store has never been trained.
func (s *Store) LatestRun() (*TrainingRun, error) {
	query := `SELECT ` + runColumns + `
		FROM training_runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`

	run, err := scanRun(s.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest training run: %w", wrapQueryErr(err))
	}
	return run, nil
}

// ListRuns returns all training runs, newest first.
func (s *Store) ListRuns() ([]*TrainingRun, error) {
	query := `SELECT ` + runColumns + `
		FROM training_runs
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", wrapQueryErr(err))
	}
	defer rows.Close()

	var runs []*TrainingRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training runs: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*TrainingRun, error) {
	var run TrainingRun
	var createdAt string
	var source sql.NullString

	err := row.Scan(
		&run.ID,
		&createdAt,
		&source,
		&run.TotalBaskets,
		&run.UniqueProducts,
		&run.UniquePairs,
		&run.RuleCount,
	)
	if err != nil {
		return nil, err
	}
	run.Source = source.String

	run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for run %s: %w", run.ID, err)
	}

	return &run, nil
}
