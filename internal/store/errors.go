package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotInitialized is returned when the database has no rule schema.
	ErrNotInitialized = errors.New("rule store not initialized: run 'cartlift train' first")

	// ErrArtifactMissing is returned by Open when the database file does not exist.
	ErrArtifactMissing = errors.New("rule artifact not found: run 'cartlift train' first")

	// ErrNoTrainingRun is returned when the schema exists but no training
	// run was ever saved, e.g. after a failed first train.
	ErrNoTrainingRun = errors.New("rule artifact has no completed training run: run 'cartlift train' first")

	// ErrMalformedRule is returned by LoadRules for a stored row that no
	// training run could have produced.
	ErrMalformedRule = errors.New("malformed rule row")
)

// wrapQueryErr maps sqlite's missing-table error onto ErrNotInitialized.
func wrapQueryErr(err error) error {
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return ErrNotInitialized
	}
	return err
}
