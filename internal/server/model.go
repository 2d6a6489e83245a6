package server

import (
	"sync/atomic"

	"github.com/blackwell-systems/cartlift/internal/analyzer"
)

// Model is the rule table currently being served. Readers never block:
// a reload builds a complete table and swaps the pointer.
type Model struct {
	table atomic.Pointer[analyzer.RuleTable]
	runID atomic.Pointer[string]
}

// NewModel returns a Model serving table.
func NewModel(table *analyzer.RuleTable, runID string) *Model {
	m := &Model{}
	m.Swap(table, runID)
	return m
}

// Swap replaces the served table.
func (m *Model) Swap(table *analyzer.RuleTable, runID string) {
	m.table.Store(table)
	m.runID.Store(&runID)
}

// Table returns the served table. It may be nil before the first load.
func (m *Model) Table() *analyzer.RuleTable {
	return m.table.Load()
}

// RunID returns the training run of the served table.
func (m *Model) RunID() string {
	if id := m.runID.Load(); id != nil {
		return *id
	}
	return ""
}
