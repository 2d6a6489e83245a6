package store

import "time"

// TrainingRun records one training pass that produced the stored rules.
type TrainingRun struct {
	ID             string
	CreatedAt      time.Time
	Source         string // dataset path or URL the rules were trained on
	TotalBaskets   int
	UniqueProducts int
	UniquePairs    int
	RuleCount      int
}
