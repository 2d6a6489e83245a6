package analyzer

// Insight thresholds used for cross-selling reports.
const (
	StrongMinSupport = 0.01
	StrongMinLift    = 1.5
)

// InsightSummary describes the strong associations of a rule table.
type InsightSummary struct {
	Strong      []Rule  // rules clearing both thresholds, in table order
	AverageLift float64 // mean lift over Strong
	MaxLift     float64
	MaxSupport  float64
}

// Insights selects rules with support >= minSupport and lift >= minLift and
// summarizes them. The summary fields are zero when nothing qualifies.
func (t *RuleTable) Insights(minSupport, minLift float64) InsightSummary {
	s := InsightSummary{Strong: t.Filter(minSupport, minLift)}
	if len(s.Strong) == 0 {
		return s
	}

	var sum float64
	for _, r := range s.Strong {
		sum += r.Lift
		if r.Lift > s.MaxLift {
			s.MaxLift = r.Lift
		}
		if r.Support > s.MaxSupport {
			s.MaxSupport = r.Support
		}
	}
	s.AverageLift = sum / float64(len(s.Strong))
	return s
}

// MaxConfidence returns the larger of the two directional confidences.
func (r Rule) MaxConfidence() float64 {
	if r.ConfidenceAToB > r.ConfidenceBToA {
		return r.ConfidenceAToB
	}
	return r.ConfidenceBToA
}
