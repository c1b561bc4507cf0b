package bids

import "strings"

// Weights is the per-evaluation weighting of the five scoring dimensions.
// A valid vector always sums to 1.0.
type Weights struct {
	Cost       float64
	Timeline   float64
	Scope      float64
	Risk       float64
	Reputation float64
}

// Emphasis names which weighting rule fired for a project.
type Emphasis string

const (
	EmphasisDefault          Emphasis = "default"
	EmphasisRiskPriority     Emphasis = "risk_priority"
	EmphasisCostDeprioritize Emphasis = "cost_deprioritized"
	EmphasisTimelineCritical Emphasis = "timeline_critical"
)

var (
	riskKeywords = []string{"risk", "operational disruption", "disruption", "safety", "reliability"}
	riskPhrases  = []string{"higher priority", "more important", "priority over cost"}

	costDeprioritizedPhrases = []string{
		"lower priority than", "less important than", "willing to accept higher cost",
		"cost less important", "cost not primary",
	}

	timelineCriticalPhrases = []string{
		"timeline critical", "schedule critical", "must complete by", "deadline",
	}
)

// DefaultWeights returns the baseline weighting used when the requirements
// express no particular emphasis.
func DefaultWeights() Weights {
	return Weights{
		Cost:       0.25,
		Timeline:   0.20,
		Scope:      0.25,
		Risk:       0.15,
		Reputation: 0.15,
	}
}

// CalculateWeights derives the weight vector from the project priorities
// and constraints. The detection rules are mutually exclusive; only the
// first matching rule applies.
func CalculateWeights(req *ProjectRequirements) (Weights, Emphasis) {
	weights := DefaultWeights()

	if req == nil || len(req.Priorities) == 0 {
		return weights, EmphasisDefault
	}

	text := strings.ToLower(strings.Join(req.Priorities, " ") + " " + strings.Join(req.Constraints, " "))

	emphasis := EmphasisDefault
	switch {
	case containsAny(text, riskKeywords) && containsAny(text, riskPhrases):
		weights = Weights{Cost: 0.15, Timeline: 0.15, Scope: 0.25, Risk: 0.35, Reputation: 0.10}
		emphasis = EmphasisRiskPriority
	case containsAny(text, costDeprioritizedPhrases):
		weights = Weights{Cost: 0.20, Timeline: 0.20, Scope: 0.25, Risk: 0.25, Reputation: 0.10}
		emphasis = EmphasisCostDeprioritize
	case containsAny(text, timelineCriticalPhrases):
		weights = Weights{Cost: 0.20, Timeline: 0.30, Scope: 0.20, Risk: 0.20, Reputation: 0.10}
		emphasis = EmphasisTimelineCritical
	}

	return weights.normalized(), emphasis
}

// Sum returns the total of the five weights.
func (w Weights) Sum() float64 {
	return w.Cost + w.Timeline + w.Scope + w.Risk + w.Reputation
}

// Overall computes the weighted dot product of the bid's dimension scores,
// without rounding.
func (w Weights) Overall(s *BidScore) float64 {
	return s.CostScore*w.Cost +
		s.TimelineScore*w.Timeline +
		s.ScopeScore*w.Scope +
		s.RiskScore*w.Risk +
		s.ReputationScore*w.Reputation
}

func (w Weights) normalized() Weights {
	total := w.Sum()
	if total == 1.0 || total == 0 {
		return w
	}
	return Weights{
		Cost:       w.Cost / total,
		Timeline:   w.Timeline / total,
		Scope:      w.Scope / total,
		Risk:       w.Risk / total,
		Reputation: w.Reputation / total,
	}
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
