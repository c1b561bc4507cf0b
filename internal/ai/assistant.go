package ai

import (
	"context"

	"github.com/avolkhin/bideval/internal/bids"
)

// DimensionScores is the raw output of a bid scoring call: five dimension
// scores on a 0-1 scale plus the model's reasoning. Identity fields and the
// overall score are injected by the caller.
type DimensionScores struct {
	Cost       float64
	Timeline   float64
	Scope      float64
	Risk       float64
	Reputation float64
	Reasoning  string
}

// RequirementExtractor turns a free-text project description into
// structured requirements.
type RequirementExtractor interface {
	ExtractRequirements(ctx context.Context, description string) (*bids.ProjectRequirements, error)
}

// BidAssessor scores one bid against the requirements using the
// contractor's research profile. The profile payload is an open record so
// callers control its framing; it carries a "no data" note when no research
// is available.
type BidAssessor interface {
	ScoreBid(ctx context.Context, req *bids.ProjectRequirements, bid map[string]any, profile map[string]any) (*DimensionScores, error)
}

// Critic reviews the full evaluation and produces the final
// recommendation.
type Critic interface {
	Critique(ctx context.Context, scores []bids.BidScore, flags []bids.RedFlag, req *bids.ProjectRequirements) (*bids.FinalRecommendation, error)
}
