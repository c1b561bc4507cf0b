package bids

// Policy thresholds for scoring, flagging, and the final recommendation.
const (
	// NeutralReputation is assigned when no research data exists for a
	// contractor.
	NeutralReputation = 0.5

	// ScopeFlagThreshold is the scope score below which a bid receives an
	// INCOMPLETE_SCOPE flag.
	ScopeFlagThreshold = 0.75
	// ScopeCriticalBelow and ScopeHighBelow pick the flag severity.
	ScopeCriticalBelow = 0.5
	ScopeHighBelow     = 0.6

	// Caps applied to the scope score when the scope text itself is vague.
	VagueScopeCapExtreme    = 0.50
	VagueScopeCapShort      = 0.65
	VagueScopeCapBorderline = 0.75

	// Subcontracted work without details costs a flat penalty, floored so
	// the adjustment alone cannot tank an otherwise detailed bid.
	SubcontractPenalty      = 0.10
	SubcontractPenaltyAbove = 0.70
	SubcontractScoreFloor   = 0.60

	// ProfileBlendWeight is how much the researched reputation dominates
	// the model's own reputation estimate.
	ProfileBlendWeight = 0.7

	// Risk and timeline adjustments driven by the contractor profile.
	ProfileRedFlagRiskStep = 0.1
	ProfileRedFlagRiskMax  = 0.3
	RecentProjectBonusStep = 0.03
	RecentProjectBonusMax  = 0.15
	NoRecentProjectPenalty = 0.1
	StaleProfileReputation = 0.7

	// VagueTimelineBelow triggers a VAGUE_TIMELINE flag.
	VagueTimelineBelow = 0.6

	// Cost/scope combinations that look like price gaming.
	LowCostHighCostScore     = 0.85
	LowCostScopeBelow        = 0.75
	LowCostVeryHighCostScore = 0.9
	LowCostWideScopeBelow    = 0.8
	VaguePatternScopeBelow   = 0.7
	VaguePatternCostAbove    = 0.75

	// PoorReputationBelow triggers a POOR_REPUTATION flag on its own.
	PoorReputationBelow = 0.6

	// Recommendation thresholds.
	RejectTopScoreBelow        = 0.60
	RejectFlaggedTopScoreBelow = 0.65
	RejectAllFlaggedScoreBelow = 0.70
	CloseScoreGap              = 0.05
	CloseCallConfidenceCap     = 0.75
	HighConfidenceAbove        = 0.8
	ScopeGapConfidencePenalty  = 0.15
	ConfidenceFloor            = 0.6
	FallbackConfidence         = 0.6
)
