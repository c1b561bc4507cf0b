package bids

// ProjectRequirements is the structured form of a free-text project
// description: technical and regulatory constraints, scope and deliverables,
// and the priorities the owner cares about.
type ProjectRequirements struct {
	Constraints []string `json:"constraints"`
	Scope       string   `json:"scope"`
	Priorities  []string `json:"priorities"`
}

// ContractorProfile summarizes what web research found about a contractor.
type ContractorProfile struct {
	ContractorName     string   `json:"contractor_name"`
	ReputationScore    float64  `json:"reputation_score"`
	RecentProjects     []string `json:"recent_projects"`
	RedFlagsFound      []string `json:"red_flags_found"`
	CredibilitySources []string `json:"credibility_sources"`
}

// DefaultProfile is the neutral profile substituted when a lookup fails or
// no name is available.
func DefaultProfile(contractorName string) ContractorProfile {
	if contractorName == "" {
		contractorName = "Unknown"
	}
	return ContractorProfile{
		ContractorName:  contractorName,
		ReputationScore: NeutralReputation,
	}
}

// Bid is the typed view of a submitted bid record. Raw keeps the full
// original record for the scoring prompt, since bids are open records and
// may carry fields beyond the ones named here.
type Bid struct {
	ID             string `mapstructure:"id"`
	ContractorName string `mapstructure:"contractor_name"`
	Scope          string `mapstructure:"scope"`

	Raw map[string]any `mapstructure:"-"`
}

// BidScore holds the five dimension scores and the weighted overall score
// for a single bid. All scores are on a 0-1 scale.
type BidScore struct {
	BidID           string  `json:"bid_id"`
	ContractorName  string  `json:"contractor_name"`
	CostScore       float64 `json:"cost_score"`
	TimelineScore   float64 `json:"timeline_score"`
	ScopeScore      float64 `json:"scope_score"`
	RiskScore       float64 `json:"risk_score"`
	ReputationScore float64 `json:"reputation_score"`
	OverallScore    float64 `json:"overall_score"`
	Reasoning       string  `json:"reasoning"`
}

// FlagType identifies the kind of risk signal attached to a bid.
type FlagType string

const (
	FlagIncompleteScope         FlagType = "INCOMPLETE_SCOPE"
	FlagSuspiciouslyLowCost     FlagType = "SUSPICIOUSLY_LOW_COST"
	FlagVagueTimeline           FlagType = "VAGUE_TIMELINE"
	FlagPoorReputation          FlagType = "POOR_REPUTATION"
	FlagRequiresClarification   FlagType = "REQUIRES_CLARIFICATION"
	FlagSubcontractorRisk       FlagType = "SUBCONTRACTOR_RISK"
	FlagConstraintViolationRisk FlagType = "CONSTRAINT_VIOLATION_RISK"
	FlagOperationalDisruption   FlagType = "OPERATIONAL_DISRUPTION_RISK"
	FlagOther                   FlagType = "OTHER"
)

// Severity is the ordered severity level of a red flag.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

func (s Severity) String() string {
	return string(s)
}

// AtLeast returns true if s is at or above the target severity.
func (s Severity) AtLeast(target Severity) bool {
	return severityRank[s] >= severityRank[target]
}

// RedFlag is a discrete, typed risk signal attached to one bid. Flags are
// additive and never mutated once emitted.
type RedFlag struct {
	Type        FlagType `json:"type"`
	Severity    Severity `json:"severity"`
	Evidence    string   `json:"evidence"`
	AffectedBid string   `json:"affected_bid"`
}

// RecommendationType is the final categorical verdict of an evaluation.
type RecommendationType string

const (
	RecommendationAccept    RecommendationType = "ACCEPT"
	RecommendationRejectAll RecommendationType = "REJECT_ALL"
	RecommendationClarify   RecommendationType = "REQUIRES_CLARIFICATION"
)

// ValidRecommendationType reports whether s is one of the known verdicts.
func ValidRecommendationType(s string) bool {
	switch RecommendationType(s) {
	case RecommendationAccept, RecommendationRejectAll, RecommendationClarify:
		return true
	}
	return false
}

// FinalRecommendation is the terminal output of an evaluation run.
type FinalRecommendation struct {
	RecommendationType RecommendationType `json:"recommendation_type"`
	RankedBids         []string           `json:"ranked_bids"`
	Confidence         float64            `json:"confidence"`
	Rationale          string             `json:"rationale"`
	TradeOffs          []string           `json:"trade_offs"`
}
