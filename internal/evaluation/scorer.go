package evaluation

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/avolkhin/bideval/internal/ai"
	"github.com/avolkhin/bideval/internal/bids"
	"github.com/avolkhin/bideval/internal/util"

	"go.uber.org/zap"
)

const noProfileNote = "No web research data available for this contractor"

var (
	vagueScopeKeywords = []string{"construction", "building", "work", "renovation work"}
	vagueScopePhrases  = []string{"renovation work", "building construction", "construction", "building"}
	criticalTradeWork  = []string{"electrical", "power", "hvac", "structural", "foundation"}
)

// scorer runs the scoring stage: one structured scoring call per bid,
// heuristic adjustments, and red-flag emission. Failures are isolated per
// bid.
type scorer struct {
	assessor     ai.BidAssessor
	logger       *zap.Logger
	requirements *bids.ProjectRequirements
	weights      bids.Weights
	profiles     map[string]bids.ContractorProfile
}

func (s *scorer) run(ctx context.Context, rawBids []any) ([]bids.BidScore, []bids.RedFlag) {
	scores := make([]bids.BidScore, 0, len(rawBids))
	var flags []bids.RedFlag

	for _, entry := range rawBids {
		record, ok := entry.(map[string]any)
		if !ok {
			s.logger.Warn("skipping invalid bid entry (not a record)", zap.Any("entry", entry))
			continue
		}

		bid, err := bids.DecodeBid(record)
		if err != nil {
			s.logger.Warn("skipping undecodable bid entry", zap.Error(err))
			continue
		}

		if strings.TrimSpace(bid.ContractorName) == "" {
			s.logger.Warn("skipping bid without contractor_name", zap.String("bid_id", bid.ID))
			continue
		}

		bidID := bid.ID
		if bidID == "" {
			bidID = fmt.Sprintf("bid_%d", len(scores))
			s.logger.Warn("bid missing 'id' field, generated one",
				zap.String("contractor", bid.ContractorName),
				zap.String("bid_id", bidID),
			)
		}

		profile, hasProfile := s.profiles[bid.ContractorName]

		dims, err := s.assessor.ScoreBid(ctx, s.requirements, record, profilePayload(profile, hasProfile))
		if err != nil {
			s.logger.Error("scoring bid failed, skipping it",
				zap.String("bid_id", bidID),
				zap.String("contractor", bid.ContractorName),
				zap.Error(err),
			)
			continue
		}

		score := bids.BidScore{
			BidID:           bidID,
			ContractorName:  bid.ContractorName,
			CostScore:       dims.Cost,
			TimelineScore:   dims.Timeline,
			ScopeScore:      dims.Scope,
			RiskScore:       dims.Risk,
			ReputationScore: dims.Reputation,
			Reasoning:       dims.Reasoning,
		}

		s.capVagueScope(bid.Scope, &score)
		s.penalizeSubcontracting(bid.Scope, &score)
		if hasProfile {
			s.applyProfile(profile, &score)
		}

		score.OverallScore = round2(s.weights.Overall(&score))
		scores = append(scores, score)

		flags = append(flags, s.emitFlags(bid, &score, profile, hasProfile)...)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].OverallScore > scores[j].OverallScore
	})

	return scores, flags
}

// capVagueScope caps the scope score when the scope text itself is too
// short or a canonical vague phrase, regardless of what the model said.
func (s *scorer) capVagueScope(scopeText string, score *bids.BidScore) {
	scope := strings.ToLower(scopeText)
	words := len(strings.Fields(scope))

	vague := words < 10 || matchesVagueKeyword(scope)
	if !vague {
		return
	}

	switch {
	case words < 5:
		score.ScopeScore = math.Min(score.ScopeScore, bids.VagueScopeCapExtreme)
	case words < 10:
		score.ScopeScore = math.Min(score.ScopeScore, bids.VagueScopeCapShort)
	default:
		score.ScopeScore = math.Min(score.ScopeScore, bids.VagueScopeCapBorderline)
	}

	s.logger.Info("detected vague scope text, adjusted scope score",
		zap.String("contractor", score.ContractorName),
		zap.Float64("scope_score", score.ScopeScore),
	)
}

func (s *scorer) penalizeSubcontracting(scopeText string, score *bids.BidScore) {
	scope := strings.ToLower(scopeText)
	if !strings.Contains(scope, "subcontract") {
		return
	}

	if score.ScopeScore > bids.SubcontractPenaltyAbove {
		score.ScopeScore = math.Max(bids.SubcontractScoreFloor, score.ScopeScore-bids.SubcontractPenalty)
		s.logger.Info("subcontracted work detected, reduced scope score",
			zap.String("contractor", score.ContractorName),
			zap.Float64("scope_score", score.ScopeScore),
		)
	}
}

// applyProfile blends the researched reputation into the model's estimate
// and adjusts risk and timeline from the profile's track record.
func (s *scorer) applyProfile(profile bids.ContractorProfile, score *bids.BidScore) {
	score.ReputationScore = profile.ReputationScore*bids.ProfileBlendWeight +
		score.ReputationScore*(1-bids.ProfileBlendWeight)

	if len(profile.RedFlagsFound) > 0 {
		reduction := math.Min(bids.ProfileRedFlagRiskMax, float64(len(profile.RedFlagsFound))*bids.ProfileRedFlagRiskStep)
		score.RiskScore = math.Max(0, score.RiskScore-reduction)
	}

	if len(profile.RecentProjects) > 0 {
		bonus := math.Min(bids.RecentProjectBonusMax, float64(len(profile.RecentProjects))*bids.RecentProjectBonusStep)
		score.TimelineScore = math.Min(1, score.TimelineScore+bonus)
		score.RiskScore = math.Min(1, score.RiskScore+bonus/2)
	} else if profile.ReputationScore < bids.StaleProfileReputation {
		score.RiskScore = math.Max(0, score.RiskScore-bids.NoRecentProjectPenalty)
	}
}

// emitFlags evaluates every red-flag rule independently. A bid may collect
// any subset, including two SUSPICIOUSLY_LOW_COST flags from the separate
// cost/scope and vague-pattern rules; duplicates are kept as distinct
// evidence, matching the detection rules rather than deduplicating.
func (s *scorer) emitFlags(bid *bids.Bid, score *bids.BidScore, profile bids.ContractorProfile, hasProfile bool) []bids.RedFlag {
	var flags []bids.RedFlag

	if score.ScopeScore < bids.ScopeFlagThreshold {
		severity := bids.SeverityMedium
		switch {
		case score.ScopeScore < bids.ScopeCriticalBelow:
			severity = bids.SeverityCritical
		case score.ScopeScore < bids.ScopeHighBelow:
			severity = bids.SeverityHigh
		}
		flags = append(flags, bids.RedFlag{
			Type:        bids.FlagIncompleteScope,
			Severity:    severity,
			Evidence:    fmt.Sprintf("Scope score: %.2f. %s", score.ScopeScore, score.Reasoning),
			AffectedBid: score.BidID,
		})
	}

	if (score.CostScore > bids.LowCostHighCostScore && score.ScopeScore < bids.LowCostScopeBelow) ||
		(score.CostScore > bids.LowCostVeryHighCostScore && score.ScopeScore < bids.LowCostWideScopeBelow) {
		flags = append(flags, bids.RedFlag{
			Type:     bids.FlagSuspiciouslyLowCost,
			Severity: bids.SeverityMedium,
			Evidence: fmt.Sprintf(
				"Very competitive cost (%.2f) but incomplete/vague scope (%.2f). May indicate hidden costs or scope gaps.",
				score.CostScore, score.ScopeScore),
			AffectedBid: score.BidID,
		})
	}

	scope := strings.ToLower(strings.TrimSpace(bid.Scope))
	if isVaguePattern(scope, score.ScopeScore) &&
		score.ScopeScore < bids.VaguePatternScopeBelow &&
		score.CostScore > bids.VaguePatternCostAbove {
		flags = append(flags, bids.RedFlag{
			Type:     bids.FlagSuspiciouslyLowCost,
			Severity: bids.SeverityMedium,
			Evidence: fmt.Sprintf(
				"Suspicious pattern detected: Competitive cost (score: %.2f) combined with vague/incomplete scope (score: %.2f, scope text: '%s'). This may indicate hidden costs or scope gaps.",
				score.CostScore, score.ScopeScore, util.TruncateForLog(scope, 60)),
			AffectedBid: score.BidID,
		})
	}

	if score.TimelineScore < bids.VagueTimelineBelow {
		flags = append(flags, bids.RedFlag{
			Type:     bids.FlagVagueTimeline,
			Severity: bids.SeverityMedium,
			Evidence: fmt.Sprintf(
				"Timeline score: %.2f. Timeline may be unrealistic or vague.", score.TimelineScore),
			AffectedBid: score.BidID,
		})
	}

	for _, violation := range bids.DetectConstraintViolations(bid.Scope, s.requirements, score.ScopeScore) {
		flags = append(flags, bids.RedFlag{
			Type:        violation.Type,
			Severity:    violation.Severity,
			Evidence:    violation.Evidence,
			AffectedBid: score.BidID,
		})
	}

	if strings.Contains(scope, "subcontract") {
		matched := matchedKeywords(scope, criticalTradeWork)
		if len(matched) > 0 && score.ScopeScore < bids.ScopeFlagThreshold {
			flags = append(flags, bids.RedFlag{
				Type:     bids.FlagSubcontractorRisk,
				Severity: bids.SeverityHigh,
				Evidence: fmt.Sprintf(
					"Critical work (%s) is subcontracted with incomplete scope details (score: %.2f). Increases coordination risk and operational disruption potential.",
					strings.Join(matched, ", "), score.ScopeScore),
				AffectedBid: score.BidID,
			})
		}
	}

	if hasProfile {
		flags = append(flags, profileFlags(profile, score.BidID)...)
	}

	return flags
}

func profileFlags(profile bids.ContractorProfile, bidID string) []bids.RedFlag {
	var flags []bids.RedFlag

	if len(profile.RedFlagsFound) > 0 {
		severity := bids.SeverityHigh
		if len(profile.RedFlagsFound) >= 3 {
			severity = bids.SeverityCritical
		}
		sources := "N/A"
		if len(profile.CredibilitySources) > 0 {
			sources = strings.Join(headOf(profile.CredibilitySources, 2), ", ")
		}
		flags = append(flags, bids.RedFlag{
			Type:     bids.FlagPoorReputation,
			Severity: severity,
			Evidence: fmt.Sprintf("Web research found reputation issues: %s. Sources: %s",
				strings.Join(headOf(profile.RedFlagsFound, 3), ", "), sources),
			AffectedBid: bidID,
		})
	}

	if profile.ReputationScore < bids.PoorReputationBelow {
		flags = append(flags, bids.RedFlag{
			Type:     bids.FlagPoorReputation,
			Severity: bids.SeverityHigh,
			Evidence: fmt.Sprintf("Low reputation score from web research: %.2f. Recent projects: %d found.",
				profile.ReputationScore, len(profile.RecentProjects)),
			AffectedBid: bidID,
		})
	}

	if len(profile.RecentProjects) == 0 && profile.ReputationScore < bids.StaleProfileReputation {
		flags = append(flags, bids.RedFlag{
			Type:     bids.FlagRequiresClarification,
			Severity: bids.SeverityMedium,
			Evidence: fmt.Sprintf(
				"Limited online presence: No recent projects found in web research. Reputation score: %.2f",
				profile.ReputationScore),
			AffectedBid: bidID,
		})
	}

	return flags
}

func profilePayload(profile bids.ContractorProfile, hasProfile bool) map[string]any {
	if !hasProfile {
		return map[string]any{"note": noProfileNote}
	}
	return map[string]any{
		"contractor_name":                    profile.ContractorName,
		"reputation_score_from_web_research": profile.ReputationScore,
		"recent_projects_found":              profile.RecentProjects,
		"red_flags_found_online":             profile.RedFlagsFound,
		"credibility_sources":                profile.CredibilitySources,
		"note":                               "This data was retrieved from web search in the last 12 months",
	}
}

func matchesVagueKeyword(scope string) bool {
	trimmed := strings.TrimSpace(scope)
	for _, keyword := range vagueScopeKeywords {
		if trimmed == keyword || strings.HasPrefix(trimmed, keyword+" ") {
			return true
		}
	}
	return false
}

func isVaguePattern(scope string, scopeScore float64) bool {
	words := len(strings.Fields(scope))
	if words < 5 {
		return true
	}
	for _, phrase := range vagueScopePhrases {
		if scope == phrase {
			return true
		}
	}
	return words < 10 && scopeScore < bids.VaguePatternScopeBelow
}

func matchedKeywords(text string, keywords []string) []string {
	var matched []string
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			matched = append(matched, keyword)
		}
	}
	return matched
}

func headOf(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
