package evaluation

import (
	"context"
	"fmt"
	"math"

	"github.com/avolkhin/bideval/internal/ai"
	"github.com/avolkhin/bideval/internal/bids"

	"go.uber.org/zap"
)

// synthesizer runs the critique stage: hard-reject thresholds first, then
// the self-critique call with guardrail overrides on its verdict. It always
// produces a recommendation; a failed critique call degrades to a
// clarification fallback instead of an error.
type synthesizer struct {
	critic ai.Critic
	logger *zap.Logger
}

func (s *synthesizer) run(ctx context.Context, scores []bids.BidScore, flags []bids.RedFlag, req *bids.ProjectRequirements) *bids.FinalRecommendation {
	if len(scores) == 0 {
		return &bids.FinalRecommendation{
			RecommendationType: bids.RecommendationRejectAll,
			RankedBids:         []string{},
			Confidence:         1.0,
			Rationale:          "No valid bids to evaluate.",
			TradeOffs:          []string{},
		}
	}

	topScore := scores[0].OverallScore
	topBidID := scores[0].BidID

	severeFlags := filterFlags(flags, func(f bids.RedFlag) bool {
		return f.Severity.AtLeast(bids.SeverityHigh)
	})
	topSevereFlags := filterFlags(severeFlags, func(f bids.RedFlag) bool {
		return f.AffectedBid == topBidID
	})

	flaggedBids := make(map[string]struct{})
	for _, f := range severeFlags {
		flaggedBids[f.AffectedBid] = struct{}{}
	}

	if topScore < bids.RejectTopScoreBelow ||
		(topScore < bids.RejectFlaggedTopScoreBelow && len(topSevereFlags) > 0) ||
		(len(flaggedBids) >= len(scores) && topScore < bids.RejectAllFlaggedScoreBelow) {
		return &bids.FinalRecommendation{
			RecommendationType: bids.RecommendationRejectAll,
			RankedBids:         rankedBidIDs(scores),
			Confidence:         0.85,
			Rationale: fmt.Sprintf(
				"Top bid score (%.2f) below acceptable threshold. All bids have significant critical issues.", topScore),
			TradeOffs: []string{},
		}
	}

	recommendation, err := s.critic.Critique(ctx, scores, flags, req)
	if err != nil {
		s.logger.Error("critique step failed, falling back to clarification", zap.Error(err))
		return &bids.FinalRecommendation{
			RecommendationType: bids.RecommendationClarify,
			RankedBids:         rankedBidIDs(scores),
			Confidence:         bids.FallbackConfidence,
			Rationale:          fmt.Sprintf("Error during critique step: %s. Review scores manually.", err),
			TradeOffs:          []string{"System error occurred - manual review recommended"},
		}
	}

	// The ranking is always re-derived from the scores; the model's own
	// ordering is never trusted.
	recommendation.RankedBids = rankedBidIDs(scores)

	s.applyGuardrails(recommendation, scores, flags, topBidID)

	s.logger.Info("final recommendation",
		zap.String("type", string(recommendation.RecommendationType)),
		zap.Float64("confidence", recommendation.Confidence),
	)

	return recommendation
}

func (s *synthesizer) applyGuardrails(rec *bids.FinalRecommendation, scores []bids.BidScore, flags []bids.RedFlag, topBidID string) {
	gamingFlags := filterFlags(flags, func(f bids.RedFlag) bool {
		return f.Type == bids.FlagSuspiciouslyLowCost && f.AffectedBid == topBidID && f.Severity.AtLeast(bids.SeverityHigh)
	})
	if len(gamingFlags) > 0 && rec.RecommendationType == bids.RecommendationAccept {
		rec.RecommendationType = bids.RecommendationClarify
		rec.TradeOffs = append(rec.TradeOffs, "Top bid has suspiciously low cost - requires clarification")
	}

	incompleteFlags := filterFlags(flags, func(f bids.RedFlag) bool {
		return f.Type == bids.FlagIncompleteScope && f.AffectedBid == topBidID && f.Severity.AtLeast(bids.SeverityHigh)
	})
	if len(incompleteFlags) > 0 && rec.RecommendationType == bids.RecommendationAccept {
		critical := filterFlags(incompleteFlags, func(f bids.RedFlag) bool {
			return f.Severity == bids.SeverityCritical
		})
		if len(critical) > 0 {
			rec.RecommendationType = bids.RecommendationClarify
			rec.TradeOffs = append(rec.TradeOffs, "Top bid has critical incomplete scope - requires clarification")
		} else {
			rec.Confidence = math.Max(bids.ConfidenceFloor, rec.Confidence-bids.ScopeGapConfidencePenalty)
			rec.TradeOffs = append(rec.TradeOffs, "Top bid has some scope gaps - review recommended")
		}
	}

	if len(scores) > 1 {
		gap := scores[0].OverallScore - scores[1].OverallScore
		if gap < bids.CloseScoreGap && rec.Confidence > bids.HighConfidenceAbove {
			rec.Confidence = math.Min(bids.CloseCallConfidenceCap, rec.Confidence)
			rec.TradeOffs = append(rec.TradeOffs, "Close scores between top bids - lower confidence")
		}
	}
}

func rankedBidIDs(scores []bids.BidScore) []string {
	ids := make([]string, len(scores))
	for i, score := range scores {
		ids[i] = score.BidID
	}
	return ids
}

func filterFlags(flags []bids.RedFlag, keep func(bids.RedFlag) bool) []bids.RedFlag {
	var out []bids.RedFlag
	for _, f := range flags {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
