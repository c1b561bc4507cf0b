package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/avolkhin/bideval/internal/bids"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSynthesizer(critic *stubCritic) *synthesizer {
	return &synthesizer{critic: critic, logger: zap.NewNop()}
}

func acceptCritic(confidence float64) *stubCritic {
	return &stubCritic{
		rec: bids.FinalRecommendation{
			RecommendationType: bids.RecommendationAccept,
			Confidence:         confidence,
			Rationale:          "Top bid covers the full scope at a fair price.",
		},
	}
}

func TestSynthesizerNoValidBids(t *testing.T) {
	critic := acceptCritic(0.9)
	rec := newSynthesizer(critic).run(context.Background(), nil, nil, nil)

	require.Equal(t, bids.RecommendationRejectAll, rec.RecommendationType)
	require.Equal(t, 1.0, rec.Confidence)
	require.Equal(t, "No valid bids to evaluate.", rec.Rationale)
	require.Empty(t, rec.RankedBids)
	require.Zero(t, critic.calls)
}

func TestSynthesizerRejectsLowTopScore(t *testing.T) {
	critic := acceptCritic(0.9)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.55},
		{BidID: "bid_2", OverallScore: 0.50},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, nil, nil)

	require.Equal(t, bids.RecommendationRejectAll, rec.RecommendationType)
	require.Equal(t, 0.85, rec.Confidence)
	require.Contains(t, rec.Rationale, "Top bid score (0.55)")
	require.Equal(t, []string{"bid_1", "bid_2"}, rec.RankedBids)
	require.Zero(t, critic.calls)
}

func TestSynthesizerRejectsFlaggedTopScore(t *testing.T) {
	critic := acceptCritic(0.9)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.63},
		{BidID: "bid_2", OverallScore: 0.40},
	}
	flags := []bids.RedFlag{
		{Type: bids.FlagPoorReputation, Severity: bids.SeverityHigh, AffectedBid: "bid_1"},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, flags, nil)

	require.Equal(t, bids.RecommendationRejectAll, rec.RecommendationType)
	require.Zero(t, critic.calls)
}

func TestSynthesizerRejectsWhenEveryBidIsFlagged(t *testing.T) {
	critic := acceptCritic(0.9)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.68},
		{BidID: "bid_2", OverallScore: 0.66},
	}
	flags := []bids.RedFlag{
		{Type: bids.FlagIncompleteScope, Severity: bids.SeverityCritical, AffectedBid: "bid_1"},
		{Type: bids.FlagPoorReputation, Severity: bids.SeverityHigh, AffectedBid: "bid_2"},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, flags, nil)

	require.Equal(t, bids.RecommendationRejectAll, rec.RecommendationType)
	require.Zero(t, critic.calls)
}

func TestSynthesizerLowSeverityFlagsDoNotHardReject(t *testing.T) {
	critic := acceptCritic(0.78)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.68},
		{BidID: "bid_2", OverallScore: 0.40},
	}
	flags := []bids.RedFlag{
		{Type: bids.FlagVagueTimeline, Severity: bids.SeverityMedium, AffectedBid: "bid_1"},
		{Type: bids.FlagVagueTimeline, Severity: bids.SeverityMedium, AffectedBid: "bid_2"},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, flags, nil)

	require.Equal(t, bids.RecommendationAccept, rec.RecommendationType)
	require.Equal(t, 1, critic.calls)
}

func TestSynthesizerFallsBackWhenCritiqueFails(t *testing.T) {
	critic := &stubCritic{err: errors.New("model unavailable")}
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.80},
		{BidID: "bid_2", OverallScore: 0.70},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, nil, nil)

	require.Equal(t, bids.RecommendationClarify, rec.RecommendationType)
	require.Equal(t, bids.FallbackConfidence, rec.Confidence)
	require.Contains(t, rec.Rationale, "model unavailable")
	require.Contains(t, rec.Rationale, "Review scores manually.")
	require.Equal(t, []string{"bid_1", "bid_2"}, rec.RankedBids)
	require.Equal(t, []string{"System error occurred - manual review recommended"}, rec.TradeOffs)
}

func TestSynthesizerOverridesModelRanking(t *testing.T) {
	critic := &stubCritic{
		rec: bids.FinalRecommendation{
			RecommendationType: bids.RecommendationAccept,
			RankedBids:         []string{"bid_9", "bid_8"},
			Confidence:         0.78,
		},
	}
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.82},
		{BidID: "bid_2", OverallScore: 0.71},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, nil, nil)

	require.Equal(t, []string{"bid_1", "bid_2"}, rec.RankedBids)
}

func TestSynthesizerDowngradesGamedTopBid(t *testing.T) {
	critic := acceptCritic(0.9)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.82},
		{BidID: "bid_2", OverallScore: 0.70},
	}
	flags := []bids.RedFlag{
		{Type: bids.FlagSuspiciouslyLowCost, Severity: bids.SeverityHigh, AffectedBid: "bid_1"},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, flags, nil)

	require.Equal(t, bids.RecommendationClarify, rec.RecommendationType)
	require.Contains(t, rec.TradeOffs, "Top bid has suspiciously low cost - requires clarification")
}

func TestSynthesizerDowngradesCriticalIncompleteScope(t *testing.T) {
	critic := acceptCritic(0.9)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.82},
		{BidID: "bid_2", OverallScore: 0.70},
	}
	flags := []bids.RedFlag{
		{Type: bids.FlagIncompleteScope, Severity: bids.SeverityCritical, AffectedBid: "bid_1"},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, flags, nil)

	require.Equal(t, bids.RecommendationClarify, rec.RecommendationType)
	require.Contains(t, rec.TradeOffs, "Top bid has critical incomplete scope - requires clarification")
}

func TestSynthesizerPenalizesHighIncompleteScope(t *testing.T) {
	critic := acceptCritic(0.9)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.82},
		{BidID: "bid_2", OverallScore: 0.70},
	}
	flags := []bids.RedFlag{
		{Type: bids.FlagIncompleteScope, Severity: bids.SeverityHigh, AffectedBid: "bid_1"},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, flags, nil)

	require.Equal(t, bids.RecommendationAccept, rec.RecommendationType)
	require.InDelta(t, 0.75, rec.Confidence, 1e-9)
	require.Contains(t, rec.TradeOffs, "Top bid has some scope gaps - review recommended")
}

func TestSynthesizerCapsConfidenceOnCloseScores(t *testing.T) {
	critic := acceptCritic(0.92)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.80},
		{BidID: "bid_2", OverallScore: 0.78},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, nil, nil)

	require.Equal(t, bids.RecommendationAccept, rec.RecommendationType)
	require.Equal(t, bids.CloseCallConfidenceCap, rec.Confidence)
	require.Contains(t, rec.TradeOffs, "Close scores between top bids - lower confidence")
}

func TestSynthesizerLeavesClearWinnerAlone(t *testing.T) {
	critic := acceptCritic(0.9)
	scores := []bids.BidScore{
		{BidID: "bid_1", OverallScore: 0.85},
		{BidID: "bid_2", OverallScore: 0.70},
	}

	rec := newSynthesizer(critic).run(context.Background(), scores, nil, nil)

	require.Equal(t, bids.RecommendationAccept, rec.RecommendationType)
	require.Equal(t, 0.9, rec.Confidence)
	require.Empty(t, rec.TradeOffs)
}
