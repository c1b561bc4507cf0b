package cmd

import (
	"fmt"

	"github.com/avolkhin/bideval/internal/evaluation"
)

// render prints the evaluation result to stdout.
func render(result *evaluation.Result) {
	rec := result.Recommendation

	fmt.Println()
	fmt.Println("=== Final Recommendation ===")
	fmt.Printf("%s (confidence %.0f%%)\n", rec.RecommendationType, rec.Confidence*100)
	fmt.Printf("Rationale: %s\n", rec.Rationale)

	if len(rec.TradeOffs) > 0 {
		fmt.Println("Trade-offs:")
		for _, tradeOff := range rec.TradeOffs {
			fmt.Printf("  - %s\n", tradeOff)
		}
	}

	fmt.Println()
	fmt.Println("=== Bid Scores ===")
	for _, score := range result.Scores {
		fmt.Printf("%s (%s) - overall %.2f\n", score.ContractorName, score.BidID, score.OverallScore)
		fmt.Printf("  cost %.2f | timeline %.2f | scope %.2f | risk %.2f | reputation %.2f\n",
			score.CostScore, score.TimelineScore, score.ScopeScore, score.RiskScore, score.ReputationScore)
		if score.Reasoning != "" {
			fmt.Printf("  reasoning: %s\n", score.Reasoning)
		}
	}

	if len(result.RedFlags) > 0 {
		fmt.Println()
		fmt.Println("=== Red Flags ===")
		for _, flag := range result.RedFlags {
			fmt.Printf("[%s] %s (%s): %s\n", flag.AffectedBid, flag.Type, flag.Severity, flag.Evidence)
		}
	}
}
