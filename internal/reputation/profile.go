package reputation

import (
	"fmt"
	"strings"

	"github.com/avolkhin/bideval/internal/bids"
)

const (
	maxRecentProjects     = 5
	maxRedFlags           = 3
	maxCredibilitySources = 5

	snippetPreviewLen = 100

	baseScore          = 0.7
	positiveBoostStep  = 0.05
	positiveBoostMax   = 0.2
	redFlagPenaltyStep = 0.1
	redFlagPenaltyMax  = 0.4
	newsBoostStep      = 0.02
	newsBoostMax       = 0.1
	scoreFloor         = 0.3
	scoreCeiling       = 1.0
)

var (
	projectKeywords  = []string{"project", "completed", "construction", "building"}
	redFlagKeywords  = []string{"lawsuit", "complaint", "violation", "failed", "bankruptcy"}
	positiveKeywords = []string{"award", "certified", "excellence", "success", "completed", "delivered"}
)

// buildProfile classifies the considered search results and computes the
// reputation estimate. News results are weighted double by duplication
// before the considered set is truncated.
func buildProfile(contractorName string, response *searchResponse) bids.ContractorProfile {
	considered := make([]searchResult, 0, len(response.News)*2+len(response.Organic))
	considered = append(considered, response.News...)
	considered = append(considered, response.News...)
	considered = append(considered, response.Organic...)
	if len(considered) > resultLimit {
		considered = considered[:resultLimit]
	}

	var recentProjects, redFlags, credibilitySources []string
	positiveHits := 0

	for _, result := range considered {
		credibilitySources = append(credibilitySources, result.Link)

		text := strings.ToLower(result.Title + " " + result.Snippet)
		entry := fmt.Sprintf("%s: %s", result.Title, truncate(result.Snippet, snippetPreviewLen))

		if containsAny(text, projectKeywords) {
			recentProjects = append(recentProjects, entry)
		}
		if containsAny(text, redFlagKeywords) {
			redFlags = append(redFlags, entry)
		}
		if containsAny(text, positiveKeywords) {
			positiveHits++
		}
	}

	positiveBoost := min(positiveBoostMax, float64(positiveHits)*positiveBoostStep)
	negativePenalty := min(redFlagPenaltyMax, float64(len(redFlags))*redFlagPenaltyStep)
	newsBoost := min(newsBoostMax, float64(len(response.News))*newsBoostStep)

	score := baseScore + positiveBoost - negativePenalty + newsBoost
	score = max(scoreFloor, min(scoreCeiling, score))

	return bids.ContractorProfile{
		ContractorName:     contractorName,
		ReputationScore:    score,
		RecentProjects:     capped(recentProjects, maxRecentProjects),
		RedFlagsFound:      capped(redFlags, maxRedFlags),
		CredibilitySources: capped(credibilitySources, maxCredibilitySources),
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func capped(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
