package gemini

import "google.golang.org/genai"

var requirementsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"constraints": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Technical and regulatory constraints",
		},
		"scope": {
			Type:        genai.TypeString,
			Description: "Project scope and deliverables",
		},
		"priorities": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Key priorities (cost, timeline, quality, etc.)",
		},
	},
	Required: []string{"constraints", "scope", "priorities"},
}

var scoreSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"cost_score": {
			Type:        genai.TypeNumber,
			Description: "Cost competitiveness 0-1",
		},
		"timeline_score": {
			Type:        genai.TypeNumber,
			Description: "Timeline feasibility 0-1",
		},
		"scope_score": {
			Type:        genai.TypeNumber,
			Description: "Scope completeness 0-1",
		},
		"risk_score": {
			Type:        genai.TypeNumber,
			Description: "Risk assessment 0-1",
		},
		"reputation_score": {
			Type:        genai.TypeNumber,
			Description: "Reputation from research 0-1",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Chain-of-thought reasoning for scores",
		},
	},
	Required: []string{"cost_score", "timeline_score", "scope_score", "risk_score", "reputation_score", "reasoning"},
}

var recommendationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recommendation_type": {
			Type: genai.TypeString,
			Enum: []string{"ACCEPT", "REJECT_ALL", "REQUIRES_CLARIFICATION"},
		},
		"ranked_bids": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Bid IDs ranked by score",
		},
		"confidence": {
			Type:        genai.TypeNumber,
			Description: "Confidence in recommendation 0-1",
		},
		"rationale": {
			Type:        genai.TypeString,
			Description: "Explanation of recommendation",
		},
		"trade_offs": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Key trade-offs considered",
		},
	},
	Required: []string{"recommendation_type", "ranked_bids", "confidence", "rationale", "trade_offs"},
}
