package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/avolkhin/bideval/internal/ai"
	"github.com/avolkhin/bideval/internal/bids"
	"github.com/avolkhin/bideval/internal/util"

	"go.uber.org/zap"
)

//go:embed score_prompt.md
var scorePromptTemplate string

// Assessor scores a single bid against the project requirements and the
// contractor's research profile.
type Assessor struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAssessor(generator jsonGenerator, logger *zap.Logger, maxLogLength int) *Assessor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Assessor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Assessor) ScoreBid(ctx context.Context, req *bids.ProjectRequirements, bid map[string]any, profile map[string]any) (*ai.DimensionScores, error) {
	if bid == nil {
		return nil, fmt.Errorf("bid record is required")
	}

	requirementsJSON := "{}"
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("marshal requirements payload: %w", err)
		}
		requirementsJSON = string(data)
	}

	bidJSON, err := json.Marshal(bid)
	if err != nil {
		return nil, fmt.Errorf("marshal bid payload: %w", err)
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	prompt := strings.ReplaceAll(scorePromptTemplate, "{{REQUIREMENTS_JSON}}", requirementsJSON)
	prompt = strings.ReplaceAll(prompt, "{{BID_JSON}}", string(bidJSON))
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_JSON}}", string(profileJSON))

	a.logger.Debug("gemini score bid request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateJSON(ctx, prompt, scoreSchema, analysisTemperature)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini score bid response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	return parseScoreResponse(raw)
}

func parseScoreResponse(raw string) (*ai.DimensionScores, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse score response: %w", err)
	}

	return &ai.DimensionScores{
		Cost:       clamp01(coerceFloat(data["cost_score"])),
		Timeline:   clamp01(coerceFloat(data["timeline_score"])),
		Scope:      clamp01(coerceFloat(data["scope_score"])),
		Risk:       clamp01(coerceFloat(data["risk_score"])),
		Reputation: clamp01(coerceFloat(data["reputation_score"])),
		Reasoning:  coerceString(data["reasoning"]),
	}, nil
}
