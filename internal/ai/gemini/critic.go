package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/avolkhin/bideval/internal/bids"
	"github.com/avolkhin/bideval/internal/util"

	"go.uber.org/zap"
)

//go:embed critique_prompt.md
var critiquePromptTemplate string

// Critic runs the self-critique pass over the full evaluation and returns
// the model's recommendation.
type Critic struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewCritic(generator jsonGenerator, logger *zap.Logger, maxLogLength int) *Critic {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Critic{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (c *Critic) Critique(ctx context.Context, scores []bids.BidScore, flags []bids.RedFlag, req *bids.ProjectRequirements) (*bids.FinalRecommendation, error) {
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return nil, fmt.Errorf("marshal scores payload: %w", err)
	}

	flagsJSON, err := json.Marshal(flags)
	if err != nil {
		return nil, fmt.Errorf("marshal red flags payload: %w", err)
	}

	requirementsJSON := "{}"
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("marshal requirements payload: %w", err)
		}
		requirementsJSON = string(data)
	}

	prompt := strings.ReplaceAll(critiquePromptTemplate, "{{SCORES_JSON}}", string(scoresJSON))
	prompt = strings.ReplaceAll(prompt, "{{RED_FLAGS_JSON}}", string(flagsJSON))
	prompt = strings.ReplaceAll(prompt, "{{REQUIREMENTS_JSON}}", requirementsJSON)

	c.logger.Debug("gemini critique request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateJSON(ctx, prompt, recommendationSchema, critiqueTemperature)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini critique response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, c.maxLogLen)),
	)

	return parseCritiqueResponse(raw)
}

func parseCritiqueResponse(raw string) (*bids.FinalRecommendation, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse critique response: %w", err)
	}

	verdict := strings.ToUpper(coerceString(data["recommendation_type"]))
	if !bids.ValidRecommendationType(verdict) {
		return nil, fmt.Errorf("unknown recommendation type: %q", verdict)
	}

	return &bids.FinalRecommendation{
		RecommendationType: bids.RecommendationType(verdict),
		RankedBids:         coerceStringSlice(data["ranked_bids"]),
		Confidence:         clamp01(coerceFloat(data["confidence"])),
		Rationale:          coerceString(data["rationale"]),
		TradeOffs:          coerceStringSlice(data["trade_offs"]),
	}, nil
}
