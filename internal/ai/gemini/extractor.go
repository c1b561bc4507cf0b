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

//go:embed extract_prompt.md
var extractPromptTemplate string

const (
	defaultMaxLogLength = 200

	// Sampling temperatures per call type.
	analysisTemperature = 0.3
	critiqueTemperature = 0.2
)

// Extractor derives structured project requirements from free text.
type Extractor struct {
	generator jsonGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewExtractor(generator jsonGenerator, logger *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Extractor) ExtractRequirements(ctx context.Context, description string) (*bids.ProjectRequirements, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("project description is required")
	}

	prompt := strings.ReplaceAll(extractPromptTemplate, "{{PROJECT_DESCRIPTION}}", description)

	e.logger.Debug("gemini extract requirements request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateJSON(ctx, prompt, requirementsSchema, analysisTemperature)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini extract requirements response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, e.maxLogLen)),
	)

	var requirements bids.ProjectRequirements
	if err := json.Unmarshal([]byte(extractJSON(raw)), &requirements); err != nil {
		return nil, fmt.Errorf("parse requirements response: %w", err)
	}

	return &requirements, nil
}
