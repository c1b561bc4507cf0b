package evaluation

import (
	"context"
	"fmt"

	"github.com/avolkhin/bideval/internal/ai"
	"github.com/avolkhin/bideval/internal/bids"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Searcher researches contractor reputations. Implementations fail closed:
// the returned slice carries one profile per valid name regardless of
// individual lookup failures.
type Searcher interface {
	LookupAll(ctx context.Context, contractorNames []string) []bids.ContractorProfile
}

// Deps aggregates the collaborators the pipeline needs. All of them are
// constructed once at process start and passed in explicitly.
type Deps struct {
	Extractor  ai.RequirementExtractor
	Assessor   ai.BidAssessor
	Critic     ai.Critic
	Reputation Searcher
	Logger     *zap.Logger
}

// Result is the full output of one evaluation run. Each run owns its own
// Result; nothing here is shared between runs.
type Result struct {
	Requirements   *bids.ProjectRequirements
	Profiles       []bids.ContractorProfile
	Weights        bids.Weights
	Scores         []bids.BidScore
	RedFlags       []bids.RedFlag
	Recommendation *bids.FinalRecommendation
}

// Pipeline is the three-stage bid evaluation: parse and enrich, score and
// flag, critique and finalize. Stages run strictly in order; within the
// first stage, requirement extraction and the reputation lookups run
// concurrently.
type Pipeline struct {
	deps Deps
}

func New(deps Deps) *Pipeline {
	return &Pipeline{deps: deps}
}

// Run evaluates the payload. It returns an error only for fatal failures
// (invalid input or a failed requirement extraction); everything else
// degrades into the Result itself.
func (p *Pipeline) Run(ctx context.Context, payload *bids.Payload) (*Result, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	logger := p.deps.Logger

	logger.Info("parsing project requirements",
		zap.Int("bid_count", len(payload.Bids)),
	)

	requirements, profiles, err := p.parseAndEnrich(ctx, payload)
	if err != nil {
		return nil, err
	}

	profilesByName := make(map[string]bids.ContractorProfile, len(profiles))
	for _, profile := range profiles {
		profilesByName[profile.ContractorName] = profile
	}

	weights, emphasis := bids.CalculateWeights(requirements)
	logger.Info("scoring bids with dynamic weights",
		zap.String("emphasis", string(emphasis)),
		zap.Float64("cost", weights.Cost),
		zap.Float64("timeline", weights.Timeline),
		zap.Float64("scope", weights.Scope),
		zap.Float64("risk", weights.Risk),
		zap.Float64("reputation", weights.Reputation),
	)

	scores, flags := (&scorer{
		assessor:     p.deps.Assessor,
		logger:       logger,
		requirements: requirements,
		weights:      weights,
		profiles:     profilesByName,
	}).run(ctx, payload.Bids)

	logger.Info("scoring stage complete",
		zap.Int("scored", len(scores)),
		zap.Int("skipped", len(payload.Bids)-len(scores)),
		zap.Int("red_flags", len(flags)),
	)

	recommendation := (&synthesizer{
		critic: p.deps.Critic,
		logger: logger,
	}).run(ctx, scores, flags, requirements)

	return &Result{
		Requirements:   requirements,
		Profiles:       profiles,
		Weights:        weights,
		Scores:         scores,
		RedFlags:       flags,
		Recommendation: recommendation,
	}, nil
}

// parseAndEnrich extracts requirements and researches contractors. The two
// are independent, so they run concurrently; both must finish before
// scoring starts. A failed extraction is fatal, failed lookups are not.
func (p *Pipeline) parseAndEnrich(ctx context.Context, payload *bids.Payload) (*bids.ProjectRequirements, []bids.ContractorProfile, error) {
	var (
		requirements *bids.ProjectRequirements
		profiles     []bids.ContractorProfile
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		req, err := p.deps.Extractor.ExtractRequirements(gctx, payload.Project.Description)
		if err != nil {
			return fmt.Errorf("extract project requirements: %w", err)
		}
		requirements = req
		return nil
	})

	g.Go(func() error {
		names := payload.ContractorNames()
		if len(names) == 0 {
			p.deps.Logger.Warn("no contractor names found in bids, skipping reputation research")
			return nil
		}
		p.deps.Logger.Info("researching contractors", zap.Int("count", len(names)))
		profiles = p.deps.Reputation.LookupAll(gctx, names)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	p.deps.Logger.Info("retrieved contractor profiles", zap.Int("count", len(profiles)))

	return requirements, profiles, nil
}
