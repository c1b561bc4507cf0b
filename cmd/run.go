package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/avolkhin/bideval/internal/ai"
	"github.com/avolkhin/bideval/internal/ai/gemini"
	"github.com/avolkhin/bideval/internal/bids"
	"github.com/avolkhin/bideval/internal/evaluation"
	"github.com/avolkhin/bideval/internal/logger"
	"github.com/avolkhin/bideval/internal/reputation"
	"github.com/avolkhin/bideval/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate the bids in the given input file",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "json file with the project description and bids")
	runCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before evaluating")

	if err := runCmd.MarkFlagRequired("input"); err != nil {
		log.Fatalf("marking input flag required: %v", err)
	}
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting bideval", zap.String("version", version))

	inputFile := cmd.Flag("input").Value.String()
	data, err := os.ReadFile(inputFile)
	if err != nil {
		logger.Fatal("reading input file", zap.Error(err))
	}

	payload, err := bids.ParsePayload(data)
	if err != nil {
		logger.Fatal("invalid evaluation input", zap.Error(err))
	}

	logger.Info("loaded evaluation input",
		zap.String("file", inputFile),
		zap.Int("bid_count", len(payload.Bids)),
		zap.Strings("contractors", payload.ContractorNames()),
	)

	if cmd.Flag("auto-aprove").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Evaluate %d bids?", len(payload.Bids)),
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	deps, err := prepareDeps(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing evaluation dependencies", zap.Error(err))
	}

	result, err := evaluation.New(*deps).Run(ctx, payload)
	if err != nil {
		logger.Fatal("evaluation failed", zap.Error(err))
	}

	render(result)
}

func prepareDeps(ctx context.Context, config *Config, logger *zap.Logger) (*evaluation.Deps, error) {
	if config == nil {
		config = &Config{}
	}

	extractor, assessor, critic, err := prepareAssistants(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	return &evaluation.Deps{
		Extractor:  extractor,
		Assessor:   assessor,
		Critic:     critic,
		Reputation: prepareReputation(config.Serper, logger),
		Logger:     logger,
	}, nil
}

func prepareAssistants(ctx context.Context, config *AIConfig, logger *zap.Logger) (ai.RequirementExtractor, ai.BidAssessor, ai.Critic, error) {
	if config == nil {
		config = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, nil, nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	geminiCfg := config.Gemini
	if geminiCfg == nil {
		geminiCfg = &GeminiConfig{}
	}

	keyFile := strings.TrimSpace(geminiCfg.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	analysisGen, err := gemini.NewGenerator(ctx, apiKey, geminiCfg.Model)
	if err != nil {
		return nil, nil, nil, err
	}

	critiqueGen, err := gemini.NewCritiqueGenerator(ctx, apiKey, geminiCfg.CritiqueModel)
	if err != nil {
		return nil, nil, nil, err
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", analysisGen.Model()),
		zap.String("critique_model", critiqueGen.Model()),
	)

	return gemini.NewExtractor(analysisGen, genLogger, geminiCfg.MaxLogLength),
		gemini.NewAssessor(analysisGen, genLogger, geminiCfg.MaxLogLength),
		gemini.NewCritic(critiqueGen, genLogger, geminiCfg.MaxLogLength),
		nil
}

func prepareReputation(config *SerperConfig, logger *zap.Logger) *reputation.Client {
	keyFile := ""
	if config != nil {
		keyFile = strings.TrimSpace(config.APIKeyFile)
	}
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("serper.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "serper api key",
		File: keyFile,
	})
	if err != nil {
		// Reputation research degrades to neutral profiles without a key.
		logger.Warn("serper api key is not configured, contractors will get default profiles",
			zap.Error(err),
			zap.String("hint", "set serper.api-key-file or SERPER_API_KEY_FILE"),
		)
		apiKey = ""
	}

	return reputation.New(logger, apiKey)
}
