package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "bideval"
)

type Config struct {
	AI     *AIConfig     `mapstructure:"ai"`
	Serper *SerperConfig `mapstructure:"serper"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile    string `mapstructure:"api-key-file"`
	Model         string `mapstructure:"model"`
	CritiqueModel string `mapstructure:"critique-model"`
	MaxLogLength  int    `mapstructure:"max-log-length"`
}

type SerperConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "bideval is a cli for evaluating construction bids against a project description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("serper.api-key-file", "SERPER_API_KEY_FILE"); err != nil {
		log.Fatalf("binding SERPER_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is bideval.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the run command. If there is no config, we can skip initialization.
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// Secrets can come from environment variables alone, so a missing
	// config file is not fatal.
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("no config file loaded: %v", err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
