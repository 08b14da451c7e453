package cmd

import (
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edualign/edualign/internal/server"
)

const (
	app = "edualign"
)

type Config struct {
	// Data points at the merged candidate dataset built by the
	// preprocessing pipeline.
	Data     string          `mapstructure:"data"`
	AI       *AIConfig       `mapstructure:"ai"`
	Matching *MatchingConfig `mapstructure:"matching"`
	Server   *server.Config  `mapstructure:"server"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	Model          string `mapstructure:"model"`
	MaxAttempts    int    `mapstructure:"max-attempts"`
	AttemptTimeout int    `mapstructure:"attempt-timeout-seconds"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

type MatchingConfig struct {
	TopN           int     `mapstructure:"top-n"`
	ShortlistSize  int     `mapstructure:"shortlist-size"`
	AffinityWeight float64 `mapstructure:"affinity-weight"`
	FallbackSeed   int64   `mapstructure:"fallback-seed"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "edualign matches students to colleges by alumni experience fit and explains the top picks",
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

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is edualign.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// A missing config file is fine: the defaults and flags cover the demo
	// path. A present but unparseable one is not.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Server == nil {
		config.Server = &server.Config{}
	}
	// The addr pflag binding materializes the server section even without a
	// config file, so the default applies to the empty address, not only to
	// a missing section.
	if strings.TrimSpace(config.Server.Addr) == "" {
		config.Server.Addr = ":8080"
	}

	return config, nil
}
