package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/edualign/edualign/internal/logger"
	"github.com/edualign/edualign/internal/matching"
	"github.com/edualign/edualign/internal/student"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one matching request and print the ranked results",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("scenario", "s", "", "yaml file with preferences, profile and top-n; prompts interactively when unset")
	runCmd.Flags().IntP("top-n", "n", 0, "number of matches to return")
}

// scenario mirrors the pipeline entry contract for file-driven runs.
type scenario struct {
	Preferences map[string]int   `mapstructure:"preferences"`
	TopN        int              `mapstructure:"top-n"`
	Profile     *student.Profile `mapstructure:"profile"`
}

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

	logger.Info("starting edualign", zap.String("version", version))

	engine, err := buildEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the matching engine", zap.Error(err))
	}

	request, err := buildRequest(cmd)
	if err != nil {
		logger.Fatal("building the match request", zap.Error(err))
	}

	response, err := engine.Match(ctx, request)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	printResponse(response)
}

func buildRequest(cmd *cobra.Command) (*matching.Request, error) {
	path := strings.TrimSpace(cmd.Flag("scenario").Value.String())
	if path != "" {
		return requestFromScenario(path)
	}
	return requestFromPrompts(cmd)
}

func requestFromScenario(path string) (*matching.Request, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var sc scenario
	if err := mapstructure.Decode(v.AllSettings(), &sc); err != nil {
		return nil, fmt.Errorf("decoding scenario file: %w", err)
	}

	return &matching.Request{
		Preferences: student.PreferenceVector(sc.Preferences),
		TopN:        sc.TopN,
		Profile:     sc.Profile,
	}, nil
}

func requestFromPrompts(cmd *cobra.Command) (*matching.Request, error) {
	prefs := make(student.PreferenceVector, student.DimensionCount)

	fmt.Println("Rate how much each dimension matters to you (1-10):")
	for _, dim := range student.Dimensions {
		prompt := promptui.Prompt{
			Label:    student.Label(dim),
			Validate: validateRating,
		}
		raw, err := prompt.Run()
		if err != nil {
			return nil, err
		}
		// validateRating already proved this parses.
		value, _ := strconv.Atoi(strings.TrimSpace(raw))
		prefs[dim] = value
	}

	profile, err := profileFromPrompts()
	if err != nil {
		return nil, err
	}

	topN, err := cmd.Flags().GetInt("top-n")
	if err != nil {
		return nil, err
	}

	return &matching.Request{Preferences: prefs, TopN: topN, Profile: profile}, nil
}

func profileFromPrompts() (*student.Profile, error) {
	confirm := promptui.Select{
		Label: "Add an optional profile (location, SAT)?",
		Items: []string{PromptYes, PromptNo},
	}
	_, answer, err := confirm.Run()
	if err != nil {
		return nil, err
	}
	if answer != PromptYes {
		return nil, nil
	}

	profile := &student.Profile{}

	location := promptui.Prompt{Label: "Home state (name or code, empty to skip)"}
	if value, err := location.Run(); err == nil {
		profile.Location = strings.TrimSpace(value)
	}

	if profile.Location != "" {
		inState := promptui.Select{
			Label: "Prefer in-state tuition?",
			Items: []string{PromptYes, PromptNo},
		}
		if _, answer, err := inState.Run(); err == nil {
			preference := answer == PromptYes
			profile.InStatePreference = &preference
		}
	}

	sat := promptui.Prompt{
		Label: "SAT score (empty to skip)",
		Validate: func(input string) error {
			input = strings.TrimSpace(input)
			if input == "" {
				return nil
			}
			if _, err := strconv.Atoi(input); err != nil {
				return fmt.Errorf("must be a number")
			}
			return nil
		},
	}
	if raw, err := sat.Run(); err == nil {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			value, _ := strconv.Atoi(trimmed)
			profile.SAT = &value
		}
	}

	return profile, nil
}

func validateRating(input string) error {
	value, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if value < 1 || value > 10 {
		return fmt.Errorf("must be between 1 and 10")
	}
	return nil
}

func printResponse(response *matching.Response) {
	if response.UsedFallback {
		fmt.Println("Used the deterministic fallback explainer (reasoning service unavailable)")
	} else {
		fmt.Println("Used the reasoning service for explanations")
	}
	fmt.Println()

	for i, match := range response.Matches {
		fmt.Printf("#%d  %s\n", i+1, match.CollegeName)
		fmt.Printf("    Score: %.4f\n", match.SimilarityScore)
		fmt.Printf("    Why: %s\n", match.Explanation)
		if len(match.Strengths) > 0 {
			fmt.Printf("    Strengths: %s\n", strings.Join(match.Strengths, ", "))
		}
		if len(match.Tradeoffs) > 0 {
			fmt.Printf("    Tradeoffs: %s\n", strings.Join(match.Tradeoffs, ", "))
		}
		fmt.Println()
	}
}
