package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/edualign/edualign/internal/ai"
	"github.com/edualign/edualign/internal/ai/gemini"
	"github.com/edualign/edualign/internal/catalog"
	"github.com/edualign/edualign/internal/matching"
	"github.com/edualign/edualign/internal/secrets"
)

// buildEngine assembles the shared pipeline: candidate pool, result cache,
// reasoning-service orchestrator and the engine itself.
func buildEngine(ctx context.Context, config *Config, logger *zap.Logger) (*matching.Engine, error) {
	if strings.TrimSpace(config.Data) == "" {
		return nil, errors.New("candidate dataset path is required (set 'data' in the config file)")
	}

	pool, err := catalog.LoadCSV(config.Data)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded candidate pool",
		zap.Int("total", pool.Len()),
		zap.Int("with_experience_data", len(pool.WithExperience())),
	)

	explainer, err := newExplainer(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("reasoning service unavailable, every request will use the fallback explainer", zap.Error(err))
		explainer = disabledExplainer{}
	}

	orchestratorCfg := matching.OrchestratorConfig{}
	if config.AI != nil && config.AI.Gemini != nil {
		orchestratorCfg.MaxAttempts = config.AI.Gemini.MaxAttempts
		orchestratorCfg.AttemptTimeout = time.Duration(config.AI.Gemini.AttemptTimeout) * time.Second
	}
	orchestrator := matching.NewOrchestrator(explainer, orchestratorCfg, logger)

	engineCfg := matching.EngineConfig{
		TopN:           config.Matching.TopN,
		ShortlistSize:  config.Matching.ShortlistSize,
		AffinityWeight: config.Matching.AffinityWeight,
		FallbackSeed:   config.Matching.FallbackSeed,
	}

	return matching.NewEngine(pool, matching.NewMemoryCache(), orchestrator, engineCfg, logger), nil
}

func newExplainer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Explainer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai is disabled in the configuration")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	explainerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewExplainer(generator, explainerLogger, cfg.Gemini.MaxLogLength), nil
}

// disabledExplainer stands in when no reasoning service is configured; the
// orchestrator classifies its error as unrecoverable and the engine falls
// back immediately.
type disabledExplainer struct{}

func (disabledExplainer) Explain(context.Context, *ai.Request) ([]ai.Explanation, error) {
	return nil, ai.Unrecoverable(errors.New("reasoning service is not configured"))
}
