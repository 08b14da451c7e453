package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/edualign/edualign/internal/ai"
	"github.com/edualign/edualign/internal/catalog"
	"github.com/edualign/edualign/internal/student"
)

// DefaultTopN is how many matches a request receives when it does not ask
// for a specific count.
const DefaultTopN = 4

// EngineConfig tunes the pipeline. Zero values fall back to the package
// defaults.
type EngineConfig struct {
	TopN           int
	ShortlistSize  int
	AffinityWeight float64
	FallbackSeed   int64
	ScoreFloor     float64
	ScoreCeil      float64
}

// Engine wires the full pipeline: validate, normalize, score, shortlist,
// orchestrate the external explanation, and memoize the response.
type Engine struct {
	pool         *catalog.Pool
	cache        Cache
	orchestrator *Orchestrator
	cfg          EngineConfig
	logger       *zap.Logger
}

func NewEngine(pool *catalog.Pool, cache Cache, orchestrator *Orchestrator, cfg EngineConfig, logger *zap.Logger) *Engine {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultTopN
	}
	if cfg.ShortlistSize <= 0 {
		cfg.ShortlistSize = DefaultShortlistSize
	}
	if cfg.AffinityWeight <= 0 {
		cfg.AffinityWeight = DefaultAffinityWeight
	}
	if cfg.ScoreFloor <= 0 && cfg.ScoreCeil <= 0 {
		cfg.ScoreFloor = DefaultScoreFloor
		cfg.ScoreCeil = DefaultScoreCeil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		pool:         pool,
		cache:        cache,
		orchestrator: orchestrator,
		cfg:          cfg,
		logger:       logger,
	}
}

// Match runs the pipeline for one request. The only error it can return is
// a *student.ValidationError; every upstream failure is absorbed into the
// fallback path. An empty candidate pool yields an empty match list, not an
// error.
func (e *Engine) Match(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, &student.ValidationError{Field: "preferences", Reason: "request body is required"}
	}
	if err := req.Preferences.Validate(); err != nil {
		return nil, err
	}
	if req.TopN < 0 {
		return nil, &student.ValidationError{Field: "top_n", Reason: "must be a positive integer"}
	}

	topN := req.TopN
	if topN == 0 {
		topN = e.cfg.TopN
	}

	key, err := Fingerprint(req.Preferences, req.Profile, topN)
	if err != nil {
		return nil, fmt.Errorf("fingerprint request: %w", err)
	}

	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			e.logger.Debug("returning cached match response")
			return cached, nil
		}
	}

	candidates := e.pool.WithExperience()
	if len(candidates) == 0 {
		e.logger.Info("no candidates carry experience data")
		return &Response{Matches: []Result{}, UsedFallback: false}, nil
	}

	norm, weights := req.Preferences.Normalize()
	affinities, hasSignal := Affinities(candidates, req.Profile)

	// With no profile signal the composite must equal the cosine
	// similarity exactly, so the blend weight goes to zero rather than
	// scaling every score by (1 - weight).
	affinityWeight := e.cfg.AffinityWeight
	if !hasSignal {
		affinityWeight = 0
	}

	scored := ScoreAll(candidates, norm, weights, affinities, affinityWeight)
	shortlist := Shortlist(scored, e.cfg.ShortlistSize)

	e.logger.Info("shortlist selected",
		zap.Int("initial", len(scored)),
		zap.Int("dropped", len(scored)-len(shortlist)),
		zap.Int("left", len(shortlist)),
	)

	explanations, ok := e.orchestrator.Explain(ctx, e.buildUpstreamRequest(req, shortlist, topN))

	var results []Result
	usedFallback := false
	if ok {
		results = enrich(explanations, shortlist)
		if len(results) == 0 {
			e.logger.Warn("no upstream entry matched a shortlisted institution, using fallback")
			ok = false
		}
	}
	if !ok {
		// The fallback path is cheap enough to rank and explain the full
		// scored pool, not just the shortlist.
		fallback := NewFallbackExplainer(FallbackConfig{
			Seed:       e.cfg.FallbackSeed,
			ScoreFloor: e.cfg.ScoreFloor,
			ScoreCeil:  e.cfg.ScoreCeil,
		})
		results = fallback.Explain(scored, norm, topN)
		usedFallback = true
	}

	sortResults(results)
	if len(results) > topN {
		results = results[:topN]
	}

	response := &Response{Matches: results, UsedFallback: usedFallback}
	if e.cache != nil {
		e.cache.Put(key, response)
	}

	e.logger.Info("match pipeline completed",
		zap.Int("matches", len(results)),
		zap.Bool("used_fallback", usedFallback),
	)

	return response, nil
}

func (e *Engine) buildUpstreamRequest(req *Request, shortlist []ScoredCandidate, topN int) *ai.Request {
	candidates := make([]ai.Candidate, 0, len(shortlist))
	for _, scored := range shortlist {
		candidates = append(candidates, ai.Candidate{
			ID:         scored.Record.ID,
			Name:       scored.Record.Name,
			City:       scored.Record.City,
			State:      scored.Record.State,
			Dimensions: *scored.Record.Experience,
		})
	}

	return &ai.Request{
		Preferences: req.Preferences,
		Profile:     req.Profile,
		Candidates:  candidates,
		TopN:        topN,
	}
}

// enrich maps each returned name back to its shortlisted candidate and
// copies the candidate's dimension values onto the result. Entries naming
// an institution outside the shortlist are dropped silently.
func enrich(explanations []ai.Explanation, shortlist []ScoredCandidate) []Result {
	byName := make(map[string]*catalog.Record, len(shortlist))
	for _, scored := range shortlist {
		byName[scored.Record.Name] = scored.Record
	}

	results := make([]Result, 0, len(explanations))
	for _, explanation := range explanations {
		record, ok := byName[explanation.CollegeName]
		if !ok {
			continue
		}

		results = append(results, Result{
			ID:              record.ID,
			CollegeName:     record.Name,
			SimilarityScore: explanation.SimilarityScore,
			Explanation:     explanation.Explanation,
			Strengths:       explanation.Strengths,
			Tradeoffs:       explanation.Tradeoffs,
			Dimensions:      record.DimensionMap(),
		})
	}

	return results
}
