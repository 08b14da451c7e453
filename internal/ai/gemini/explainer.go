package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/edualign/edualign/internal/ai"
	"github.com/edualign/edualign/internal/student"
	"github.com/edualign/edualign/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Explainer asks Gemini to rank a shortlist of candidates and explain the
// top matches. All errors it returns are classified as either transient or
// unrecoverable for the orchestrator.
type Explainer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewExplainer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Explainer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Explainer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (e *Explainer) Explain(ctx context.Context, req *ai.Request) ([]ai.Explanation, error) {
	if req == nil {
		return nil, ai.Unrecoverable(errors.New("request is required"))
	}
	if len(req.Candidates) == 0 {
		return nil, ai.Unrecoverable(errors.New("shortlist is empty"))
	}

	prompt := buildPrompt(req)

	e.logger.Debug("gemini generate content request",
		zap.Int("shortlist_size", len(req.Candidates)),
		zap.Int("top_n", req.TopN),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, classify(err)
	}

	e.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	explanations, err := parseResponse(raw, req.TopN)
	if err != nil {
		return nil, ai.Transient(err)
	}

	return explanations, nil
}

func buildPrompt(req *ai.Request) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "{{PROFILE_BLOCK}}Preferences:\n{{PREFERENCES_BLOCK}}\n\nColleges:\n{{CANDIDATES_BLOCK}}\n\nReturn the top {{TOP_N}} matches as JSON."
	}

	prompt := strings.ReplaceAll(template, "{{TOP_N}}", fmt.Sprintf("%d", req.TopN))
	prompt = strings.ReplaceAll(prompt, "{{PROFILE_BLOCK}}", profileBlock(req.Profile))
	prompt = strings.ReplaceAll(prompt, "{{PREFERENCES_BLOCK}}", preferencesBlock(req.Preferences))
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATES_BLOCK}}", candidatesBlock(req.Candidates))
	return prompt
}

// profileBlock renders the optional student profile. It returns an empty
// string when there is no signal so the template collapses cleanly.
func profileBlock(profile *student.Profile) string {
	if profile.IsEmpty() {
		return ""
	}

	lines := make([]string, 0, 7)
	if profile.GPA != nil {
		lines = append(lines, fmt.Sprintf("  GPA: %.2f", *profile.GPA))
	}
	if profile.SAT != nil {
		lines = append(lines, fmt.Sprintf("  SAT: %d", *profile.SAT))
	}
	if profile.Major != "" {
		lines = append(lines, fmt.Sprintf("  Area of interest / Major: %s", profile.Major))
	}
	if profile.Location != "" {
		lines = append(lines, fmt.Sprintf("  Current location: %s", profile.Location))
	}
	if profile.Extracurriculars != "" {
		lines = append(lines, fmt.Sprintf("  Sports & Extracurriculars: %s", profile.Extracurriculars))
	}
	if profile.InStatePreference != nil {
		pref := "out-of-state"
		if *profile.InStatePreference {
			pref = "in-state"
		}
		lines = append(lines, fmt.Sprintf("  Tuition preference: %s", pref))
	}
	if profile.FreeText != "" {
		lines = append(lines, fmt.Sprintf("  What they want: %s", profile.FreeText))
	}

	return "Student profile:\n" + strings.Join(lines, "\n") + "\n\n"
}

func preferencesBlock(prefs student.PreferenceVector) string {
	lines := make([]string, 0, student.DimensionCount)
	for _, dim := range student.Dimensions {
		lines = append(lines, fmt.Sprintf("  %s: %d/10", dim, prefs[dim]))
	}
	return strings.Join(lines, "\n")
}

func candidatesBlock(candidates []ai.Candidate) string {
	blocks := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		dims := make([]string, 0, student.DimensionCount)
		for i, dim := range student.Dimensions {
			dims = append(dims, fmt.Sprintf("%s: %.2f", dim, candidate.Dimensions[i]))
		}
		blocks = append(blocks, fmt.Sprintf("- %s (%s, %s): %s",
			candidate.Name, candidate.City, candidate.State, strings.Join(dims, ", ")))
	}
	return strings.Join(blocks, "\n")
}

type matchesEnvelope struct {
	Matches []ai.Explanation `json:"matches"`
}

// parseResponse enforces the fixed response schema. Prose or code fences
// around the JSON object are unwrapped first; anything that still fails to
// parse is a transient error for the caller to classify.
func parseResponse(raw string, topN int) ([]ai.Explanation, error) {
	cleaned := extractJSON(raw)

	var envelope matchesEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if len(envelope.Matches) == 0 {
		return nil, errors.New("gemini response contains no matches")
	}

	matches := envelope.Matches
	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}

	out := make([]ai.Explanation, 0, len(matches))
	for _, match := range matches {
		match.CollegeName = strings.TrimSpace(match.CollegeName)
		if match.CollegeName == "" {
			return nil, errors.New("gemini response entry is missing college_name")
		}
		match.Strengths = knownDimensions(match.Strengths)
		match.Tradeoffs = knownDimensions(match.Tradeoffs)
		out = append(out, match)
	}

	return out, nil
}

// knownDimensions keeps only valid dimension keys, silently dropping
// anything the model invented.
func knownDimensions(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		for _, dim := range student.Dimensions {
			if key == dim {
				out = append(out, key)
				break
			}
		}
	}
	return out
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	// Some responses wrap the object in prose; cut down to the outermost
	// braces before giving up.
	if start := strings.Index(raw, "{"); start > 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}

	return strings.TrimSpace(raw)
}

// classify sorts upstream failures into the orchestrator's taxonomy.
// Authentication, permission and quota failures will not resolve within the
// request's lifetime; everything else is worth a retry.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			return ai.Unrecoverable(err)
		}
		switch apiErr.Status {
		case "UNAUTHENTICATED", "PERMISSION_DENIED", "RESOURCE_EXHAUSTED":
			return ai.Unrecoverable(err)
		}
	}

	return ai.Transient(err)
}
