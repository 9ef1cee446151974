package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"campus-link/internal/domain/matching"
	"campus-link/internal/domain/post"
	"campus-link/internal/domain/project"
	"campus-link/internal/logger"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// PairAnalyzer scores a candidate pair through Gemini over their full
// context: profile, recent posts, and recent projects. Any failure is
// returned to the caller, which falls back to deterministic scoring.
type PairAnalyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

const (
	defaultMaxLogLength = 200
	maxPromptItems      = 10
)

func NewPairAnalyzer(generator contentGenerator, log *zap.Logger) *PairAnalyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &PairAnalyzer{generator: generator, logger: log, maxLogLen: defaultMaxLogLength}
}

// Evaluate runs the enriched compatibility analysis for the pair.
func (a *PairAnalyzer) Evaluate(ctx context.Context, d1, d2 matching.CandidateData, eventType string) (matching.PairMatch, error) {
	prompt := buildPairPrompt(d1, d2, eventType)

	a.logger.Debug("gemini pair analysis request",
		zap.String("user1_id", d1.Profile.ID.String()),
		zap.String("user2_id", d2.Profile.ID.String()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return matching.PairMatch{}, err
	}

	a.logger.Debug("gemini pair analysis response",
		zap.String("user1_id", d1.Profile.ID.String()),
		zap.String("user2_id", d2.Profile.ID.String()),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return matching.PairMatch{}, err
	}

	reasoning := analysis.Reasoning
	if reasoning == "" {
		reasoning = "No reasoning provided"
	}

	return matching.PairMatch{
		User1ID:           d1.Profile.ID.String(),
		User2ID:           d2.Profile.ID.String(),
		Score:             matching.ClampScore(analysis.Score),
		MatchingSkills:    analysis.MatchingSkills,
		MatchingInterests: analysis.MatchingInterests,
		Reasoning:         reasoning,
	}, nil
}

func buildPairPrompt(d1, d2 matching.CandidateData, eventType string) string {
	var b strings.Builder

	b.WriteString("You are an AI matchmaking assistant for a student collaboration platform. ")
	b.WriteString("Analyze these two users for potential teamwork compatibility")
	if eventType != "" {
		b.WriteString(" for a " + eventType + " event")
	}
	b.WriteString(".\n\n")

	writeUserSection(&b, "USER 1", d1)
	b.WriteString("\n---\n\n")
	writeUserSection(&b, "USER 2", d2)

	b.WriteString("\n---\n\nANALYSIS CRITERIA:\n")
	b.WriteString("1. Interest Alignment: Do their interests and tags overlap?")
	if eventType != "" {
		b.WriteString(" Do they match the " + eventType + " event type?")
	}
	b.WriteString("\n2. Skill Complementarity: Do they have complementary or matching skills?\n")
	b.WriteString("3. Communication Vibe: Based on their posts and project descriptions, do they have similar communication styles and enthusiasm levels?\n")
	b.WriteString("4. Experience Level: Are they at compatible experience levels for productive collaboration?\n")
	b.WriteString("5. Shared Goals: Do their bios, posts, and projects suggest aligned goals and work ethics?\n\n")
	b.WriteString("Note: Be generous with scoring even if data is limited. Focus on potential for collaboration based on available information.\n\n")
	b.WriteString("Provide your analysis as JSON:\n")
	b.WriteString(`{
  "match_score": 0.75,
  "matching_skills": ["JavaScript", "Python"],
  "matching_interests": ["AI", "Web Development"],
  "reasoning": "Detailed 2-3 sentence explanation of compatibility based on all available data."
}`)

	return b.String()
}

func writeUserSection(b *strings.Builder, label string, d matching.CandidateData) {
	p := d.Profile

	fmt.Fprintf(b, "%s - %s:\nProfile:\n", label, p.DisplayName())
	fmt.Fprintf(b, "- Skills: %s\n", joinOr(p.Skills, "None listed"))
	fmt.Fprintf(b, "- Interests: %s\n", joinOr(p.Interests, "None listed"))
	fmt.Fprintf(b, "- Bio: %s\n", valueOr(p.Bio, "Not provided"))
	fmt.Fprintf(b, "- Experience: %s\n", valueOr(p.Experience, "Not provided"))
	fmt.Fprintf(b, "- College: %s\n", valueOr(p.College, "Not provided"))

	fmt.Fprintf(b, "\nRecent Posts: %s\n", postsLine(d.Posts))
	fmt.Fprintf(b, "\nProjects: %s\n", projectsLine(d.Projects))
}

func postsLine(posts []post.Summary) string {
	if len(posts) == 0 {
		return "No posts yet"
	}
	if len(posts) > maxPromptItems {
		posts = posts[:maxPromptItems]
	}
	parts := make([]string, 0, len(posts))
	for _, p := range posts {
		parts = append(parts, p.Content)
	}
	return strings.Join(parts, " | ")
}

func projectsLine(projects []project.Summary) string {
	if len(projects) == 0 {
		return "No projects yet"
	}
	if len(projects) > maxPromptItems {
		projects = projects[:maxPromptItems]
	}
	parts := make([]string, 0, len(projects))
	for _, p := range projects {
		parts = append(parts, p.Title+": "+p.Description)
	}
	return strings.Join(parts, " | ")
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

type pairAnalysis struct {
	Score             float64
	MatchingSkills    []string
	MatchingInterests []string
	Reasoning         string
}

func parseAnalysis(raw string) (pairAnalysis, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return pairAnalysis{}, fmt.Errorf("parse gemini response: %w", err)
	}

	score, ok := coerceFloat(data["match_score"])
	if !ok {
		return pairAnalysis{}, fmt.Errorf("gemini response missing match_score")
	}

	return pairAnalysis{
		Score:             score,
		MatchingSkills:    coerceStrings(data["matching_skills"]),
		MatchingInterests: coerceStrings(data["matching_interests"]),
		Reasoning:         coerceString(data["reasoning"]),
	}, nil
}

// extractJSON strips optional code fences and trims the payload to the
// outermost JSON object.
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
	raw = strings.TrimSpace(raw)

	if start := strings.Index(raw, "{"); start != -1 {
		raw = raw[start:]
		if end := strings.LastIndex(raw, "}"); end != -1 {
			raw = raw[:end+1]
		}
	}
	return raw
}

func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
