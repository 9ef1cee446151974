package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"campus-link/internal/domain/matching"
	"campus-link/internal/domain/post"
	"campus-link/internal/domain/profile"
	"campus-link/internal/domain/project"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func candidate(name string) matching.CandidateData {
	return matching.CandidateData{
		Profile: profile.Profile{
			ID:        uuid.New(),
			FullName:  name,
			Skills:    []string{"Go", "SQL"},
			Interests: []string{"AI"},
			College:   "State University",
		},
		Posts:    []post.Summary{{Content: "shipped my first service"}, {Content: "love pair programming"}},
		Projects: []project.Summary{{Title: "Campus Bot", Description: "a chat bot for campus events"}},
	}
}

func TestPairAnalyzerEvaluate(t *testing.T) {
	stub := &stubGenerator{response: `{"match_score": 0.85, "matching_skills": ["Go"], "matching_interests": ["AI"], "reasoning": "Both ship things."}`}
	analyzer := NewPairAnalyzer(stub, zap.NewNop())

	d1, d2 := candidate("Asha Rao"), candidate("Ben Ortiz")

	res, err := analyzer.Evaluate(context.Background(), d1, d2, "hackathon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Score != 0.85 {
		t.Fatalf("expected score 0.85, got %v", res.Score)
	}
	if res.Reasoning != "Both ship things." {
		t.Fatalf("unexpected reasoning: %q", res.Reasoning)
	}
	if res.User1ID != d1.Profile.ID.String() || res.User2ID != d2.Profile.ID.String() {
		t.Fatalf("pair ids not propagated: %+v", res)
	}

	for _, want := range []string{"Asha Rao", "Ben Ortiz", "hackathon", "shipped my first service", "Campus Bot"} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestPairAnalyzerEvaluate_FencedResponse(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"match_score\": 1.4, \"matching_skills\": [], \"matching_interests\": [], \"reasoning\": \"\"}\n```"}
	analyzer := NewPairAnalyzer(stub, zap.NewNop())

	res, err := analyzer.Evaluate(context.Background(), candidate("A"), candidate("B"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 1.0 {
		t.Fatalf("expected score clamped to 1.0, got %v", res.Score)
	}
	if res.Reasoning != "No reasoning provided" {
		t.Fatalf("expected reasoning placeholder, got %q", res.Reasoning)
	}
}

func TestPairAnalyzerEvaluate_ProseAroundJSON(t *testing.T) {
	stub := &stubGenerator{response: "Sure, here is my analysis:\n{\"match_score\": \"0.6\", \"reasoning\": \"ok\"} hope that helps"}
	analyzer := NewPairAnalyzer(stub, zap.NewNop())

	res, err := analyzer.Evaluate(context.Background(), candidate("A"), candidate("B"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 0.6 {
		t.Fatalf("expected score 0.6, got %v", res.Score)
	}
}

func TestPairAnalyzerEvaluate_Errors(t *testing.T) {
	cases := []struct {
		name string
		stub *stubGenerator
	}{
		{"generator failure", &stubGenerator{err: errors.New("deadline exceeded")}},
		{"unparseable output", &stubGenerator{response: "I cannot answer that."}},
		{"missing score", &stubGenerator{response: `{"reasoning": "no score here"}`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := NewPairAnalyzer(tc.stub, zap.NewNop())
			if _, err := analyzer.Evaluate(context.Background(), candidate("A"), candidate("B"), ""); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"`{\"a\":1}`", `{"a":1}`},
		{"noise before {\"a\":1} noise after", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Fatalf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
