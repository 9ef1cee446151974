package matching

import (
	"strings"
	"testing"

	"campus-link/internal/domain/profile"
	"campus-link/internal/domain/project"

	"github.com/google/uuid"
)

func TestScoreProjectCandidate_PartialSkillMatch(t *testing.T) {
	p := project.Project{
		ID:             uuid.New(),
		Title:          "Campus Portal",
		Description:    "A portal for campus services",
		RequiredSkills: []string{"React", "Python"},
	}
	cand := profile.Profile{
		ID:     uuid.New(),
		Skills: []string{"react", "node"},
	}

	res := ScoreProjectCandidate(p, cand)

	if res.Score != 0.5 {
		t.Fatalf("expected score 0.5, got %v", res.Score)
	}
	if len(res.MatchingSkills) != 1 || res.MatchingSkills[0] != "react" {
		t.Fatalf("expected matching skills [react], got %v", res.MatchingSkills)
	}
	if !strings.Contains(res.Reason, "1 of 2 required skills: react") {
		t.Fatalf("unexpected reason: %q", res.Reason)
	}
	if !strings.Contains(res.Reason, "Good fit!") {
		t.Fatalf("expected good-fit marker, got %q", res.Reason)
	}
}

func TestScoreProjectCandidate_BreadthBonus(t *testing.T) {
	p := project.Project{
		Description:    "tooling",
		RequiredSkills: []string{"go"},
	}
	cand := profile.Profile{
		ID:     uuid.New(),
		Skills: []string{"go", "docker", "kubernetes"},
	}

	res := ScoreProjectCandidate(p, cand)

	// 1/1 base + 0.1 breadth, capped at 1.0.
	if res.Score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", res.Score)
	}
	if !strings.Contains(res.Reason, "Highly recommended!") {
		t.Fatalf("expected highly-recommended marker, got %q", res.Reason)
	}
}

func TestScoreProjectCandidate_HistoryBonus(t *testing.T) {
	p := project.Project{
		Description:    "Realtime chat application for students",
		RequiredSkills: []string{"go", "react"},
	}
	withHistory := profile.Profile{
		ID:          uuid.New(),
		Skills:      []string{"go"},
		RawProjects: `[{"title":"Chirp","description":"a realtime messaging app"}]`,
	}
	withoutHistory := profile.Profile{
		ID:     uuid.New(),
		Skills: []string{"go"},
	}

	with := ScoreProjectCandidate(p, withHistory)
	without := ScoreProjectCandidate(p, withoutHistory)

	if with.Score != without.Score+0.15 {
		t.Fatalf("expected history bonus of 0.15: with=%v without=%v", with.Score, without.Score)
	}
}

func TestScoreProjectCandidate_MalformedHistoryIgnored(t *testing.T) {
	p := project.Project{
		Description:    "Realtime chat application",
		RequiredSkills: []string{"go"},
	}
	cand := profile.Profile{
		ID:          uuid.New(),
		Skills:      []string{"go"},
		RawProjects: `{not json at all`,
	}

	res := ScoreProjectCandidate(p, cand)
	if res.Score != 1.0 {
		t.Fatalf("expected base score 1.0 with no bonus, got %v", res.Score)
	}
}

func TestScoreProjectCandidate_NoSkills(t *testing.T) {
	p := project.Project{RequiredSkills: []string{"go", "react"}}

	res := ScoreProjectCandidate(p, profile.Profile{ID: uuid.New()})

	if res.Score != 0 {
		t.Fatalf("expected score 0, got %v", res.Score)
	}
	if !strings.Contains(res.Reason, "Enthusiastic member") {
		t.Fatalf("unexpected reason: %q", res.Reason)
	}
}

func TestScoreProjectCandidate_NoRequiredSkills(t *testing.T) {
	// Empty required set must not divide by zero.
	res := ScoreProjectCandidate(project.Project{}, profile.Profile{
		ID:     uuid.New(),
		Skills: []string{"go"},
	})

	if res.Score < 0 || res.Score > 1 {
		t.Fatalf("score out of bounds: %v", res.Score)
	}
	if !strings.Contains(res.Reason, "1 relevant skills") {
		t.Fatalf("unexpected reason: %q", res.Reason)
	}
}

func TestScoreProjectCandidate_Bounds(t *testing.T) {
	cases := []struct {
		name        string
		required    []string
		skills      []string
		rawProjects string
	}{
		{"all bonuses", []string{"go"}, []string{"go", "react", "sql"}, `[{"description":"golang service"}]`},
		{"nothing", nil, nil, ""},
		{"overlap only", []string{"go", "sql"}, []string{"go", "sql"}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ScoreProjectCandidate(
				project.Project{Description: "golang backend service", RequiredSkills: tc.required},
				profile.Profile{ID: uuid.New(), Skills: tc.skills, RawProjects: tc.rawProjects},
			)
			if res.Score < 0 || res.Score > 1 {
				t.Fatalf("score out of bounds: %v", res.Score)
			}
		})
	}
}
