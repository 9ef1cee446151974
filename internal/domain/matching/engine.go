package matching

import (
	"fmt"
	"math"
	"strings"

	"campus-link/internal/domain/profile"
	"campus-link/internal/domain/project"
)

// DefaultMatchThreshold is the minimum pair score that persists a teammate
// match. 0.3 is deliberately permissive so that accounts with minimal
// self-reported data can still clear it (the basic-path floor below is tuned
// to this bar). Treat as tunable, not as an invariant.
const DefaultMatchThreshold = 0.3

// RecommendationCutoff is the minimum project-fit score that keeps a
// candidate in a recommendation run.
const RecommendationCutoff = 0.1

// MaxRecommendations caps one generation run's output.
const MaxRecommendations = 10

// ProjectMatch is the fit of one candidate for one project.
type ProjectMatch struct {
	Score          float64
	MatchingSkills []string
	Reason         string
}

// ScoreProjectCandidate computes a bounded [0,1] fit between a project's
// required skills and a candidate. Pure: no I/O.
func ScoreProjectCandidate(p project.Project, cand profile.Profile) ProjectMatch {
	projectSkills := lowerAll(p.RequiredSkills)
	userSkills := lowerAll(cand.Skills)

	matchingSkills := make([]string, 0, len(projectSkills))
	for _, ps := range projectSkills {
		for _, us := range userSkills {
			if strings.Contains(us, ps) || strings.Contains(ps, us) {
				matchingSkills = append(matchingSkills, ps)
				break
			}
		}
	}

	score := float64(len(matchingSkills)) / float64(maxInt(len(projectSkills), 1))

	// Breadth bonus: candidate brings more than the project asks for.
	if len(userSkills) > len(projectSkills) {
		score += 0.1
	}

	if hasRelevantHistory(cand.ProjectHistory(), p.Description) {
		score += 0.15
	}

	if score > 1.0 {
		score = 1.0
	}

	var reason string
	switch {
	case len(matchingSkills) > 0:
		reason = fmt.Sprintf("Strong match! Has %d of %d required skills: %s",
			len(matchingSkills), len(projectSkills), strings.Join(firstN(matchingSkills, 3), ", "))
	case len(userSkills) > 0:
		reason = fmt.Sprintf("Has %d relevant skills that could complement the team", len(userSkills))
	default:
		reason = "Enthusiastic member who can learn and contribute"
	}

	if score > 0.7 {
		reason = "⭐ " + reason + ". Highly recommended!"
	} else if score > 0.4 {
		reason = "✨ " + reason + ". Good fit!"
	}

	return ProjectMatch{
		Score:          round2(score),
		MatchingSkills: matchingSkills,
		Reason:         reason,
	}
}

// hasRelevantHistory reports whether any self-reported project description
// shares a keyword (longer than 4 characters) with the target description.
func hasRelevantHistory(history []profile.HistoryProject, description string) bool {
	if len(history) == 0 {
		return false
	}
	keywords := strings.Fields(strings.ToLower(description))
	for _, hp := range history {
		desc := strings.ToLower(hp.Description)
		if desc == "" {
			continue
		}
		for _, kw := range keywords {
			if len(kw) > 4 && strings.Contains(desc, kw) {
				return true
			}
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func firstN(in []string, n int) []string {
	if len(in) <= n {
		return in
	}
	return in[:n]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
