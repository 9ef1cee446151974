package matching

import (
	"fmt"
	"strings"

	"campus-link/internal/domain/post"
	"campus-link/internal/domain/profile"
	"campus-link/internal/domain/project"
)

// minEnrichedSignals is the combined posts+projects count below which a
// candidate is considered data-poor and the pair is scored on the basic path.
const minEnrichedSignals = 3

// CandidateData bundles everything known about one candidate for a matching
// run. Built transiently per run; never persisted.
type CandidateData struct {
	Profile  profile.Profile
	Posts    []post.Summary
	Projects []project.Summary
}

// Signals is the number of enrichment signals available for the candidate.
func (d CandidateData) Signals() int {
	return len(d.Posts) + len(d.Projects)
}

// HasMinimalData reports whether either side lacks enough posts/projects for
// enriched analysis.
func HasMinimalData(a, b CandidateData) bool {
	return a.Signals() < minEnrichedSignals || b.Signals() < minEnrichedSignals
}

// PairMatch is a scored candidate pair. Immutable once produced.
type PairMatch struct {
	User1ID           string
	User2ID           string
	Score             float64
	MatchingSkills    []string
	MatchingInterests []string
	Reasoning         string
}

// FallbackReasoning is the fixed explanation used when the AI scorer fails
// and the deterministic overlap computation stands in for it.
const FallbackReasoning = "Basic compatibility analysis (AI service unavailable)"

// ScoreBasicPair computes the deterministic rule-based compatibility of two
// candidates: interest overlap 40%, skill overlap 30%, event-type alignment
// 20%, shared college 10%. Any overlap at all floors the score at 0.3 so
// data-poor accounts can still clear the match threshold.
func ScoreBasicPair(u1, u2 profile.Profile, eventType string) PairMatch {
	matchingInterests := intersect(u1.Interests, u2.Interests)
	matchingSkills := intersect(u1.Skills, u2.Skills)

	var eventTypeBonus float64
	if eventType != "" && len(u1.Interests) > 0 && len(u2.Interests) > 0 {
		if interestAligns(u1.Interests, eventType) && interestAligns(u2.Interests, eventType) {
			eventTypeBonus = 0.2
		}
	}

	var collegeBonus float64
	if u1.College != "" && u1.College == u2.College {
		collegeBonus = 0.1
	}

	interestScore := float64(len(matchingInterests)) / float64(maxInt(maxInt(len(u1.Interests), len(u2.Interests)), 1))
	skillScore := float64(len(matchingSkills)) / float64(maxInt(maxInt(len(u1.Skills), len(u2.Skills)), 1))

	score := interestScore*0.4 + skillScore*0.3 + eventTypeBonus + collegeBonus

	if len(matchingInterests) > 0 || len(matchingSkills) > 0 {
		if score < 0.3 {
			score = 0.3
		}
	}
	if score > 1.0 {
		score = 1.0
	}

	var b strings.Builder
	switch {
	case score >= 0.5:
		b.WriteString("Good potential match! ")
	case score >= 0.3:
		b.WriteString("Promising collaboration opportunity! ")
	default:
		b.WriteString("Potential for collaboration. ")
	}
	if len(matchingInterests) > 0 {
		b.WriteString(fmt.Sprintf("Shared interests in %s. ", strings.Join(firstN(matchingInterests, 3), ", ")))
	}
	if len(matchingSkills) > 0 {
		b.WriteString(fmt.Sprintf("Common skills: %s. ", strings.Join(firstN(matchingSkills, 3), ", ")))
	}
	if eventTypeBonus > 0 {
		b.WriteString(fmt.Sprintf("Both aligned with %s event type. ", eventType))
	}
	reasoning := strings.TrimSpace(b.String())
	if reasoning == "" {
		reasoning = "Both interested in the same event and open to collaboration."
	}

	return PairMatch{
		User1ID:           u1.ID.String(),
		User2ID:           u2.ID.String(),
		Score:             round2(score),
		MatchingSkills:    matchingSkills,
		MatchingInterests: matchingInterests,
		Reasoning:         reasoning,
	}
}

// ScoreFallbackPair is the simplified deterministic computation used when the
// enriched AI path fails mid-run: combined overlap over the larger combined
// set, with a fixed reasoning string.
func ScoreFallbackPair(u1, u2 profile.Profile) PairMatch {
	matchingSkills := intersect(u1.Skills, u2.Skills)
	matchingInterests := intersect(u1.Interests, u2.Interests)

	totalMatches := len(matchingSkills) + len(matchingInterests)
	totalItems := maxInt(maxInt(len(u1.Skills)+len(u1.Interests), len(u2.Skills)+len(u2.Interests)), 1)

	score := float64(totalMatches) / float64(totalItems)
	if score > 1.0 {
		score = 1.0
	}

	return PairMatch{
		User1ID:           u1.ID.String(),
		User2ID:           u2.ID.String(),
		Score:             round2(score),
		MatchingSkills:    matchingSkills,
		MatchingInterests: matchingInterests,
		Reasoning:         FallbackReasoning,
	}
}

// ClampScore bounds an externally produced score to [0,1].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func intersect(a, b []string) []string {
	out := make([]string, 0)
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}

func interestAligns(interests []string, eventType string) bool {
	et := strings.ToLower(eventType)
	for _, i := range interests {
		il := strings.ToLower(i)
		if strings.Contains(il, et) || strings.Contains(et, il) {
			return true
		}
	}
	return false
}
