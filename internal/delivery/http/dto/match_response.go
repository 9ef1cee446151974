package dto

import (
	"time"

	"campus-link/internal/domain/match"

	"github.com/google/uuid"
)

type UpdateMatchStatusRequest struct {
	Status string `json:"status"`
}

type MatchResponse struct {
	ID                uuid.UUID `json:"id"`
	EventID           uuid.UUID `json:"event_id"`
	MatchedUserID     uuid.UUID `json:"matched_user_id"`
	Score             float64   `json:"compatibility_score"`
	MatchingSkills    []string  `json:"matching_skills"`
	MatchingInterests []string  `json:"matching_interests"`
	Reasoning         string    `json:"reasoning"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewMatchResponse shapes a match from the viewpoint of one participant:
// the counterpart is exposed, the viewer's own id is not repeated.
func NewMatchResponse(m match.TeammateMatch, viewerID uuid.UUID) MatchResponse {
	return MatchResponse{
		ID:                m.ID,
		EventID:           m.EventID,
		MatchedUserID:     m.Counterpart(viewerID),
		Score:             m.Score,
		MatchingSkills:    m.MatchingSkills,
		MatchingInterests: m.MatchingInterests,
		Reasoning:         m.Reasoning,
		Status:            m.Status,
		CreatedAt:         m.CreatedAt,
	}
}

type RunSummaryResponse struct {
	Candidates     int `json:"candidates"`
	PairsEvaluated int `json:"pairs_evaluated"`
	MatchesCreated int `json:"matches_created"`
}
