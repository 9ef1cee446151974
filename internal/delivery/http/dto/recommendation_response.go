package dto

import (
	"time"

	"campus-link/internal/repository"

	"github.com/google/uuid"
)

type RecommendationResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	College        string    `json:"college,omitempty"`
	Skills         []string  `json:"skills"`
	Score          float64   `json:"compatibility_score"`
	MatchingSkills []string  `json:"matching_skills"`
	Reason         string    `json:"reason"`
	GeneratedAt    time.Time `json:"generated_at"`
}

func NewRecommendationResponse(rc repository.RecommendedCandidate) RecommendationResponse {
	return RecommendationResponse{
		UserID:         rc.Recommendation.UserID,
		Username:       rc.Username,
		FullName:       rc.FullName,
		College:        rc.College,
		Skills:         rc.Skills,
		Score:          rc.Recommendation.Score,
		MatchingSkills: rc.Recommendation.MatchingSkills,
		Reason:         rc.Recommendation.Reason,
		GeneratedAt:    rc.Recommendation.CreatedAt,
	}
}
