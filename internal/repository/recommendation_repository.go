package repository

import (
	"context"

	"campus-link/internal/database"
	"campus-link/internal/domain/match"

	"github.com/google/uuid"
)

// RecommendedCandidate is a stored recommendation joined with the candidate's
// public profile, as the project owner reads it back.
type RecommendedCandidate struct {
	Recommendation match.TeamRecommendation
	Username       string
	FullName       string
	Skills         []string
	College        string
}

type RecommendationRepository interface {
	// Replace deletes all rows for the project and inserts the new set in
	// one transaction, so readers never observe a mixed generation.
	Replace(ctx context.Context, projectID uuid.UUID, recs []match.TeamRecommendation) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]RecommendedCandidate, error)
}

type PostgresRecommendationRepository struct {
	db database.DB
}

func NewPostgresRecommendationRepository(db database.DB) *PostgresRecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

func (r *PostgresRecommendationRepository) Replace(ctx context.Context, projectID uuid.UUID, recs []match.TeamRecommendation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM team_recommendations WHERE project_id = $1`,
		projectID,
	); err != nil {
		return err
	}

	for _, rec := range recs {
		id := rec.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO team_recommendations
				(id, project_id, recommended_user_id, compatibility_score, matching_skills, reason)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, projectID, rec.UserID, rec.Score, rec.MatchingSkills, rec.Reason,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRecommendationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]RecommendedCandidate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT tr.id, tr.project_id, tr.recommended_user_id, tr.compatibility_score,
		        tr.matching_skills, tr.reason, tr.created_at,
		        p.username, p.full_name, p.skills, p.college
		 FROM team_recommendations tr
		 JOIN profiles p ON p.id = tr.recommended_user_id
		 WHERE tr.project_id = $1
		 ORDER BY tr.compatibility_score DESC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RecommendedCandidate, 0)
	for rows.Next() {
		var rc RecommendedCandidate
		if err := rows.Scan(
			&rc.Recommendation.ID, &rc.Recommendation.ProjectID, &rc.Recommendation.UserID,
			&rc.Recommendation.Score, &rc.Recommendation.MatchingSkills, &rc.Recommendation.Reason,
			&rc.Recommendation.CreatedAt,
			&rc.Username, &rc.FullName, &rc.Skills, &rc.College,
		); err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
