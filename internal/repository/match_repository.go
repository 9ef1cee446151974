package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus-link/internal/database"
	"campus-link/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrMatchNotFound = errors.New("match not found")

	// ErrDuplicateMatch maps the unique pair constraint; under concurrent
	// runs it means "someone else already matched this pair", not a failure.
	ErrDuplicateMatch = errors.New("match already exists")
)

type MatchRepository interface {
	ExistsBetween(ctx context.Context, eventID, userA, userB uuid.UUID) (bool, error)
	Insert(ctx context.Context, m match.TeammateMatch) (match.TeammateMatch, error)
	GetByID(ctx context.Context, id uuid.UUID) (match.TeammateMatch, error)
	ListForUser(ctx context.Context, eventID, userID uuid.UUID) ([]match.TeammateMatch, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

const matchColumns = `id, event_id, user1_id, user2_id, compatibility_score,
	matching_skills, matching_interests, reasoning, status, created_at`

// ExistsBetween checks both orderings of the pair.
func (r *PostgresMatchRepository) ExistsBetween(ctx context.Context, eventID, userA, userB uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM teammate_matches
			WHERE event_id = $1
			  AND ((user1_id = $2 AND user2_id = $3) OR (user1_id = $3 AND user2_id = $2))
		)`,
		eventID, userA, userB,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresMatchRepository) Insert(ctx context.Context, m match.TeammateMatch) (match.TeammateMatch, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = match.StatusPending
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO teammate_matches
			(id, event_id, user1_id, user2_id, compatibility_score, matching_skills, matching_interests, reasoning, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+matchColumns,
		m.ID, m.EventID, m.User1ID, m.User2ID, m.Score,
		m.MatchingSkills, m.MatchingInterests, m.Reasoning, m.Status,
	)

	created, err := scanMatch(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return match.TeammateMatch{}, ErrDuplicateMatch
		}
		return match.TeammateMatch{}, err
	}
	return created, nil
}

func (r *PostgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (match.TeammateMatch, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM teammate_matches WHERE id = $1`,
		id,
	)
	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return match.TeammateMatch{}, ErrMatchNotFound
		}
		return match.TeammateMatch{}, err
	}
	return m, nil
}

func (r *PostgresMatchRepository) ListForUser(ctx context.Context, eventID, userID uuid.UUID) ([]match.TeammateMatch, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+matchColumns+`
		 FROM teammate_matches
		 WHERE event_id = $1 AND (user1_id = $2 OR user2_id = $2)
		 ORDER BY compatibility_score DESC, created_at DESC`,
		eventID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.TeammateMatch, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE teammate_matches SET status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func scanMatch(s scanner) (match.TeammateMatch, error) {
	var m match.TeammateMatch
	err := s.Scan(&m.ID, &m.EventID, &m.User1ID, &m.User2ID, &m.Score,
		&m.MatchingSkills, &m.MatchingInterests, &m.Reasoning, &m.Status, &m.CreatedAt)
	return m, err
}
