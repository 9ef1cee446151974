package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus-link/internal/database"
	"campus-link/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error)
	GetByEmail(ctx context.Context, email string) (profile.Profile, string, error)
	ListCandidates(ctx context.Context, excludeIDs []uuid.UUID) ([]profile.Profile, error)
}

type PostgresProfileRepository struct {
	db database.DB
}

func NewPostgresProfileRepository(db database.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

const profileColumns = `id, username, full_name, skills, interests, bio, experience, college, projects`

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (profile.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`,
		id,
	)

	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, err
	}
	return p, nil
}

// GetByEmail returns the profile and its password hash for login.
func (r *PostgresProfileRepository) GetByEmail(ctx context.Context, email string) (profile.Profile, string, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+profileColumns+`, password_hash FROM profiles WHERE email = $1`,
		email,
	)

	var p profile.Profile
	var hash string
	if err := row.Scan(&p.ID, &p.Username, &p.FullName, &p.Skills, &p.Interests,
		&p.Bio, &p.Experience, &p.College, &p.RawProjects, &hash); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, "", ErrProfileNotFound
		}
		return profile.Profile{}, "", err
	}
	return p, hash, nil
}

func (r *PostgresProfileRepository) ListCandidates(ctx context.Context, excludeIDs []uuid.UUID) ([]profile.Profile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE NOT (id = ANY($1))`,
		excludeIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]profile.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (profile.Profile, error) {
	var p profile.Profile
	err := s.Scan(&p.ID, &p.Username, &p.FullName, &p.Skills, &p.Interests,
		&p.Bio, &p.Experience, &p.College, &p.RawProjects)
	return p, err
}
