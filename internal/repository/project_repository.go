package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus-link/internal/database"
	"campus-link/internal/domain/project"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (project.Project, error)
	ListMemberIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
	ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]project.Summary, error)
}

type PostgresProjectRepository struct {
	db database.DB
}

func NewPostgresProjectRepository(db database.DB) *PostgresProjectRepository {
	return &PostgresProjectRepository{db: db}
}

func (r *PostgresProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, owner_id, title, description, required_skills
		 FROM projects WHERE id = $1`,
		id,
	)

	var p project.Project
	if err := row.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.RequiredSkills); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, ErrProjectNotFound
		}
		return project.Project{}, err
	}
	return p, nil
}

func (r *PostgresProjectRepository) ListMemberIDs(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM project_members WHERE project_id = $1`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresProjectRepository) ListRecentByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]project.Summary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT title, description, tags
		 FROM projects
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]project.Summary, 0, limit)
	for rows.Next() {
		var s project.Summary
		if err := rows.Scan(&s.Title, &s.Description, &s.Tags); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
