package repository

import (
	"context"

	"campus-link/internal/database"
	"campus-link/internal/domain/post"

	"github.com/google/uuid"
)

type PostRepository interface {
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]post.Summary, error)
}

type PostgresPostRepository struct {
	db database.DB
}

func NewPostgresPostRepository(db database.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func (r *PostgresPostRepository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]post.Summary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT content, tags
		 FROM posts
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]post.Summary, 0, limit)
	for rows.Next() {
		var p post.Summary
		if err := rows.Scan(&p.Content, &p.Tags); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
