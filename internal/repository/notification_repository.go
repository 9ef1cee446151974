package repository

import (
	"context"
	"errors"

	"campus-link/internal/database"
	"campus-link/internal/domain/match"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	InsertBatch(ctx context.Context, notifs []match.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]match.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) InsertBatch(ctx context.Context, notifs []match.Notification) error {
	if len(notifs) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, n := range notifs {
		id := n.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		var matchID any
		if n.MatchID != uuid.Nil {
			matchID = n.MatchID
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO notifications (id, user_id, type, title, message, link, match_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, n.UserID, n.Type, n.Title, n.Message, n.Link, matchID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresNotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]match.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, title, message, link, COALESCE(match_id, '00000000-0000-0000-0000-000000000000'::uuid), read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.Notification, 0, limit)
	for rows.Next() {
		var n match.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
			&n.Link, &n.MatchID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	rowsAffected, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
