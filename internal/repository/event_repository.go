package repository

import (
	"context"
	"database/sql"
	"errors"

	"campus-link/internal/database"
	"campus-link/internal/domain/event"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (event.Event, error)
	ListInterestedUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error)
}

type PostgresEventRepository struct {
	db database.DB
}

func NewPostgresEventRepository(db database.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (event.Event, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, title, event_type FROM events WHERE id = $1`,
		id,
	)

	var e event.Event
	if err := row.Scan(&e.ID, &e.Title, &e.EventType); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, ErrEventNotFound
		}
		return event.Event{}, err
	}
	return e, nil
}

func (r *PostgresEventRepository) ListInterestedUserIDs(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id FROM event_interests WHERE event_id = $1 ORDER BY created_at ASC`,
		eventID,
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
