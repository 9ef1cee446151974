package event

import "github.com/google/uuid"

type Event struct {
	ID        uuid.UUID
	Title     string
	EventType string
}
