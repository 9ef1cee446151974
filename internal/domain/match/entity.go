package match

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// TeammateMatch pairs two candidates for one event. The pair is unordered:
// (A,B) and (B,A) are the same match. Status transitions pending->accepted
// and pending->rejected are terminal.
type TeammateMatch struct {
	ID                uuid.UUID
	EventID           uuid.UUID
	User1ID           uuid.UUID
	User2ID           uuid.UUID
	Score             float64
	MatchingSkills    []string
	MatchingInterests []string
	Reasoning         string
	Status            string
	CreatedAt         time.Time
}

// Involves reports whether the given user is one side of the pair.
func (m TeammateMatch) Involves(userID uuid.UUID) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Counterpart returns the other side of the pair for the given user.
func (m TeammateMatch) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// CanTransition reports whether the match may move to the given status.
func (m TeammateMatch) CanTransition(to string) bool {
	if m.Status != StatusPending {
		return false
	}
	return to == StatusAccepted || to == StatusRejected
}

// TeamRecommendation is one (project, candidate) row of the most recent
// generation run. A run fully replaces prior rows for its project.
type TeamRecommendation struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	UserID         uuid.UUID
	Score          float64
	MatchingSkills []string
	Reason         string
	CreatedAt      time.Time
}

// Notification is created in pairs whenever a teammate match is persisted.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Title     string
	Message   string
	Link      string
	MatchID   uuid.UUID
	Read      bool
	CreatedAt time.Time
}

const NotificationTypeTeammateMatch = "teammate_match"
