package usecase

import (
	"context"
	"errors"
	"fmt"

	"campus-link/internal/domain/match"
	"campus-link/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationPusher delivers a realtime nudge to a connected user.
// Best-effort: the stored notification row is the source of truth.
type NotificationPusher interface {
	Push(userID uuid.UUID, notification match.Notification)
}

// MatchNotifier writes the paired notifications for a freshly created
// teammate match. Lookups for display names and the event title are
// best-effort; insertion failures are logged and never roll back the match.
type MatchNotifier struct {
	notifications repository.NotificationRepository
	profiles      repository.ProfileRepository
	events        repository.EventRepository
	pusher        NotificationPusher
	logger        *zap.Logger
}

func NewMatchNotifier(
	notifications repository.NotificationRepository,
	profiles repository.ProfileRepository,
	events repository.EventRepository,
	pusher NotificationPusher,
	log *zap.Logger,
) *MatchNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &MatchNotifier{
		notifications: notifications,
		profiles:      profiles,
		events:        events,
		pusher:        pusher,
		logger:        log,
	}
}

func (n *MatchNotifier) NotifyMatch(ctx context.Context, m match.TeammateMatch) {
	eventTitle := "an event"
	if ev, err := n.events.GetByID(ctx, m.EventID); err == nil && ev.Title != "" {
		eventTitle = ev.Title
	} else if err != nil {
		n.logger.Warn("match notification: event lookup failed",
			zap.String("event_id", m.EventID.String()),
			zap.Error(err),
		)
	}

	name1 := n.displayName(ctx, m.User1ID)
	name2 := n.displayName(ctx, m.User2ID)

	link := "/events/" + m.EventID.String()
	title := fmt.Sprintf("New Teammate Match for %s!", eventTitle)

	notifs := []match.Notification{
		{
			ID:      uuid.New(),
			UserID:  m.User1ID,
			Type:    match.NotificationTypeTeammateMatch,
			Title:   title,
			Message: fmt.Sprintf("You have been matched with %s. Reasoning: %q", name2, m.Reasoning),
			Link:    link,
			MatchID: m.ID,
		},
		{
			ID:      uuid.New(),
			UserID:  m.User2ID,
			Type:    match.NotificationTypeTeammateMatch,
			Title:   title,
			Message: fmt.Sprintf("You have been matched with %s. Reasoning: %q", name1, m.Reasoning),
			Link:    link,
			MatchID: m.ID,
		},
	}

	if err := n.notifications.InsertBatch(ctx, notifs); err != nil {
		// The match row is already committed; delivery is at-most-once.
		n.logger.Error("match notification insert failed",
			zap.String("match_id", m.ID.String()),
			zap.Error(err),
		)
		return
	}

	if n.pusher != nil {
		for _, notif := range notifs {
			n.pusher.Push(notif.UserID, notif)
		}
	}
}

func (n *MatchNotifier) displayName(ctx context.Context, userID uuid.UUID) string {
	p, err := n.profiles.GetByID(ctx, userID)
	if err != nil {
		n.logger.Warn("match notification: profile lookup failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return "a user"
	}
	if name := p.DisplayName(); name != "" {
		return name
	}
	return "a user"
}

// NotificationUsecase lists and acknowledges a user's notifications.
type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID, limit int) ([]match.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

var ErrNotificationNotFound = errors.New("notification not found")

type Notifications struct {
	repo repository.NotificationRepository
}

func NewNotificationUsecase(repo repository.NotificationRepository) *Notifications {
	return &Notifications{repo: repo}
}

func (u *Notifications) List(ctx context.Context, userID uuid.UUID, limit int) ([]match.Notification, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	out, err := u.repo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Notifications) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if err := u.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return ErrInternal
	}
	return nil
}
