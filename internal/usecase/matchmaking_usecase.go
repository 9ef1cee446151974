package usecase

import (
	"context"
	"errors"
	"time"

	"campus-link/internal/domain/match"
	"campus-link/internal/domain/matching"
	"campus-link/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMatchRunInProgress = errors.New("matchmaking run already in progress")
	ErrEventNotFound      = errors.New("event not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchForbidden     = errors.New("match does not involve user")
	ErrMatchFinalized     = errors.New("match already finalized")
	ErrInvalidMatchStatus = errors.New("invalid match status")
)

const matchRunLockTTL = 2 * time.Minute

// PairEvaluator scores one candidate pair, typically via an LLM. A nil
// evaluator means the deterministic rule-based path handles every pair.
type PairEvaluator interface {
	Evaluate(ctx context.Context, d1, d2 matching.CandidateData, eventType string) (matching.PairMatch, error)
}

// CandidateFetcher loads the full matching context for one user.
type CandidateFetcher interface {
	Fetch(ctx context.Context, userID uuid.UUID) *matching.CandidateData
}

// MatchEmitter persists the side effects of a created match.
type MatchEmitter interface {
	NotifyMatch(ctx context.Context, m match.TeammateMatch)
}

// RunSummary describes one completed matchmaking run.
type RunSummary struct {
	Candidates     int `json:"candidates"`
	PairsEvaluated int `json:"pairs_evaluated"`
	MatchesCreated int `json:"matches_created"`
}

type MatchmakingUsecase interface {
	FindEventTeammates(ctx context.Context, eventID uuid.UUID) (RunSummary, error)
	ListMatchesForUser(ctx context.Context, eventID, userID uuid.UUID) ([]match.TeammateMatch, error)
	UpdateMatchStatus(ctx context.Context, matchID, userID uuid.UUID, status string) (match.TeammateMatch, error)
}

type Matchmaking struct {
	events    repository.EventRepository
	matches   repository.MatchRepository
	fetcher   CandidateFetcher
	evaluator PairEvaluator
	emitter   MatchEmitter
	cache     MatchCache
	logger    *zap.Logger
	threshold float64
}

func NewMatchmakingUsecase(
	events repository.EventRepository,
	matches repository.MatchRepository,
	fetcher CandidateFetcher,
	evaluator PairEvaluator,
	emitter MatchEmitter,
	cache MatchCache,
	log *zap.Logger,
	threshold float64,
) *Matchmaking {
	if log == nil {
		log = zap.NewNop()
	}
	if threshold <= 0 {
		threshold = matching.DefaultMatchThreshold
	}
	return &Matchmaking{
		events:    events,
		matches:   matches,
		fetcher:   fetcher,
		evaluator: evaluator,
		emitter:   emitter,
		cache:     cache,
		logger:    log,
		threshold: threshold,
	}
}

// FindEventTeammates scores every unmatched pair of users interested in the
// event and persists those at or above the threshold. The run never aborts on
// a single pair: scoring and persistence failures are logged and skipped.
func (u *Matchmaking) FindEventTeammates(ctx context.Context, eventID uuid.UUID) (RunSummary, error) {
	if u.cache != nil {
		lockKey := "match:run:" + eventID.String()
		acquired, err := u.cache.SetIfNotExists(ctx, lockKey, "1", matchRunLockTTL)
		if err == nil && !acquired {
			return RunSummary{}, ErrMatchRunInProgress
		}
		// The TTL is only a crash backstop; a finished run releases the
		// lock so the next trigger is not refused for the remainder of it.
		defer func() {
			if err := u.cache.Delete(ctx, lockKey); err != nil {
				u.logger.Warn("matchmaking: run lock release failed",
					zap.String("event_id", eventID.String()),
					zap.Error(err),
				)
			}
		}()
	}

	// The event type only feeds the alignment bonus, so a failed lookup
	// degrades to an untyped run rather than aborting it.
	var eventType string
	if ev, err := u.events.GetByID(ctx, eventID); err == nil {
		eventType = ev.EventType
	} else if !errors.Is(err, repository.ErrEventNotFound) {
		u.logger.Warn("matchmaking: event lookup failed",
			zap.String("event_id", eventID.String()),
			zap.Error(err),
		)
	}

	userIDs, err := u.events.ListInterestedUserIDs(ctx, eventID)
	if err != nil {
		u.logger.Error("matchmaking: interested users lookup failed",
			zap.String("event_id", eventID.String()),
			zap.Error(err),
		)
		return RunSummary{}, ErrInternal
	}
	if len(userIDs) < 2 {
		return RunSummary{Candidates: len(userIDs)}, nil
	}

	candidates := make([]matching.CandidateData, 0, len(userIDs))
	for _, id := range userIDs {
		if data := u.fetcher.Fetch(ctx, id); data != nil {
			candidates = append(candidates, *data)
		}
	}

	summary := RunSummary{Candidates: len(candidates)}
	if len(candidates) < 2 {
		return summary, nil
	}

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			d1, d2 := candidates[i], candidates[j]

			exists, err := u.matches.ExistsBetween(ctx, eventID, d1.Profile.ID, d2.Profile.ID)
			if err != nil {
				u.logger.Warn("matchmaking: existence check failed",
					zap.String("user1_id", d1.Profile.ID.String()),
					zap.String("user2_id", d2.Profile.ID.String()),
					zap.Error(err),
				)
				continue
			}
			if exists {
				continue
			}

			pm := u.scorePair(ctx, d1, d2, eventType)
			summary.PairsEvaluated++
			if pm.Score < u.threshold {
				continue
			}

			created, err := u.matches.Insert(ctx, match.TeammateMatch{
				EventID:           eventID,
				User1ID:           d1.Profile.ID,
				User2ID:           d2.Profile.ID,
				Score:             pm.Score,
				MatchingSkills:    pm.MatchingSkills,
				MatchingInterests: pm.MatchingInterests,
				Reasoning:         pm.Reasoning,
			})
			if err != nil {
				if errors.Is(err, repository.ErrDuplicateMatch) {
					// Lost a race with a concurrent run; the pair is matched either way.
					continue
				}
				u.logger.Error("matchmaking: match insert failed",
					zap.String("event_id", eventID.String()),
					zap.Error(err),
				)
				continue
			}
			summary.MatchesCreated++

			if u.emitter != nil {
				u.emitter.NotifyMatch(ctx, created)
			}
		}
	}

	u.logger.Info("matchmaking run complete",
		zap.String("event_id", eventID.String()),
		zap.Int("candidates", summary.Candidates),
		zap.Int("pairs_evaluated", summary.PairsEvaluated),
		zap.Int("matches_created", summary.MatchesCreated),
	)
	return summary, nil
}

// scorePair picks the enriched path when both sides carry enough signals and
// an evaluator is configured, falling back to the deterministic computations
// otherwise. Never fails: an evaluator error degrades to the fallback score.
func (u *Matchmaking) scorePair(ctx context.Context, d1, d2 matching.CandidateData, eventType string) matching.PairMatch {
	if u.evaluator == nil || matching.HasMinimalData(d1, d2) {
		return matching.ScoreBasicPair(d1.Profile, d2.Profile, eventType)
	}

	pm, err := u.evaluator.Evaluate(ctx, d1, d2, eventType)
	if err != nil {
		u.logger.Warn("matchmaking: enriched evaluation failed, using fallback",
			zap.String("user1_id", d1.Profile.ID.String()),
			zap.String("user2_id", d2.Profile.ID.String()),
			zap.Error(err),
		)
		return matching.ScoreFallbackPair(d1.Profile, d2.Profile)
	}
	return pm
}

func (u *Matchmaking) ListMatchesForUser(ctx context.Context, eventID, userID uuid.UUID) ([]match.TeammateMatch, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	out, err := u.matches.ListForUser(ctx, eventID, userID)
	if err != nil {
		u.logger.Error("matchmaking: list matches failed",
			zap.String("event_id", eventID.String()),
			zap.Error(err),
		)
		return nil, ErrInternal
	}
	return out, nil
}

// UpdateMatchStatus lets one side of a pending match accept or reject it.
func (u *Matchmaking) UpdateMatchStatus(ctx context.Context, matchID, userID uuid.UUID, status string) (match.TeammateMatch, error) {
	if status != match.StatusAccepted && status != match.StatusRejected {
		return match.TeammateMatch{}, ErrInvalidMatchStatus
	}

	m, err := u.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return match.TeammateMatch{}, ErrMatchNotFound
		}
		return match.TeammateMatch{}, ErrInternal
	}
	if !m.Involves(userID) {
		return match.TeammateMatch{}, ErrMatchForbidden
	}
	if !m.CanTransition(status) {
		return match.TeammateMatch{}, ErrMatchFinalized
	}

	if err := u.matches.UpdateStatus(ctx, matchID, status); err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return match.TeammateMatch{}, ErrMatchNotFound
		}
		return match.TeammateMatch{}, ErrInternal
	}
	m.Status = status
	return m, nil
}
