package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-link/internal/domain/event"
	"campus-link/internal/domain/match"
	"campus-link/internal/domain/matching"
	"campus-link/internal/domain/post"
	"campus-link/internal/domain/profile"
	"campus-link/internal/domain/project"
	"campus-link/internal/repository"

	"github.com/google/uuid"
)

type mockEventRepo struct {
	event    event.Event
	eventErr error
	users    []uuid.UUID
	usersErr error
}

func (m mockEventRepo) GetByID(context.Context, uuid.UUID) (event.Event, error) {
	return m.event, m.eventErr
}
func (m mockEventRepo) ListInterestedUserIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return m.users, m.usersErr
}

type mockMatchRepo struct {
	existing  map[string]bool
	byID      map[uuid.UUID]match.TeammateMatch
	inserted  []match.TeammateMatch
	insertErr error
	updated   map[uuid.UUID]string
}

func pairKey(a, b uuid.UUID) string {
	if a.String() < b.String() {
		return a.String() + "|" + b.String()
	}
	return b.String() + "|" + a.String()
}

func (m *mockMatchRepo) ExistsBetween(_ context.Context, _ uuid.UUID, userA, userB uuid.UUID) (bool, error) {
	return m.existing[pairKey(userA, userB)], nil
}

func (m *mockMatchRepo) Insert(_ context.Context, mt match.TeammateMatch) (match.TeammateMatch, error) {
	if m.insertErr != nil {
		return match.TeammateMatch{}, m.insertErr
	}
	mt.ID = uuid.New()
	mt.Status = match.StatusPending
	m.inserted = append(m.inserted, mt)
	return mt, nil
}

func (m *mockMatchRepo) GetByID(_ context.Context, id uuid.UUID) (match.TeammateMatch, error) {
	mt, ok := m.byID[id]
	if !ok {
		return match.TeammateMatch{}, repository.ErrMatchNotFound
	}
	return mt, nil
}

func (m *mockMatchRepo) ListForUser(context.Context, uuid.UUID, uuid.UUID) ([]match.TeammateMatch, error) {
	return m.inserted, nil
}

func (m *mockMatchRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if m.updated == nil {
		m.updated = make(map[uuid.UUID]string)
	}
	m.updated[id] = status
	return nil
}

type mockFetcher struct {
	data map[uuid.UUID]*matching.CandidateData
}

func (m mockFetcher) Fetch(_ context.Context, userID uuid.UUID) *matching.CandidateData {
	return m.data[userID]
}

type mockEvaluator struct {
	result matching.PairMatch
	err    error
	calls  int
}

func (m *mockEvaluator) Evaluate(context.Context, matching.CandidateData, matching.CandidateData, string) (matching.PairMatch, error) {
	m.calls++
	return m.result, m.err
}

type mockEmitter struct {
	notified []match.TeammateMatch
}

func (m *mockEmitter) NotifyMatch(_ context.Context, mt match.TeammateMatch) {
	m.notified = append(m.notified, mt)
}

type mockCache struct {
	held map[string]bool
}

func newMockCache() *mockCache { return &mockCache{held: map[string]bool{}} }

func (m *mockCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }
func (m *mockCache) SetJSON(context.Context, string, any, time.Duration) error {
	return nil
}

func (m *mockCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	if m.held[key] {
		return false, nil
	}
	m.held[key] = true
	return true, nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	delete(m.held, key)
	return nil
}

func poorCandidate(p profile.Profile) *matching.CandidateData {
	return &matching.CandidateData{Profile: p}
}

func richCandidate(p profile.Profile) *matching.CandidateData {
	return &matching.CandidateData{
		Profile:  p,
		Posts:    []post.Summary{{Content: "a"}, {Content: "b"}},
		Projects: []project.Summary{{Title: "c"}},
	}
}

func TestFindEventTeammates_PersistsAtThreshold(t *testing.T) {
	u1 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}
	u2 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}

	matches := &mockMatchRepo{}
	emitter := &mockEmitter{}
	uc := NewMatchmakingUsecase(
		mockEventRepo{users: []uuid.UUID{u1.ID, u2.ID}},
		matches,
		mockFetcher{data: map[uuid.UUID]*matching.CandidateData{
			u1.ID: poorCandidate(u1),
			u2.ID: poorCandidate(u2),
		}},
		nil, emitter, nil, nil, 0,
	)

	summary, err := uc.FindEventTeammates(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.MatchesCreated != 1 || len(matches.inserted) != 1 {
		t.Fatalf("expected 1 match, got summary %+v, inserted %d", summary, len(matches.inserted))
	}
	// One shared skill over single-item skill sets scores exactly at the threshold.
	if got := matches.inserted[0].Score; got != 0.3 {
		t.Fatalf("expected score 0.3, got %v", got)
	}
	if len(emitter.notified) != 1 {
		t.Fatalf("expected 1 notification emission, got %d", len(emitter.notified))
	}
}

func TestFindEventTeammates_BelowThresholdSkipped(t *testing.T) {
	u1 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}
	u2 := profile.Profile{ID: uuid.New(), Skills: []string{"Figma"}}

	matches := &mockMatchRepo{}
	uc := NewMatchmakingUsecase(
		mockEventRepo{users: []uuid.UUID{u1.ID, u2.ID}},
		matches,
		mockFetcher{data: map[uuid.UUID]*matching.CandidateData{
			u1.ID: poorCandidate(u1),
			u2.ID: poorCandidate(u2),
		}},
		nil, nil, nil, nil, 0,
	)

	summary, err := uc.FindEventTeammates(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.PairsEvaluated != 1 {
		t.Fatalf("expected the pair to be evaluated, got %+v", summary)
	}
	if summary.MatchesCreated != 0 || len(matches.inserted) != 0 {
		t.Fatalf("expected no matches, got %+v", summary)
	}
}

func TestFindEventTeammates_SkipsExistingPairs(t *testing.T) {
	u1 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}
	u2 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}

	matches := &mockMatchRepo{existing: map[string]bool{pairKey(u1.ID, u2.ID): true}}
	uc := NewMatchmakingUsecase(
		mockEventRepo{users: []uuid.UUID{u1.ID, u2.ID}},
		matches,
		mockFetcher{data: map[uuid.UUID]*matching.CandidateData{
			u1.ID: poorCandidate(u1),
			u2.ID: poorCandidate(u2),
		}},
		nil, nil, nil, nil, 0,
	)

	summary, err := uc.FindEventTeammates(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.PairsEvaluated != 0 || len(matches.inserted) != 0 {
		t.Fatalf("expected matched pair to be skipped entirely, got %+v", summary)
	}
}

func TestFindEventTeammates_TooFewInterested(t *testing.T) {
	uc := NewMatchmakingUsecase(
		mockEventRepo{users: []uuid.UUID{uuid.New()}},
		&mockMatchRepo{},
		mockFetcher{},
		nil, nil, nil, nil, 0,
	)

	summary, err := uc.FindEventTeammates(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Candidates != 1 || summary.PairsEvaluated != 0 {
		t.Fatalf("expected a no-op run, got %+v", summary)
	}
}

func TestFindEventTeammates_FetchFailureShrinksPool(t *testing.T) {
	u1 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}
	missing := uuid.New()

	matches := &mockMatchRepo{}
	uc := NewMatchmakingUsecase(
		mockEventRepo{users: []uuid.UUID{u1.ID, missing}},
		matches,
		mockFetcher{data: map[uuid.UUID]*matching.CandidateData{u1.ID: poorCandidate(u1)}},
		nil, nil, nil, nil, 0,
	)

	summary, err := uc.FindEventTeammates(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Candidates != 1 || summary.PairsEvaluated != 0 {
		t.Fatalf("expected run to stop at one loadable candidate, got %+v", summary)
	}
}

func TestFindEventTeammates_DuplicateInsertSwallowed(t *testing.T) {
	u1 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}
	u2 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}

	matches := &mockMatchRepo{insertErr: repository.ErrDuplicateMatch}
	emitter := &mockEmitter{}
	uc := NewMatchmakingUsecase(
		mockEventRepo{users: []uuid.UUID{u1.ID, u2.ID}},
		matches,
		mockFetcher{data: map[uuid.UUID]*matching.CandidateData{
			u1.ID: poorCandidate(u1),
			u2.ID: poorCandidate(u2),
		}},
		nil, emitter, nil, nil, 0,
	)

	summary, err := uc.FindEventTeammates(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected duplicate insert to be swallowed, got %v", err)
	}
	if summary.MatchesCreated != 0 || len(emitter.notified) != 0 {
		t.Fatalf("duplicate must not count or notify, got %+v", summary)
	}
}

func TestFindEventTeammates_EvaluatorFailureFallsBack(t *testing.T) {
	u1 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}, Interests: []string{"AI"}}
	u2 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}, Interests: []string{"AI"}}

	matches := &mockMatchRepo{}
	evaluator := &mockEvaluator{err: errors.New("model overloaded")}
	uc := NewMatchmakingUsecase(
		mockEventRepo{users: []uuid.UUID{u1.ID, u2.ID}},
		matches,
		mockFetcher{data: map[uuid.UUID]*matching.CandidateData{
			u1.ID: richCandidate(u1),
			u2.ID: richCandidate(u2),
		}},
		evaluator, nil, nil, nil, 0,
	)

	if _, err := uc.FindEventTeammates(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluator.calls != 1 {
		t.Fatalf("expected the evaluator to be tried once, got %d", evaluator.calls)
	}
	if len(matches.inserted) != 1 {
		t.Fatalf("expected fallback scoring to persist the pair, got %d", len(matches.inserted))
	}
	if got := matches.inserted[0].Reasoning; got != matching.FallbackReasoning {
		t.Fatalf("expected fallback reasoning, got %q", got)
	}
}

func TestFindEventTeammates_PoorDataSkipsEvaluator(t *testing.T) {
	u1 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}
	u2 := profile.Profile{ID: uuid.New(), Skills: []string{"Go"}}

	evaluator := &mockEvaluator{result: matching.PairMatch{Score: 0.9}}
	uc := NewMatchmakingUsecase(
		mockEventRepo{users: []uuid.UUID{u1.ID, u2.ID}},
		&mockMatchRepo{},
		mockFetcher{data: map[uuid.UUID]*matching.CandidateData{
			u1.ID: richCandidate(u1),
			u2.ID: poorCandidate(u2),
		}},
		evaluator, nil, nil, nil, 0,
	)

	if _, err := uc.FindEventTeammates(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evaluator.calls != 0 {
		t.Fatalf("expected basic scoring for a data-poor pair, evaluator called %d times", evaluator.calls)
	}
}

func TestFindEventTeammates_RunLockHeld(t *testing.T) {
	eventID := uuid.New()
	cache := newMockCache()
	cache.held["match:run:"+eventID.String()] = true

	uc := NewMatchmakingUsecase(
		mockEventRepo{},
		&mockMatchRepo{},
		mockFetcher{},
		nil, nil, cache, nil, 0,
	)

	_, err := uc.FindEventTeammates(context.Background(), eventID)
	if !errors.Is(err, ErrMatchRunInProgress) {
		t.Fatalf("expected ErrMatchRunInProgress, got %v", err)
	}
}

func TestFindEventTeammates_ReleasesRunLock(t *testing.T) {
	eventID := uuid.New()
	cache := newMockCache()

	uc := NewMatchmakingUsecase(
		mockEventRepo{},
		&mockMatchRepo{},
		mockFetcher{},
		nil, nil, cache, nil, 0,
	)

	if _, err := uc.FindEventTeammates(context.Background(), eventID); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if cache.held["match:run:"+eventID.String()] {
		t.Fatal("run lock still held after the run finished")
	}
	if _, err := uc.FindEventTeammates(context.Background(), eventID); err != nil {
		t.Fatalf("second run after the first finished: %v", err)
	}
}

func TestUpdateMatchStatus(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	stranger := uuid.New()

	pending := match.TeammateMatch{ID: uuid.New(), User1ID: userA, User2ID: userB, Status: match.StatusPending}
	accepted := match.TeammateMatch{ID: uuid.New(), User1ID: userA, User2ID: userB, Status: match.StatusAccepted}

	repo := &mockMatchRepo{byID: map[uuid.UUID]match.TeammateMatch{
		pending.ID:  pending,
		accepted.ID: accepted,
	}}
	uc := NewMatchmakingUsecase(mockEventRepo{}, repo, mockFetcher{}, nil, nil, nil, nil, 0)

	tests := []struct {
		name    string
		matchID uuid.UUID
		userID  uuid.UUID
		status  string
		wantErr error
	}{
		{"accept by participant", pending.ID, userB, match.StatusAccepted, nil},
		{"stranger forbidden", pending.ID, stranger, match.StatusAccepted, ErrMatchForbidden},
		{"already finalized", accepted.ID, userA, match.StatusRejected, ErrMatchFinalized},
		{"invalid status", pending.ID, userA, "pending", ErrInvalidMatchStatus},
		{"unknown match", uuid.New(), userA, match.StatusAccepted, ErrMatchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.UpdateMatchStatus(context.Background(), tt.matchID, tt.userID, tt.status)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && got.Status != tt.status {
				t.Fatalf("expected status %q, got %q", tt.status, got.Status)
			}
		})
	}
}
