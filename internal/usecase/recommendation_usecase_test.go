package usecase

import (
	"context"
	"errors"
	"testing"

	"campus-link/internal/domain/match"
	"campus-link/internal/domain/profile"
	"campus-link/internal/domain/project"
	"campus-link/internal/repository"

	"github.com/google/uuid"
)

type mockProjectRepo struct {
	project   project.Project
	getErr    error
	memberIDs []uuid.UUID
}

func (m mockProjectRepo) GetByID(context.Context, uuid.UUID) (project.Project, error) {
	return m.project, m.getErr
}
func (m mockProjectRepo) ListMemberIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return m.memberIDs, nil
}
func (m mockProjectRepo) ListRecentByOwner(context.Context, uuid.UUID, int) ([]project.Summary, error) {
	return nil, nil
}

type mockProfileRepo struct {
	candidates  []profile.Profile
	lastExclude []uuid.UUID
}

func (m *mockProfileRepo) GetByID(context.Context, uuid.UUID) (profile.Profile, error) {
	return profile.Profile{}, repository.ErrProfileNotFound
}
func (m *mockProfileRepo) GetByEmail(context.Context, string) (profile.Profile, string, error) {
	return profile.Profile{}, "", repository.ErrProfileNotFound
}
func (m *mockProfileRepo) ListCandidates(_ context.Context, excludeIDs []uuid.UUID) ([]profile.Profile, error) {
	m.lastExclude = excludeIDs
	return m.candidates, nil
}

type mockRecommendationRepo struct {
	replaced   [][]match.TeamRecommendation
	replaceErr error
}

func (m *mockRecommendationRepo) Replace(_ context.Context, _ uuid.UUID, recs []match.TeamRecommendation) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = append(m.replaced, recs)
	return nil
}
func (m *mockRecommendationRepo) ListByProject(context.Context, uuid.UUID) ([]repository.RecommendedCandidate, error) {
	return nil, nil
}

func namedCandidate(name string, skills ...string) profile.Profile {
	return profile.Profile{ID: uuid.New(), Username: name, Skills: skills}
}

func TestGenerateTeamRecommendations_RanksAndStores(t *testing.T) {
	owner := uuid.New()
	proj := project.Project{ID: uuid.New(), OwnerID: owner, RequiredSkills: []string{"Go", "React"}}

	full := namedCandidate("full", "Go", "React")
	half := namedCandidate("half", "Go")
	none := namedCandidate("none", "Figma")

	profiles := &mockProfileRepo{candidates: []profile.Profile{none, half, full}}
	recRepo := &mockRecommendationRepo{}
	uc := NewRecommendationUsecase(mockProjectRepo{project: proj}, profiles, recRepo, nil)

	recs, err := uc.GenerateTeamRecommendations(context.Background(), proj.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].UserID != full.ID || recs[1].UserID != half.ID {
		t.Fatalf("expected descending score order full then half, got %v then %v", recs[0].UserID, recs[1].UserID)
	}
	if recs[0].Score <= recs[1].Score {
		t.Fatalf("expected strictly better score first, got %v then %v", recs[0].Score, recs[1].Score)
	}
	if len(recRepo.replaced) != 1 || len(recRepo.replaced[0]) != 2 {
		t.Fatalf("expected one replace with 2 rows, got %+v", recRepo.replaced)
	}
}

func TestGenerateTeamRecommendations_ExcludesOwnerAndMembers(t *testing.T) {
	owner := uuid.New()
	member := uuid.New()
	proj := project.Project{ID: uuid.New(), OwnerID: owner, RequiredSkills: []string{"Go"}}

	profiles := &mockProfileRepo{}
	uc := NewRecommendationUsecase(
		mockProjectRepo{project: proj, memberIDs: []uuid.UUID{member, owner}},
		profiles,
		&mockRecommendationRepo{},
		nil,
	)

	if _, err := uc.GenerateTeamRecommendations(context.Background(), proj.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles.lastExclude) != 2 {
		t.Fatalf("expected owner and member excluded exactly once, got %v", profiles.lastExclude)
	}
	seen := map[uuid.UUID]bool{}
	for _, id := range profiles.lastExclude {
		seen[id] = true
	}
	if !seen[owner] || !seen[member] {
		t.Fatalf("expected both owner and member in exclusion set, got %v", profiles.lastExclude)
	}
}

func TestGenerateTeamRecommendations_EmptyResultStillReplaces(t *testing.T) {
	proj := project.Project{ID: uuid.New(), OwnerID: uuid.New(), RequiredSkills: []string{"Go"}}

	recRepo := &mockRecommendationRepo{}
	uc := NewRecommendationUsecase(
		mockProjectRepo{project: proj},
		&mockProfileRepo{candidates: []profile.Profile{namedCandidate("none", "Figma")}},
		recRepo,
		nil,
	)

	recs, err := uc.GenerateTeamRecommendations(context.Background(), proj.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
	// Prior rows must still be cleared for a run that finds nobody.
	if len(recRepo.replaced) != 1 || len(recRepo.replaced[0]) != 0 {
		t.Fatalf("expected one replace with 0 rows, got %+v", recRepo.replaced)
	}
}

func TestGenerateTeamRecommendations_CapsAtTen(t *testing.T) {
	proj := project.Project{ID: uuid.New(), OwnerID: uuid.New(), RequiredSkills: []string{"Go"}}

	candidates := make([]profile.Profile, 0, 15)
	for i := 0; i < 15; i++ {
		candidates = append(candidates, namedCandidate("dev", "Go"))
	}

	recRepo := &mockRecommendationRepo{}
	uc := NewRecommendationUsecase(
		mockProjectRepo{project: proj},
		&mockProfileRepo{candidates: candidates},
		recRepo,
		nil,
	)

	recs, err := uc.GenerateTeamRecommendations(context.Background(), proj.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 10 {
		t.Fatalf("expected the stored set capped at 10, got %d", len(recs))
	}
}

func TestGenerateTeamRecommendations_UnknownProject(t *testing.T) {
	uc := NewRecommendationUsecase(
		mockProjectRepo{getErr: repository.ErrProjectNotFound},
		&mockProfileRepo{},
		&mockRecommendationRepo{},
		nil,
	)

	_, err := uc.GenerateTeamRecommendations(context.Background(), uuid.New())
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestGenerateTeamRecommendations_ReplaceFailure(t *testing.T) {
	proj := project.Project{ID: uuid.New(), OwnerID: uuid.New(), RequiredSkills: []string{"Go"}}

	uc := NewRecommendationUsecase(
		mockProjectRepo{project: proj},
		&mockProfileRepo{candidates: []profile.Profile{namedCandidate("dev", "Go")}},
		&mockRecommendationRepo{replaceErr: errors.New("connection reset")},
		nil,
	)

	_, err := uc.GenerateTeamRecommendations(context.Background(), proj.ID)
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
