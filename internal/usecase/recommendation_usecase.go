package usecase

import (
	"context"
	"errors"
	"sort"

	"campus-link/internal/domain/match"
	"campus-link/internal/domain/matching"
	"campus-link/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrProjectNotFound = errors.New("project not found")

type RecommendationUsecase interface {
	GenerateTeamRecommendations(ctx context.Context, projectID uuid.UUID) ([]match.TeamRecommendation, error)
	GetTeamRecommendations(ctx context.Context, projectID uuid.UUID) ([]repository.RecommendedCandidate, error)
}

type Recommendation struct {
	projects        repository.ProjectRepository
	profiles        repository.ProfileRepository
	recommendations repository.RecommendationRepository
	logger          *zap.Logger
}

func NewRecommendationUsecase(
	projects repository.ProjectRepository,
	profiles repository.ProfileRepository,
	recommendations repository.RecommendationRepository,
	log *zap.Logger,
) *Recommendation {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recommendation{
		projects:        projects,
		profiles:        profiles,
		recommendations: recommendations,
		logger:          log,
	}
}

// GenerateTeamRecommendations scores every eligible candidate against the
// project's required skills and stores the top results, replacing whatever
// the previous run produced. The owner and current members are never
// candidates. An empty result still clears prior rows.
func (u *Recommendation) GenerateTeamRecommendations(ctx context.Context, projectID uuid.UUID) ([]match.TeamRecommendation, error) {
	proj, err := u.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		u.logger.Error("recommendations: project load failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return nil, ErrInternal
	}

	memberIDs, err := u.projects.ListMemberIDs(ctx, projectID)
	if err != nil {
		u.logger.Error("recommendations: member list failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return nil, ErrInternal
	}

	exclude := make([]uuid.UUID, 0, len(memberIDs)+1)
	exclude = append(exclude, proj.OwnerID)
	for _, id := range memberIDs {
		if id != proj.OwnerID {
			exclude = append(exclude, id)
		}
	}

	candidates, err := u.profiles.ListCandidates(ctx, exclude)
	if err != nil {
		u.logger.Error("recommendations: candidate list failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return nil, ErrInternal
	}

	recs := make([]match.TeamRecommendation, 0, len(candidates))
	for _, cand := range candidates {
		result := matching.ScoreProjectCandidate(proj, cand)
		if result.Score <= matching.RecommendationCutoff {
			continue
		}
		recs = append(recs, match.TeamRecommendation{
			ID:             uuid.New(),
			ProjectID:      projectID,
			UserID:         cand.ID,
			Score:          result.Score,
			MatchingSkills: result.MatchingSkills,
			Reason:         result.Reason,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > matching.MaxRecommendations {
		recs = recs[:matching.MaxRecommendations]
	}

	if err := u.recommendations.Replace(ctx, projectID, recs); err != nil {
		u.logger.Error("recommendations: replace failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return nil, ErrInternal
	}

	u.logger.Info("team recommendations generated",
		zap.String("project_id", projectID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("stored", len(recs)),
	)
	return recs, nil
}

func (u *Recommendation) GetTeamRecommendations(ctx context.Context, projectID uuid.UUID) ([]repository.RecommendedCandidate, error) {
	if _, err := u.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, ErrInternal
	}
	out, err := u.recommendations.ListByProject(ctx, projectID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}
