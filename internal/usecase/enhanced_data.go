package usecase

import (
	"context"
	"time"

	"campus-link/internal/domain/matching"
	"campus-link/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchCache is the slice of the cache the matching flow needs.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

const (
	enhancedDataTTL  = 5 * time.Minute
	recentItemsLimit = 10
)

// EnhancedDataFetcher assembles a candidate's full matching context: profile
// plus their most recent posts and projects. Pure adapter over the record
// store; no transformation beyond capping result counts.
type EnhancedDataFetcher struct {
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	projects repository.ProjectRepository
	cache    MatchCache
	logger   *zap.Logger
}

func NewEnhancedDataFetcher(
	profiles repository.ProfileRepository,
	posts repository.PostRepository,
	projects repository.ProjectRepository,
	cache MatchCache,
	log *zap.Logger,
) *EnhancedDataFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &EnhancedDataFetcher{profiles: profiles, posts: posts, projects: projects, cache: cache, logger: log}
}

// Fetch returns nil when the profile itself cannot be loaded; failures on
// posts or projects degrade to empty sequences.
func (f *EnhancedDataFetcher) Fetch(ctx context.Context, userID uuid.UUID) *matching.CandidateData {
	cacheKey := "match:enhanced:" + userID.String()
	if f.cache != nil {
		var cached matching.CandidateData
		if hit, err := f.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit && cached.Profile.ID == userID {
			return &cached
		}
	}

	prof, err := f.profiles.GetByID(ctx, userID)
	if err != nil {
		f.logger.Warn("enhanced data fetch: profile load failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		return nil
	}

	data := matching.CandidateData{Profile: prof}

	if posts, err := f.posts.ListRecentByUser(ctx, userID, recentItemsLimit); err != nil {
		f.logger.Warn("enhanced data fetch: posts load failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	} else {
		data.Posts = posts
	}

	if projects, err := f.projects.ListRecentByOwner(ctx, userID, recentItemsLimit); err != nil {
		f.logger.Warn("enhanced data fetch: projects load failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	} else {
		data.Projects = projects
	}

	if f.cache != nil {
		_ = f.cache.SetJSON(ctx, cacheKey, data, enhancedDataTTL)
	}

	return &data
}
