package usecase

import (
	"context"
	"errors"
	"strings"

	"campus-link/internal/domain/profile"
	"campus-link/internal/pkg/jwt"
	"campus-link/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type LoginInput struct {
	Email    string
	Password string
}

type AuthUsecase interface {
	Login(ctx context.Context, in LoginInput) (profile.Profile, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type Auth struct {
	profiles repository.ProfileRepository
	jwt      jwt.Service
	logger   *zap.Logger
}

func NewAuthUsecase(profiles repository.ProfileRepository, jwtSvc jwt.Service, log *zap.Logger) *Auth {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auth{profiles: profiles, jwt: jwtSvc, logger: log}
}

func (u *Auth) Login(ctx context.Context, in LoginInput) (profile.Profile, string, string, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return profile.Profile{}, "", "", ErrInvalidCredentials
	}

	prof, passwordHash, err := u.profiles.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return profile.Profile{}, "", "", ErrInvalidCredentials
		}
		u.logger.Error("login: profile lookup failed", zap.Error(err))
		return profile.Profile{}, "", "", ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(in.Password)); err != nil {
		return profile.Profile{}, "", "", ErrInvalidCredentials
	}

	access, err := u.jwt.GenerateAccessToken(prof.ID, email)
	if err != nil {
		return profile.Profile{}, "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(prof.ID)
	if err != nil {
		return profile.Profile{}, "", "", ErrInternal
	}

	return prof, access, refresh, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	if refreshToken == "" {
		return "", "", ErrUnauthorized
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", ErrRefreshTokenExpired
		}
		return "", "", ErrInvalidRefreshToken
	}

	prof, err := u.profiles.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return "", "", ErrInvalidRefreshToken
		}
		return "", "", ErrInternal
	}

	access, err := u.jwt.GenerateAccessToken(prof.ID, claims.Email)
	if err != nil {
		return "", "", ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(prof.ID)
	if err != nil {
		return "", "", ErrInternal
	}

	return access, refresh, nil
}
