package handler

import (
	"errors"

	"campus-link/internal/delivery/http/dto"
	"campus-link/internal/delivery/http/middleware"
	"campus-link/internal/pkg/response"
	"campus-link/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecommendationHandler struct {
	uc usecase.RecommendationUsecase
}

func NewRecommendationHandler(uc usecase.RecommendationUsecase) *RecommendationHandler {
	return &RecommendationHandler{uc: uc}
}

func (h *RecommendationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/projects")
	grp.Post("/:project_id/recommendations", h.Generate)
	grp.Get("/:project_id/recommendations", h.List)
}

func (h *RecommendationHandler) Generate(c fiber.Ctx) error {
	if _, err := viewerID(c); err != nil {
		return err
	}

	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid project id", nil, err)
	}

	recs, err := h.uc.GenerateTeamRecommendations(c.Context(), projectID)
	if err != nil {
		return mapRecommendationError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{
		"generated": len(recs),
	})
}

func (h *RecommendationHandler) List(c fiber.Ctx) error {
	if _, err := viewerID(c); err != nil {
		return err
	}

	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid project id", nil, err)
	}

	recs, err := h.uc.GetTeamRecommendations(c.Context(), projectID)
	if err != nil {
		return mapRecommendationError(err)
	}

	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, rc := range recs {
		out = append(out, dto.NewRecommendationResponse(rc))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func mapRecommendationError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Project not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
