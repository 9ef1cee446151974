package handler

import (
	"context"
	"errors"

	"campus-link/internal/delivery/http/dto"
	"campus-link/internal/delivery/http/middleware"
	"campus-link/internal/dispatch"
	"campus-link/internal/pkg/response"
	"campus-link/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchmakingHandler struct {
	uc         usecase.MatchmakingUsecase
	dispatcher *dispatch.Dispatcher
}

func NewMatchmakingHandler(uc usecase.MatchmakingUsecase, dispatcher *dispatch.Dispatcher) *MatchmakingHandler {
	return &MatchmakingHandler{uc: uc, dispatcher: dispatcher}
}

func (h *MatchmakingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	events := r.Group("/events")
	events.Post("/:event_id/matchmaking", h.RunMatchmaking)
	events.Get("/:event_id/matches", h.ListMatches)

	matches := r.Group("/matches")
	matches.Patch("/:match_id", h.UpdateStatus)
}

func (h *MatchmakingHandler) RunMatchmaking(c fiber.Ctx) error {
	if _, err := viewerID(c); err != nil {
		return err
	}

	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid event id", nil, err)
	}

	// The run goes to the background pool: a scoring or persistence failure
	// belongs in the logs, not in the triggering user's response.
	if h.dispatcher != nil {
		ok := h.dispatcher.Submit(func(ctx context.Context) error {
			_, err := h.uc.FindEventTeammates(ctx, eventID)
			if errors.Is(err, usecase.ErrMatchRunInProgress) {
				return nil
			}
			return err
		})
		if ok {
			return response.Success(c, fiber.StatusAccepted, "matchmaking dispatched", map[string]any{
				"dispatched": true,
			})
		}
	}

	summary, err := h.uc.FindEventTeammates(c.Context(), eventID)
	if err != nil {
		return mapMatchmakingError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RunSummaryResponse(summary))
}

func (h *MatchmakingHandler) ListMatches(c fiber.Ctx) error {
	userID, err := viewerID(c)
	if err != nil {
		return err
	}

	eventID, err := uuid.Parse(c.Params("event_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid event id", nil, err)
	}

	matches, err := h.uc.ListMatchesForUser(c.Context(), eventID, userID)
	if err != nil {
		return mapMatchmakingError(err)
	}

	out := make([]dto.MatchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, dto.NewMatchResponse(m, userID))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchmakingHandler) UpdateStatus(c fiber.Ctx) error {
	userID, err := viewerID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("match_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid match id", nil, err)
	}

	var req dto.UpdateMatchStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.uc.UpdateMatchStatus(c.Context(), matchID, userID, req.Status)
	if err != nil {
		return mapMatchmakingError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResponse(m, userID))
}

func viewerID(c fiber.Ctx) (uuid.UUID, error) {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return userID, nil
}

func mapMatchmakingError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrMatchRunInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Matchmaking already running for this event", nil, err)
	case errors.Is(err, usecase.ErrEventNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Event not found", nil, err)
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
	case errors.Is(err, usecase.ErrMatchForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Match does not involve you", nil, err)
	case errors.Is(err, usecase.ErrMatchFinalized):
		return middleware.NewAppError(fiber.StatusConflict, "Match already finalized", nil, err)
	case errors.Is(err, usecase.ErrInvalidMatchStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Status must be accepted or rejected", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
