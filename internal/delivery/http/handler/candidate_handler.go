package handler

import (
	"skillsync/internal/delivery/http/dto"
	"skillsync/internal/delivery/http/middleware"
	"skillsync/internal/pkg/response"
	"skillsync/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// CandidateHandler serves the employer dashboard: candidate listings and
// outreach actions, scoped to the signed-in admin's company.
type CandidateHandler struct {
	candidates usecase.CandidateUsecase
}

type candidateActionRequest struct {
	Action  string  `json:"action"`
	Message *string `json:"message"`
}

type candidateBulkRequest struct {
	Action       string   `json:"action"`
	CandidateIDs []string `json:"candidate_ids"`
}

func NewCandidateHandler(uc usecase.CandidateUsecase) *CandidateHandler {
	return &CandidateHandler{candidates: uc}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/archived", h.ListArchived)
	r.Post("/bulk", h.BulkArchive)
	r.Patch("/:id", h.Act)
}

func (h *CandidateHandler) List(c fiber.Ctx) error {
	actorID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	items, err := h.candidates.List(c.Context(), actorID, usecase.ListFilters{
		Status:    c.Query("status"),
		Readiness: c.Query("readiness"),
		JobID:     c.Query("role"),
		Search:    c.Query("search"),
	})
	if err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromCandidates(items))
}

func (h *CandidateHandler) ListArchived(c fiber.Ctx) error {
	actorID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	items, err := h.candidates.ListArchived(c.Context(), actorID)
	if err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromCandidates(items))
}

func (h *CandidateHandler) Act(c fiber.Ctx) error {
	actorID, err := sessionUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	var req candidateActionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	action, ok := usecase.ParseCandidateAction(req.Action)
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown action", nil, nil)
	}

	if err := h.candidates.Act(c.Context(), actorID, id, action, req.Message); err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *CandidateHandler) BulkArchive(c fiber.Ctx) error {
	actorID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	var req candidateBulkRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.Action != "archive" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown bulk action", nil, nil)
	}
	ids, err := parseUUIDs(req.CandidateIDs)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	archived, err := h.candidates.BulkArchive(c.Context(), actorID, ids)
	if err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewBulkArchiveResponse(len(ids), archived))
}
