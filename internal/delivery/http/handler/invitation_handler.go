package handler

import (
	"errors"
	"strconv"

	"skillsync/internal/delivery/http/dto"
	"skillsync/internal/delivery/http/middleware"
	"skillsync/internal/pkg/response"
	"skillsync/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// InvitationHandler serves the candidate's own invitations: listings, the
// notification dropdown, single transitions, and bulk archive.
type InvitationHandler struct {
	invitations   usecase.InvitationUsecase
	notifications usecase.NotificationUsecase
}

type invitationActionRequest struct {
	Action string `json:"action"`
}

type bulkArchiveRequest struct {
	Action        string   `json:"action"`
	InvitationIDs []string `json:"invitation_ids"`
}

func NewInvitationHandler(inv usecase.InvitationUsecase, notif usecase.NotificationUsecase) *InvitationHandler {
	return &InvitationHandler{invitations: inv, notifications: notif}
}

func (h *InvitationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/archived", h.ListArchived)
	r.Get("/notifications", h.NotificationSummary)
	r.Get("/notifications/unread", h.UnreadCount)
	r.Post("/notifications", h.MarkAllRead)
	r.Post("/bulk", h.BulkArchive)
	r.Patch("/:id", h.Act)
}

func (h *InvitationHandler) List(c fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	items, err := h.invitations.List(c.Context(), userID, usecase.ListFilters{
		Status:    c.Query("status"),
		Readiness: c.Query("readiness"),
		JobID:     c.Query("job_id"),
		Search:    c.Query("search"),
	})
	if err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromInvitations(items))
}

func (h *InvitationHandler) ListArchived(c fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	items, err := h.invitations.ListArchived(c.Context(), userID)
	if err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromInvitations(items))
}

func (h *InvitationHandler) NotificationSummary(c fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid limit", nil, err)
		}
	}

	summary, err := h.notifications.GetSummary(c.Context(), userID, limit)
	if err != nil {
		return mapInvitationUsecaseError(err)
	}

	data := dto.NotificationSummaryResponse{
		UnreadCount: summary.UnreadCount,
		Invitations: dto.FromInvitations(summary.Invitations),
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

// UnreadCount serves the badge alone, cheaper than the full summary when
// the dropdown is closed.
func (h *InvitationHandler) UnreadCount(c fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.UnreadCount(c.Context(), userID)
	if err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"unread_count": count})
}

func (h *InvitationHandler) MarkAllRead(c fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	n, err := h.notifications.MarkAllRead(c.Context(), userID)
	if err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]any{"marked_read": n})
}

func (h *InvitationHandler) Act(c fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid invitation id", nil, err)
	}

	var req invitationActionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	action, ok := usecase.ParseInvitationAction(req.Action)
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown action", nil, nil)
	}

	if err := h.invitations.Act(c.Context(), userID, id, action); err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *InvitationHandler) BulkArchive(c fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	var req bulkArchiveRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.Action != "archive" {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown bulk action", nil, nil)
	}
	ids, err := parseUUIDs(req.InvitationIDs)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid invitation id", nil, err)
	}

	archived, err := h.invitations.BulkArchive(c.Context(), userID, ids)
	if err != nil {
		return mapInvitationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewBulkArchiveResponse(len(ids), archived))
}

func sessionUserID(c fiber.Ctx) (uuid.UUID, error) {
	if id, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID); ok && id != uuid.Nil {
		return id, nil
	}
	return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func mapInvitationUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrInvalidAction),
		errors.Is(err, usecase.ErrEmptyBatch):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrInvitationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Invitation not found", nil, err)
	case errors.Is(err, usecase.ErrInvitationConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Invitation status does not allow this action", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
