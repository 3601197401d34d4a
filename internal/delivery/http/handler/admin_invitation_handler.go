package handler

import (
	"errors"

	"skillsync/internal/delivery/http/dto"
	"skillsync/internal/delivery/http/middleware"
	"skillsync/internal/pkg/response"
	"skillsync/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AdminInvitationHandler struct {
	invites usecase.AdminInviteUsecase
}

type sendAdminInviteRequest struct {
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	CompanyID *string `json:"company_id"`
	SchoolID  *string `json:"school_id"`
}

type acceptAdminInviteRequest struct {
	Token     string `json:"token"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func NewAdminInvitationHandler(uc usecase.AdminInviteUsecase) *AdminInvitationHandler {
	return &AdminInvitationHandler{invites: uc}
}

// RegisterRoutes mounts the authenticated surface; Accept is mounted
// separately because it runs before the invited admin has an account.
func (h *AdminInvitationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Send)
	r.Get("/", h.List)
	r.Delete("/:id", h.Cancel)
}

func (h *AdminInvitationHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/accept", h.Accept)
}

func (h *AdminInvitationHandler) Send(c fiber.Ctx) error {
	actorID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	var req sendAdminInviteRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	companyID, err := optionalUUID(req.CompanyID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid company id", nil, err)
	}
	schoolID, err := optionalUUID(req.SchoolID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid school id", nil, err)
	}

	inv, err := h.invites.Send(c.Context(), actorID, usecase.AdminInviteRequest{
		Email:     req.Email,
		Role:      req.Role,
		CompanyID: companyID,
		SchoolID:  schoolID,
	})
	if err != nil {
		return mapAdminInviteUsecaseError(err)
	}

	data := dto.AdminInvitationCreatedResponse{
		AdminInvitationResponse: dto.FromAdminInvitation(inv),
		Token:                   inv.Token,
	}
	return response.Created(c, data)
}

func (h *AdminInvitationHandler) List(c fiber.Ctx) error {
	actorID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	items, err := h.invites.List(c.Context(), actorID)
	if err != nil {
		return mapAdminInviteUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FromAdminInvitations(items))
}

func (h *AdminInvitationHandler) Cancel(c fiber.Ctx) error {
	actorID, err := sessionUserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid invitation id", nil, err)
	}

	if err := h.invites.Cancel(c.Context(), actorID, id); err != nil {
		return mapAdminInviteUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *AdminInvitationHandler) Accept(c fiber.Ctx) error {
	var req acceptAdminInviteRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	usr, err := h.invites.Accept(c.Context(), usecase.AdminInviteAccept{
		Token:     req.Token,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return mapAdminInviteUsecaseError(err)
	}
	return response.Created(c, dto.FromUser(usr))
}

func optionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func mapAdminInviteUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	case errors.Is(err, usecase.ErrAdminInviteNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Invitation not found", nil, err)
	case errors.Is(err, usecase.ErrAdminInviteExpired):
		return middleware.NewAppError(fiber.StatusConflict, "Invitation expired", nil, err)
	case errors.Is(err, usecase.ErrAdminInviteConflict):
		return middleware.NewAppError(fiber.StatusConflict, "Invitation conflict", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
