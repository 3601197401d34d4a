package dto

import (
	"time"

	"skillsync/internal/repository"

	"github.com/google/uuid"
)

type AdminInvitationResponse struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	CompanyID  *uuid.UUID `json:"company_id,omitempty"`
	SchoolID   *uuid.UUID `json:"school_id,omitempty"`
	Status     string     `json:"status"`
	InvitedAt  time.Time  `json:"invited_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// Token is deliberately absent from the listing shape; it is only returned
// once, on creation.
func FromAdminInvitation(inv repository.AdminInvitation) AdminInvitationResponse {
	return AdminInvitationResponse{
		ID:         inv.ID,
		Email:      inv.Email,
		Role:       string(inv.Role),
		CompanyID:  inv.CompanyID,
		SchoolID:   inv.SchoolID,
		Status:     string(inv.Status),
		InvitedAt:  inv.InvitedAt,
		AcceptedAt: inv.AcceptedAt,
		ExpiresAt:  inv.ExpiresAt,
	}
}

func FromAdminInvitations(items []repository.AdminInvitation) []AdminInvitationResponse {
	out := make([]AdminInvitationResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, FromAdminInvitation(inv))
	}
	return out
}

type AdminInvitationCreatedResponse struct {
	AdminInvitationResponse
	Token string `json:"token"`
}
