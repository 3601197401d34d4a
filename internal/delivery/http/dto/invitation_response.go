package dto

import (
	"time"

	"skillsync/internal/domain/invitation"

	"github.com/google/uuid"
)

type InvitationResponse struct {
	ID             uuid.UUID  `json:"id"`
	CompanyID      uuid.UUID  `json:"company_id"`
	CompanyName    string     `json:"company_name"`
	CompanyLogoURL *string    `json:"company_logo_url"`
	JobID          uuid.UUID  `json:"job_id"`
	JobTitle       string     `json:"job_title"`
	JobSOCCode     *string    `json:"job_soc_code"`
	ProficiencyPct float64    `json:"proficiency_pct"`
	ReadinessBand  string     `json:"readiness_band"`
	ApplicationURL string     `json:"application_url"`
	Message        *string    `json:"message"`
	Status         string     `json:"status"`
	IsRead         bool       `json:"is_read"`
	InvitedAt      *time.Time `json:"invited_at"`
	ViewedAt       *time.Time `json:"viewed_at"`
	RespondedAt    *time.Time `json:"responded_at"`
	ArchivedAt     *time.Time `json:"archived_at"`
	ArchivedBy     *string    `json:"archived_by,omitempty"`
}

func FromInvitation(inv invitation.Invitation) InvitationResponse {
	var archivedBy *string
	if inv.ArchivedBy != nil {
		s := string(*inv.ArchivedBy)
		archivedBy = &s
	}
	return InvitationResponse{
		ID:             inv.ID,
		CompanyID:      inv.CompanyID,
		CompanyName:    inv.CompanyName,
		CompanyLogoURL: inv.CompanyLogoURL,
		JobID:          inv.JobID,
		JobTitle:       inv.JobTitle,
		JobSOCCode:     inv.JobSOCCode,
		ProficiencyPct: inv.ProficiencyPct,
		ReadinessBand:  string(invitation.BandForPct(inv.ProficiencyPct)),
		ApplicationURL: inv.ApplicationURL,
		Message:        inv.Message,
		Status:         string(inv.Status),
		IsRead:         inv.IsRead,
		InvitedAt:      inv.InvitedAt,
		ViewedAt:       inv.ViewedAt,
		RespondedAt:    inv.RespondedAt,
		ArchivedAt:     inv.ArchivedAt,
		ArchivedBy:     archivedBy,
	}
}

func FromInvitations(items []invitation.Invitation) []InvitationResponse {
	out := make([]InvitationResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, FromInvitation(inv))
	}
	return out
}

type NotificationSummaryResponse struct {
	UnreadCount int64                `json:"unread_count"`
	Invitations []InvitationResponse `json:"invitations"`
}

type BulkArchiveResponse struct {
	Requested int   `json:"requested"`
	Archived  int64 `json:"archived"`
	Skipped   int64 `json:"skipped"`
}

func NewBulkArchiveResponse(requested int, archived int64) BulkArchiveResponse {
	return BulkArchiveResponse{
		Requested: requested,
		Archived:  archived,
		Skipped:   int64(requested) - archived,
	}
}
