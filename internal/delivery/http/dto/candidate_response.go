package dto

import (
	"time"

	"skillsync/internal/domain/invitation"

	"github.com/google/uuid"
)

// CandidateResponse is the employer-side projection of an invitation row:
// the candidate in front, company fields dropped.
type CandidateResponse struct {
	ID             uuid.UUID  `json:"id"`
	CandidateName  string     `json:"candidate_name"`
	JobID          uuid.UUID  `json:"job_id"`
	JobTitle       string     `json:"job_title"`
	ProficiencyPct float64    `json:"proficiency_pct"`
	ReadinessBand  string     `json:"readiness_band"`
	Status         string     `json:"status"`
	Message        *string    `json:"message"`
	InvitedAt      *time.Time `json:"invited_at"`
	RespondedAt    *time.Time `json:"responded_at"`
	ArchivedAt     *time.Time `json:"archived_at"`
	ArchivedBy     *string    `json:"archived_by,omitempty"`
}

func FromCandidate(inv invitation.Invitation) CandidateResponse {
	name := inv.CandidateFirst
	if inv.CandidateLast != "" {
		if name != "" {
			name += " "
		}
		name += inv.CandidateLast
	}
	var archivedBy *string
	if inv.ArchivedBy != nil {
		s := string(*inv.ArchivedBy)
		archivedBy = &s
	}
	return CandidateResponse{
		ID:             inv.ID,
		CandidateName:  name,
		JobID:          inv.JobID,
		JobTitle:       inv.JobTitle,
		ProficiencyPct: inv.ProficiencyPct,
		ReadinessBand:  string(invitation.BandForPct(inv.ProficiencyPct)),
		Status:         string(inv.Status),
		Message:        inv.Message,
		InvitedAt:      inv.InvitedAt,
		RespondedAt:    inv.RespondedAt,
		ArchivedAt:     inv.ArchivedAt,
		ArchivedBy:     archivedBy,
	}
}

func FromCandidates(items []invitation.Invitation) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(items))
	for _, inv := range items {
		out = append(out, FromCandidate(inv))
	}
	return out
}
