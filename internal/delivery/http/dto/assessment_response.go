package dto

import (
	"skillsync/internal/usecase"

	"github.com/google/uuid"
)

type AssessmentResultResponse struct {
	AssessmentID   uuid.UUID  `json:"assessment_id"`
	ReadinessPct   float64    `json:"readiness_pct"`
	ReadinessBand  string     `json:"readiness_band"`
	Invited        bool       `json:"invited"`
	AlreadyInvited bool       `json:"already_invited"`
	InvitationID   *uuid.UUID `json:"invitation_id,omitempty"`
}

func FromAssessmentResult(r usecase.AssessmentResult) AssessmentResultResponse {
	return AssessmentResultResponse{
		AssessmentID:   r.AssessmentID,
		ReadinessPct:   r.ReadinessPct,
		ReadinessBand:  string(r.Band),
		Invited:        r.Invited,
		AlreadyInvited: r.AlreadyInvited,
		InvitationID:   r.InvitationID,
	}
}
