package ws

import (
	"encoding/json"
	"time"

	"skillsync/internal/domain/invitation"

	"github.com/google/uuid"
)

type InvitationReceivedEvent struct {
	Type           string  `json:"type"`
	InvitationID   string  `json:"invitation_id"`
	CompanyName    string  `json:"company_name"`
	JobTitle       string  `json:"job_title"`
	ProficiencyPct float64 `json:"proficiency_pct"`
	Timestamp      string  `json:"timestamp"`
}

// Notifier adapts the hub to the push interface the usecases depend on.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) PushInvitationReceived(userID uuid.UUID, inv invitation.Invitation) {
	if n == nil || n.hub == nil {
		return
	}

	evt := InvitationReceivedEvent{
		Type:           "invitation_received",
		InvitationID:   inv.ID.String(),
		CompanyName:    inv.CompanyName,
		JobTitle:       inv.JobTitle,
		ProficiencyPct: inv.ProficiencyPct,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	n.hub.Send(userID, b)
}
