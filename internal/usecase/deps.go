package usecase

import (
	"context"
	"errors"
	"time"

	"skillsync/internal/domain/invitation"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// NotificationCache is the slice of the redis wrapper the lifecycle needs:
// read-through caching for notification views plus short-lived locks.
type NotificationCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateUserNotifications(ctx context.Context, userID uuid.UUID) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

// InvitationPusher delivers an invitation event to a candidate's open
// notification sockets. Implementations are best-effort.
type InvitationPusher interface {
	PushInvitationReceived(userID uuid.UUID, inv invitation.Invitation)
}
