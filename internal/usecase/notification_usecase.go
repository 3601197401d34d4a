package usecase

import (
	"context"

	"skillsync/internal/domain/invitation"
	"skillsync/internal/infrastructure/cache"
	"skillsync/internal/repository"

	"github.com/google/uuid"
)

// NotificationSummary backs the header dropdown: the unread badge plus the
// most recent invitations, newest first.
type NotificationSummary struct {
	UnreadCount int64                   `json:"unread_count"`
	Invitations []invitation.Invitation `json:"invitations"`
}

type NotificationUsecase interface {
	GetSummary(ctx context.Context, userID uuid.UUID, limit int) (NotificationSummary, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Notifications struct {
	queries      repository.InvitationQueryRepository
	repo         repository.InvitationRepository
	cache        NotificationCache
	defaultLimit int
}

func NewNotificationUsecase(queries repository.InvitationQueryRepository, repo repository.InvitationRepository, c NotificationCache, defaultLimit int) *Notifications {
	if defaultLimit <= 0 {
		defaultLimit = 12
	}
	return &Notifications{queries: queries, repo: repo, cache: c, defaultLimit: defaultLimit}
}

// GetSummary is read-through cached per (user, limit). A cache outage never
// fails the request; the database is the source of truth.
func (u *Notifications) GetSummary(ctx context.Context, userID uuid.UUID, limit int) (NotificationSummary, error) {
	if userID == uuid.Nil {
		return NotificationSummary{}, ErrInvalidInput
	}
	if limit <= 0 {
		limit = u.defaultLimit
	}

	key := cache.RecentInvitesKey(userID, limit)
	if u.cache != nil {
		var cached NotificationSummary
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	count, err := u.queries.CountUnreadForUser(ctx, userID)
	if err != nil {
		return NotificationSummary{}, ErrInternal
	}
	recent, err := u.queries.ListRecentForUser(ctx, userID, limit)
	if err != nil {
		return NotificationSummary{}, ErrInternal
	}

	summary := NotificationSummary{UnreadCount: count, Invitations: recent}
	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, summary, 0)
	}
	return summary, nil
}

func (u *Notifications) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrInvalidInput
	}

	key := cache.UnreadCountKey(userID)
	if u.cache != nil {
		var cached int64
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	count, err := u.queries.CountUnreadForUser(ctx, userID)
	if err != nil {
		return 0, ErrInternal
	}
	if u.cache != nil {
		_ = u.cache.SetJSON(ctx, key, count, 0)
	}
	return count, nil
}

func (u *Notifications) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrInvalidInput
	}

	n, err := u.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, ErrInternal
	}
	if u.cache != nil {
		_ = u.cache.InvalidateUserNotifications(ctx, userID)
	}
	return n, nil
}
