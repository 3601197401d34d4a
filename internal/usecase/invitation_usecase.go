package usecase

import (
	"context"
	"errors"

	"skillsync/internal/domain/invitation"
	"skillsync/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationConflict: the invitation exists but its status rejects the
	// requested action.
	ErrInvitationConflict = errors.New("invitation status conflict")
	ErrInvalidAction      = errors.New("invalid action")
	ErrEmptyBatch         = errors.New("empty id batch")
)

// InvitationAction is a candidate-side transition request.
type InvitationAction string

const (
	ActionView    InvitationAction = "view"
	ActionApply   InvitationAction = "apply"
	ActionDecline InvitationAction = "decline"
	ActionArchive InvitationAction = "archive"
	ActionReopen  InvitationAction = "reopen"
)

func ParseInvitationAction(raw string) (InvitationAction, bool) {
	a := InvitationAction(raw)
	switch a {
	case ActionView, ActionApply, ActionDecline, ActionArchive, ActionReopen:
		return a, true
	}
	return "", false
}

// ListFilters carries the raw query parameters of a listing request; parsing
// and validation happen here, not in the handler.
type ListFilters struct {
	Status    string
	Readiness string
	JobID     string
	Search    string
}

type InvitationUsecase interface {
	List(ctx context.Context, userID uuid.UUID, f ListFilters) ([]invitation.Invitation, error)
	ListArchived(ctx context.Context, userID uuid.UUID) ([]invitation.Invitation, error)
	Act(ctx context.Context, userID, id uuid.UUID, action InvitationAction) error
	BulkArchive(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// Invitations is the candidate side of the lifecycle. Every operation is
// scoped to the session user; callers cannot name another user's rows.
type Invitations struct {
	repo    repository.InvitationRepository
	queries repository.InvitationQueryRepository
	cache   NotificationCache
}

func NewInvitationUsecase(repo repository.InvitationRepository, queries repository.InvitationQueryRepository, cache NotificationCache) *Invitations {
	return &Invitations{repo: repo, queries: queries, cache: cache}
}

func (u *Invitations) List(ctx context.Context, userID uuid.UUID, f ListFilters) ([]invitation.Invitation, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	filter, err := buildListFilter(f)
	if err != nil {
		return nil, err
	}

	items, err := u.queries.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Invitations) ListArchived(ctx context.Context, userID uuid.UUID) ([]invitation.Invitation, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	items, err := u.queries.ListArchivedForUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Invitations) Act(ctx context.Context, userID, id uuid.UUID, action InvitationAction) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return ErrInvalidInput
	}

	var err error
	switch action {
	case ActionView:
		err = u.repo.MarkViewed(ctx, id, userID)
	case ActionApply:
		err = u.repo.Respond(ctx, id, userID, invitation.StatusApplied)
	case ActionDecline:
		err = u.repo.Respond(ctx, id, userID, invitation.StatusDeclined)
	case ActionArchive:
		err = u.repo.ArchiveForUser(ctx, id, userID)
	case ActionReopen:
		err = u.repo.ReopenForUser(ctx, id, userID)
	default:
		return ErrInvalidAction
	}

	if err != nil {
		return mapInvitationRepoError(err)
	}

	if u.cache != nil {
		_ = u.cache.InvalidateUserNotifications(ctx, userID)
	}
	return nil
}

// BulkArchive archives every id in the batch that belongs to the caller and
// is still active. Unknown or foreign ids are skipped; the archived count is
// returned so the client can surface partial matches.
func (u *Invitations) BulkArchive(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrInvalidInput
	}
	if len(ids) == 0 {
		return 0, ErrEmptyBatch
	}

	n, err := u.repo.BulkArchiveForUser(ctx, ids, userID)
	if err != nil {
		return 0, ErrInternal
	}

	if n > 0 && u.cache != nil {
		_ = u.cache.InvalidateUserNotifications(ctx, userID)
	}
	return n, nil
}

func buildListFilter(f ListFilters) (repository.InvitationListFilter, error) {
	out := repository.InvitationListFilter{Search: f.Search}

	if f.Status != "" {
		st, ok := invitation.ParseStatus(f.Status)
		if !ok {
			return repository.InvitationListFilter{}, ErrInvalidInput
		}
		out.Status = &st
	}
	if f.Readiness != "" {
		band, ok := invitation.ParseBand(f.Readiness)
		if !ok {
			return repository.InvitationListFilter{}, ErrInvalidInput
		}
		out.Band = &band
	}
	if f.JobID != "" {
		jobID, err := uuid.Parse(f.JobID)
		if err != nil {
			return repository.InvitationListFilter{}, ErrInvalidInput
		}
		out.JobID = &jobID
	}
	return out, nil
}

func mapInvitationRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrInvitationNotFound):
		return ErrInvitationNotFound
	case errors.Is(err, repository.ErrInvitationConflict):
		return ErrInvitationConflict
	default:
		return ErrInternal
	}
}
