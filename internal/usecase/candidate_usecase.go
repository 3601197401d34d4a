package usecase

import (
	"context"
	"errors"

	"skillsync/internal/authz"
	"skillsync/internal/domain/invitation"
	"skillsync/internal/repository"

	"github.com/google/uuid"
)

// CandidateAction is an employer-side transition request.
type CandidateAction string

const (
	CandidateActionSend        CandidateAction = "invite"
	CandidateActionHire        CandidateAction = "hire"
	CandidateActionUnqualified CandidateAction = "unqualified"
	CandidateActionArchive     CandidateAction = "archive"
	CandidateActionReopen      CandidateAction = "reopen"
)

func ParseCandidateAction(raw string) (CandidateAction, bool) {
	a := CandidateAction(raw)
	switch a {
	case CandidateActionSend, CandidateActionHire, CandidateActionUnqualified,
		CandidateActionArchive, CandidateActionReopen:
		return a, true
	}
	return "", false
}

type CandidateUsecase interface {
	List(ctx context.Context, actorID uuid.UUID, f ListFilters) ([]invitation.Invitation, error)
	ListArchived(ctx context.Context, actorID uuid.UUID) ([]invitation.Invitation, error)
	Act(ctx context.Context, actorID, id uuid.UUID, action CandidateAction, message *string) error
	BulkArchive(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// Candidates is the employer side of the lifecycle. Every operation resolves
// the actor's company and scopes the query to it; super admins pass the check
// but still need a company to act within.
type Candidates struct {
	repo    repository.InvitationRepository
	queries repository.InvitationQueryRepository
	users   repository.UserRepository
	cache   NotificationCache
	pusher  InvitationPusher
}

func NewCandidateUsecase(
	repo repository.InvitationRepository,
	queries repository.InvitationQueryRepository,
	users repository.UserRepository,
	cache NotificationCache,
	pusher InvitationPusher,
) *Candidates {
	return &Candidates{repo: repo, queries: queries, users: users, cache: cache, pusher: pusher}
}

func (u *Candidates) List(ctx context.Context, actorID uuid.UUID, f ListFilters) ([]invitation.Invitation, error) {
	companyID, err := u.companyScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	filter, err := buildListFilter(f)
	if err != nil {
		return nil, err
	}

	items, err := u.queries.ListForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Candidates) ListArchived(ctx context.Context, actorID uuid.UUID) ([]invitation.Invitation, error) {
	companyID, err := u.companyScope(ctx, actorID)
	if err != nil {
		return nil, err
	}
	items, err := u.queries.ListArchivedForCompany(ctx, companyID)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Candidates) Act(ctx context.Context, actorID, id uuid.UUID, action CandidateAction, message *string) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	companyID, err := u.companyScope(ctx, actorID)
	if err != nil {
		return err
	}

	switch action {
	case CandidateActionSend:
		err = u.repo.Send(ctx, id, companyID, message)
	case CandidateActionHire:
		err = u.repo.SetOutcome(ctx, id, companyID, invitation.StatusHired)
	case CandidateActionUnqualified:
		err = u.repo.SetOutcome(ctx, id, companyID, invitation.StatusUnqualified)
	case CandidateActionArchive:
		err = u.repo.ArchiveForCompany(ctx, id, companyID)
	case CandidateActionReopen:
		err = u.repo.ReopenForCompany(ctx, id, companyID)
	default:
		return ErrInvalidAction
	}
	if err != nil {
		return mapInvitationRepoError(err)
	}

	// Every transition touches the candidate's notification views, so their
	// cached summary is dropped; send additionally pushes the event.
	if inv, ferr := u.repo.FindByIDForCompany(ctx, id, companyID); ferr == nil {
		if action == CandidateActionSend && u.pusher != nil {
			u.pusher.PushInvitationReceived(inv.UserID, inv)
		}
		if u.cache != nil {
			_ = u.cache.InvalidateUserNotifications(ctx, inv.UserID)
		}
	}
	return nil
}

func (u *Candidates) BulkArchive(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrEmptyBatch
	}
	companyID, err := u.companyScope(ctx, actorID)
	if err != nil {
		return 0, err
	}

	n, err := u.repo.BulkArchiveForCompany(ctx, ids, companyID)
	if err != nil {
		return 0, ErrInternal
	}
	return n, nil
}

// companyScope loads the actor and returns the company their role allows
// them to manage.
func (u *Candidates) companyScope(ctx context.Context, actorID uuid.UUID) (uuid.UUID, error) {
	if actorID == uuid.Nil {
		return uuid.Nil, ErrInvalidInput
	}
	actor, err := u.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return uuid.Nil, ErrForbidden
		}
		return uuid.Nil, ErrInternal
	}
	if actor.CompanyID == nil {
		return uuid.Nil, ErrForbidden
	}

	a := authz.Actor{UserID: actor.ID, Role: actor.Role, CompanyID: actor.CompanyID, SchoolID: actor.SchoolID}
	if !authz.Allow(a, authz.ActionManageCandidates, authz.OfCompany(*actor.CompanyID)) {
		return uuid.Nil, ErrForbidden
	}
	return *actor.CompanyID, nil
}
