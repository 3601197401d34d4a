package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"skillsync/internal/authz"
	"skillsync/internal/domain/user"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAdminInviteNotFound = errors.New("admin invitation not found")
	// ErrAdminInviteConflict covers duplicate emails and tokens that were
	// already used or cancelled.
	ErrAdminInviteConflict = errors.New("admin invitation conflict")
	ErrAdminInviteExpired  = errors.New("admin invitation expired")
)

type AdminInviteRequest struct {
	Email     string
	Role      string
	CompanyID *uuid.UUID
	SchoolID  *uuid.UUID
}

type AdminInviteAccept struct {
	Token     string
	Password  string
	FirstName string
	LastName  string
}

type AdminInviteUsecase interface {
	Send(ctx context.Context, actorID uuid.UUID, req AdminInviteRequest) (repository.AdminInvitation, error)
	Accept(ctx context.Context, req AdminInviteAccept) (user.User, error)
	Cancel(ctx context.Context, actorID, inviteID uuid.UUID) error
	List(ctx context.Context, actorID uuid.UUID) ([]repository.AdminInvitation, error)
}

// AdminInvites onboards privileged accounts by single-use token. Only super
// admins mint, cancel, or list invitations; acceptance is unauthenticated
// and guarded by the token itself.
type AdminInvites struct {
	invites repository.AdminInvitationRepository
	users   repository.UserRepository
	orgs    repository.OrgRepository

	tokenTTL time.Duration
	now      func() time.Time
}

func NewAdminInviteUsecase(
	invites repository.AdminInvitationRepository,
	users repository.UserRepository,
	orgs repository.OrgRepository,
	tokenTTL time.Duration,
) *AdminInvites {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &AdminInvites{invites: invites, users: users, orgs: orgs, tokenTTL: tokenTTL, now: time.Now}
}

func (u *AdminInvites) Send(ctx context.Context, actorID uuid.UUID, req AdminInviteRequest) (repository.AdminInvitation, error) {
	if err := u.requireSuperAdmin(ctx, actorID); err != nil {
		return repository.AdminInvitation{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return repository.AdminInvitation{}, ErrInvalidInput
	}
	role, ok := user.ParseRole(req.Role)
	if !ok || role == user.RoleUser {
		return repository.AdminInvitation{}, ErrInvalidInput
	}
	if err := u.validateOrgPairing(ctx, role, req.CompanyID, req.SchoolID); err != nil {
		return repository.AdminInvitation{}, err
	}

	if taken, err := u.users.ExistsByEmail(ctx, email); err != nil {
		return repository.AdminInvitation{}, ErrInternal
	} else if taken {
		return repository.AdminInvitation{}, ErrAdminInviteConflict
	}
	if pending, err := u.invites.HasPendingForEmail(ctx, email); err != nil {
		return repository.AdminInvitation{}, ErrInternal
	} else if pending {
		return repository.AdminInvitation{}, ErrAdminInviteConflict
	}

	token, err := newInviteToken()
	if err != nil {
		return repository.AdminInvitation{}, ErrInternal
	}

	now := u.now().UTC()
	inv := repository.AdminInvitation{
		ID:        uuid.New(),
		Email:     email,
		Role:      role,
		CompanyID: req.CompanyID,
		SchoolID:  req.SchoolID,
		Token:     token,
		InvitedBy: actorID,
		InvitedAt: now,
		ExpiresAt: now.Add(u.tokenTTL),
		Status:    repository.AdminInvitePending,
	}
	if err := u.invites.Create(ctx, inv); err != nil {
		return repository.AdminInvitation{}, ErrInternal
	}
	return inv, nil
}

// Accept redeems a token exactly once: the guarded MarkAccepted update is the
// authority, so two racing accepts cannot both create an account.
func (u *AdminInvites) Accept(ctx context.Context, req AdminInviteAccept) (user.User, error) {
	if strings.TrimSpace(req.Token) == "" || len(req.Password) < 8 {
		return user.User{}, ErrInvalidInput
	}

	inv, err := u.invites.GetByToken(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		if errors.Is(err, repository.ErrAdminInvitationNotFound) {
			return user.User{}, ErrAdminInviteNotFound
		}
		return user.User{}, ErrInternal
	}

	now := u.now().UTC()
	switch {
	case inv.Status != repository.AdminInvitePending:
		return user.User{}, ErrAdminInviteConflict
	case now.After(inv.ExpiresAt):
		return user.User{}, ErrAdminInviteExpired
	}

	if err := u.invites.MarkAccepted(ctx, inv.ID, now); err != nil {
		if errors.Is(err, repository.ErrAdminInvitationNotFound) {
			return user.User{}, ErrAdminInviteConflict
		}
		return user.User{}, ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	acct := user.User{
		ID:            uuid.New(),
		Email:         inv.Email,
		PasswordHash:  string(hash),
		Role:          inv.Role,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		CompanyID:     inv.CompanyID,
		SchoolID:      inv.SchoolID,
		AgreedToTerms: true,
	}
	if err := u.users.Create(ctx, acct); err != nil {
		return user.User{}, ErrInternal
	}
	return acct, nil
}

func (u *AdminInvites) Cancel(ctx context.Context, actorID, inviteID uuid.UUID) error {
	if err := u.requireSuperAdmin(ctx, actorID); err != nil {
		return err
	}
	if err := u.invites.Cancel(ctx, inviteID); err != nil {
		if errors.Is(err, repository.ErrAdminInvitationNotFound) {
			return ErrAdminInviteNotFound
		}
		return ErrInternal
	}
	return nil
}

func (u *AdminInvites) List(ctx context.Context, actorID uuid.UUID) ([]repository.AdminInvitation, error) {
	if err := u.requireSuperAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	// Lazy sweep keeps the listing honest without a background job.
	_, _ = u.invites.ExpireOverdue(ctx, u.now().UTC())

	items, err := u.invites.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (u *AdminInvites) requireSuperAdmin(ctx context.Context, actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return ErrInvalidInput
	}
	actor, err := u.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrForbidden
		}
		return ErrInternal
	}
	a := authz.Actor{UserID: actor.ID, Role: actor.Role, CompanyID: actor.CompanyID, SchoolID: actor.SchoolID}
	if !authz.Allow(a, authz.ActionManageAdminInvites, authz.Resource{}) {
		return ErrForbidden
	}
	return nil
}

func (u *AdminInvites) validateOrgPairing(ctx context.Context, role user.Role, companyID, schoolID *uuid.UUID) error {
	switch role {
	case user.RoleEmployerAdmin:
		if companyID == nil || schoolID != nil {
			return ErrInvalidInput
		}
		ok, err := u.orgs.CompanyExists(ctx, *companyID)
		if err != nil {
			return ErrInternal
		}
		if !ok {
			return ErrInvalidInput
		}
	case user.RoleProviderAdmin:
		if schoolID == nil || companyID != nil {
			return ErrInvalidInput
		}
		ok, err := u.orgs.SchoolExists(ctx, *schoolID)
		if err != nil {
			return ErrInternal
		}
		if !ok {
			return ErrInvalidInput
		}
	case user.RoleSuperAdmin:
		if companyID != nil || schoolID != nil {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

func newInviteToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
