package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"skillsync/internal/authz"
	"skillsync/internal/domain/invitation"
	"skillsync/internal/domain/user"
	"skillsync/internal/infrastructure/cache"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

const autoInviteLockTTL = 30 * time.Second

// AssessmentResult is what the client gets back after recording a score: the
// band the candidate landed in and whether an invitation went out.
type AssessmentResult struct {
	AssessmentID   uuid.UUID
	ReadinessPct   float64
	Band           invitation.ReadinessBand
	Invited        bool
	AlreadyInvited bool
	InvitationID   *uuid.UUID
}

type AssessmentUsecase interface {
	Complete(ctx context.Context, actorID, assessmentID uuid.UUID, readinessPct float64) (AssessmentResult, error)
}

// Assessments records scores and runs the auto-invite rule: qualifying
// candidates of a consenting account get a sent invitation the moment their
// result lands, once per assessment.
type Assessments struct {
	assessments repository.AssessmentRepository
	invitations repository.InvitationRepository
	users       repository.UserRepository
	cache       NotificationCache
	pusher      InvitationPusher
	logger      *log.Logger

	now func() time.Time
}

func NewAssessmentUsecase(
	assessments repository.AssessmentRepository,
	invitations repository.InvitationRepository,
	users repository.UserRepository,
	c NotificationCache,
	pusher InvitationPusher,
	logger *log.Logger,
) *Assessments {
	return &Assessments{
		assessments: assessments,
		invitations: invitations,
		users:       users,
		cache:       c,
		pusher:      pusher,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *Assessments) Complete(ctx context.Context, actorID, assessmentID uuid.UUID, readinessPct float64) (AssessmentResult, error) {
	if actorID == uuid.Nil || assessmentID == uuid.Nil {
		return AssessmentResult{}, ErrInvalidInput
	}
	if readinessPct < 0 || readinessPct > 100 {
		return AssessmentResult{}, ErrInvalidInput
	}

	a, err := u.assessments.GetForInvite(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAssessmentNotFound) {
			return AssessmentResult{}, ErrAssessmentNotFound
		}
		return AssessmentResult{}, ErrInternal
	}

	owner, err := u.users.GetByID(ctx, a.UserID)
	if err != nil {
		return AssessmentResult{}, ErrInternal
	}
	acting := owner
	if actorID != owner.ID {
		acting, err = u.users.GetByID(ctx, actorID)
		if err != nil {
			return AssessmentResult{}, ErrForbidden
		}
	}
	actor := authz.Actor{UserID: actorID, Role: acting.Role, CompanyID: acting.CompanyID, SchoolID: acting.SchoolID}
	if !authz.Allow(actor, authz.ActionCompleteAssessment, authz.OwnedBy(a.UserID)) {
		return AssessmentResult{}, ErrForbidden
	}

	now := u.now().UTC()
	if err := u.assessments.SetAnalyzed(ctx, assessmentID, readinessPct, now); err != nil {
		return AssessmentResult{}, ErrInternal
	}

	result := AssessmentResult{
		AssessmentID: assessmentID,
		ReadinessPct: readinessPct,
		Band:         invitation.BandForPct(readinessPct),
	}

	// Invite failures never fail the completion; the score is already saved.
	u.maybeInvite(ctx, &result, a, owner, readinessPct, now)
	return result, nil
}

func (u *Assessments) maybeInvite(ctx context.Context, result *AssessmentResult, a repository.AssessmentForInvite, owner user.User, pct float64, now time.Time) {
	if pct < float64(a.VisibilityThresholdPct) {
		return
	}
	if !owner.AgreedToTerms {
		return
	}
	if a.CompanyID == nil || a.ApplicationURL == nil || *a.ApplicationURL == "" {
		return
	}

	exists, err := u.invitations.ExistsForAssessment(ctx, a.ID)
	if err != nil {
		u.logf("auto-invite dedup check failed | assessment=%s err=%v", a.ID, err)
		return
	}
	if exists {
		result.AlreadyInvited = true
		return
	}

	// Short lock so concurrent completions of the same assessment race to a
	// single insert; the partial unique index is the real guarantee.
	if u.cache != nil {
		ok, err := u.cache.SetIfNotExists(ctx, cache.AutoInviteLockKey(a.ID), "1", autoInviteLockTTL)
		if err == nil && !ok {
			result.AlreadyInvited = true
			return
		}
	}

	id, err := u.invitations.Create(ctx, repository.InvitationCreate{
		UserID:         a.UserID,
		CompanyID:      *a.CompanyID,
		JobID:          a.JobID,
		AssessmentID:   &a.ID,
		ProficiencyPct: pct,
		ApplicationURL: *a.ApplicationURL,
		Status:         invitation.StatusSent,
		InvitedAt:      &now,
	})
	if err != nil {
		if isUniqueViolation(err) {
			result.AlreadyInvited = true
			return
		}
		u.logf("auto-invite insert failed | assessment=%s err=%v", a.ID, err)
		return
	}

	result.Invited = true
	result.InvitationID = &id

	if u.cache != nil {
		_ = u.cache.InvalidateUserNotifications(ctx, a.UserID)
	}
	if u.pusher != nil {
		if inv, ferr := u.invitations.FindByIDForUser(ctx, id, a.UserID); ferr == nil {
			u.pusher.PushInvitationReceived(a.UserID, inv)
		}
	}
}

func (u *Assessments) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
