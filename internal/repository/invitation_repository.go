package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillsync/internal/database"
	"skillsync/internal/domain/invitation"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationConflict means the row exists but its current status does
	// not admit the requested transition.
	ErrInvitationConflict = errors.New("invitation status conflict")
)

type InvitationCreate struct {
	UserID         uuid.UUID
	CompanyID      uuid.UUID
	JobID          uuid.UUID
	AssessmentID   *uuid.UUID
	ProficiencyPct float64
	ApplicationURL string
	Status         invitation.Status
	InvitedAt      *time.Time
}

// InvitationRepository performs the guarded single-row transitions of the
// invitation lifecycle. Every update is filtered by id plus the caller's
// ownership column; zero affected rows surfaces ErrInvitationNotFound or
// ErrInvitationConflict, never silent success.
type InvitationRepository interface {
	Create(ctx context.Context, in InvitationCreate) (uuid.UUID, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (invitation.Invitation, error)
	FindByIDForCompany(ctx context.Context, id, companyID uuid.UUID) (invitation.Invitation, error)
	ExistsForAssessment(ctx context.Context, assessmentID uuid.UUID) (bool, error)

	// Candidate-side transitions, scoped by user_id.
	MarkViewed(ctx context.Context, id, userID uuid.UUID) error
	Respond(ctx context.Context, id, userID uuid.UUID, to invitation.Status) error
	ArchiveForUser(ctx context.Context, id, userID uuid.UUID) error
	ReopenForUser(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	BulkArchiveForUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)

	// Employer-side transitions, scoped by company_id.
	Send(ctx context.Context, id, companyID uuid.UUID, message *string) error
	SetOutcome(ctx context.Context, id, companyID uuid.UUID, to invitation.Status) error
	ArchiveForCompany(ctx context.Context, id, companyID uuid.UUID) error
	ReopenForCompany(ctx context.Context, id, companyID uuid.UUID) error
	BulkArchiveForCompany(ctx context.Context, ids []uuid.UUID, companyID uuid.UUID) (int64, error)
}

type PostgresInvitationRepository struct {
	db database.DB
}

func NewPostgresInvitationRepository(db database.DB) *PostgresInvitationRepository {
	return &PostgresInvitationRepository{db: db}
}

const invitationColumns = `
	i.id, i.user_id, i.company_id, i.job_id, i.assessment_id,
	COALESCE(i.proficiency_pct, 0), COALESCE(i.application_url, ''), i.message,
	i.status, i.prior_status, i.is_read,
	i.invited_at, i.viewed_at, i.responded_at, i.archived_at, i.archived_by,
	i.created_at, i.updated_at,
	c.name, c.logo_url, j.title, j.soc_code,
	COALESCE(u.first_name, ''), COALESCE(u.last_name, '')`

const invitationJoins = `
	FROM employer_invitations i
	JOIN companies c ON c.id = i.company_id
	JOIN jobs j ON j.id = i.job_id
	JOIN users u ON u.id = i.user_id`

func scanInvitation(row database.Row) (invitation.Invitation, error) {
	var inv invitation.Invitation
	var status, prior, archivedBy sql.NullString
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.CompanyID, &inv.JobID, &inv.AssessmentID,
		&inv.ProficiencyPct, &inv.ApplicationURL, &inv.Message,
		&status, &prior, &inv.IsRead,
		&inv.InvitedAt, &inv.ViewedAt, &inv.RespondedAt, &inv.ArchivedAt, &archivedBy,
		&inv.CreatedAt, &inv.UpdatedAt,
		&inv.CompanyName, &inv.CompanyLogoURL, &inv.JobTitle, &inv.JobSOCCode,
		&inv.CandidateFirst, &inv.CandidateLast,
	)
	if err != nil {
		return invitation.Invitation{}, err
	}
	if status.Valid {
		inv.Status = invitation.Status(status.String)
	}
	if prior.Valid {
		p := invitation.Status(prior.String)
		inv.PriorStatus = &p
	}
	if archivedBy.Valid {
		b := invitation.Party(archivedBy.String)
		inv.ArchivedBy = &b
	}
	return inv, nil
}

func (r *PostgresInvitationRepository) Create(ctx context.Context, in InvitationCreate) (uuid.UUID, error) {
	id := uuid.New()
	_, err := r.db.Exec(ctx,
		`INSERT INTO employer_invitations
			(id, user_id, company_id, job_id, assessment_id, proficiency_pct, application_url, status, invited_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, in.UserID, in.CompanyID, in.JobID, in.AssessmentID,
		in.ProficiencyPct, in.ApplicationURL, string(in.Status), in.InvitedAt,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (r *PostgresInvitationRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (invitation.Invitation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+invitationColumns+invitationJoins+` WHERE i.id = $1 AND i.user_id = $2`,
		id, userID,
	)
	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return invitation.Invitation{}, ErrInvitationNotFound
		}
		return invitation.Invitation{}, err
	}
	return inv, nil
}

func (r *PostgresInvitationRepository) FindByIDForCompany(ctx context.Context, id, companyID uuid.UUID) (invitation.Invitation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+invitationColumns+invitationJoins+` WHERE i.id = $1 AND i.company_id = $2`,
		id, companyID,
	)
	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return invitation.Invitation{}, ErrInvitationNotFound
		}
		return invitation.Invitation{}, err
	}
	return inv, nil
}

func (r *PostgresInvitationRepository) ExistsForAssessment(ctx context.Context, assessmentID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM employer_invitations WHERE assessment_id = $1)`,
		assessmentID,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MarkViewed is idempotent: viewed_at keeps its first value and is_read stays
// true on repeat calls.
func (r *PostgresInvitationRepository) MarkViewed(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE employer_invitations
		 SET is_read = TRUE, viewed_at = COALESCE(viewed_at, now()), updated_at = now()
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

func (r *PostgresInvitationRepository) Respond(ctx context.Context, id, userID uuid.UUID, to invitation.Status) error {
	if to != invitation.StatusApplied && to != invitation.StatusDeclined {
		return ErrInvitationConflict
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE employer_invitations
		 SET status = $3, responded_at = now(), updated_at = now()
		 WHERE id = $1 AND user_id = $2 AND status IN ('sent', 'applied', 'declined')`,
		id, userID, string(to),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.conflictOrNotFound(ctx, id, `user_id`, userID)
	}
	return nil
}

func (r *PostgresInvitationRepository) ArchiveForUser(ctx context.Context, id, userID uuid.UUID) error {
	return r.archive(ctx, id, `user_id`, userID, invitation.PartyCandidate)
}

func (r *PostgresInvitationRepository) ArchiveForCompany(ctx context.Context, id, companyID uuid.UUID) error {
	return r.archive(ctx, id, `company_id`, companyID, invitation.PartyEmployer)
}

func (r *PostgresInvitationRepository) archive(ctx context.Context, id uuid.UUID, scopeCol string, scopeID uuid.UUID, by invitation.Party) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE employer_invitations
		 SET prior_status = status, status = 'archived',
		     archived_at = now(), archived_by = $3, updated_at = now()
		 WHERE id = $1 AND `+scopeCol+` = $2 AND status <> 'archived'`,
		id, scopeID, string(by),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.conflictOrNotFound(ctx, id, scopeCol, scopeID)
	}
	return nil
}

func (r *PostgresInvitationRepository) ReopenForUser(ctx context.Context, id, userID uuid.UUID) error {
	return r.reopen(ctx, id, `user_id`, userID, invitation.DefaultReopenStatus(invitation.PartyCandidate))
}

func (r *PostgresInvitationRepository) ReopenForCompany(ctx context.Context, id, companyID uuid.UUID) error {
	return r.reopen(ctx, id, `company_id`, companyID, invitation.DefaultReopenStatus(invitation.PartyEmployer))
}

// reopen restores the persisted pre-archive status. Rows archived before
// prior_status existed fall back to the acting side's default.
func (r *PostgresInvitationRepository) reopen(ctx context.Context, id uuid.UUID, scopeCol string, scopeID uuid.UUID, fallback invitation.Status) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE employer_invitations
		 SET status = COALESCE(prior_status, $3), prior_status = NULL,
		     archived_at = NULL, archived_by = NULL, updated_at = now()
		 WHERE id = $1 AND `+scopeCol+` = $2 AND status = 'archived'`,
		id, scopeID, string(fallback),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.conflictOrNotFound(ctx, id, scopeCol, scopeID)
	}
	return nil
}

func (r *PostgresInvitationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE employer_invitations
		 SET is_read = TRUE, updated_at = now()
		 WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)
}

// BulkArchiveForUser archives every id in the batch that belongs to the user
// and is not already archived; foreign or unknown ids are skipped. The count
// of archived rows is returned so callers can report partial matches.
func (r *PostgresInvitationRepository) BulkArchiveForUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	return r.bulkArchive(ctx, ids, `user_id`, userID, invitation.PartyCandidate)
}

func (r *PostgresInvitationRepository) BulkArchiveForCompany(ctx context.Context, ids []uuid.UUID, companyID uuid.UUID) (int64, error) {
	return r.bulkArchive(ctx, ids, `company_id`, companyID, invitation.PartyEmployer)
}

func (r *PostgresInvitationRepository) bulkArchive(ctx context.Context, ids []uuid.UUID, scopeCol string, scopeID uuid.UUID, by invitation.Party) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.db.Exec(ctx,
		`UPDATE employer_invitations
		 SET prior_status = status, status = 'archived',
		     archived_at = now(), archived_by = $3, updated_at = now()
		 WHERE id = ANY($1) AND `+scopeCol+` = $2 AND status <> 'archived'`,
		ids, scopeID, string(by),
	)
}

func (r *PostgresInvitationRepository) Send(ctx context.Context, id, companyID uuid.UUID, message *string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE employer_invitations
		 SET status = 'sent', message = COALESCE($3, message),
		     invited_at = now(), updated_at = now()
		 WHERE id = $1 AND company_id = $2 AND status = 'pending'`,
		id, companyID, message,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.conflictOrNotFound(ctx, id, `company_id`, companyID)
	}
	return nil
}

func (r *PostgresInvitationRepository) SetOutcome(ctx context.Context, id, companyID uuid.UUID, to invitation.Status) error {
	if to != invitation.StatusHired && to != invitation.StatusUnqualified {
		return ErrInvitationConflict
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE employer_invitations
		 SET status = $3, updated_at = now()
		 WHERE id = $1 AND company_id = $2 AND status <> 'archived'`,
		id, companyID, string(to),
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.conflictOrNotFound(ctx, id, `company_id`, companyID)
	}
	return nil
}

// conflictOrNotFound disambiguates a zero-row update: the row either is not
// visible to the caller (not found) or its status rejected the transition.
func (r *PostgresInvitationRepository) conflictOrNotFound(ctx context.Context, id uuid.UUID, scopeCol string, scopeID uuid.UUID) error {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM employer_invitations WHERE id = $1 AND `+scopeCol+` = $2)`,
		id, scopeID,
	)
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrInvitationConflict
	}
	return ErrInvitationNotFound
}
