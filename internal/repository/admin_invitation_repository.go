package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillsync/internal/database"
	"skillsync/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrAdminInvitationNotFound = errors.New("admin invitation not found")

type AdminInvitationStatus string

const (
	AdminInvitePending   AdminInvitationStatus = "pending"
	AdminInviteAccepted  AdminInvitationStatus = "accepted"
	AdminInviteExpired   AdminInvitationStatus = "expired"
	AdminInviteCancelled AdminInvitationStatus = "cancelled"
)

type AdminInvitation struct {
	ID         uuid.UUID
	Email      string
	Role       user.Role
	CompanyID  *uuid.UUID
	SchoolID   *uuid.UUID
	Token      string
	InvitedBy  uuid.UUID
	InvitedAt  time.Time
	AcceptedAt *time.Time
	ExpiresAt  time.Time
	Status     AdminInvitationStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type AdminInvitationRepository interface {
	Create(ctx context.Context, in AdminInvitation) error
	GetByToken(ctx context.Context, token string) (AdminInvitation, error)
	List(ctx context.Context) ([]AdminInvitation, error)
	HasPendingForEmail(ctx context.Context, email string) (bool, error)

	// MarkAccepted flips a pending, unexpired invitation in one guarded
	// update; zero rows means the token was already used, cancelled, or
	// expired.
	MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error
	Cancel(ctx context.Context, id uuid.UUID) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type PostgresAdminInvitationRepository struct {
	db database.DB
}

func NewPostgresAdminInvitationRepository(db database.DB) *PostgresAdminInvitationRepository {
	return &PostgresAdminInvitationRepository{db: db}
}

const adminInviteColumns = `id, email, role, company_id, school_id, token,
	invited_by, invited_at, accepted_at, expires_at, status, created_at, updated_at`

func scanAdminInvitation(row database.Row) (AdminInvitation, error) {
	var inv AdminInvitation
	var role, status string
	err := row.Scan(
		&inv.ID, &inv.Email, &role, &inv.CompanyID, &inv.SchoolID, &inv.Token,
		&inv.InvitedBy, &inv.InvitedAt, &inv.AcceptedAt, &inv.ExpiresAt,
		&status, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return AdminInvitation{}, err
	}
	inv.Role = user.Role(role)
	inv.Status = AdminInvitationStatus(status)
	return inv, nil
}

func (r *PostgresAdminInvitationRepository) Create(ctx context.Context, in AdminInvitation) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO admin_invitations
			(id, email, role, company_id, school_id, token, invited_by, invited_at, expires_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		in.ID, in.Email, string(in.Role), in.CompanyID, in.SchoolID, in.Token,
		in.InvitedBy, in.InvitedAt, in.ExpiresAt, string(in.Status),
	)
	return err
}

func (r *PostgresAdminInvitationRepository) GetByToken(ctx context.Context, token string) (AdminInvitation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+adminInviteColumns+` FROM admin_invitations WHERE token = $1`,
		token,
	)
	inv, err := scanAdminInvitation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return AdminInvitation{}, ErrAdminInvitationNotFound
		}
		return AdminInvitation{}, err
	}
	return inv, nil
}

func (r *PostgresAdminInvitationRepository) List(ctx context.Context) ([]AdminInvitation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+adminInviteColumns+` FROM admin_invitations ORDER BY invited_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]AdminInvitation, 0)
	for rows.Next() {
		inv, err := scanAdminInvitation(rowScanner{rows})
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAdminInvitationRepository) HasPendingForEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM admin_invitations
			WHERE email = $1 AND status = 'pending' AND expires_at > now()
		)`,
		email,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresAdminInvitationRepository) MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE admin_invitations
		 SET status = 'accepted', accepted_at = $2, updated_at = now()
		 WHERE id = $1 AND status = 'pending' AND expires_at > $2`,
		id, at,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAdminInvitationNotFound
	}
	return nil
}

func (r *PostgresAdminInvitationRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE admin_invitations
		 SET status = 'cancelled', updated_at = now()
		 WHERE id = $1 AND status = 'pending'`,
		id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAdminInvitationNotFound
	}
	return nil
}

func (r *PostgresAdminInvitationRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE admin_invitations
		 SET status = 'expired', updated_at = now()
		 WHERE status = 'pending' AND expires_at <= $1`,
		now,
	)
}
