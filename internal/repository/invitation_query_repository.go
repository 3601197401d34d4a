package repository

import (
	"context"
	"fmt"
	"strings"

	"skillsync/internal/database"
	"skillsync/internal/domain/invitation"

	"github.com/google/uuid"
)

type InvitationListFilter struct {
	Status *invitation.Status
	Band   *invitation.ReadinessBand
	JobID  *uuid.UUID
	Search string
}

// InvitationQueryRepository serves the read side of the lifecycle. Every
// query is scoped by the caller's own user or company id; there is no
// unscoped listing.
type InvitationQueryRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID, f InvitationListFilter) ([]invitation.Invitation, error)
	ListArchivedForUser(ctx context.Context, userID uuid.UUID) ([]invitation.Invitation, error)
	ListForCompany(ctx context.Context, companyID uuid.UUID, f InvitationListFilter) ([]invitation.Invitation, error)
	ListArchivedForCompany(ctx context.Context, companyID uuid.UUID) ([]invitation.Invitation, error)

	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListRecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]invitation.Invitation, error)
}

type PostgresInvitationQueryRepository struct {
	db database.DB
}

func NewPostgresInvitationQueryRepository(db database.DB) *PostgresInvitationQueryRepository {
	return &PostgresInvitationQueryRepository{db: db}
}

func (r *PostgresInvitationQueryRepository) ListForUser(ctx context.Context, userID uuid.UUID, f InvitationListFilter) ([]invitation.Invitation, error) {
	where := []string{`i.user_id = $1`, `i.status <> 'archived'`}
	args := []any{userID}
	where, args = applyFilter(where, args, f, searchUserSide)

	query := `SELECT ` + invitationColumns + invitationJoins +
		` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY i.created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *PostgresInvitationQueryRepository) ListArchivedForUser(ctx context.Context, userID uuid.UUID) ([]invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + invitationJoins +
		` WHERE i.user_id = $1 AND i.status = 'archived'
		 ORDER BY i.archived_at DESC NULLS LAST`
	return r.list(ctx, query, userID)
}

func (r *PostgresInvitationQueryRepository) ListForCompany(ctx context.Context, companyID uuid.UUID, f InvitationListFilter) ([]invitation.Invitation, error) {
	where := []string{`i.company_id = $1`, `i.status <> 'archived'`}
	args := []any{companyID}
	where, args = applyFilter(where, args, f, searchEmployerSide)

	query := `SELECT ` + invitationColumns + invitationJoins +
		` WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY i.created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *PostgresInvitationQueryRepository) ListArchivedForCompany(ctx context.Context, companyID uuid.UUID) ([]invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + invitationJoins +
		` WHERE i.company_id = $1 AND i.status = 'archived'
		 ORDER BY i.archived_at DESC NULLS LAST`
	return r.list(ctx, query, companyID)
}

func (r *PostgresInvitationQueryRepository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var c int64
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1) FROM employer_invitations
		 WHERE user_id = $1 AND is_read = FALSE AND status <> 'archived'`,
		userID,
	)
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresInvitationQueryRepository) ListRecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]invitation.Invitation, error) {
	if limit <= 0 {
		limit = 12
	}
	if limit > 100 {
		limit = 100
	}
	query := `SELECT ` + invitationColumns + invitationJoins +
		` WHERE i.user_id = $1 AND i.is_read = FALSE AND i.status <> 'archived'
		 ORDER BY i.invited_at DESC NULLS LAST
		 LIMIT $2`
	return r.list(ctx, query, userID, limit)
}

func (r *PostgresInvitationQueryRepository) list(ctx context.Context, query string, args ...any) ([]invitation.Invitation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]invitation.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rowScanner{rows})
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

// rowScanner lets scanInvitation consume one row of a multi-row result.
type rowScanner struct {
	rows database.Rows
}

func (s rowScanner) Scan(dest ...any) error {
	return s.rows.Scan(dest...)
}

type searchSide int

const (
	searchUserSide searchSide = iota
	searchEmployerSide
)

func applyFilter(where []string, args []any, f InvitationListFilter, side searchSide) ([]string, []any) {
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf(`i.status = $%d`, len(args)))
	}
	if f.JobID != nil {
		args = append(args, *f.JobID)
		where = append(where, fmt.Sprintf(`i.job_id = $%d`, len(args)))
	}
	if f.Band != nil {
		floor, ceil := invitation.BandRange(*f.Band)
		if floor != nil {
			args = append(args, *floor)
			where = append(where, fmt.Sprintf(`i.proficiency_pct >= $%d`, len(args)))
		}
		if ceil != nil {
			args = append(args, *ceil)
			where = append(where, fmt.Sprintf(`i.proficiency_pct < $%d`, len(args)))
		}
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		if side == searchEmployerSide {
			where = append(where, fmt.Sprintf(`(u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR j.title ILIKE $%d)`, n, n, n))
		} else {
			where = append(where, fmt.Sprintf(`(c.name ILIKE $%d OR j.title ILIKE $%d)`, n, n))
		}
	}
	return where, args
}
