package repository

import (
	"context"

	"skillsync/internal/database"

	"github.com/google/uuid"
)

// OrgRepository answers the existence checks admin invitations need before
// binding a new admin to a company or school.
type OrgRepository interface {
	CompanyExists(ctx context.Context, id uuid.UUID) (bool, error)
	SchoolExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type PostgresOrgRepository struct {
	db database.DB
}

func NewPostgresOrgRepository(db database.DB) *PostgresOrgRepository {
	return &PostgresOrgRepository{db: db}
}

func (r *PostgresOrgRepository) CompanyExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresOrgRepository) SchoolExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schools WHERE id = $1)`, id)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
