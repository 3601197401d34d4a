package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillsync/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentForInvite is an assessment joined with the job fields the
// auto-invite decision needs.
type AssessmentForInvite struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	JobID        uuid.UUID
	ReadinessPct *float64
	AnalyzedAt   *time.Time

	CompanyID              *uuid.UUID
	ApplicationURL         *string
	VisibilityThresholdPct int
	JobTitle               string
	CompanyName            string
}

type AssessmentRepository interface {
	GetForInvite(ctx context.Context, id uuid.UUID) (AssessmentForInvite, error)
	SetAnalyzed(ctx context.Context, id uuid.UUID, readinessPct float64, at time.Time) error
}

type PostgresAssessmentRepository struct {
	db database.DB
	// defaultThresholdPct fills in when a job carries no
	// visibility_threshold_pct of its own.
	defaultThresholdPct int
}

func NewPostgresAssessmentRepository(db database.DB, defaultThresholdPct int) *PostgresAssessmentRepository {
	return &PostgresAssessmentRepository{db: db, defaultThresholdPct: defaultThresholdPct}
}

func (r *PostgresAssessmentRepository) GetForInvite(ctx context.Context, id uuid.UUID) (AssessmentForInvite, error) {
	row := r.db.QueryRow(ctx,
		`SELECT a.id, a.user_id, a.job_id, a.readiness_pct, a.analyzed_at,
		        j.company_id, j.application_url, COALESCE(j.visibility_threshold_pct, $2),
		        j.title, COALESCE(c.name, '')
		 FROM assessments a
		 JOIN jobs j ON j.id = a.job_id
		 LEFT JOIN companies c ON c.id = j.company_id
		 WHERE a.id = $1`,
		id, r.defaultThresholdPct,
	)

	var a AssessmentForInvite
	err := row.Scan(
		&a.ID, &a.UserID, &a.JobID, &a.ReadinessPct, &a.AnalyzedAt,
		&a.CompanyID, &a.ApplicationURL, &a.VisibilityThresholdPct,
		&a.JobTitle, &a.CompanyName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return AssessmentForInvite{}, ErrAssessmentNotFound
		}
		return AssessmentForInvite{}, err
	}
	return a, nil
}

func (r *PostgresAssessmentRepository) SetAnalyzed(ctx context.Context, id uuid.UUID, readinessPct float64, at time.Time) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE assessments
		 SET readiness_pct = $2, analyzed_at = $3, updated_at = now()
		 WHERE id = $1`,
		id, readinessPct, at,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAssessmentNotFound
	}
	return nil
}
