package invitation

import (
	"time"

	"github.com/google/uuid"
)

// Invitation links a candidate, a company, and a job, and tracks the
// outreach/response lifecycle between them.
type Invitation struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	CompanyID      uuid.UUID
	JobID          uuid.UUID
	AssessmentID   *uuid.UUID
	ProficiencyPct float64
	ApplicationURL string
	Message        *string

	Status      Status
	PriorStatus *Status
	IsRead      bool

	InvitedAt   *time.Time
	ViewedAt    *time.Time
	RespondedAt *time.Time
	ArchivedAt  *time.Time
	ArchivedBy  *Party

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined display data, populated by listing queries.
	CompanyName    string
	CompanyLogoURL *string
	JobTitle       string
	JobSOCCode     *string
	CandidateFirst string
	CandidateLast  string
}

// ReadinessBand buckets a proficiency percentage the way the dashboards
// filter on it.
type ReadinessBand string

const (
	BandReady          ReadinessBand = "ready"
	BandBuildingSkills ReadinessBand = "building_skills"
	BandDeveloping     ReadinessBand = "developing"
)

const (
	readyFloorPct    = 90
	buildingFloorPct = 85
)

func BandForPct(pct float64) ReadinessBand {
	switch {
	case pct >= readyFloorPct:
		return BandReady
	case pct >= buildingFloorPct:
		return BandBuildingSkills
	default:
		return BandDeveloping
	}
}

func ParseBand(raw string) (ReadinessBand, bool) {
	switch ReadinessBand(raw) {
	case BandReady, BandBuildingSkills, BandDeveloping:
		return ReadinessBand(raw), true
	}
	return "", false
}

// BandRange returns the inclusive floor and exclusive ceiling for a band.
// The ceiling is nil for the open-ended ready band, the floor is nil for the
// open-ended developing band.
func BandRange(b ReadinessBand) (floor *float64, ceil *float64) {
	ready := float64(readyFloorPct)
	building := float64(buildingFloorPct)
	switch b {
	case BandReady:
		return &ready, nil
	case BandBuildingSkills:
		return &building, &ready
	case BandDeveloping:
		return nil, &building
	}
	return nil, nil
}
