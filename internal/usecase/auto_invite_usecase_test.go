package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"skillsync/internal/domain/invitation"
	"skillsync/internal/domain/user"
	"skillsync/internal/repository"

	"github.com/google/uuid"
)

type mockAssessmentRepo struct {
	byID     map[uuid.UUID]repository.AssessmentForInvite
	analyzed map[uuid.UUID]float64
}

func newMockAssessmentRepo(items ...repository.AssessmentForInvite) *mockAssessmentRepo {
	m := &mockAssessmentRepo{
		byID:     make(map[uuid.UUID]repository.AssessmentForInvite),
		analyzed: make(map[uuid.UUID]float64),
	}
	for _, a := range items {
		m.byID[a.ID] = a
	}
	return m
}

func (m *mockAssessmentRepo) GetForInvite(_ context.Context, id uuid.UUID) (repository.AssessmentForInvite, error) {
	a, ok := m.byID[id]
	if !ok {
		return repository.AssessmentForInvite{}, repository.ErrAssessmentNotFound
	}
	return a, nil
}

func (m *mockAssessmentRepo) SetAnalyzed(_ context.Context, id uuid.UUID, pct float64, _ time.Time) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrAssessmentNotFound
	}
	m.analyzed[id] = pct
	return nil
}

func autoInviteFixture(t *testing.T) (*Assessments, *fakeInvitationRepo, *mockCache, *mockPusher, repository.AssessmentForInvite, user.User) {
	t.Helper()

	companyID := uuid.New()
	url := "https://jobs.example.com/apply/42"
	candidate := user.User{
		ID:            uuid.New(),
		Email:         "candidate@example.com",
		Role:          user.RoleUser,
		AgreedToTerms: true,
	}
	assessment := repository.AssessmentForInvite{
		ID:                     uuid.New(),
		UserID:                 candidate.ID,
		JobID:                  uuid.New(),
		CompanyID:              &companyID,
		ApplicationURL:         &url,
		VisibilityThresholdPct: 85,
		JobTitle:               "Machinist",
		CompanyName:            "Acme",
	}

	assessRepo := newMockAssessmentRepo(assessment)
	invRepo := newFakeInvitationRepo()
	cache := newMockCache()
	pusher := &mockPusher{}
	uc := NewAssessmentUsecase(assessRepo, invRepo, newMockUserRepo(candidate), cache, pusher, nil)
	return uc, invRepo, cache, pusher, assessment, candidate
}

func TestAssessments_Complete_BelowThresholdNoInvite(t *testing.T) {
	uc, invRepo, _, pusher, a, cand := autoInviteFixture(t)

	result, err := uc.Complete(context.Background(), cand.ID, a.ID, 84.9)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Invited || result.AlreadyInvited {
		t.Fatalf("no invitation expected below threshold: %+v", result)
	}
	if result.Band != invitation.BandDeveloping {
		t.Fatalf("expected developing band, got %s", result.Band)
	}
	if len(invRepo.rows) != 0 || len(pusher.pushed) != 0 {
		t.Fatalf("invitation side effects fired below threshold")
	}
}

func TestAssessments_Complete_AtThresholdInvitesOnce(t *testing.T) {
	uc, invRepo, cache, pusher, a, cand := autoInviteFixture(t)

	result, err := uc.Complete(context.Background(), cand.ID, a.ID, 85)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !result.Invited || result.InvitationID == nil {
		t.Fatalf("expected invitation at threshold: %+v", result)
	}
	row := invRepo.get(*result.InvitationID)
	if row.Status != invitation.StatusSent {
		t.Fatalf("auto-invite status = %s, want sent", row.Status)
	}
	if row.InvitedAt == nil {
		t.Fatalf("auto-invite missing invited_at")
	}
	if len(pusher.pushed) != 1 || pusher.pushed[0] != cand.ID {
		t.Fatalf("expected one push to candidate, got %v", pusher.pushed)
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("expected cache invalidation on invite")
	}

	// Second signal for the same assessment records the score again but
	// never produces a second invitation.
	second, err := uc.Complete(context.Background(), cand.ID, a.ID, 92)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if second.Invited {
		t.Fatalf("second signal produced a second invitation")
	}
	if !second.AlreadyInvited {
		t.Fatalf("expected already_invited on second signal")
	}
	if len(invRepo.rows) != 1 {
		t.Fatalf("expected exactly 1 invitation, got %d", len(invRepo.rows))
	}
}

func TestAssessments_Complete_LockHeldElsewhere(t *testing.T) {
	uc, invRepo, cache, _, a, cand := autoInviteFixture(t)
	cache.setNXDenied = true

	result, err := uc.Complete(context.Background(), cand.ID, a.ID, 95)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Invited || !result.AlreadyInvited {
		t.Fatalf("lock holder should win the insert: %+v", result)
	}
	if len(invRepo.rows) != 0 {
		t.Fatalf("invitation inserted despite held lock")
	}
}

func TestAssessments_Complete_UniqueViolationIsAlreadyInvited(t *testing.T) {
	uc, invRepo, _, _, a, cand := autoInviteFixture(t)
	invRepo.createErr = errUniqueViolation

	result, err := uc.Complete(context.Background(), cand.ID, a.ID, 95)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Invited || !result.AlreadyInvited {
		t.Fatalf("unique violation should surface as already invited: %+v", result)
	}
}

func TestAssessments_Complete_NoConsentNoInvite(t *testing.T) {
	companyID := uuid.New()
	url := "https://jobs.example.com/apply"
	candidate := user.User{ID: uuid.New(), Role: user.RoleUser, AgreedToTerms: false}
	a := repository.AssessmentForInvite{
		ID: uuid.New(), UserID: candidate.ID, JobID: uuid.New(),
		CompanyID: &companyID, ApplicationURL: &url, VisibilityThresholdPct: 85,
	}
	invRepo := newFakeInvitationRepo()
	uc := NewAssessmentUsecase(newMockAssessmentRepo(a), invRepo, newMockUserRepo(candidate), newMockCache(), &mockPusher{}, nil)

	result, err := uc.Complete(context.Background(), candidate.ID, a.ID, 99)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Invited || len(invRepo.rows) != 0 {
		t.Fatalf("invited a candidate who has not agreed to terms")
	}
}

func TestAssessments_Complete_NoCompanyNoInvite(t *testing.T) {
	candidate := user.User{ID: uuid.New(), Role: user.RoleUser, AgreedToTerms: true}
	a := repository.AssessmentForInvite{
		ID: uuid.New(), UserID: candidate.ID, JobID: uuid.New(),
		CompanyID: nil, ApplicationURL: nil, VisibilityThresholdPct: 85,
	}
	invRepo := newFakeInvitationRepo()
	uc := NewAssessmentUsecase(newMockAssessmentRepo(a), invRepo, newMockUserRepo(candidate), newMockCache(), &mockPusher{}, nil)

	result, err := uc.Complete(context.Background(), candidate.ID, a.ID, 99)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Invited || len(invRepo.rows) != 0 {
		t.Fatalf("invited against a job without company/application URL")
	}
}

func TestAssessments_Complete_ForeignActorForbidden(t *testing.T) {
	uc, _, _, _, a, _ := autoInviteFixture(t)
	stranger := user.User{ID: uuid.New(), Role: user.RoleUser}

	userRepo := uc.users.(*mockUserRepo)
	userRepo.users[stranger.ID] = stranger

	_, err := uc.Complete(context.Background(), stranger.ID, a.ID, 95)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAssessments_Complete_UnknownAssessment(t *testing.T) {
	uc, _, _, _, _, cand := autoInviteFixture(t)
	_, err := uc.Complete(context.Background(), cand.ID, uuid.New(), 90)
	if !errors.Is(err, ErrAssessmentNotFound) {
		t.Fatalf("expected ErrAssessmentNotFound, got %v", err)
	}
}

func TestAssessments_Complete_PctOutOfRange(t *testing.T) {
	uc, _, _, _, a, cand := autoInviteFixture(t)
	if _, err := uc.Complete(context.Background(), cand.ID, a.ID, -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for -1, got %v", err)
	}
	if _, err := uc.Complete(context.Background(), cand.ID, a.ID, 100.5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for 100.5, got %v", err)
	}
}
