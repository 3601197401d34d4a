package usecase

import (
	"context"
	"sort"
	"time"

	"skillsync/internal/domain/invitation"
	"skillsync/internal/domain/user"
	"skillsync/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// errUniqueViolation is what pgx surfaces when the partial unique index on
// assessment_id rejects a duplicate insert.
var errUniqueViolation = &pgconn.PgError{Code: "23505"}

// fakeInvitationRepo mirrors the guarded-update semantics of the SQL
// repository over an in-memory map, so usecase tests exercise the same
// not-found/conflict behavior the database produces.
type fakeInvitationRepo struct {
	rows map[uuid.UUID]*invitation.Invitation
	now  time.Time

	createErr error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{
		rows: make(map[uuid.UUID]*invitation.Invitation),
		now:  time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeInvitationRepo) add(inv invitation.Invitation) uuid.UUID {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	cp := inv
	f.rows[inv.ID] = &cp
	return inv.ID
}

func (f *fakeInvitationRepo) get(id uuid.UUID) invitation.Invitation {
	return *f.rows[id]
}

func (f *fakeInvitationRepo) Create(_ context.Context, in repository.InvitationCreate) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	for _, row := range f.rows {
		if in.AssessmentID != nil && row.AssessmentID != nil && *row.AssessmentID == *in.AssessmentID {
			return uuid.Nil, errUniqueViolation
		}
	}
	id := f.add(invitation.Invitation{
		UserID:         in.UserID,
		CompanyID:      in.CompanyID,
		JobID:          in.JobID,
		AssessmentID:   in.AssessmentID,
		ProficiencyPct: in.ProficiencyPct,
		ApplicationURL: in.ApplicationURL,
		Status:         in.Status,
		InvitedAt:      in.InvitedAt,
	})
	return id, nil
}

func (f *fakeInvitationRepo) FindByIDForUser(_ context.Context, id, userID uuid.UUID) (invitation.Invitation, error) {
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return invitation.Invitation{}, repository.ErrInvitationNotFound
	}
	return *row, nil
}

func (f *fakeInvitationRepo) FindByIDForCompany(_ context.Context, id, companyID uuid.UUID) (invitation.Invitation, error) {
	row, ok := f.rows[id]
	if !ok || row.CompanyID != companyID {
		return invitation.Invitation{}, repository.ErrInvitationNotFound
	}
	return *row, nil
}

func (f *fakeInvitationRepo) ExistsForAssessment(_ context.Context, assessmentID uuid.UUID) (bool, error) {
	for _, row := range f.rows {
		if row.AssessmentID != nil && *row.AssessmentID == assessmentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInvitationRepo) MarkViewed(_ context.Context, id, userID uuid.UUID) error {
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return repository.ErrInvitationNotFound
	}
	row.IsRead = true
	if row.ViewedAt == nil {
		at := f.now
		row.ViewedAt = &at
	}
	return nil
}

func (f *fakeInvitationRepo) Respond(_ context.Context, id, userID uuid.UUID, to invitation.Status) error {
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return repository.ErrInvitationNotFound
	}
	if !row.Status.Respondable() {
		return repository.ErrInvitationConflict
	}
	row.Status = to
	at := f.now
	row.RespondedAt = &at
	return nil
}

func (f *fakeInvitationRepo) ArchiveForUser(_ context.Context, id, userID uuid.UUID) error {
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return repository.ErrInvitationNotFound
	}
	return f.archive(row, invitation.PartyCandidate)
}

func (f *fakeInvitationRepo) ArchiveForCompany(_ context.Context, id, companyID uuid.UUID) error {
	row, ok := f.rows[id]
	if !ok || row.CompanyID != companyID {
		return repository.ErrInvitationNotFound
	}
	return f.archive(row, invitation.PartyEmployer)
}

func (f *fakeInvitationRepo) archive(row *invitation.Invitation, by invitation.Party) error {
	if row.Status == invitation.StatusArchived {
		return repository.ErrInvitationConflict
	}
	prior := row.Status
	row.PriorStatus = &prior
	row.Status = invitation.StatusArchived
	at := f.now
	row.ArchivedAt = &at
	row.ArchivedBy = &by
	return nil
}

func (f *fakeInvitationRepo) ReopenForUser(_ context.Context, id, userID uuid.UUID) error {
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return repository.ErrInvitationNotFound
	}
	return f.reopen(row, invitation.PartyCandidate)
}

func (f *fakeInvitationRepo) ReopenForCompany(_ context.Context, id, companyID uuid.UUID) error {
	row, ok := f.rows[id]
	if !ok || row.CompanyID != companyID {
		return repository.ErrInvitationNotFound
	}
	return f.reopen(row, invitation.PartyEmployer)
}

func (f *fakeInvitationRepo) reopen(row *invitation.Invitation, by invitation.Party) error {
	if row.Status != invitation.StatusArchived {
		return repository.ErrInvitationConflict
	}
	if row.PriorStatus != nil {
		row.Status = *row.PriorStatus
	} else {
		row.Status = invitation.DefaultReopenStatus(by)
	}
	row.PriorStatus = nil
	row.ArchivedAt = nil
	row.ArchivedBy = nil
	return nil
}

func (f *fakeInvitationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID && !row.IsRead {
			row.IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeInvitationRepo) BulkArchiveForUser(_ context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		row, ok := f.rows[id]
		if !ok || row.UserID != userID || row.Status == invitation.StatusArchived {
			continue
		}
		_ = f.archive(row, invitation.PartyCandidate)
		n++
	}
	return n, nil
}

func (f *fakeInvitationRepo) BulkArchiveForCompany(_ context.Context, ids []uuid.UUID, companyID uuid.UUID) (int64, error) {
	var n int64
	for _, id := range ids {
		row, ok := f.rows[id]
		if !ok || row.CompanyID != companyID || row.Status == invitation.StatusArchived {
			continue
		}
		_ = f.archive(row, invitation.PartyEmployer)
		n++
	}
	return n, nil
}

func (f *fakeInvitationRepo) Send(_ context.Context, id, companyID uuid.UUID, message *string) error {
	row, ok := f.rows[id]
	if !ok || row.CompanyID != companyID {
		return repository.ErrInvitationNotFound
	}
	if !row.Status.Sendable() {
		return repository.ErrInvitationConflict
	}
	row.Status = invitation.StatusSent
	if message != nil {
		row.Message = message
	}
	at := f.now
	row.InvitedAt = &at
	return nil
}

func (f *fakeInvitationRepo) SetOutcome(_ context.Context, id, companyID uuid.UUID, to invitation.Status) error {
	row, ok := f.rows[id]
	if !ok || row.CompanyID != companyID {
		return repository.ErrInvitationNotFound
	}
	if row.Status == invitation.StatusArchived {
		return repository.ErrInvitationConflict
	}
	row.Status = to
	return nil
}

// fakeInvitationQueries serves the read side over the same in-memory rows.
type fakeInvitationQueries struct {
	repo *fakeInvitationRepo
}

func (q fakeInvitationQueries) userRows(userID uuid.UUID) []invitation.Invitation {
	out := make([]invitation.Invitation, 0)
	for _, row := range q.repo.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out
}

func (q fakeInvitationQueries) ListForUser(_ context.Context, userID uuid.UUID, f repository.InvitationListFilter) ([]invitation.Invitation, error) {
	out := make([]invitation.Invitation, 0)
	for _, inv := range q.userRows(userID) {
		if inv.Status == invitation.StatusArchived {
			continue
		}
		if f.Status != nil && inv.Status != *f.Status {
			continue
		}
		if f.Band != nil && invitation.BandForPct(inv.ProficiencyPct) != *f.Band {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (q fakeInvitationQueries) ListArchivedForUser(_ context.Context, userID uuid.UUID) ([]invitation.Invitation, error) {
	out := make([]invitation.Invitation, 0)
	for _, inv := range q.userRows(userID) {
		if inv.Status == invitation.StatusArchived {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (q fakeInvitationQueries) ListForCompany(_ context.Context, companyID uuid.UUID, _ repository.InvitationListFilter) ([]invitation.Invitation, error) {
	out := make([]invitation.Invitation, 0)
	for _, row := range q.repo.rows {
		if row.CompanyID == companyID && row.Status != invitation.StatusArchived {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (q fakeInvitationQueries) ListArchivedForCompany(_ context.Context, companyID uuid.UUID) ([]invitation.Invitation, error) {
	out := make([]invitation.Invitation, 0)
	for _, row := range q.repo.rows {
		if row.CompanyID == companyID && row.Status == invitation.StatusArchived {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (q fakeInvitationQueries) CountUnreadForUser(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, inv := range q.userRows(userID) {
		if !inv.IsRead && inv.Status != invitation.StatusArchived {
			n++
		}
	}
	return n, nil
}

func (q fakeInvitationQueries) ListRecentForUser(_ context.Context, userID uuid.UUID, limit int) ([]invitation.Invitation, error) {
	rows := q.userRows(userID)
	filtered := rows[:0]
	for _, inv := range rows {
		if !inv.IsRead && inv.Status != invitation.StatusArchived {
			filtered = append(filtered, inv)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		ti, tj := filtered[i].InvitedAt, filtered[j].InvitedAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})
	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// mockCache records invalidations and serves stored JSON verbatim.
type mockCache struct {
	store        map[string]any
	invalidated  []uuid.UUID
	setNXDenied  bool
	setNXError   error
	lockAcquired []string
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[string]any)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := m.store[key]
	if !ok {
		return false, nil
	}
	switch dst := out.(type) {
	case *NotificationSummary:
		*dst = v.(NotificationSummary)
	case *int64:
		*dst = v.(int64)
	default:
		return false, nil
	}
	return true, nil
}

func (m *mockCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.store[key] = value
	return nil
}

func (m *mockCache) InvalidateUserNotifications(_ context.Context, userID uuid.UUID) error {
	m.invalidated = append(m.invalidated, userID)
	m.store = make(map[string]any)
	return nil
}

func (m *mockCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	if m.setNXError != nil {
		return false, m.setNXError
	}
	if m.setNXDenied {
		return false, nil
	}
	m.lockAcquired = append(m.lockAcquired, key)
	return true, nil
}

type mockPusher struct {
	pushed []uuid.UUID
}

func (m *mockPusher) PushInvitationReceived(userID uuid.UUID, _ invitation.Invitation) {
	m.pushed = append(m.pushed, userID)
}

// mockUserRepo serves a fixed set of accounts.
type mockUserRepo struct {
	users   map[uuid.UUID]user.User
	byEmail map[string]user.User
	created []user.User
}

func newMockUserRepo(users ...user.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[uuid.UUID]user.User), byEmail: make(map[string]user.User)}
	for _, u := range users {
		m.users[u.ID] = u
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) error {
	m.created = append(m.created, u)
	m.users[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}
