package usecase

import (
	"context"
	"testing"
	"time"

	"skillsync/internal/domain/invitation"

	"github.com/google/uuid"
)

func TestNotifications_UnreadCount_ExcludesArchivedAndRead(t *testing.T) {
	repo := newFakeInvitationRepo()
	userID := uuid.New()

	seedInvitation(repo, userID, uuid.New(), invitation.StatusSent)
	seedInvitation(repo, userID, uuid.New(), invitation.StatusApplied)
	read := seedInvitation(repo, userID, uuid.New(), invitation.StatusSent)
	archived := seedInvitation(repo, userID, uuid.New(), invitation.StatusSent)
	seedInvitation(repo, uuid.New(), uuid.New(), invitation.StatusSent)

	repo.rows[read].IsRead = true
	if err := repo.ArchiveForUser(context.Background(), archived, userID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	uc := NewNotificationUsecase(fakeInvitationQueries{repo}, repo, newMockCache(), 12)
	count, err := uc.UnreadCount(context.Background(), userID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}
}

func TestNotifications_GetSummary_LimitAndOrder(t *testing.T) {
	repo := newFakeInvitationRepo()
	userID := uuid.New()

	base := repo.now.Add(-24 * time.Hour)
	var newest uuid.UUID
	for i := 0; i < 10; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		newest = repo.add(invitation.Invitation{
			UserID:    userID,
			CompanyID: uuid.New(),
			JobID:     uuid.New(),
			Status:    invitation.StatusSent,
			InvitedAt: &at,
		})
	}

	uc := NewNotificationUsecase(fakeInvitationQueries{repo}, repo, newMockCache(), 12)
	summary, err := uc.GetSummary(context.Background(), userID, 5)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.UnreadCount != 10 {
		t.Fatalf("expected 10 unread, got %d", summary.UnreadCount)
	}
	if len(summary.Invitations) != 5 {
		t.Fatalf("expected 5 recent, got %d", len(summary.Invitations))
	}
	if summary.Invitations[0].ID != newest {
		t.Fatalf("recent listing not invited_at DESC")
	}
	for i := 1; i < len(summary.Invitations); i++ {
		if summary.Invitations[i].InvitedAt.After(*summary.Invitations[i-1].InvitedAt) {
			t.Fatalf("recent listing out of order at index %d", i)
		}
	}
}

func TestNotifications_GetSummary_ExcludesReadRows(t *testing.T) {
	repo := newFakeInvitationRepo()
	userID := uuid.New()

	read := seedInvitation(repo, userID, uuid.New(), invitation.StatusSent)
	repo.rows[read].IsRead = true
	unread := seedInvitation(repo, userID, uuid.New(), invitation.StatusSent)

	uc := NewNotificationUsecase(fakeInvitationQueries{repo}, repo, newMockCache(), 12)
	summary, err := uc.GetSummary(context.Background(), userID, 12)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.UnreadCount != 1 {
		t.Fatalf("expected 1 unread, got %d", summary.UnreadCount)
	}
	if len(summary.Invitations) != 1 || summary.Invitations[0].ID != unread {
		t.Fatalf("viewed row leaked into the recent listing: %+v", summary.Invitations)
	}
}

func TestNotifications_GetSummary_CacheHitSkipsQueries(t *testing.T) {
	repo := newFakeInvitationRepo()
	userID := uuid.New()
	cache := newMockCache()
	uc := NewNotificationUsecase(fakeInvitationQueries{repo}, repo, cache, 12)

	seedInvitation(repo, userID, uuid.New(), invitation.StatusSent)
	first, err := uc.GetSummary(context.Background(), userID, 12)
	if err != nil {
		t.Fatalf("first summary: %v", err)
	}
	if first.UnreadCount != 1 {
		t.Fatalf("expected 1 unread, got %d", first.UnreadCount)
	}

	// A new row lands but the cache has not been invalidated; the cached
	// summary is served as-is.
	seedInvitation(repo, userID, uuid.New(), invitation.StatusSent)
	second, err := uc.GetSummary(context.Background(), userID, 12)
	if err != nil {
		t.Fatalf("second summary: %v", err)
	}
	if second.UnreadCount != 1 {
		t.Fatalf("expected cached count 1, got %d", second.UnreadCount)
	}
}

func TestNotifications_MarkAllRead(t *testing.T) {
	repo := newFakeInvitationRepo()
	cache := newMockCache()
	userID := uuid.New()
	seedInvitation(repo, userID, uuid.New(), invitation.StatusSent)
	seedInvitation(repo, userID, uuid.New(), invitation.StatusApplied)
	other := seedInvitation(repo, uuid.New(), uuid.New(), invitation.StatusSent)

	uc := NewNotificationUsecase(fakeInvitationQueries{repo}, repo, cache, 12)
	n, err := uc.MarkAllRead(context.Background(), userID)
	if err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 marked, got %d", n)
	}
	if repo.get(other).IsRead {
		t.Fatalf("another user's row was marked read")
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != userID {
		t.Fatalf("expected invalidation for %s, got %v", userID, cache.invalidated)
	}

	count, _ := uc.UnreadCount(context.Background(), userID)
	if count != 0 {
		t.Fatalf("expected 0 unread after mark all read, got %d", count)
	}
}
