package invitation

import (
	"errors"
	"testing"
	"time"
)

func TestNewActive_RejectsNonActiveStatus(t *testing.T) {
	if _, err := NewActive(StatusArchived); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for archived, got %v", err)
	}
	if _, err := NewActive(Status("bogus")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus for bogus status, got %v", err)
	}
}

func TestParseStatus_OnlyEnumValues(t *testing.T) {
	valid := []string{"pending", "sent", "applied", "declined", "hired", "unqualified", "archived"}
	for _, raw := range valid {
		if _, ok := ParseStatus(raw); !ok {
			t.Fatalf("expected %q to parse", raw)
		}
	}
	for _, raw := range []string{"", "open", "rejected"} {
		if _, ok := ParseStatus(raw); ok {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
	if _, ok := ParseStatus(" Archived "); !ok {
		t.Fatalf("expected trimmed, case-folded input to parse")
	}
}

func TestArchiveThenReopen_RestoresPhase(t *testing.T) {
	st, err := NewActive(StatusApplied)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	archived, err := st.Archive(PartyCandidate, at)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status() != StatusArchived {
		t.Fatalf("expected archived status, got %s", archived.Status())
	}
	info, ok := archived.Archived()
	if !ok {
		t.Fatalf("expected archive info")
	}
	if info.By != PartyCandidate || !info.At.Equal(at) {
		t.Fatalf("unexpected archive info: %+v", info)
	}

	reopened, err := archived.Reopen()
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status() != StatusApplied {
		t.Fatalf("expected applied after reopen, got %s", reopened.Status())
	}
	if _, ok := reopened.Archived(); ok {
		t.Fatalf("reopened state still carries archive info")
	}
}

func TestArchive_Twice(t *testing.T) {
	st, _ := NewActive(StatusSent)
	archived, err := st.Archive(PartyEmployer, time.Now())
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := archived.Archive(PartyEmployer, time.Now()); !errors.Is(err, ErrAlreadyArchived) {
		t.Fatalf("expected ErrAlreadyArchived, got %v", err)
	}
}

func TestReopen_ActiveState(t *testing.T) {
	st, _ := NewActive(StatusSent)
	if _, err := st.Reopen(); !errors.Is(err, ErrNotArchived) {
		t.Fatalf("expected ErrNotArchived, got %v", err)
	}
}

func TestTransition_Rules(t *testing.T) {
	cases := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusSent, true},
		{StatusSent, StatusApplied, true},
		{StatusSent, StatusDeclined, true},
		{StatusApplied, StatusDeclined, true},
		{StatusDeclined, StatusApplied, true},
		{StatusSent, StatusHired, true},
		{StatusApplied, StatusUnqualified, true},
		{StatusApplied, StatusSent, false},
		{StatusHired, StatusSent, false},
		{StatusPending, StatusApplied, false},
		{StatusSent, StatusArchived, false},
	}

	for _, tc := range cases {
		st, err := NewActive(tc.from)
		if err != nil {
			t.Fatalf("NewActive(%s): %v", tc.from, err)
		}
		next, err := st.Transition(tc.to)
		if tc.ok {
			if err != nil {
				t.Fatalf("%s -> %s should be allowed: %v", tc.from, tc.to, err)
			}
			if next.Status() != tc.to {
				t.Fatalf("%s -> %s produced %s", tc.from, tc.to, next.Status())
			}
			continue
		}
		if err == nil {
			t.Fatalf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestTransition_FromArchived(t *testing.T) {
	st, _ := NewActive(StatusSent)
	archived, _ := st.Archive(PartyCandidate, time.Now())
	if _, err := archived.Transition(StatusApplied); !errors.Is(err, ErrAlreadyArchived) {
		t.Fatalf("expected ErrAlreadyArchived, got %v", err)
	}
}

func TestStateFromRow_FallbackPrior(t *testing.T) {
	by := PartyEmployer
	at := time.Now().UTC()

	st, err := StateFromRow(StatusArchived, "", &by, &at)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	reopened, err := st.Reopen()
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status() != StatusPending {
		t.Fatalf("employer-archived row without prior should reopen to pending, got %s", reopened.Status())
	}

	byC := PartyCandidate
	st, err = StateFromRow(StatusArchived, "", &byC, &at)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	reopened, _ = st.Reopen()
	if reopened.Status() != StatusSent {
		t.Fatalf("candidate-archived row without prior should reopen to sent, got %s", reopened.Status())
	}
}

func TestStateFromRow_PersistedPriorWins(t *testing.T) {
	by := PartyCandidate
	at := time.Now().UTC()
	st, err := StateFromRow(StatusArchived, StatusDeclined, &by, &at)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	reopened, _ := st.Reopen()
	if reopened.Status() != StatusDeclined {
		t.Fatalf("expected declined after reopen, got %s", reopened.Status())
	}
}

func TestBandForPct(t *testing.T) {
	cases := []struct {
		pct  float64
		want ReadinessBand
	}{
		{95, BandReady},
		{90, BandReady},
		{89.9, BandBuildingSkills},
		{85, BandBuildingSkills},
		{84.9, BandDeveloping},
		{0, BandDeveloping},
	}
	for _, tc := range cases {
		if got := BandForPct(tc.pct); got != tc.want {
			t.Fatalf("BandForPct(%v) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestBandRange(t *testing.T) {
	floor, ceil := BandRange(BandBuildingSkills)
	if floor == nil || *floor != 85 {
		t.Fatalf("building floor = %v, want 85", floor)
	}
	if ceil == nil || *ceil != 90 {
		t.Fatalf("building ceil = %v, want 90", ceil)
	}

	floor, ceil = BandRange(BandReady)
	if floor == nil || *floor != 90 || ceil != nil {
		t.Fatalf("ready range = (%v, %v), want (90, nil)", floor, ceil)
	}

	floor, ceil = BandRange(BandDeveloping)
	if floor != nil || ceil == nil || *ceil != 85 {
		t.Fatalf("developing range = (%v, %v), want (nil, 85)", floor, ceil)
	}
}
