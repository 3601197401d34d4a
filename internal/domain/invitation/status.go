package invitation

import "strings"

// Status is the lifecycle position of an invitation. Archived is special:
// it always carries archive metadata and the status it replaced.
type Status string

const (
	StatusPending     Status = "pending"
	StatusSent        Status = "sent"
	StatusApplied     Status = "applied"
	StatusDeclined    Status = "declined"
	StatusHired       Status = "hired"
	StatusUnqualified Status = "unqualified"
	StatusArchived    Status = "archived"
)

// Party identifies which side of the invitation performed an action.
type Party string

const (
	PartyEmployer  Party = "employer"
	PartyCandidate Party = "candidate"
)

func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusSent, StatusApplied, StatusDeclined,
		StatusHired, StatusUnqualified, StatusArchived:
		return s, true
	}
	return "", false
}

func ParseParty(raw string) (Party, bool) {
	p := Party(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case PartyEmployer, PartyCandidate:
		return p, true
	}
	return "", false
}

// Active reports whether s is a non-archived lifecycle status.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusSent, StatusApplied, StatusDeclined,
		StatusHired, StatusUnqualified:
		return true
	}
	return false
}

// Respondable statuses accept a candidate apply/decline. A candidate may
// change an earlier response; the latest write wins.
func (s Status) Respondable() bool {
	switch s {
	case StatusSent, StatusApplied, StatusDeclined:
		return true
	}
	return false
}

// Sendable reports whether an employer may move s to sent.
func (s Status) Sendable() bool {
	return s == StatusPending
}

// DefaultReopenStatus is the status a reopened invitation reverts to when no
// prior status was recorded. Candidates see their queue as sent items;
// employers see theirs as pending ones.
func DefaultReopenStatus(by Party) Status {
	if by == PartyEmployer {
		return StatusPending
	}
	return StatusSent
}
