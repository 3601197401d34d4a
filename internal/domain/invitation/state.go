package invitation

import (
	"errors"
	"time"
)

var (
	ErrInvalidStatus     = errors.New("invalid invitation status")
	ErrNotArchivable     = errors.New("invitation cannot be archived from its current status")
	ErrNotArchived       = errors.New("invitation is not archived")
	ErrAlreadyArchived   = errors.New("invitation is already archived")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ArchiveInfo records who archived an invitation and when. It exists only
// inside an archived State.
type ArchiveInfo struct {
	By Party
	At time.Time
}

// State is the tagged representation of an invitation's lifecycle position:
// either an active phase, or archived with the phase it will revert to on
// reopen. Constructors are the only way to build one, so an active state can
// never carry archive metadata and an archived state always does.
type State struct {
	phase   Status
	archive *ArchiveInfo
}

func NewActive(phase Status) (State, error) {
	if !phase.Active() {
		return State{}, ErrInvalidStatus
	}
	return State{phase: phase}, nil
}

func NewArchived(prior Status, by Party, at time.Time) (State, error) {
	if !prior.Active() {
		return State{}, ErrInvalidStatus
	}
	if by != PartyEmployer && by != PartyCandidate {
		return State{}, ErrInvalidStatus
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return State{phase: prior, archive: &ArchiveInfo{By: by, At: at}}, nil
}

// StateFromRow rebuilds a State from stored columns. prior may be empty for
// rows written before prior_status existed; reopen then falls back to
// DefaultReopenStatus.
func StateFromRow(status Status, prior Status, by *Party, at *time.Time) (State, error) {
	if status != StatusArchived {
		return NewActive(status)
	}
	if prior == "" || !prior.Active() {
		if by != nil {
			prior = DefaultReopenStatus(*by)
		} else {
			prior = StatusSent
		}
	}
	p := PartyCandidate
	if by != nil {
		p = *by
	}
	t := time.Time{}
	if at != nil {
		t = *at
	}
	return NewArchived(prior, p, t)
}

// Status collapses the state back to the stored enum value.
func (s State) Status() Status {
	if s.archive != nil {
		return StatusArchived
	}
	return s.phase
}

// Phase is the active phase, or the phase an archived invitation reverts to.
func (s State) Phase() Status {
	return s.phase
}

func (s State) Archived() (ArchiveInfo, bool) {
	if s.archive == nil {
		return ArchiveInfo{}, false
	}
	return *s.archive, true
}

// Archive moves an active state to archived, remembering the current phase.
func (s State) Archive(by Party, at time.Time) (State, error) {
	if s.archive != nil {
		return State{}, ErrAlreadyArchived
	}
	return NewArchived(s.phase, by, at)
}

// Reopen restores the pre-archive phase.
func (s State) Reopen() (State, error) {
	if s.archive == nil {
		return State{}, ErrNotArchived
	}
	return NewActive(s.phase)
}

// Transition applies a plain active-phase move, rejecting moves out of or
// into the archived state (use Archive/Reopen for those).
func (s State) Transition(to Status) (State, error) {
	if s.archive != nil {
		return State{}, ErrAlreadyArchived
	}
	if !to.Active() {
		return State{}, ErrInvalidTransition
	}
	switch to {
	case StatusSent:
		if !s.phase.Sendable() {
			return State{}, ErrInvalidTransition
		}
	case StatusApplied, StatusDeclined:
		if !s.phase.Respondable() {
			return State{}, ErrInvalidTransition
		}
	}
	return NewActive(to)
}
