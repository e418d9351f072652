// Package navstack keeps the open overlay surfaces of a session in sync with
// the platform history, so one back gesture closes exactly the top-most one.
package navstack

import (
	"errors"
	"fmt"
)

// ErrUnknownSurface is returned by ParseKind.
var ErrUnknownSurface = errors.New("unknown surface")

// Kind tags an overlay surface.
type Kind string

const (
	TaskEditor    Kind = "task_editor"
	ProjectEditor Kind = "project_editor"
	ProfileEditor Kind = "profile_editor"
	Search        Kind = "search"
	Confirm       Kind = "confirm"
	ReminderPopup Kind = "reminder_popup"
)

var kinds = map[Kind]struct{}{
	TaskEditor:    {},
	ProjectEditor: {},
	ProfileEditor: {},
	Search:        {},
	Confirm:       {},
	ReminderPopup: {},
}

// ParseKind validates a surface name coming from a client.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSurface, s)
	}
	return k, nil
}

// Surface is an open overlay and the action that tears it down.
type Surface struct {
	Kind    Kind
	OnClose func()
}

// History is the platform back/forward mechanism.
type History interface {
	// Push adds one history entry for a newly opened surface.
	Push(kind Kind)
	// Back asks the platform to drop one entry. It reports whether the
	// platform will echo that as a back signal.
	Back() bool
}

// Stack is not safe for concurrent use; callers serialise access
// (see session.Runtime).
type Stack struct {
	history History
	entries []Surface
	// depth counts history entries pushed for this stack and not yet consumed.
	// It exceeds len(entries) while an explicit close waits for its echo.
	depth int
}

func New(h History) *Stack {
	return &Stack{history: h}
}

// Open pushes sf and one matching history entry.
func (s *Stack) Open(sf Surface) {
	s.entries = append(s.entries, sf)
	s.depth++
	s.history.Push(sf.Kind)
}

// OnBack handles a back signal from the platform. It reports whether a
// surface was closed. With nothing open the signal is ignored and the
// platform default applies.
func (s *Stack) OnBack() bool {
	if s.depth > len(s.entries) {
		// Echo of an explicit close: the surface is already gone.
		s.depth--
		return false
	}
	if len(s.entries) == 0 {
		return false
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	s.depth--
	run(top)
	return true
}

// Close dismisses the top-most surface of the given kind without a back
// signal and consumes one history entry. Closing a kind that is not open
// is a no-op.
func (s *Stack) Close(kind Kind) bool {
	i := s.indexOf(kind)
	if i < 0 {
		return false
	}
	sf := s.entries[i]
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	if !s.history.Back() {
		s.depth--
	}
	run(sf)
	return true
}

// Top returns the surface a back gesture would close.
func (s *Stack) Top() (Kind, bool) {
	if len(s.entries) == 0 {
		return "", false
	}
	return s.entries[len(s.entries)-1].Kind, true
}

// IsOpen reports whether a surface of kind is on the stack.
func (s *Stack) IsOpen(kind Kind) bool {
	return s.indexOf(kind) >= 0
}

// Kinds lists open surfaces bottom to top.
func (s *Stack) Kinds() []Kind {
	out := make([]Kind, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Kind
	}
	return out
}

func (s *Stack) Len() int { return len(s.entries) }

// PendingHistory is the number of history entries the platform still holds
// for surfaces that are already closed.
func (s *Stack) PendingHistory() int { return s.depth - len(s.entries) }

// DropPendingHistory forgets history entries still waiting for their echo,
// for when the client that would echo them has gone away. It returns how
// many were dropped.
func (s *Stack) DropPendingHistory() int {
	n := s.depth - len(s.entries)
	s.depth = len(s.entries)
	return n
}

// Reset forgets every surface without running close actions.
func (s *Stack) Reset() {
	s.entries = nil
	s.depth = 0
}

func (s *Stack) indexOf(kind Kind) int {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Kind == kind {
			return i
		}
	}
	return -1
}

func run(sf Surface) {
	if sf.OnClose != nil {
		sf.OnClose()
	}
}
