package view

import (
	"fmt"
	"sync"

	"github.com/iliyamo/campus-access-map/internal/model"
)

// ModalState is which map modal is on screen.
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalInfo
	ModalAddComment
)

func (s ModalState) String() string {
	switch s {
	case ModalClosed:
		return "closed"
	case ModalInfo:
		return "infoOpen"
	case ModalAddComment:
		return "addCommentOpen"
	}
	return fmt.Sprintf("ModalState(%d)", int(s))
}

// MapModal drives the location info and add-comment modals.  It remembers
// whether opening the info modal pushed a history entry so closing it can
// undo exactly that one entry.
type MapModal struct {
	mu       sync.Mutex
	state    ModalState
	location model.ID
	pushed   bool
}

func (m *MapModal) State() (ModalState, model.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.location
}

func (m *MapModal) invalid(to ModalState) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
}

// Pushed reports whether the open info modal pushed a history entry.
func (m *MapModal) Pushed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != ModalClosed && m.pushed
}

// OpenInfo handles a pin click.
func (m *MapModal) OpenInfo(id model.ID, pushedHistory bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModalClosed {
		return m.invalid(ModalInfo)
	}
	m.state = ModalInfo
	m.location = id
	m.pushed = pushedHistory
	return nil
}

// OpenAddComment switches from the info modal to the comment form.
func (m *MapModal) OpenAddComment() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModalInfo {
		return m.invalid(ModalAddComment)
	}
	m.state = ModalAddComment
	return nil
}

// BackToInfo returns from the comment form, after a submit or a back click.
func (m *MapModal) BackToInfo() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModalAddComment {
		return m.invalid(ModalInfo)
	}
	m.state = ModalInfo
	return nil
}

// Back closes the info modal from an in-page back action.  pop reports
// whether the caller must pop the one history entry OpenInfo pushed.
func (m *MapModal) Back() (pop bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != ModalInfo {
		return false, m.invalid(ModalClosed)
	}
	pop = m.pushed
	m.state = ModalClosed
	m.location = 0
	m.pushed = false
	return pop, nil
}

// PopState closes everything after the browser already went back, so no
// history entry is popped.
func (m *MapModal) PopState() {
	m.mu.Lock()
	m.state = ModalClosed
	m.location = 0
	m.pushed = false
	m.mu.Unlock()
}
