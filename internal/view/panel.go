package view

import (
	"fmt"
	"sync"

	"github.com/iliyamo/campus-access-map/internal/model"
)

// PanelState is the admin locations panel state.
type PanelState int

const (
	PanelList PanelState = iota
	PanelDetail
	PanelForm
)

func (s PanelState) String() string {
	switch s {
	case PanelList:
		return "list"
	case PanelDetail:
		return "detail"
	case PanelForm:
		return "form"
	}
	return fmt.Sprintf("PanelState(%d)", int(s))
}

// panelEdges lists every accepted transition.  Staying in the same state is
// always accepted (reload).
var panelEdges = map[PanelState][]PanelState{
	PanelList:   {PanelForm, PanelDetail},
	PanelForm:   {PanelList},
	PanelDetail: {PanelList, PanelForm},
}

// Panel tracks which location screen is shown and for which location.  A
// form with LocationID 0 creates a new location.
type Panel struct {
	mu       sync.Mutex
	state    PanelState
	location model.ID
}

// State returns the current state and the location it refers to.
func (p *Panel) State() (PanelState, model.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.location
}

func (p *Panel) move(to PanelState, id model.ID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if to != p.state && !canMove(p.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.state, to)
	}
	p.state = to
	p.location = id
	return nil
}

func canMove(from, to PanelState) bool {
	for _, s := range panelEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (p *Panel) ShowList() error { return p.move(PanelList, 0) }

func (p *Panel) ShowDetail(id model.ID) error { return p.move(PanelDetail, id) }

// ShowForm opens the form for id, or an empty create form when id is 0.
func (p *Panel) ShowForm(id model.ID) error { return p.move(PanelForm, id) }

// Reset puts the panel back on the list.
func (p *Panel) Reset() {
	p.mu.Lock()
	p.state = PanelList
	p.location = 0
	p.mu.Unlock()
}
