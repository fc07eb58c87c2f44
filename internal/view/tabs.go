package view

import "sync"

// Tab names.
const (
	InfoTabInfo    = "info"
	InfoTabReviews = "reviews"

	AdminTabComments  = "comments"
	AdminTabLocations = "locations"

	DetailTabInfo        = "info"
	DetailTabDescription = "description"
	DetailTabPosition    = "position"
)

// Tabs is a fixed set of named tabs with exactly one active.  The first
// name is the default.
type Tabs struct {
	mu     sync.Mutex
	names  []string
	active string
}

func NewTabs(names ...string) *Tabs {
	t := &Tabs{names: names}
	if len(names) > 0 {
		t.active = names[0]
	}
	return t
}

func NewInfoTabs() *Tabs   { return NewTabs(InfoTabInfo, InfoTabReviews) }
func NewAdminTabs() *Tabs  { return NewTabs(AdminTabComments, AdminTabLocations) }
func NewDetailTabs() *Tabs { return NewTabs(DetailTabInfo, DetailTabDescription, DetailTabPosition) }

// Select activates name.  Unknown names are ignored and reported false.
func (t *Tabs) Select(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range t.names {
		if n == name {
			t.active = name
			return true
		}
	}
	return false
}

func (t *Tabs) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tabs) Is(name string) bool { return t.Active() == name }

func (t *Tabs) Names() []string {
	return append([]string(nil), t.names...)
}

func (t *Tabs) Reset() {
	t.mu.Lock()
	if len(t.names) > 0 {
		t.active = t.names[0]
	}
	t.mu.Unlock()
}

// CommentButtonEnabled reports whether "add comment" is usable: only while
// the reviews tab of the info modal is shown.
func CommentButtonEnabled(info *Tabs) bool {
	return info.Is(InfoTabReviews)
}
