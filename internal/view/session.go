package view

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/campus-access-map/internal/model"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next render.
type Flash struct {
	Kind    string
	Message string
}

// Session is the UI state of one browser.  Its components lock themselves;
// mu guards the plain fields below.
type Session struct {
	ID string

	Carousel   CarouselHost
	Confirm    Confirmation
	Panel      Panel
	Modal      MapModal
	InfoTabs   *Tabs
	AdminTabs  *Tabs
	DetailTabs *Tabs

	mu       sync.Mutex
	lastSeen time.Time
	current  string
	pins     []Pin
	pending  []model.Comment
	draft    *LocationForm
	flashes  []Flash
	inflight map[model.ID]struct{}
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		InfoTabs:   NewInfoTabs(),
		AdminTabs:  NewAdminTabs(),
		DetailTabs: NewDetailTabs(),
		lastSeen:   now,
		inflight:   map[model.ID]struct{}{},
	}
}

// Reset clears everything a view transition must not carry over: the
// carousel, any dialog, modal and panel state, tabs and cached lists.
// Pending flash messages and in-flight deletions survive.
func (s *Session) Reset() {
	s.Carousel.Destroy()
	s.Confirm.Dismiss()
	s.Panel.Reset()
	s.Modal.PopState()
	s.InfoTabs.Reset()
	s.DetailTabs.Reset()

	s.mu.Lock()
	s.pins = nil
	s.pending = nil
	s.draft = nil
	s.mu.Unlock()
}

// EnterView records the view being shown and resets the session when it
// differs from the previous one.  It reports whether a reset happened.
func (s *Session) EnterView(name string) bool {
	s.mu.Lock()
	changed := s.current != name
	s.current = name
	s.mu.Unlock()
	if changed {
		s.Reset()
	}
	return changed
}

func (s *Session) SetPins(p []Pin) {
	s.mu.Lock()
	s.pins = p
	s.mu.Unlock()
}

func (s *Session) Pins() []Pin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pins
}

// SetPending stores the last rendered review queue.
func (s *Session) SetPending(c []model.Comment) {
	s.mu.Lock()
	s.pending = c
	s.mu.Unlock()
}

// PendingComment finds id in the last rendered review queue.
func (s *Session) PendingComment(id model.ID) (model.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.pending {
		if c.ID == id {
			return c, true
		}
	}
	return model.Comment{}, false
}

// SetDraft keeps a location form whose confirmed save failed, so the
// form can be shown again as the user typed it.
func (s *Session) SetDraft(f LocationForm) {
	s.mu.Lock()
	s.draft = &f
	s.mu.Unlock()
}

// TakeDraft returns and clears the kept form when it belongs to location
// id (0 for a new location).
func (s *Session) TakeDraft(id model.ID) (LocationForm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil || s.draft.ID != id {
		return LocationForm{}, false
	}
	f := *s.draft
	s.draft = nil
	return f, true
}

// AddFlash queues a message for the next render.
func (s *Session) AddFlash(kind, msg string) {
	s.mu.Lock()
	s.flashes = append(s.flashes, Flash{Kind: kind, Message: msg})
	s.mu.Unlock()
}

// TakeFlashes returns and clears the queued messages.
func (s *Session) TakeFlashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flashes
	s.flashes = nil
	return f
}

// BeginImageDelete marks id as being deleted.  It returns false when a
// delete for the same image is already running.
func (s *Session) BeginImageDelete(id model.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return false
	}
	s.inflight[id] = struct{}{}
	return true
}

func (s *Session) EndImageDelete(id model.ID) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// Store keeps sessions in memory, keyed by the id held in the session
// cookie.  Sessions idle for longer than ttl are dropped.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: map[string]*Session{},
	}
}

// Get returns the live session for id, or a fresh one when id is unknown or
// expired.  created tells the caller to (re)issue the cookie.
func (st *Store) Get(id string) (s *Session, created bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.now()
	st.sweep(now)
	if s, ok := st.sessions[id]; ok && id != "" {
		s.mu.Lock()
		s.lastSeen = now
		s.mu.Unlock()
		return s, false
	}
	s = newSession(uuid.NewString(), now)
	st.sessions[s.ID] = s
	return s, true
}

// Delete forgets a session, used on logout.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *Store) sweep(now time.Time) {
	if st.ttl <= 0 {
		return
	}
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastSeen)
		s.mu.Unlock()
		if idle > st.ttl {
			s.Carousel.Destroy()
			delete(st.sessions, id)
		}
	}
}
