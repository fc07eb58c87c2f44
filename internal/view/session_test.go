package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/campus-access-map/internal/model"
)

func TestStoreReusesAndExpiresSessions(t *testing.T) {
	st := NewStore(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return now }

	s, created := st.Get("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)

	again, created := st.Get(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	now = now.Add(2 * time.Minute)
	fresh, created := st.Get(s.ID)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.Equal(t, 1, st.Len())

	st.Delete(fresh.ID)
	assert.Zero(t, st.Len())
}

func TestSessionResetKeepsFlashes(t *testing.T) {
	s := newSession("x", time.Now())
	car := s.Carousel.Mount([]string{"a.png"})
	d := s.Confirm.Open(ConfirmRequest{Title: "t"})
	require.NoError(t, s.Modal.OpenInfo(2, true))
	require.NoError(t, s.Panel.ShowDetail(2))
	s.InfoTabs.Select(InfoTabReviews)
	s.SetPending([]model.Comment{{ID: 1}})
	s.SetPins([]Pin{{ID: 1}})
	s.AddFlash(FlashError, "falhou")

	s.Reset()

	assert.True(t, car.Destroyed())
	_, err := s.Confirm.Confirm(context.Background(), d.Token)
	assert.ErrorIs(t, err, ErrNoDialog)
	state, _ := s.Modal.State()
	assert.Equal(t, ModalClosed, state)
	pstate, _ := s.Panel.State()
	assert.Equal(t, PanelList, pstate)
	assert.Equal(t, InfoTabInfo, s.InfoTabs.Active())
	_, ok := s.PendingComment(1)
	assert.False(t, ok)
	assert.Empty(t, s.Pins())

	assert.Equal(t, []Flash{{Kind: FlashError, Message: "falhou"}}, s.TakeFlashes())
	assert.Empty(t, s.TakeFlashes())
}

func TestImageDeleteInFlight(t *testing.T) {
	s := newSession("x", time.Now())
	assert.True(t, s.BeginImageDelete(9))
	assert.False(t, s.BeginImageDelete(9))
	assert.True(t, s.BeginImageDelete(10))
	s.EndImageDelete(9)
	assert.True(t, s.BeginImageDelete(9))
}

func TestEnterViewResetsOnChange(t *testing.T) {
	s := newSession("x", time.Now())
	assert.True(t, s.EnterView("comments"))

	car := s.Carousel.Mount([]string{"a.png"})
	assert.False(t, s.EnterView("comments"))
	assert.False(t, car.Destroyed())

	assert.True(t, s.EnterView("locations"))
	assert.True(t, car.Destroyed())
}

func TestDraftBelongsToOneForm(t *testing.T) {
	s := newSession("x", time.Now())
	s.SetDraft(LocationForm{ID: 4, Name: "Quadra"})

	_, ok := s.TakeDraft(0)
	assert.False(t, ok)

	f, ok := s.TakeDraft(4)
	require.True(t, ok)
	assert.Equal(t, "Quadra", f.Name)

	_, ok = s.TakeDraft(4)
	assert.False(t, ok)

	s.SetDraft(LocationForm{Name: "Novo"})
	s.Reset()
	_, ok = s.TakeDraft(0)
	assert.False(t, ok)
}
