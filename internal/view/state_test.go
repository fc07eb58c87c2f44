package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/campus-access-map/internal/resolver"
)

func TestPanelTransitions(t *testing.T) {
	var p Panel

	require.NoError(t, p.ShowForm(0))
	require.NoError(t, p.ShowList())
	require.NoError(t, p.ShowDetail(5))
	require.NoError(t, p.ShowDetail(5))
	require.NoError(t, p.ShowForm(5))

	state, id := p.State()
	assert.Equal(t, PanelForm, state)
	assert.EqualValues(t, 5, id)

	err := p.ShowDetail(5)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	state, _ = p.State()
	assert.Equal(t, PanelForm, state)

	require.NoError(t, p.ShowList())
	p.Reset()
	state, id = p.State()
	assert.Equal(t, PanelList, state)
	assert.Zero(t, id)
}

func TestMapModalTransitions(t *testing.T) {
	var m MapModal

	_, err := m.Back()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, m.OpenAddComment(), ErrInvalidTransition)

	require.NoError(t, m.OpenInfo(3, true))
	assert.ErrorIs(t, m.OpenInfo(4, true), ErrInvalidTransition)
	require.NoError(t, m.OpenAddComment())
	assert.ErrorIs(t, m.OpenAddComment(), ErrInvalidTransition)

	_, err = m.Back()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, m.BackToInfo())
	state, id := m.State()
	assert.Equal(t, ModalInfo, state)
	assert.EqualValues(t, 3, id)

	pop, err := m.Back()
	require.NoError(t, err)
	assert.True(t, pop)

	require.NoError(t, m.OpenInfo(4, false))
	pop, err = m.Back()
	require.NoError(t, err)
	assert.False(t, pop)
}

func TestPopStateClosesFromAnyState(t *testing.T) {
	var m MapModal
	require.NoError(t, m.OpenInfo(1, true))
	require.NoError(t, m.OpenAddComment())

	m.PopState()
	state, _ := m.State()
	assert.Equal(t, ModalClosed, state)
	_, err := m.Back()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTabs(t *testing.T) {
	info := NewInfoTabs()
	assert.Equal(t, InfoTabInfo, info.Active())
	assert.False(t, CommentButtonEnabled(info))

	assert.True(t, info.Select(InfoTabReviews))
	assert.True(t, CommentButtonEnabled(info))

	assert.False(t, info.Select("photos"))
	assert.Equal(t, InfoTabReviews, info.Active())

	info.Reset()
	assert.False(t, CommentButtonEnabled(info))

	assert.Equal(t, []string{"info", "description", "position"}, NewDetailTabs().Names())
}

func TestCarouselMountDestroysPrevious(t *testing.T) {
	var h CarouselHost

	first := h.Mount([]string{"a.png", "b.png"})
	assert.True(t, first.Loop)
	assert.Equal(t, []string{"a.png", "b.png"}, first.Slides)

	second := h.Mount([]string{"c.png"})
	assert.True(t, first.Destroyed())
	assert.False(t, second.Destroyed())
	assert.False(t, second.Loop)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Same(t, second, h.Current())

	empty := h.Mount(nil)
	assert.True(t, second.Destroyed())
	assert.Equal(t, []string{resolver.Placeholder}, empty.Slides)
	assert.True(t, empty.Empty())

	h.Destroy()
	assert.True(t, empty.Destroyed())
	assert.Nil(t, h.Current())
}
