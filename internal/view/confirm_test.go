package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmRunsCallbackOnceAfterTeardown(t *testing.T) {
	var c Confirmation
	calls := 0
	var openDuringCallback bool

	d := c.Open(ConfirmRequest{
		Title:   "Aprovar comentário",
		Message: "Tem certeza?",
		OnConfirm: func(context.Context) error {
			calls++
			_, openDuringCallback = c.Current()
			return nil
		},
	})
	assert.Equal(t, "Confirmar", d.ConfirmLabel)

	require.NoError(t, confirmErr(&c, d.Token))
	assert.Equal(t, 1, calls)
	assert.False(t, openDuringCallback)

	assert.ErrorIs(t, confirmErr(&c, d.Token), ErrNoDialog)
	assert.Equal(t, 1, calls)
}

func TestOpenReplacesDialogAndStaleTokenNeverRuns(t *testing.T) {
	var c Confirmation
	var first, second int

	old := c.Open(ConfirmRequest{OnConfirm: func(context.Context) error { first++; return nil }})
	cur := c.Open(ConfirmRequest{OnConfirm: func(context.Context) error { second++; return nil }})

	assert.ErrorIs(t, confirmErr(&c, old.Token), ErrStaleDialog)
	assert.ErrorIs(t, cancelErr(&c, old.Token), ErrStaleDialog)
	assert.Zero(t, first)

	got, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, cur.Token, got.Token)

	require.NoError(t, confirmErr(&c, cur.Token))
	assert.Equal(t, 1, second)
	assert.Zero(t, first)
}

func TestCancelAndDismissNeverRun(t *testing.T) {
	var c Confirmation
	ran := false
	d := c.Open(ConfirmRequest{OnConfirm: func(context.Context) error { ran = true; return nil }})

	require.NoError(t, cancelErr(&c, d.Token))
	_, ok := c.Current()
	assert.False(t, ok)
	assert.ErrorIs(t, confirmErr(&c, d.Token), ErrNoDialog)

	d = c.Open(ConfirmRequest{OnConfirm: func(context.Context) error { ran = true; return nil }})
	c.Dismiss()
	assert.ErrorIs(t, confirmErr(&c, d.Token), ErrNoDialog)
	assert.False(t, ran)
}

func TestConfirmReturnsCallbackError(t *testing.T) {
	var c Confirmation
	boom := errors.New("boom")
	d := c.Open(ConfirmRequest{OnConfirm: func(context.Context) error { return boom }})

	assert.ErrorIs(t, confirmErr(&c, d.Token), boom)
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestConcurrentConfirmRunsOnce(t *testing.T) {
	var c Confirmation
	var calls int32
	d := c.Open(ConfirmRequest{OnConfirm: func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Confirm(context.Background(), d.Token)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func confirmErr(c *Confirmation, token string) error {
	_, err := c.Confirm(context.Background(), token)
	return err
}

func cancelErr(c *Confirmation, token string) error {
	_, err := c.Cancel(token)
	return err
}

func TestConfirmReturnsDialogTargets(t *testing.T) {
	var c Confirmation
	d := c.Open(ConfirmRequest{ReturnTo: "/admin/locations", ErrorReturnTo: "/admin/locations/5"})

	got, err := c.Confirm(context.Background(), d.Token)
	require.NoError(t, err)
	assert.Equal(t, "/admin/locations", got.ReturnTo)
	assert.Equal(t, "/admin/locations/5", got.ErrorReturnTo)

	d = c.Open(ConfirmRequest{ReturnTo: "/admin/comments"})
	got, err = c.Cancel(d.Token)
	require.NoError(t, err)
	assert.Equal(t, "/admin/comments", got.ReturnTo)
}
