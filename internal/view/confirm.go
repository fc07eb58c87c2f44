package view

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// ConfirmRequest describes a dialog.  OnConfirm runs at most once, after the
// dialog has been torn down.  ReturnTo is where the page goes after the
// dialog closes; ErrorReturnTo, when set, replaces it if OnConfirm fails.
type ConfirmRequest struct {
	Title         string
	Message       string
	ConfirmLabel  string
	Destructive   bool
	ReturnTo      string
	ErrorReturnTo string
	OnConfirm     func(ctx context.Context) error
}

// Dialog is the render data of the open dialog.  Token is posted back by the
// confirm and cancel buttons.
type Dialog struct {
	Token         string
	Title         string
	Message       string
	ConfirmLabel  string
	Destructive   bool
	ReturnTo      string
	ErrorReturnTo string
}

// Confirmation holds at most one open dialog.
type Confirmation struct {
	mu      sync.Mutex
	current *openDialog
}

type openDialog struct {
	Dialog
	onConfirm func(ctx context.Context) error
}

// Open shows req, replacing any dialog that is already open.  The replaced
// dialog's token becomes stale.
func (c *Confirmation) Open(req ConfirmRequest) Dialog {
	label := req.ConfirmLabel
	if label == "" {
		label = "Confirmar"
	}
	d := &openDialog{
		Dialog: Dialog{
			Token:         uuid.NewString(),
			Title:         req.Title,
			Message:       req.Message,
			ConfirmLabel:  label,
			Destructive:   req.Destructive,
			ReturnTo:      req.ReturnTo,
			ErrorReturnTo: req.ErrorReturnTo,
		},
		onConfirm: req.OnConfirm,
	}
	c.mu.Lock()
	c.current = d
	c.mu.Unlock()
	return d.Dialog
}

// Current returns the open dialog, if any.
func (c *Confirmation) Current() (Dialog, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Dialog{}, false
	}
	return c.current.Dialog, true
}

// take removes the open dialog if token matches it.
func (c *Confirmation) take(token string) (*openDialog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, ErrNoDialog
	}
	if c.current.Token != token {
		return nil, ErrStaleDialog
	}
	d := c.current
	c.current = nil
	return d, nil
}

// Confirm closes the dialog identified by token and then runs its callback.
// The closed dialog is returned with the callback's error as is.
func (c *Confirmation) Confirm(ctx context.Context, token string) (Dialog, error) {
	d, err := c.take(token)
	if err != nil {
		return Dialog{}, err
	}
	if d.onConfirm == nil {
		return d.Dialog, nil
	}
	return d.Dialog, d.onConfirm(ctx)
}

// Cancel closes the dialog identified by token without running anything.
func (c *Confirmation) Cancel(token string) (Dialog, error) {
	d, err := c.take(token)
	if err != nil {
		return Dialog{}, err
	}
	return d.Dialog, nil
}

// Dismiss closes whatever dialog is open.
func (c *Confirmation) Dismiss() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}
