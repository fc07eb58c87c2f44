package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-access-map/internal/view"
)

func returnTo(target string) string {
	if target == "" {
		return "/admin"
	}
	return target
}

// Confirm runs the action behind the open dialog.  A token from a dialog
// that was replaced or already answered runs nothing.
func (h *AdminHandler) Confirm(c echo.Context) error {
	s := h.Sessions.For(c)
	d, err := s.Confirm.Confirm(c.Request().Context(), c.Param("token"))
	switch {
	case errors.Is(err, view.ErrNoDialog), errors.Is(err, view.ErrStaleDialog):
		s.AddFlash(view.FlashError, "Esta confirmação não é mais válida.")
		return redirect(c, "/admin")
	case err != nil:
		c.Logger().Warnf("confirmed action %q failed: %v", d.Title, err)
		if d.ErrorReturnTo != "" {
			return redirect(c, d.ErrorReturnTo)
		}
	}
	return redirect(c, returnTo(d.ReturnTo))
}

// CancelConfirm closes the dialog without running anything.
func (h *AdminHandler) CancelConfirm(c echo.Context) error {
	s := h.Sessions.For(c)
	d, err := s.Confirm.Cancel(c.Param("token"))
	if err != nil {
		return redirect(c, "/admin")
	}
	return redirect(c, returnTo(d.ReturnTo))
}
