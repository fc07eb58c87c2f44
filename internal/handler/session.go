// Package handler holds the echo handlers of the map and the admin panel.
// Every page is rebuilt from API responses on each request; per-browser UI
// state lives in a view.Session found through the session cookie.
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/view"
)

// SessionCookie holds the id of the browser's view.Session.
const SessionCookie = "panel_session"

// Sessions finds or creates the session of a request.
type Sessions struct {
	Store  *view.Store
	TTL    time.Duration
	Secure bool
}

func NewSessions(ttl time.Duration, secure bool) Sessions {
	return Sessions{Store: view.NewStore(ttl), TTL: ttl, Secure: secure}
}

// For returns the session of c, issuing a new cookie when needed.
func (s Sessions) For(c echo.Context) *view.Session {
	var id string
	if ck, err := c.Cookie(SessionCookie); err == nil {
		id = ck.Value
	}
	sess, created := s.Store.Get(id)
	if created {
		c.SetCookie(s.cookie(sess.ID, int(s.TTL/time.Second)))
	}
	return sess
}

// End forgets the session of c and expires its cookie.
func (s Sessions) End(c echo.Context) {
	if ck, err := c.Cookie(SessionCookie); err == nil {
		s.Store.Delete(ck.Value)
	}
	c.SetCookie(s.cookie("", -1))
}

func (s Sessions) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// paramID reads a positive id path parameter.
func paramID(c echo.Context, name string) (model.ID, bool) {
	id, ok := model.ParseID(c.Param(name))
	return id, ok && id > 0
}

// redirect answers a form post with 303 so a reload does not resubmit.
func redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

func paramQueryID(c echo.Context, name string) (model.ID, bool) {
	id, ok := model.ParseID(c.QueryParam(name))
	return id, ok && id > 0
}
