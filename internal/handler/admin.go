package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-access-map/internal/apiclient"
	"github.com/iliyamo/campus-access-map/internal/middleware"
	"github.com/iliyamo/campus-access-map/internal/queue"
	"github.com/iliyamo/campus-access-map/internal/render"
	"github.com/iliyamo/campus-access-map/internal/repository"
	"github.com/iliyamo/campus-access-map/internal/resolver"
	"github.com/iliyamo/campus-access-map/internal/service"
	"github.com/iliyamo/campus-access-map/internal/view"
)

const viewModeration = "moderation"

// publishTimeout bounds one moderation event publish.
const publishTimeout = 10 * time.Second

// AdminHandler serves the admin panel.  Every API call carries the token
// TokenGuard put in the context.
type AdminHandler struct {
	API        *apiclient.Client
	Resolver   resolver.Resolver
	Sessions   Sessions
	Publisher  service.Publisher
	History    *repository.ModerationRepo
	Invalidate func(ctx context.Context) error // drops cached map responses
	LoginPath  string
	Secure     bool
}

// Index sends /admin to the review queue.
func (h *AdminHandler) Index(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/admin/comments")
}

// enter switches the admin tab, resetting the session when the view
// changes.
func (h *AdminHandler) enter(s *view.Session, tab string) {
	s.EnterView(tab)
	s.AdminTabs.Select(tab)
}

func (h *AdminHandler) base(s *view.Session, title string) render.Base {
	b := render.Base{Title: title, Admin: true, Flashes: s.TakeFlashes()}
	if d, ok := s.Confirm.Current(); ok {
		b.Dialog = &d
	}
	return b
}

// publish sends ev in the background.  The user action already succeeded,
// so failures are only logged.
func (h *AdminHandler) publish(lg echo.Logger, ev queue.ModerationEvent) {
	if h.Publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := h.Publisher.PublishModerated(ctx, ev); err != nil {
			lg.Warnf("publish moderation of comment %s: %v", ev.CommentID, err)
		}
	}()
}

func newModerationEvent(c echo.Context, ev queue.ModerationEvent) queue.ModerationEvent {
	ev.EventID = uuid.NewString()
	ev.Actor = middleware.Actor(c)
	ev.ModeratedAt = time.Now().UTC().Format(time.RFC3339Nano)
	return ev
}

// invalidate drops cached pins after a location or image change.
func (h *AdminHandler) invalidate(ctx context.Context, lg echo.Logger) {
	if h.Invalidate == nil {
		return
	}
	if err := h.Invalidate(ctx); err != nil {
		lg.Warnf("invalidate map cache: %v", err)
	}
}

// Logout clears the token and the session, then goes to the login page.
func (h *AdminHandler) Logout(c echo.Context) error {
	middleware.ClearToken(c, h.Secure)
	h.Sessions.End(c)
	return redirect(c, h.LoginPath)
}

// Moderation lists recorded approve/reject decisions, newest first, or
// the decisions on one comment with ?comment=ID.
func (h *AdminHandler) Moderation(c echo.Context) error {
	s := h.Sessions.For(c)
	s.EnterView(viewModeration)
	page := render.ModerationPage{
		Base:    h.base(s, "Histórico de moderação"),
		Tab:     viewModeration,
		Enabled: h.History.Enabled(),
	}
	if !page.Enabled {
		return c.Render(http.StatusOK, render.PageModeration, page)
	}

	ctx := c.Request().Context()
	var err error
	if id, ok := paramQueryID(c, "comment"); ok {
		page.Entries, err = h.History.ForComment(ctx, id)
	} else {
		page.Entries, err = h.History.Recent(ctx, repository.DefaultHistoryLimit)
	}
	if err != nil {
		c.Logger().Errorf("moderation history: %v", err)
		page.Flashes = append(page.Flashes, view.Flash{Kind: view.FlashError, Message: "Não foi possível carregar o histórico."})
	}
	return c.Render(http.StatusOK, render.PageModeration, page)
}
