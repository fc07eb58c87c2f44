package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-access-map/internal/apiclient"
	"github.com/iliyamo/campus-access-map/internal/middleware"
	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/render"
	"github.com/iliyamo/campus-access-map/internal/resolver"
	"github.com/iliyamo/campus-access-map/internal/view"
)

const viewMap = "map"

// Modal names understood by the map template.
const (
	modalClosed  = "closed"
	modalInfo    = "info"
	modalComment = "comment"
)

// MapHandler serves the public map, its info modal and the comment form.
type MapHandler struct {
	API         *apiclient.Client
	Resolver    resolver.Resolver
	Sessions    Sessions
	MapImageURL string
	Width       int
	Height      int
}

func (h *MapHandler) page(c echo.Context, s *view.Session) render.MapPage {
	pins := s.Pins()
	if pins == nil {
		pins = view.BuildPins(h.API.Locations(c.Request().Context(), ""), h.Width, h.Height)
		s.SetPins(pins)
	}
	return render.MapPage{
		Base:        render.Base{Title: "Mapa de acessibilidade", Flashes: s.TakeFlashes()},
		MapImageURL: h.MapImageURL,
		Width:       h.Width,
		Height:      h.Height,
		Pins:        pins,
		Modal:       modalClosed,
		InfoTab:     s.InfoTabs.Active(),
	}
}

// Map renders the map with every modal closed.  Loading the page always
// starts from a clean session, which also covers the browser's back button.
func (h *MapHandler) Map(c echo.Context) error {
	s := h.Sessions.For(c)
	s.EnterView(viewMap)
	s.Reset()
	return c.Render(http.StatusOK, render.PageMap, h.page(c, s))
}

// Pins is the JSON list of pins for the map library.
func (h *MapHandler) Pins(c echo.Context) error {
	locs := h.API.Locations(c.Request().Context(), "")
	return c.JSON(http.StatusOK, view.BuildPins(locs, h.Width, h.Height))
}

// openInfo brings the modal to the info state for id, whatever it showed
// before.
func openInfo(s *view.Session, id model.ID, pushed bool) {
	state, cur := s.Modal.State()
	switch {
	case state == view.ModalInfo && cur == id:
		return
	case state == view.ModalAddComment && cur == id:
		_ = s.Modal.BackToInfo()
		return
	case state != view.ModalClosed:
		s.Modal.PopState()
	}
	_ = s.Modal.OpenInfo(id, pushed)
	s.InfoTabs.Reset()
}

// renderInfo loads everything the info modal shows and renders it.
func (h *MapHandler) renderInfo(c echo.Context, s *view.Session, id model.ID) error {
	ctx := c.Request().Context()
	loc, ok := h.API.Location(ctx, "", id)
	if !ok {
		s.Modal.PopState()
		s.Carousel.Destroy()
		s.AddFlash(view.FlashError, "Não foi possível carregar o local.")
		return redirect(c, "/map")
	}
	comments := h.API.CommentsForLocation(ctx, "", id)
	catalog := h.API.Catalog(ctx, "")
	info := view.BuildLocationInfo(loc, comments, catalog, h.Resolver)

	p := h.page(c, s)
	p.Title = info.Name
	p.Modal = modalInfo
	p.Info = &info
	p.InfoTab = s.InfoTabs.Active()
	p.CommentEnabled = view.CommentButtonEnabled(s.InfoTabs)
	p.Carousel = s.Carousel.Mount(info.Slides)
	p.HistoryPushed = s.Modal.Pushed()
	return c.Render(http.StatusOK, render.PageMap, p)
}

// Location opens the info modal, as a pin click does.
func (h *MapHandler) Location(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	s.EnterView(viewMap)
	openInfo(s, id, c.QueryParam("from") == "pin")
	return h.renderInfo(c, s, id)
}

// Tab switches the info modal tab.
func (h *MapHandler) Tab(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	s.EnterView(viewMap)
	openInfo(s, id, false)
	if !s.InfoTabs.Select(c.Param("tab")) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return h.renderInfo(c, s, id)
}

// CommentForm opens the add-comment modal.  It is only reachable from the
// reviews tab.
func (h *MapHandler) CommentForm(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	s.EnterView(viewMap)
	if state, cur := s.Modal.State(); !(state == view.ModalAddComment && cur == id) {
		openInfo(s, id, false)
		if !view.CommentButtonEnabled(s.InfoTabs) {
			return redirect(c, fmt.Sprintf("/map/locations/%s/tab/%s", id, view.InfoTabReviews))
		}
		if err := s.Modal.OpenAddComment(); err != nil {
			c.Logger().Warnf("open comment form: %v", err)
			return redirect(c, "/map/locations/"+id.String())
		}
	}
	return h.renderCommentForm(c, s, id, render.CommentForm{})
}

func (h *MapHandler) renderCommentForm(c echo.Context, s *view.Session, id model.ID, form render.CommentForm) error {
	loc, ok := h.API.Location(c.Request().Context(), "", id)
	if !ok {
		s.Modal.PopState()
		s.AddFlash(view.FlashError, "Não foi possível carregar o local.")
		return redirect(c, "/map")
	}
	p := h.page(c, s)
	p.Title = loc.Name
	p.Modal = modalComment
	p.Info = &view.LocationInfo{ID: loc.ID, Name: loc.Name, Description: loc.Description}
	p.Form = form
	return c.Render(http.StatusOK, render.PageMap, p)
}

// SubmitComment validates the form and sends the comment as pending.  A
// missing rating stops here without any API call.
func (h *MapHandler) SubmitComment(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	s.EnterView(viewMap)

	var files []*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil {
		files = mf.File["images"]
	} else if _, err := c.FormParams(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulário inválido")
	}
	values := c.Request().Form
	in, verr := view.ParseCommentForm(values, id)
	form := render.CommentForm{UserName: values.Get("user_name"), Rating: in.Rating, Text: values.Get("comment")}
	if verr != nil {
		form.Errors = []string{verr.Error()}
		return h.renderCommentForm(c, s, id, form)
	}

	accepted, rejected := apiclient.ValidateUploads(files)
	for _, r := range rejected {
		s.AddFlash(view.FlashError, r.Reason)
	}

	if err := h.API.PostComment(c.Request().Context(), middleware.RequestToken(c), in, accepted); err != nil {
		c.Logger().Errorf("post comment for location %s: %v", id, err)
		s.AddFlash(view.FlashError, "Não foi possível enviar o comentário. Tente novamente.")
		form.Errors = nil
		return h.renderCommentForm(c, s, id, form)
	}

	if state, _ := s.Modal.State(); state == view.ModalAddComment {
		_ = s.Modal.BackToInfo()
	}
	s.AddFlash(view.FlashSuccess, "Comentário enviado! Ele aparecerá após a moderação.")
	return redirect(c, fmt.Sprintf("/map/locations/%s/tab/%s", id, view.InfoTabReviews))
}

// CommentRateLimited answers a comment post that ran out of tokens.
func (h *MapHandler) CommentRateLimited(c echo.Context, retryAfter int) error {
	s := h.Sessions.For(c)
	s.AddFlash(view.FlashError, fmt.Sprintf("Muitos comentários em pouco tempo. Tente novamente em %d segundos.", retryAfter))
	return redirect(c, fmt.Sprintf("/map/locations/%s/tab/%s", c.Param("id"), view.InfoTabReviews))
}

// Back closes the info modal.  Script callers get {"pop": bool} telling
// them whether to undo the history entry the pin click pushed.
func (h *MapHandler) Back(c echo.Context) error {
	s := h.Sessions.For(c)
	pop, err := s.Modal.Back()
	if err != nil {
		s.Modal.PopState()
	}
	s.Carousel.Destroy()
	s.InfoTabs.Reset()
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, echo.Map{"pop": pop})
	}
	return redirect(c, "/map")
}
