package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-access-map/internal/middleware"
	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/render"
	"github.com/iliyamo/campus-access-map/internal/view"
)

func locationURL(id model.ID) string { return "/admin/locations/" + id.String() }

func (h *AdminHandler) locationsPage(s *view.Session, title, state string) render.AdminLocationsPage {
	return render.AdminLocationsPage{
		Base:  h.base(s, title),
		Tab:   view.AdminTabLocations,
		State: state,
	}
}

// transitionFailed puts the panel back on the list after a request the
// panel cannot follow, such as opening a detail straight from the form.
func (h *AdminHandler) transitionFailed(c echo.Context, s *view.Session, err error) error {
	c.Logger().Warnf("locations panel: %v", err)
	_ = s.Panel.ShowList()
	return redirect(c, "/admin/locations")
}

// Locations renders the list.
func (h *AdminHandler) Locations(c echo.Context) error {
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabLocations)
	if err := s.Panel.ShowList(); err != nil {
		return err
	}
	s.Carousel.Destroy()
	locs := h.API.Locations(c.Request().Context(), middleware.Token(c))
	page := h.locationsPage(s, "Locais", view.PanelList.String())
	page.Rows = view.BuildLocationRows(locs)
	return c.Render(http.StatusOK, render.PageAdminLocations, page)
}

// LocationDetail renders one location with its tabs.
func (h *AdminHandler) LocationDetail(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabLocations)

	prev, prevID := s.Panel.State()
	if err := s.Panel.ShowDetail(id); err != nil {
		return h.transitionFailed(c, s, err)
	}
	if prev != view.PanelDetail || prevID != id {
		s.DetailTabs.Reset()
	}
	if tab := c.QueryParam("tab"); tab != "" {
		s.DetailTabs.Select(tab)
	}

	ctx := c.Request().Context()
	token := middleware.Token(c)
	loc, ok := h.API.Location(ctx, token, id)
	if !ok {
		_ = s.Panel.ShowList()
		s.AddFlash(view.FlashError, "Não foi possível carregar o local.")
		return redirect(c, "/admin/locations")
	}
	detail := view.BuildLocationDetail(loc, h.API.AccessibilityItems(ctx, token), h.Resolver)

	page := h.locationsPage(s, detail.Title, view.PanelDetail.String())
	page.Detail = &detail
	page.DetailTab = s.DetailTabs.Active()
	page.DetailTabs = s.DetailTabs.Names()
	return c.Render(http.StatusOK, render.PageAdminLocations, page)
}

// NewLocation opens an empty form.
func (h *AdminHandler) NewLocation(c echo.Context) error {
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabLocations)
	if err := s.Panel.ShowForm(0); err != nil {
		return h.transitionFailed(c, s, err)
	}
	if form, ok := s.TakeDraft(0); ok {
		return h.renderForm(c, s, form)
	}
	items := h.API.AccessibilityItems(c.Request().Context(), middleware.Token(c))
	form := view.BuildLocationForm(model.Location{}, items, h.Resolver)
	return h.renderForm(c, s, form)
}

// EditLocation opens the form filled from the API.
func (h *AdminHandler) EditLocation(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabLocations)
	if err := s.Panel.ShowForm(id); err != nil {
		return h.transitionFailed(c, s, err)
	}
	if form, ok := s.TakeDraft(id); ok {
		return h.renderForm(c, s, form)
	}
	ctx := c.Request().Context()
	token := middleware.Token(c)
	loc, ok := h.API.Location(ctx, token, id)
	if !ok {
		_ = s.Panel.ShowList()
		s.AddFlash(view.FlashError, "Não foi possível carregar o local.")
		return redirect(c, "/admin/locations")
	}
	form := view.BuildLocationForm(loc, h.API.AccessibilityItems(ctx, token), h.Resolver)
	return h.renderForm(c, s, form)
}

func (h *AdminHandler) renderForm(c echo.Context, s *view.Session, form view.LocationForm) error {
	title := "Novo local"
	if form.Editing() {
		title = "Editar local"
	}
	page := h.locationsPage(s, title, view.PanelForm.String())
	page.Form = &form
	return c.Render(http.StatusOK, render.PageAdminLocations, page)
}

// SaveLocation validates the form and asks for confirmation.  The page is
// rendered in place so the typed values stay on screen under the dialog.
func (h *AdminHandler) SaveLocation(c echo.Context) error {
	var id model.ID
	if c.Param("id") != "" {
		var ok bool
		if id, ok = paramID(c, "id"); !ok {
			return echo.NewHTTPError(http.StatusNotFound)
		}
	}
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabLocations)
	if err := s.Panel.ShowForm(id); err != nil {
		return h.transitionFailed(c, s, err)
	}

	values, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulário inválido")
	}
	token := middleware.Token(c)
	items := h.API.AccessibilityItems(c.Request().Context(), token)
	form := view.LocationFormFromValues(id, values, items)

	in, verr := view.ParseLocationForm(values)
	if verr != nil {
		s.AddFlash(view.FlashError, verr.Error())
		return h.renderForm(c, s, form)
	}

	lg := c.Logger()
	req := view.ConfirmRequest{
		Title:         "Salvar local",
		Message:       fmt.Sprintf("Criar o local %q?", in.Name),
		ConfirmLabel:  "Salvar",
		ReturnTo:      "/admin/locations",
		ErrorReturnTo: "/admin/locations/new",
		OnConfirm: func(ctx context.Context) error {
			var err error
			if id == 0 {
				err = h.API.CreateLocation(ctx, token, in)
			} else {
				err = h.API.UpdateLocation(ctx, token, id, in)
			}
			if err != nil {
				s.SetDraft(form)
				s.AddFlash(view.FlashError, "Não foi possível salvar o local.")
				return err
			}
			_ = s.Panel.ShowList()
			s.AddFlash(view.FlashSuccess, "Local salvo com sucesso.")
			h.invalidate(ctx, lg)
			return nil
		},
	}
	if id != 0 {
		req.Message = fmt.Sprintf("Salvar as alterações em %q?", in.Name)
		req.ErrorReturnTo = locationURL(id) + "/edit"
	}
	s.Confirm.Open(req)
	return h.renderForm(c, s, form)
}

// DeleteLocation asks for confirmation before deleting a location.
func (h *AdminHandler) DeleteLocation(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabLocations)
	token := middleware.Token(c)
	lg := c.Logger()

	s.Confirm.Open(view.ConfirmRequest{
		Title:         "Excluir local",
		Message:       "Excluir este local? Esta ação não pode ser desfeita.",
		ConfirmLabel:  "Excluir",
		Destructive:   true,
		ReturnTo:      "/admin/locations",
		ErrorReturnTo: locationURL(id),
		OnConfirm: func(ctx context.Context) error {
			if err := h.API.DeleteLocation(ctx, token, id); err != nil {
				s.AddFlash(view.FlashError, "Não foi possível excluir o local.")
				return err
			}
			_ = s.Panel.ShowList()
			s.AddFlash(view.FlashSuccess, "Local excluído.")
			h.invalidate(ctx, lg)
			return nil
		},
	})
	return redirect(c, locationURL(id))
}

// DeleteImage asks for confirmation before deleting an image.  A second
// delete of the same image while the first is running is refused.
func (h *AdminHandler) DeleteImage(c echo.Context) error {
	imageID, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabLocations)
	back := "/admin/locations"
	if state, locID := s.Panel.State(); state == view.PanelDetail && locID != 0 {
		back = locationURL(locID)
	}
	token := middleware.Token(c)
	lg := c.Logger()

	s.Confirm.Open(view.ConfirmRequest{
		Title:        "Excluir imagem",
		Message:      "Excluir esta imagem?",
		ConfirmLabel: "Excluir",
		Destructive:  true,
		ReturnTo:     back,
		OnConfirm: func(ctx context.Context) error {
			if !s.BeginImageDelete(imageID) {
				s.AddFlash(view.FlashError, "A exclusão desta imagem já está em andamento.")
				return nil
			}
			defer s.EndImageDelete(imageID)
			if err := h.API.DeleteImage(ctx, token, imageID); err != nil {
				s.AddFlash(view.FlashError, "Não foi possível excluir a imagem.")
				return err
			}
			s.AddFlash(view.FlashSuccess, "Imagem excluída.")
			h.invalidate(ctx, lg)
			return nil
		},
	})
	return redirect(c, back)
}
