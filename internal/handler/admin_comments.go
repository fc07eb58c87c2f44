package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-access-map/internal/middleware"
	"github.com/iliyamo/campus-access-map/internal/model"
	"github.com/iliyamo/campus-access-map/internal/queue"
	"github.com/iliyamo/campus-access-map/internal/render"
	"github.com/iliyamo/campus-access-map/internal/view"
)

// Comments renders the review queue.
func (h *AdminHandler) Comments(c echo.Context) error {
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabComments)
	s.Carousel.Destroy()
	return h.renderComments(c, s, nil)
}

func (h *AdminHandler) renderComments(c echo.Context, s *view.Session, photos *render.PhotoModal) error {
	pending := h.API.PendingComments(c.Request().Context(), middleware.Token(c))
	s.SetPending(pending)
	return c.Render(http.StatusOK, render.PageAdminComments, render.AdminCommentsPage{
		Base:   h.base(s, "Comentários pendentes"),
		Tab:    view.AdminTabComments,
		Rows:   view.BuildPendingRows(pending, h.Resolver),
		Photos: photos,
	})
}

// pendingComment looks id up in the last rendered queue, then in a fresh one.
func (h *AdminHandler) pendingComment(c echo.Context, s *view.Session, id model.ID) (model.Comment, bool) {
	if cm, ok := s.PendingComment(id); ok {
		return cm, true
	}
	s.SetPending(h.API.PendingComments(c.Request().Context(), middleware.Token(c)))
	return s.PendingComment(id)
}

// CommentPhotos opens the photo modal of a pending comment.
func (h *AdminHandler) CommentPhotos(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabComments)

	cm, ok := h.pendingComment(c, s, id)
	if !ok {
		s.AddFlash(view.FlashError, "Comentário não encontrado.")
		return redirect(c, "/admin/comments")
	}
	photos := view.CommentPhotos(cm, h.Resolver)
	urls := make([]string, 0, len(photos))
	for _, p := range photos {
		urls = append(urls, p.URL)
	}
	return h.renderComments(c, s, &render.PhotoModal{
		CommentID: cm.ID,
		UserName:  cm.UserName,
		Carousel:  s.Carousel.Mount(urls),
	})
}

func (h *AdminHandler) ApproveComment(c echo.Context) error {
	return h.moderate(c, model.StatusApproved)
}

func (h *AdminHandler) RejectComment(c echo.Context) error {
	return h.moderate(c, model.StatusRejected)
}

// moderate asks for confirmation before changing a comment's status.
func (h *AdminHandler) moderate(c echo.Context, status string) error {
	id, ok := paramID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	s := h.Sessions.For(c)
	h.enter(s, view.AdminTabComments)

	cm, found := s.PendingComment(id)
	who := "este usuário"
	if found && cm.UserName != "" {
		who = cm.UserName
	}
	token := middleware.Token(c)
	lg := c.Logger()
	ev := newModerationEvent(c, queue.ModerationEvent{CommentID: id, LocationID: cm.LocationID, Status: status})

	req := view.ConfirmRequest{
		ReturnTo: "/admin/comments",
		OnConfirm: func(ctx context.Context) error {
			if err := h.API.SetCommentStatus(ctx, token, id, status); err != nil {
				s.AddFlash(view.FlashError, failureText(status))
				return err
			}
			s.AddFlash(view.FlashSuccess, successText(status))
			h.publish(lg, ev)
			return nil
		},
	}
	if status == model.StatusApproved {
		req.Title = "Aprovar comentário"
		req.Message = fmt.Sprintf("Aprovar o comentário de %s? Ele ficará visível no mapa.", who)
		req.ConfirmLabel = "Aprovar"
	} else {
		req.Title = "Rejeitar comentário"
		req.Message = fmt.Sprintf("Rejeitar o comentário de %s?", who)
		req.ConfirmLabel = "Rejeitar"
		req.Destructive = true
	}
	s.Confirm.Open(req)
	return redirect(c, "/admin/comments")
}

func successText(status string) string {
	if status == model.StatusApproved {
		return "Comentário aprovado."
	}
	return "Comentário rejeitado."
}

func failureText(status string) string {
	if status == model.StatusApproved {
		return "Não foi possível aprovar o comentário."
	}
	return "Não foi possível rejeitar o comentário."
}
