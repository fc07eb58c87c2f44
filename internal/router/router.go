package router // package router registers the map and admin routes

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-access-map/internal/handler"
	"github.com/iliyamo/campus-access-map/internal/middleware"
)

// RegisterRoutes registers routes that need no session: the health check and
// the static assets.
func RegisterRoutes(e *echo.Echo, assetsDir string) {
	e.GET("/healthz", handler.Health)
	if assetsDir != "" {
		e.Static("/assets", assetsDir)
	}
}

// RegisterMap registers the public map.  cache wraps the pins endpoint and
// limit wraps comment submission; either may be a pass-through.
func RegisterMap(e *echo.Echo, m *handler.MapHandler, cache, limit echo.MiddlewareFunc) {
	e.GET("/", m.Map)
	e.GET("/map", m.Map)
	e.GET("/map/pins.json", m.Pins, cache)
	e.GET("/map/locations/:id", m.Location)
	e.GET("/map/locations/:id/tab/:tab", m.Tab)
	e.GET("/map/locations/:id/comment", m.CommentForm)
	e.POST("/map/locations/:id/comments", m.SubmitComment, limit)
	e.POST("/map/back", m.Back)
}

// RegisterAdmin registers the admin panel.  Requests without a token are
// sent to the login page.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler) {
	g := e.Group("/admin")
	g.Use(middleware.TokenGuard(a.LoginPath))

	g.GET("", a.Index)
	g.POST("/logout", a.Logout)

	g.GET("/comments", a.Comments)
	g.GET("/comments/:id/photos", a.CommentPhotos)
	g.POST("/comments/:id/approve", a.ApproveComment)
	g.POST("/comments/:id/reject", a.RejectComment)

	g.POST("/confirm/:token", a.Confirm)
	g.POST("/confirm/:token/cancel", a.CancelConfirm)

	g.GET("/locations", a.Locations)
	g.GET("/locations/new", a.NewLocation)
	g.GET("/locations/:id", a.LocationDetail)
	g.GET("/locations/:id/edit", a.EditLocation)
	g.POST("/locations", a.SaveLocation)
	g.POST("/locations/:id", a.SaveLocation)
	g.POST("/locations/:id/delete", a.DeleteLocation)
	g.POST("/images/:id/delete", a.DeleteImage)

	g.GET("/moderation", a.Moderation)
}
