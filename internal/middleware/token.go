package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Context keys set by TokenGuard.
const (
	TokenKey = "auth_token"
	ActorKey = "actor"
)

// TokenCookie is where the login page leaves the bearer token.
const TokenCookie = "authToken"

// RequestToken reads the token from the Authorization header, falling back
// to the token cookie.  Public routes use it to forward an optional token.
func RequestToken(c echo.Context) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if tok := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); tok != "" {
			return tok
		}
	}
	if ck, err := c.Cookie(TokenCookie); err == nil {
		return strings.TrimSpace(ck.Value)
	}
	return ""
}

// TokenGuard sends requests without a token to the login page.  The token is
// not verified here; the API rejects bad tokens on every admin call.  The
// token and the actor label are stored in the context for handlers.
func TokenGuard(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := RequestToken(c)
			if tok == "" {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			c.Set(TokenKey, tok)
			c.Set(ActorKey, actorFromToken(tok))
			return next(c)
		}
	}
}

// Token returns the token stored by TokenGuard, or "".
func Token(c echo.Context) string {
	if v, ok := c.Get(TokenKey).(string); ok {
		return v
	}
	return ""
}

// ClearToken expires the token cookie.
func ClearToken(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: false,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
