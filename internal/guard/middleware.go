package guard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const sessionKey = "session"

// StoreResolver returns the session store that belongs to the request.
type StoreResolver func(c echo.Context) SessionReader

// SessionMiddleware redirects to loginPath when the request has no session; the next handler is not called.
func SessionMiddleware(resolve StoreResolver, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "guard.session")

			d, err := Check(ctx, resolve(c))
			if err != nil {
				l.Error("session_check_failed", "status", 500, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot read session")
			}
			if !d.Allowed() {
				l.Info("redirect_to_login")
				return c.Redirect(http.StatusFound, loginPath)
			}

			c.Set(sessionKey, d.Session)
			return next(c)
		}
	}
}

// AdminMiddleware must run after SessionMiddleware. Non-admins get deny, or a plain 403 when deny is nil.
func AdminMiddleware(deny echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if SessionFrom(c).IsAdmin() {
				return next(c)
			}
			logging.FromContext(c.Request().Context()).Warn("admin_required", "status", 403, "username", SessionFrom(c).Username)
			if deny != nil {
				return deny(c)
			}
			return echo.NewHTTPError(http.StatusForbidden, ErrAdminRequired.Error())
		}
	}
}

// SessionFrom returns the session stored by SessionMiddleware, or a guest session.
func SessionFrom(c echo.Context) models.Session {
	if s, ok := c.Get(sessionKey).(models.Session); ok {
		return s
	}
	return models.GuestSession()
}
