// Package web serves the storefront screens as HTML over echo.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/session"
)

type Handler struct {
	Catalog  *catalog.Client
	Auth     auth.Gateway
	Sessions session.Backend
	Events   events.Emitter

	SecureCookie bool
}

func (h *Handler) render(c echo.Context, status int, name string, p page) error {
	if !p.Session.LoggedIn() {
		p.Session = guard.SessionFrom(c)
	}
	return c.Render(status, name, p)
}

func (h *Handler) message(c echo.Context, status int, title, msg string) error {
	return h.render(c, status, tmplMessage, page{Title: title, Message: msg})
}

// Forbidden is shown to logged-in users without the admin role.
func (h *Handler) Forbidden(c echo.Context) error {
	return h.message(c, http.StatusForbidden, "Forbidden", "You can't edit products")
}

// fetchFailed reports a failed catalog call on the screen that made it.
// When the client has gone away nothing is written.
func (h *Handler) fetchFailed(c echo.Context, l *slog.Logger, event, msg string, err error) error {
	if ctxErr := c.Request().Context().Err(); ctxErr != nil || errors.Is(err, context.Canceled) {
		l.Info("request_cancelled", "reason", event, "error", err)
		return nil
	}
	if errors.Is(err, catalog.ErrNotFound) {
		l.Warn(event, "status", 404, "reason", "product not found", "error", err)
		return h.message(c, http.StatusNotFound, "Not found", "Product not found")
	}
	l.Error(event, "status", 502, "reason", msg, "error", err)
	return h.message(c, http.StatusBadGateway, "Error", msg)
}

func productID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
