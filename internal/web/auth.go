package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/auth"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

func (h *Handler) LoginPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.login_page")

	sess, err := h.sessionStore(c).Get(ctx)
	if err != nil {
		l.Error("read_session_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read session")
	}
	if sess.LoggedIn() {
		return c.Redirect(http.StatusFound, "/products")
	}
	return h.render(c, http.StatusOK, tmplLogin, page{Title: "Login"})
}

func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.login")

	username := c.FormValue("username")
	password := c.FormValue("password")

	sess, err := h.Auth.WithStore(h.sessionStore(c)).Login(ctx, username, password)
	if err != nil {
		p := page{Title: "Login", Username: username}
		switch {
		case errors.Is(err, auth.ErrValidation):
			p.Error = "Please enter both username and password"
			return h.render(c, http.StatusBadRequest, tmplLogin, p)
		case errors.Is(err, auth.ErrInvalidCredentials):
			p.Error = "Invalid credentials"
			return h.render(c, http.StatusUnauthorized, tmplLogin, p)
		case ctx.Err() != nil:
			l.Info("request_cancelled", "reason", "login", "error", err)
			return nil
		default:
			p.Error = "An error occurred during login"
			return h.render(c, http.StatusBadGateway, tmplLogin, p)
		}
	}

	if claims, err := tokens.LoginClaimsFromToken(sess.Token); err == nil {
		l.Debug("login_token_claims", "sub", claims.Subject, "user", claims.User)
	}
	h.Events.LoggedIn(ctx, sess)
	return c.Redirect(http.StatusSeeOther, "/products")
}

func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web.logout")

	store := h.sessionStore(c)
	sess, err := store.Get(ctx)
	if err != nil {
		l.Warn("read_session_failed", "error", err)
	}
	if err := h.Auth.WithStore(store).Logout(ctx); err != nil {
		l.Error("logout_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot clear session")
	}
	if sess.LoggedIn() {
		h.Events.LoggedOut(ctx, sess.Username)
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}
