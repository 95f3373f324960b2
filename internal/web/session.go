package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/session"
)

const (
	sessionCookie = "sid"
	storeKey      = "session_store"
)

// sessionStore returns the store named by the request's sid cookie, issuing a new id when the cookie is missing or malformed.
func (h *Handler) sessionStore(c echo.Context) *session.Store {
	if s, ok := c.Get(storeKey).(*session.Store); ok {
		return s
	}

	sid := ""
	if ck, err := c.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(ck.Value); err == nil {
			sid = ck.Value
		}
	}
	if sid == "" {
		sid = uuid.NewString()
		c.SetCookie(&http.Cookie{
			Name:     sessionCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s := session.New(h.Sessions, sid)
	c.Set(storeKey, s)
	return s
}

func (h *Handler) resolveSession(c echo.Context) guard.SessionReader {
	return h.sessionStore(c)
}
