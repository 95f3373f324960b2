// Package auth exchanges credentials for an API token and records the resulting session.
//
// The admin role is decided here, on the client, by comparing the login identity with configured literals.
// Nothing on the API side enforces it: anyone holding a token, or no token at all, can call the catalog's
// mutation endpoints directly.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const loginPath = "/auth/login"

var (
	ErrValidation         = errors.New("please enter both username and password")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginFailed        = errors.New("an error occurred during login")
)

// RolePolicy maps a login identity to a role.
type RolePolicy struct {
	AdminUsername string
	// AdminToken, when set, also grants admin to a session holding exactly this token.
	AdminToken string
}

func (p RolePolicy) Derive(username, token string) models.Role {
	if p.AdminUsername != "" && username == p.AdminUsername {
		return models.RoleAdmin
	}
	if p.AdminToken != "" && token == p.AdminToken {
		return models.RoleAdmin
	}
	return models.RoleUser
}

type Gateway struct {
	API   *resty.Client
	Store *session.Store
	Roles RolePolicy
}

// WithStore returns a copy of g bound to another session, e.g. the one named by a request's cookie.
func (g Gateway) WithStore(s *session.Store) Gateway {
	g.Store = s
	return g
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (g Gateway) Login(ctx context.Context, username, password string) (models.Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		l.Warn("login_failed", "reason", "empty credentials")
		return models.GuestSession(), ErrValidation
	}

	resp, err := g.API.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(credentials{Username: username, Password: password}).
		Post(loginPath)
	if err != nil {
		l.Error("login_failed", "reason", "request failed", "error", err)
		return models.GuestSession(), fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	if !resp.IsSuccess() {
		l.Warn("login_failed", "status", resp.StatusCode(), "reason", "rejected by api")
		return models.GuestSession(), ErrInvalidCredentials
	}

	var body loginResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Token == "" {
		l.Warn("login_failed", "status", http.StatusOK, "reason", "no token in response", "error", err)
		return models.GuestSession(), ErrInvalidCredentials
	}

	role := g.Roles.Derive(username, body.Token)
	if err := g.Store.Set(ctx, body.Token, role, username); err != nil {
		l.Error("login_failed", "reason", "cannot persist session", "error", err)
		return models.GuestSession(), fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	l.Info("login_successful", "role", role)
	return models.Session{Token: body.Token, Role: role, Username: username}, nil
}

// Logout forgets the local session. The API has no endpoint to revoke a token.
func (g Gateway) Logout(ctx context.Context) error {
	if err := g.Store.Clear(ctx); err != nil {
		logging.FromContext(ctx).Error("logout_failed", "svc", "auth.logout", "error", err)
		return err
	}
	logging.FromContext(ctx).Info("logout_successful", "svc", "auth.logout")
	return nil
}
