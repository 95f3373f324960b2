// Package guard decides, per screen, whether to send the user to the login screen and whether to show admin controls.
// It only gates this client; the catalog API accepts mutations from anyone.
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
)

const LoginPath = "/login"

var (
	ErrLoginRequired = errors.New("not logged in")
	ErrAdminRequired = errors.New("you can't edit products")
)

type SessionReader interface {
	Get(ctx context.Context) (models.Session, error)
}

type Decision struct {
	Session models.Session
	// Redirect is set when the screen must not render and the user goes to the login screen instead.
	Redirect string
	Admin    bool
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

func Check(ctx context.Context, s SessionReader) (Decision, error) {
	sess, err := s.Get(ctx)
	if err != nil {
		return Decision{Session: models.GuestSession(), Redirect: LoginPath}, fmt.Errorf("read session: %w", err)
	}
	if !sess.LoggedIn() {
		return Decision{Session: sess, Redirect: LoginPath}, nil
	}
	return Decision{Session: sess, Admin: sess.IsAdmin()}, nil
}

// RequireLogin is Check for callers that cannot redirect, such as terminal commands.
func RequireLogin(ctx context.Context, s SessionReader) (models.Session, error) {
	d, err := Check(ctx, s)
	if err != nil {
		return d.Session, err
	}
	if !d.Allowed() {
		return d.Session, ErrLoginRequired
	}
	return d.Session, nil
}

func RequireAdmin(ctx context.Context, s SessionReader) (models.Session, error) {
	sess, err := RequireLogin(ctx, s)
	if err != nil {
		return sess, err
	}
	if !sess.IsAdmin() {
		return sess, ErrAdminRequired
	}
	return sess, nil
}
