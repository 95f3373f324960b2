// Package session keeps the client-side login state: the API token, the derived role and the username.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
)

// Keys under which a session is persisted. Values are plain strings.
const (
	KeyToken    = "authToken"
	KeyRole     = "role"
	KeyUsername = "username"
)

// DefaultNamespace is used by single-user front ends such as the terminal app.
const DefaultNamespace = "local"

var ErrEmptyToken = errors.New("session token is empty")

// Backend is a namespaced key-value persistence layer.
type Backend interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace string, values map[string]string) error
	Delete(ctx context.Context, namespace string, keys ...string) error
}

// Store reads and writes one session. Reads always go to the backend.
type Store struct {
	Backend   Backend
	Namespace string
}

func New(b Backend, namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{Backend: b, Namespace: namespace}
}

// Get returns the stored session, or a guest session when no token is stored.
func (s *Store) Get(ctx context.Context) (models.Session, error) {
	token, ok, err := s.Backend.Get(ctx, s.Namespace, KeyToken)
	if err != nil {
		return models.GuestSession(), fmt.Errorf("read %s: %w", KeyToken, err)
	}
	if !ok || token == "" {
		return models.GuestSession(), nil
	}

	role, _, err := s.Backend.Get(ctx, s.Namespace, KeyRole)
	if err != nil {
		return models.GuestSession(), fmt.Errorf("read %s: %w", KeyRole, err)
	}
	username, _, err := s.Backend.Get(ctx, s.Namespace, KeyUsername)
	if err != nil {
		return models.GuestSession(), fmt.Errorf("read %s: %w", KeyUsername, err)
	}

	r := models.ParseRole(role)
	if r == models.RoleGuest {
		r = models.RoleUser
	}
	return models.Session{Token: token, Role: r, Username: username}, nil
}

func (s *Store) Set(ctx context.Context, token string, role models.Role, username string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.Backend.Set(ctx, s.Namespace, map[string]string{
		KeyToken:    token,
		KeyRole:     string(role),
		KeyUsername: username,
	}); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.Backend.Delete(ctx, s.Namespace, KeyToken, KeyRole, KeyUsername); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
