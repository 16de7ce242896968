// Package session owns the auth state for one running client: the current
// user, the bearer token, and the durable token cache. The session object is
// passed explicitly to its consumers; there is no package-level singleton.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/promptdojo/promptdojo/internal/api"
	"github.com/promptdojo/promptdojo/internal/model"
	"github.com/promptdojo/promptdojo/internal/store"
)

var (
	// ErrLoginFailed reports rejected credentials or a failed login round trip.
	ErrLoginFailed = errors.New("login failed")
	// ErrRegistrationFailed reports a rejected registration.
	ErrRegistrationFailed = errors.New("registration failed")
)

// TokenCache persists the auth token across client restarts. Only the token
// is cached; the user profile is always re-derived from it.
type TokenCache interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

var validate = validator.New()

// Session holds the process-wide auth state: at most one active login.
type Session struct {
	client *api.Client
	cache  TokenCache

	user  *model.User
	token string
}

// New creates a session bound to the given client and cache, restoring any
// previously cached token. The user is never restored: after a restart the
// session holds a token but no user until the next Login.
func New(client *api.Client, cache TokenCache) (*Session, error) {
	s := &Session{client: client, cache: cache}
	token, err := cache.Get(store.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("read cached token: %w", err)
	}
	if token != "" {
		s.token = token
		client.SetToken(token)
	}
	return s, nil
}

// User returns the logged-in user, or nil.
func (s *Session) User() *model.User { return s.user }

// Token returns the bearer token, or "".
func (s *Session) Token() string { return s.token }

// IsAuthenticated reports whether both a token and a user are present.
// A token without a user (cached token after restart, or a login whose
// profile fetch failed) counts as not authenticated.
func (s *Session) IsAuthenticated() bool {
	return s.token != "" && s.user != nil
}

// Login authenticates, caches the token, and fetches the user profile.
// A failed profile fetch is tolerated: the session keeps the token but has
// no user, which IsAuthenticated reports as false.
func (s *Session) Login(ctx context.Context, username, password string) error {
	auth, err := s.client.Login(ctx, model.LoginRequest{Username: username, Password: password})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	s.token = auth.AccessToken
	s.client.SetToken(auth.AccessToken)
	if err := s.cache.Set(store.TokenKey, auth.AccessToken); err != nil {
		slog.Warn("failed to cache token", "error", err)
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		slog.Warn("profile fetch failed after login", "username", username, "error", err)
		return nil
	}
	s.user = user
	slog.Info("logged in", "username", user.Username)
	return nil
}

// Register creates an account and immediately logs in with the same
// credentials. A server-supplied detail message is preferred for the error
// when the registration is rejected.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	req := model.RegisterRequest{Username: username, Email: email, Password: password}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	if err := s.client.Register(ctx, req); err != nil {
		var reqErr *api.RequestError
		if errors.As(err, &reqErr) {
			return fmt.Errorf("%w: %s", ErrRegistrationFailed, reqErr.Detail("registration failed"))
		}
		return fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
	}

	return s.Login(ctx, username, password)
}

// Logout clears the user and token and removes the cached token. Idempotent.
func (s *Session) Logout() error {
	s.user = nil
	s.token = ""
	s.client.SetToken("")
	if err := s.cache.Delete(store.TokenKey); err != nil {
		return fmt.Errorf("clear cached token: %w", err)
	}
	return nil
}
