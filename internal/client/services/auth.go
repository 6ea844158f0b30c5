// Package services contains the application services of the client: they
// orchestrate the remote access layer, the session store and the resource
// cache, and declare the cache tags every operation provides or affects.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/eventhub/internal/client/api"
	"github.com/dmitrijs2005/eventhub/internal/client/cache"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/client/session"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

// Cache tag types. The event tag map mirrors the mutation/invalidation table
// in eventService; under-declaring a tag there means stale reads after a
// write, so changes must be reflected in the service tests.
const (
	tagEvent      = "Event"
	tagUserEvents = "UserEvents"
	tagProfile    = "Profile"
)

// ErrLoginRequired is returned by operations that refuse to run without an
// authenticated session, before any network call is made.
var ErrLoginRequired = errors.New("login required")

// AuthService drives the authentication flows.
//
// Contract:
//   - Bootstrap: reconcile the persisted credential with live session state.
//   - Login/Register: authenticate and commit the session.
//   - Logout: best-effort server notification, then local clear.
//   - Profile: the cached current-user record.
type AuthService interface {
	Bootstrap(ctx context.Context) error
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, in models.RegisterInput) (*models.User, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)
}

type authService struct {
	client  api.Client
	session *session.Store
	cache   *cache.Cache
	logger  logging.Logger
}

func NewAuthService(client api.Client, sess *session.Store, c *cache.Cache, logger logging.Logger) AuthService {
	return &authService{client: client, session: sess, cache: c, logger: logger.With("component", "auth")}
}

// failureMessage extracts the server's message verbatim when the failure is
// a normalized API error; anything else falls back to the error text.
func failureMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// Login authenticates against the backend and commits the session. The
// failure message recorded in the store is the server's, not an invented one.
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	s.session.LoginStart()

	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.session.LoginFailure(failureMessage(err))
		return nil, err
	}

	if err := s.session.LoginSuccess(ctx, &res.User, res.AccessToken); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.TypeTag(tagProfile))
	return &res.User, nil
}

// Register creates an account; the backend returns a credential in the same
// shape as login, so a successful registration is also a login.
func (s *authService) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	s.session.LoginStart()

	res, err := s.client.Register(ctx, in)
	if err != nil {
		s.session.LoginFailure(failureMessage(err))
		return nil, err
	}

	if err := s.session.LoginSuccess(ctx, &res.User, res.AccessToken); err != nil {
		return nil, err
	}
	s.cache.Invalidate(cache.TypeTag(tagProfile))
	return &res.User, nil
}

// Logout notifies the server on a best-effort basis, then clears the local
// session and drops every cached resource.
func (s *authService) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		s.logger.Warn(ctx, "server logout failed, clearing local session anyway", "err", err)
	}
	if err := s.session.Logout(ctx); err != nil {
		return err
	}
	s.cache.Clear()
	return nil
}

// Profile returns the current user's profile through the cache.
func (s *authService) Profile(ctx context.Context) (*models.User, error) {
	return cache.Fetch(ctx, s.cache, "users/profile", []cache.Tag{cache.TypeTag(tagProfile)},
		func(ctx context.Context) (*models.User, error) {
			return s.client.Profile(ctx)
		})
}

// Bootstrap runs the startup reconciliation:
//
//   - no persisted credential: stay logged out, no network call;
//   - credential plus a rehydrated user: trust the rehydrated state and skip
//     the network round-trip;
//   - credential that is a JWT already past its exp: erase it locally;
//   - otherwise validate the credential with a profile fetch. 401/403 means
//     the credential expired — erase it and log out. Any other failure
//     (network, 5xx) leaves the session state untouched so a reachable
//     server later can still validate it; conflating the two causes
//     spurious logouts.
func (s *authService) Bootstrap(ctx context.Context) error {
	cred, user, err := s.session.Restore(ctx)
	if err != nil {
		return err
	}
	if cred == "" {
		s.logger.Debug(ctx, "no persisted credential")
		return nil
	}
	if user != nil {
		s.logger.Info(ctx, "session rehydrated", "user", user.ID)
		return nil
	}
	if session.CredentialExpired(cred) {
		s.logger.Info(ctx, "persisted credential expired, clearing")
		return s.session.Logout(ctx)
	}

	u, err := s.client.Profile(ctx)
	if err != nil {
		if api.IsAuthFailure(err) {
			s.logger.Info(ctx, "persisted credential rejected, clearing")
			return s.session.Logout(ctx)
		}
		return fmt.Errorf("bootstrap: %w", err)
	}

	return s.session.LoginSuccess(ctx, u, cred)
}
