// Package api is the remote access layer: it executes HTTP requests against
// the event backend, attaches the bearer credential, and normalizes success
// and error shapes into typed values.
package api

import (
	"context"

	"github.com/dmitrijs2005/eventhub/internal/client/models"
)

// AuthResult is the payload of a successful login or registration.
type AuthResult struct {
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}

// CredentialSource yields the current bearer credential, or "" when the
// session is anonymous. The session store implements it.
type CredentialSource interface {
	Credential() string
}

// Client defines the remote operations the application consumes.
//
// Contract:
//   - every call attaches the current credential as a bearer token;
//   - failures are *Error values (or wrap ErrUnavailable) — never panics;
//   - no call retries silently; a 401 is surfaced to the caller as-is.
//
// All methods honor context cancellation.
type Client interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, in models.RegisterInput) (*AuthResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.User, error)

	Events(ctx context.Context, f models.EventFilters) (*models.EventPage, error)
	Event(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, in models.CreateEventInput) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, in models.UpdateEventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	RSVP(ctx context.Context, id string, status models.RSVPStatus) (*models.Event, error)
	MyEvents(ctx context.Context, f models.EventFilters) (*models.EventPage, error)

	Close() error
}
