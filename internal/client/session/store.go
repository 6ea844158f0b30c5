// Package session holds the authenticated user and auth status for the one
// live session of this client instance, and keeps the durable credential in
// sync with it.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/client/repositories/state"
	"github.com/dmitrijs2005/eventhub/internal/dbx"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

// Store is the session store. All state transitions go through the four
// declared operations; "logged out" is reachable from every other state.
//
// The in-memory credential doubles as the api.CredentialSource for the
// remote access layer.
type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	logger logging.Logger

	user          *models.User
	authenticated bool
	pending       bool
	lastErr       string
	credential    string
}

func New(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger.With("component", "session")}
}

func (s *Store) stateRepo(db dbx.DBTX) state.Repository {
	return state.NewSQLiteRepository(db)
}

// LoginStart marks an authentication attempt as pending and clears any prior
// error.
func (s *Store) LoginStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = true
	s.lastErr = ""
}

// LoginSuccess commits an authenticated session: it stores the user, marks
// the session authenticated, and persists the credential together with the
// last-known user snapshot in a single transaction.
func (s *Store) LoginSuccess(ctx context.Context, user *models.User, credential string) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.stateRepo(tx)
		if err := repo.Set(ctx, state.KeyCredential, []byte(credential)); err != nil {
			return err
		}
		return repo.Set(ctx, state.KeyUser, userJSON)
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.authenticated = true
	s.pending = false
	s.lastErr = ""
	s.credential = credential

	s.logger.Info(ctx, "session established", "user", user.ID)
	return nil
}

// LoginFailure records the failure message for display and returns the store
// to the logged-out state. The durable credential is not touched here; only
// Logout erases it.
func (s *Store) LoginFailure(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.pending = false
	s.lastErr = message
}

// Logout clears the in-memory session and erases the durable credential and
// user snapshot. It does not call the backend; the caller makes that
// best-effort request itself.
func (s *Store) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.stateRepo(tx)
		if err := repo.Delete(ctx, state.KeyCredential); err != nil {
			return err
		}
		return repo.Delete(ctx, state.KeyUser)
	})
	if err != nil {
		return fmt.Errorf("erase session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.authenticated = false
	s.pending = false
	s.lastErr = ""
	s.credential = ""

	s.logger.Info(ctx, "session cleared")
	return nil
}

// Restore loads the persisted credential and last-known user into memory.
// A rehydrated user makes the session authenticated immediately; the
// bootstrap trusts it until a subsequent request reveals it stale.
func (s *Store) Restore(ctx context.Context) (string, *models.User, error) {
	repo := s.stateRepo(s.db)

	cred, err := repo.Get(ctx, state.KeyCredential)
	if err != nil {
		return "", nil, fmt.Errorf("restore credential: %w", err)
	}
	if len(cred) == 0 {
		return "", nil, nil
	}

	var user *models.User
	if raw, err := repo.Get(ctx, state.KeyUser); err == nil && len(raw) > 0 {
		var u models.User
		if err := json.Unmarshal(raw, &u); err == nil && u.ID != "" {
			user = &u
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = string(cred)
	if user != nil {
		s.user = user
		s.authenticated = true
	}
	return string(cred), user, nil
}

// Credential returns the in-memory bearer credential, or "" when anonymous.
// Satisfies api.CredentialSource.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Store) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Err returns the last recorded failure message, if any.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
