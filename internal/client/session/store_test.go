package session

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/client/repositories/state"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

var dbSeq int

func setupStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:sessiontest%d?mode=memory&cache=shared", dbSeq)
	db, err := state.Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(db, logger), db
}

func durable(t *testing.T, db *sql.DB, key string) []byte {
	t.Helper()
	v, err := state.NewSQLiteRepository(db).Get(context.Background(), key)
	require.NoError(t, err)
	return v
}

func TestStore_LoginStart_ClearsError(t *testing.T) {
	s, _ := setupStore(t)
	s.LoginFailure("bad password")
	require.Equal(t, "bad password", s.Err())

	s.LoginStart()
	assert.True(t, s.Pending())
	assert.Empty(t, s.Err())
}

func TestStore_LoginSuccess_SetsStateAndPersistsCredential(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	user := &models.User{ID: "u1", Email: "a@b.com", Role: models.RoleUser}
	require.NoError(t, s.LoginSuccess(ctx, user, "t1"))

	assert.True(t, s.IsAuthenticated())
	require.NotNil(t, s.User())
	assert.Equal(t, "u1", s.User().ID)
	assert.Equal(t, "t1", s.Credential())
	assert.False(t, s.Pending())

	assert.Equal(t, []byte("t1"), durable(t, db, state.KeyCredential))
	assert.Contains(t, string(durable(t, db, state.KeyUser)), `"id":"u1"`)
}

func TestStore_LoginFailure_RecordsMessage(t *testing.T) {
	s, _ := setupStore(t)

	s.LoginStart()
	s.LoginFailure("Invalid credentials")

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.False(t, s.Pending())
	assert.Equal(t, "Invalid credentials", s.Err())
}

func TestStore_Logout_ClearsEverything(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.LoginSuccess(ctx, &models.User{ID: "u1"}, "t1"))
	require.NoError(t, s.Logout(ctx))

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Credential())
	assert.Empty(t, s.Err())

	assert.Nil(t, durable(t, db, state.KeyCredential))
	assert.Nil(t, durable(t, db, state.KeyUser))
}

func TestStore_LogoutReachableFromAnyState(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	// logged out -> logout is a no-op, not an error
	require.NoError(t, s.Logout(ctx))

	// pending -> logout
	s.LoginStart()
	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.Pending())

	// failed -> logout clears the error
	s.LoginFailure("nope")
	require.NoError(t, s.Logout(ctx))
	assert.Empty(t, s.Err())
}

func TestStore_Restore_RoundTrip(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.LoginSuccess(ctx, &models.User{ID: "u1", Name: "Ann"}, "t1"))

	// simulate process restart
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	fresh := New(db, logger)

	cred, user, err := fresh.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", cred)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, fresh.IsAuthenticated())
	assert.Equal(t, "t1", fresh.Credential())
}

func TestStore_Restore_NoCredential(t *testing.T) {
	s, _ := setupStore(t)

	cred, user, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cred)
	assert.Nil(t, user)
	assert.False(t, s.IsAuthenticated())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"exp":    exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestCredentialExpired(t *testing.T) {
	assert.True(t, CredentialExpired(signedToken(t, time.Now().Add(-time.Hour))))
	assert.False(t, CredentialExpired(signedToken(t, time.Now().Add(time.Hour))))
}

func TestCredentialExpired_NonJWT(t *testing.T) {
	// opaque tokens are never locally expired; the server decides
	assert.False(t, CredentialExpired("opaque-session-token"))
}

func TestCredentialExpired_NoExpClaim(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": "u1"})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	assert.False(t, CredentialExpired(s))
}
