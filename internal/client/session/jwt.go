package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialExpired reports whether the credential is a JWT whose exp claim
// already passed. The signature is deliberately not verified: the client
// only uses this to skip a profile call that is guaranteed to 401.
// Credentials that are not JWTs, or carry no exp claim, are never treated as
// locally expired — the server stays the authority for those.
func CredentialExpired(credential string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
