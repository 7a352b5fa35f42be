package utils // package utils provides helper functions for session tokens and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is returned by ParseSessionToken for any token that is
// malformed, signed with another key or algorithm, expired, or missing the
// username or role claim.
var ErrInvalidSession = errors.New("invalid session token")

// SessionToken is a signed HS256 JWT carried in the session cookie.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Session is the identity recovered from a valid token.
type Session struct {
	Username string `json:"username"`
	Role     string `json:"ruolo"`
}

// sessionClaims are the claims written into the cookie.  The subject is
// the username; ruolo carries the role.
type sessionClaims struct {
	Role string `json:"ruolo"`
	jwt.RegisteredClaims
}

// NewSessionToken builds and signs a token for username with the given
// role.  The token expires ttlMin minutes from now.
func NewSessionToken(secret, username, role string, ttlMin int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies raw against secret and returns the session it
// encodes.
func ParseSessionToken(secret, raw string) (Session, error) {
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Reject anything that is not HMAC, including "none".
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return Session{}, ErrInvalidSession
	}
	if claims.Subject == "" || claims.Role == "" {
		return Session{}, ErrInvalidSession
	}
	return Session{Username: claims.Subject, Role: claims.Role}, nil
}
