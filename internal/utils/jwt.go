package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// SessionTTL is the fixed validity horizon of a session token and of the
// session row that backs it.
const SessionTTL = 7 * 24 * time.Hour

// Claims is the payload carried by a session token.  Subject is the user id,
// SessionID the id of the server-side session row and Role the user's role
// at the time of issue.
type Claims struct {
	UserID    string
	SessionID string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// sessionClaims is the wire form of Claims.  sub/iat/exp come from the
// registered claims; sid and role are private claims.
type sessionClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens.  The secret is fixed
// at construction; the codec holds no other state and is safe for concurrent use.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec builds a codec around the signing secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: SessionTTL, now: time.Now}
}

// Issue signs a token for the given user, session and role.  It returns the
// compact token together with its expiry.
func (c *TokenCodec) Issue(userID, sessionID, role string) (string, time.Time, error) {
	if userID == "" || sessionID == "" || role == "" {
		return "", time.Time{}, errors.New("token: user id, session id and role are required")
	}
	// JWT times have second precision; truncate so exp-iat is exactly the TTL.
	iat := c.now().UTC().Truncate(time.Second)
	exp := iat.Add(c.ttl)
	claims := sessionClaims{
		SessionID: sessionID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses raw and checks its signature, algorithm and expiry.  It never
// returns an error: any malformed, unsigned, wrongly signed, non-HS256 or
// expired token yields ok == false.  Missing claims are reported through
// zero values so the caller can tell "invalid" from "malformed".
func (c *TokenCodec) Verify(raw string) (Claims, bool) {
	var sc sessionClaims
	tok, err := jwt.ParseWithClaims(raw, &sc, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, false
	}
	out := Claims{
		UserID:    sc.Subject,
		SessionID: sc.SessionID,
		Role:      sc.Role,
	}
	if sc.IssuedAt != nil {
		out.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		out.ExpiresAt = sc.ExpiresAt.Time
	}
	return out, true
}

// Complete reports whether every claim the guard relies on is present.
func (c Claims) Complete() bool {
	return c.UserID != "" && c.SessionID != "" && c.Role != "" &&
		!c.IssuedAt.IsZero() && !c.ExpiresAt.IsZero()
}
