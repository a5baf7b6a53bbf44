package utils // package utils provides helper functions for session tokens and hashing

import (
    "errors" // error values returned when a token cannot be trusted
    "time"   // time utilities for computing expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// SessionToken represents a signed session token along with its expiry.
// The Token field contains the serialized JWT string that is handed to
// the caller (stored in a cookie); Exp records when the session lapses.
// The server never stores the token: possession of a validly signed,
// unexpired token IS the session.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// ErrInvalidSession is returned by ParseSessionToken for any token that
// cannot be accepted: bad signature, unexpected algorithm, expired, or
// a missing subject claim. Callers treat all of these the same way —
// the request simply has no session.
var ErrInvalidSession = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT binding a session to an
// account.  It takes the signing secret, the account id, and a TTL in
// minutes, and returns the signed token together with its expiration.
// The JWT carries standard claims: subject (sub), expiration (exp) and
// issued at (iat).
func NewSessionToken(secret, accountID string, ttlMin int) (SessionToken, error) {
    // Calculate the expiration time by adding the TTL to the current UTC time.
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    // Construct the JWT claims.  The subject carries the account id, the
    // only piece of identity the server needs to recover on later requests.
    claims := jwt.MapClaims{
        "sub": accountID,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    // Sign the token with the provided secret and obtain the string form.
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a session token and returns the account id
// it is bound to.  Validation enforces the HMAC signing method, the
// signature itself, and the registered expiry claim (jwt/v5 checks exp
// during Parse).  Any failure is reported as ErrInvalidSession so the
// caller cannot distinguish a forged token from a stale one.
func ParseSessionToken(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything other than HMAC; accepting
        // attacker-chosen algorithms would defeat the signature check.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidSession
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return "", ErrInvalidSession
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", ErrInvalidSession
    }
    sub, ok := claims["sub"].(string)
    if !ok || sub == "" {
        return "", ErrInvalidSession
    }
    return sub, nil
}
