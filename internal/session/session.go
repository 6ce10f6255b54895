// Package session resolves opaque session tokens to user ids. It backs the
// fallback credential path for clients that hold a session token instead of
// a signed bearer token.
package session

import (
    "context"
    "errors"
    "time"
)

// ErrTokenNotFound is returned when a token is unknown or expired.
var ErrTokenNotFound = errors.New("session token not found")

// TokenStore maps opaque tokens to user ids.
type TokenStore interface {
    Resolve(ctx context.Context, token string) (userID string, err error)
    Put(ctx context.Context, token, userID string, ttl time.Duration) error
    Revoke(ctx context.Context, token string) error
}
