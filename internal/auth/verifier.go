// Package auth verifies the bearer credential presented at connection time.
package auth

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/golang-jwt/jwt/v5"

    "bookhub/internal/model"
    "bookhub/internal/session"
    "bookhub/internal/store"
)

var (
    // ErrMissingCredential means no token was presented at all.
    ErrMissingCredential = errors.New("missing credential")
    // ErrInvalidCredential means the token failed validation or its subject
    // no longer resolves to an account.
    ErrInvalidCredential = errors.New("invalid credential")
)

// Verifier validates bearer credentials and resolves them to an identity.
// Modes: dev (token is the user id, no signature), hmac (HS256 JWT with the
// user id in the subject claim). When a session TokenStore is configured it
// serves as fallback for opaque tokens that are not valid JWTs.
//
// Verification is pure with respect to the connection registry; it only
// reads the account store.
type Verifier struct {
    Mode       string
    HMACSecret []byte
    Accounts   store.Store
    Sessions   session.TokenStore
}

// Verify resolves a credential to an identity or fails with
// ErrMissingCredential / ErrInvalidCredential.
func (v *Verifier) Verify(ctx context.Context, credential string) (model.Identity, error) {
    credential = strings.TrimSpace(credential)
    if credential == "" {
        return model.Identity{}, ErrMissingCredential
    }

    if v.Mode == "dev" {
        // Token is the user id. Accounts are consulted when seeded so dev
        // behaves like production for known users.
        if v.Accounts != nil {
            if a, err := v.Accounts.GetAccount(ctx, credential); err == nil {
                return model.Identity{ID: a.ID, DisplayName: a.DisplayName}, nil
            }
        }
        return model.Identity{ID: credential, DisplayName: credential}, nil
    }

    userID, err := v.subjectOf(ctx, credential)
    if err != nil {
        return model.Identity{}, err
    }
    a, err := v.Accounts.GetAccount(ctx, userID)
    if err != nil {
        if errors.Is(err, store.ErrAccountNotFound) {
            return model.Identity{}, fmt.Errorf("%w: user %s has no account", ErrInvalidCredential, userID)
        }
        return model.Identity{}, fmt.Errorf("%w: account lookup: %v", ErrInvalidCredential, err)
    }
    return model.Identity{ID: a.ID, DisplayName: a.DisplayName}, nil
}

// subjectOf extracts the user id from a signed JWT, falling back to the
// session token store for opaque tokens.
func (v *Verifier) subjectOf(ctx context.Context, credential string) (string, error) {
    tok, jwtErr := jwt.Parse(credential, func(t *jwt.Token) (any, error) {
        return v.HMACSecret, nil
    }, jwt.WithValidMethods([]string{"HS256"}))
    if jwtErr == nil && tok.Valid {
        sub, err := tok.Claims.GetSubject()
        if err != nil || sub == "" {
            return "", fmt.Errorf("%w: token has no subject", ErrInvalidCredential)
        }
        return sub, nil
    }
    if v.Sessions != nil {
        userID, err := v.Sessions.Resolve(ctx, credential)
        if err == nil {
            return userID, nil
        }
        if !errors.Is(err, session.ErrTokenNotFound) {
            return "", fmt.Errorf("%w: session lookup: %v", ErrInvalidCredential, err)
        }
    }
    return "", fmt.Errorf("%w: %v", ErrInvalidCredential, jwtErr)
}

// FromRequestValues picks the credential out of the handshake inputs:
// the connection-time token parameter first, then an Authorization header.
func FromRequestValues(queryToken, authorization string) string {
    if strings.TrimSpace(queryToken) != "" {
        return queryToken
    }
    if strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
        return strings.TrimSpace(authorization[len("bearer "):])
    }
    return ""
}
