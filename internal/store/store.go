// Package store provides the account lookup used by credential verification.
package store

import (
    "context"
    "errors"

    "bookhub/internal/model"
)

// ErrAccountNotFound is returned when no account exists for an id.
var ErrAccountNotFound = errors.New("account not found")

// Store is the persistence interface used by the gateway.
type Store interface {
    GetAccount(ctx context.Context, id string) (model.Account, error)
    PutAccount(ctx context.Context, a model.Account) error
}
