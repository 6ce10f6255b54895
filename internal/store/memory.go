package store

import (
    "context"
    "sync"

    "bookhub/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
    mu       sync.Mutex
    accounts map[string]model.Account
}

func NewMemory(seed ...model.Account) *Memory {
    m := &Memory{accounts: map[string]model.Account{}}
    for _, a := range seed {
        m.accounts[a.ID] = a
    }
    return m
}

func (m *Memory) GetAccount(_ context.Context, id string) (model.Account, error) {
    m.mu.Lock()
    defer m.mu.Unlock()
    a, ok := m.accounts[id]
    if !ok {
        return model.Account{}, ErrAccountNotFound
    }
    return a, nil
}

func (m *Memory) PutAccount(_ context.Context, a model.Account) error {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.accounts[a.ID] = a
    return nil
}
