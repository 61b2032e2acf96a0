package httpapi

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemAccounts is a map-backed ServiceAccountRepository, sufficient for a
// single parser process; a persistent deployment would swap this for a
// sqlite- or other store-backed implementation of the same interface.
type InMemAccounts struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]ServiceAccount
}

// NewInMemAccounts creates an empty account directory.
func NewInMemAccounts() *InMemAccounts {
	return &InMemAccounts{accounts: make(map[uuid.UUID]ServiceAccount)}
}

// Put registers or replaces svc in the directory.
func (a *InMemAccounts) Put(svc ServiceAccount) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accounts[svc.ID] = svc
}

// GetByID implements ServiceAccountRepository.
func (a *InMemAccounts) GetByID(ctx context.Context, id uuid.UUID) (ServiceAccount, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	svc, ok := a.accounts[id]
	return svc, ok
}
