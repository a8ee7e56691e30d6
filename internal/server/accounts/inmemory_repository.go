package accounts

import (
	"context"
	"sync"

	"github.com/dkovalev/authvault/internal/common"
)

// InMemoryRepository is a map-backed account store for tests and local runs.
// It copies records on the way in and out, so callers cannot mutate stored
// state without going through Save.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]Account)}
}

func storageKey(applicationID, userID string) string {
	return applicationID + "/" + userID
}

func (r *InMemoryRepository) Load(ctx context.Context, applicationID, userID string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[storageKey(applicationID, userID)]
	if !ok {
		return nil, common.ErrorNotFound
	}

	copied := account
	return &copied, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, account *Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[storageKey(account.ApplicationID, account.UserID)] = *account
	return nil
}
