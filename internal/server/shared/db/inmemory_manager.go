package db

import "github.com/dkovalev/authvault/internal/server/accounts"

type InMemoryStoreManager struct {
	accounts accounts.Repository
}

func NewInMemoryStoreManager() *InMemoryStoreManager {
	return &InMemoryStoreManager{accounts: accounts.NewInMemoryRepository()}
}

func (m *InMemoryStoreManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *InMemoryStoreManager) Close() error {
	return nil
}
