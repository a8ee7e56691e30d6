package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/authvault/internal/server/config"
)

func TestNewStoreManager_Memory(t *testing.T) {
	cfg := &config.Config{StorageBackend: config.StorageMemory}

	m, err := NewStoreManager(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, m.Accounts())
	assert.NoError(t, m.Close())
}

func TestNewStoreManager_UnknownBackend(t *testing.T) {
	cfg := &config.Config{StorageBackend: "cassandra"}

	_, err := NewStoreManager(context.Background(), cfg)
	assert.Error(t, err)
}
