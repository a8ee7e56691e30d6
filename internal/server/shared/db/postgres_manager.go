package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dkovalev/authvault/internal/server/accounts"
	"github.com/dkovalev/authvault/internal/server/migrations"
)

type PostgresStoreManager struct {
	db       *sql.DB
	accounts accounts.Repository
}

func NewPostgresStoreManager(ctx context.Context, dsn string) (*PostgresStoreManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresStoreManager{
		db:       db,
		accounts: accounts.NewPostgresRepository(db),
	}

	if err := m.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func (m *PostgresStoreManager) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresStoreManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *PostgresStoreManager) Close() error {
	return m.db.Close()
}
