package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkovalev/authvault/internal/common"
	"github.com/dkovalev/authvault/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Load(ctx context.Context, applicationID, userID string) (*Account, error) {
	query :=
		`SELECT application_id, user_id, password_hash, refresh_token,
		        created_on, modified_on, is_active, is_enabled, is_locked,
		        locked_on, last_logged_on, failed_attempt_on, failed_login_attempts
		 FROM accounts
		 WHERE application_id = $1 AND user_id = $2
		 `

	account := &Account{}
	err := r.db.QueryRowContext(ctx, query, applicationID, userID).Scan(
		&account.ApplicationID, &account.UserID, &account.PasswordHash, &account.RefreshToken,
		&account.CreatedOn, &account.ModifiedOn, &account.IsActive, &account.IsEnabled, &account.IsLocked,
		&account.LockedOn, &account.LastLoggedOn, &account.FailedAttemptOn, &account.FailedLoginAttempts,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return account, nil
}

func (r *PostgresRepository) Save(ctx context.Context, account *Account) error {
	query :=
		`INSERT INTO accounts (application_id, user_id, password_hash, refresh_token,
		                       created_on, modified_on, is_active, is_enabled, is_locked,
		                       locked_on, last_logged_on, failed_attempt_on, failed_login_attempts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (application_id, user_id) DO UPDATE SET
		     password_hash = EXCLUDED.password_hash,
		     refresh_token = EXCLUDED.refresh_token,
		     modified_on = EXCLUDED.modified_on,
		     is_active = EXCLUDED.is_active,
		     is_enabled = EXCLUDED.is_enabled,
		     is_locked = EXCLUDED.is_locked,
		     locked_on = EXCLUDED.locked_on,
		     last_logged_on = EXCLUDED.last_logged_on,
		     failed_attempt_on = EXCLUDED.failed_attempt_on,
		     failed_login_attempts = EXCLUDED.failed_login_attempts
		 `

	_, err := r.db.ExecContext(ctx, query,
		account.ApplicationID, account.UserID, account.PasswordHash, account.RefreshToken,
		account.CreatedOn, account.ModifiedOn, account.IsActive, account.IsEnabled, account.IsLocked,
		account.LockedOn, account.LastLoggedOn, account.FailedAttemptOn, account.FailedLoginAttempts,
	)

	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}
