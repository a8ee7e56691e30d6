package accounts

import "context"

// Repository is the account store: key-value persistence keyed exactly on
// (applicationID, userID). Load returns common.ErrorNotFound when no record
// exists. Save is a full-record write with last-writer-wins semantics; the
// store offers no conditional write in this core.
type Repository interface {
	Load(ctx context.Context, applicationID, userID string) (*Account, error)
	Save(ctx context.Context, account *Account) error
}
