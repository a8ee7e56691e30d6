package accounts

import "time"

// Account is one credential record, uniquely identified by the composite key
// (ApplicationID, UserID). UserID is the lower-cased email. IsActive and
// IsEnabled are tri-state: nil means the flag was never set explicitly and is
// treated as true. IsLocked is a plain bool.
//
// The dynamodbav tags match the attribute names of the auth-users table.
type Account struct {
	ApplicationID       string     `dynamodbav:"ApplicationID"`
	UserID              string     `dynamodbav:"UserID"`
	PasswordHash        string     `dynamodbav:"PasswordHash"`
	RefreshToken        string     `dynamodbav:"RefreshToken"`
	CreatedOn           time.Time  `dynamodbav:"CreatedOn"`
	ModifiedOn          time.Time  `dynamodbav:"ModifiedOn"`
	IsActive            *bool      `dynamodbav:"IsActive"`
	IsEnabled           *bool      `dynamodbav:"IsEnabled"`
	IsLocked            bool       `dynamodbav:"IsLocked"`
	LockedOn            *time.Time `dynamodbav:"LockedOn"`
	LastLoggedOn        *time.Time `dynamodbav:"LastLoggedOn"`
	FailedAttemptOn     *time.Time `dynamodbav:"FailedAttemptOn"`
	FailedLoginAttempts int        `dynamodbav:"FailedLoginAttempts"`
}

// Usable reports whether the account may log in at all: both flags are either
// unset or explicitly true.
func (a *Account) Usable() bool {
	if a.IsActive != nil && !*a.IsActive {
		return false
	}
	if a.IsEnabled != nil && !*a.IsEnabled {
		return false
	}
	return true
}
