package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev/authvault/internal/common"
	"github.com/dkovalev/authvault/internal/server/clock"
	"github.com/dkovalev/authvault/internal/server/config"
	"github.com/dkovalev/authvault/internal/server/password"
	"github.com/dkovalev/authvault/internal/server/token"
)

// countingRepo wraps the in-memory store to assert the single-save-per-attempt
// contract.
type countingRepo struct {
	*InMemoryRepository
	saves int
}

func (r *countingRepo) Save(ctx context.Context, account *Account) error {
	r.saves++
	return r.InMemoryRepository.Save(ctx, account)
}

var testTime = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, maxAttempts int) (*Service, *countingRepo) {
	t.Helper()

	repo := &countingRepo{InMemoryRepository: NewInMemoryRepository()}
	tokens := token.NewManager([]byte("test-secret"), "authvault", "authvault-clients", 15*time.Minute)

	cfg := &config.Config{MaxFailedLoginAttempts: maxAttempts}
	return NewService(repo, tokens, clock.NewFixed(testTime), cfg), repo
}

func seedAccount(t *testing.T, repo Repository, plaintext string) *Account {
	t.Helper()

	hash, err := password.Hash(plaintext)
	require.NoError(t, err)

	account := &Account{
		ApplicationID: "app-1",
		UserID:        "user@example.com",
		PasswordHash:  hash,
		CreatedOn:     testTime,
		ModifiedOn:    testTime,
	}
	require.NoError(t, repo.Save(context.Background(), account))
	return account
}

func loadAccount(t *testing.T, repo Repository) *Account {
	t.Helper()
	account, err := repo.Load(context.Background(), "app-1", "user@example.com")
	require.NoError(t, err)
	return account
}

func boolPtr(v bool) *bool { return &v }

// ---------- Login ----------

func TestLogin_Success(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seedAccount(t, repo, "Secret1")
	repo.saves = 0

	session, err := svc.Login(context.Background(), "app-1", "User@Example.com", "Secret1")
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, "user@example.com", session.Email)
	assert.Equal(t, "app-1", session.ApplicationID)
	assert.Equal(t, int64(900), session.ExpiresIn)

	stored := loadAccount(t, repo)
	assert.Equal(t, session.RefreshToken, stored.RefreshToken)
	require.NotNil(t, stored.LastLoggedOn)
	assert.Equal(t, testTime, *stored.LastLoggedOn)
	assert.Equal(t, testTime, stored.ModifiedOn)

	assert.Equal(t, 1, repo.saves, "exactly one save per attempt")
}

func TestLogin_UnknownUserIsInvalidCredentials(t *testing.T) {
	svc, repo := newTestService(t, 3)

	_, err := svc.Login(context.Background(), "app-1", "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, 0, repo.saves, "no save for an unknown user")
}

func TestLogin_WrongPasswordIncrementsCounter(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seedAccount(t, repo, "Secret1")
	repo.saves = 0

	_, err := svc.Login(context.Background(), "app-1", "user@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	stored := loadAccount(t, repo)
	assert.Equal(t, 1, stored.FailedLoginAttempts)
	assert.False(t, stored.IsLocked)
	assert.Nil(t, stored.LockedOn)
	require.NotNil(t, stored.FailedAttemptOn)
	assert.Equal(t, testTime, *stored.FailedAttemptOn)
	assert.Equal(t, testTime, stored.ModifiedOn)
	assert.Equal(t, 1, repo.saves, "exactly one save per failed attempt")
}

func TestLogin_ThresholdAttemptLocksAccount(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seedAccount(t, repo, "Secret1")

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), "app-1", "user@example.com", "wrong")
		assert.ErrorIs(t, err, common.ErrInvalidCredentials)
		assert.False(t, loadAccount(t, repo).IsLocked)
	}

	// third consecutive failure crosses the threshold but is still reported
	// as invalid credentials
	_, err := svc.Login(context.Background(), "app-1", "user@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	stored := loadAccount(t, repo)
	assert.True(t, stored.IsLocked)
	assert.Equal(t, 3, stored.FailedLoginAttempts)
	require.NotNil(t, stored.LockedOn)
	assert.Equal(t, testTime, *stored.LockedOn)
}

func TestLogin_LockedAccountRejectsCorrectPassword(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seedAccount(t, repo, "Secret1")

	for i := 0; i < 3; i++ {
		_, _ = svc.Login(context.Background(), "app-1", "user@example.com", "wrong")
	}
	repo.saves = 0

	_, err := svc.Login(context.Background(), "app-1", "user@example.com", "Secret1")
	assert.ErrorIs(t, err, common.ErrAccountLocked)
	assert.Equal(t, 0, repo.saves, "locked rejection does not write")
}

func TestLogin_SuccessResetsFailureState(t *testing.T) {
	svc, repo := newTestService(t, 5)
	seedAccount(t, repo, "Secret1")

	for i := 0; i < 4; i++ {
		_, _ = svc.Login(context.Background(), "app-1", "user@example.com", "wrong")
	}
	require.Equal(t, 4, loadAccount(t, repo).FailedLoginAttempts)

	_, err := svc.Login(context.Background(), "app-1", "user@example.com", "Secret1")
	require.NoError(t, err)

	stored := loadAccount(t, repo)
	assert.Equal(t, 0, stored.FailedLoginAttempts)
	assert.Nil(t, stored.FailedAttemptOn)
	assert.False(t, stored.IsLocked)
	assert.Nil(t, stored.LockedOn)
}

func TestLogin_InactiveOrDisabledAccount(t *testing.T) {
	tests := []struct {
		name      string
		isActive  *bool
		isEnabled *bool
		wantErr   error
	}{
		{"explicitly inactive", boolPtr(false), nil, common.ErrAccountInactive},
		{"explicitly disabled", nil, boolPtr(false), common.ErrAccountInactive},
		{"both unset treated as active", nil, nil, nil},
		{"both explicitly true", boolPtr(true), boolPtr(true), nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newTestService(t, 3)
			account := seedAccount(t, repo, "Secret1")
			account.IsActive = tc.isActive
			account.IsEnabled = tc.isEnabled
			require.NoError(t, repo.Save(context.Background(), account))

			_, err := svc.Login(context.Background(), "app-1", "user@example.com", "Secret1")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogin_LockedCheckedBeforeFlags(t *testing.T) {
	svc, repo := newTestService(t, 3)
	account := seedAccount(t, repo, "Secret1")
	account.IsLocked = true
	account.IsActive = boolPtr(false)
	require.NoError(t, repo.Save(context.Background(), account))

	_, err := svc.Login(context.Background(), "app-1", "user@example.com", "Secret1")
	assert.ErrorIs(t, err, common.ErrAccountLocked)
}

func TestNewService_ZeroThresholdFallsBackTo25(t *testing.T) {
	svc, _ := newTestService(t, 0)
	assert.Equal(t, 25, svc.maxFailedLoginAttempts)
}

// ---------- Provision ----------

func TestProvision_CreateRequiresPassword(t *testing.T) {
	svc, repo := newTestService(t, 3)

	_, err := svc.Provision(context.Background(), ProvisionRequest{
		ApplicationID: "app-1",
		Email:         "new@example.com",
	})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 0, repo.saves)
}

func TestProvision_CreateDefaults(t *testing.T) {
	svc, repo := newTestService(t, 3)

	account, err := svc.Provision(context.Background(), ProvisionRequest{
		ApplicationID: "app-1",
		Email:         "New.User@Example.COM",
		Password:      "Secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "new.user@example.com", account.UserID, "userID is the lower-cased email")
	assert.NotEqual(t, "Secret1", account.PasswordHash)
	assert.True(t, password.Verify("Secret1", account.PasswordHash))
	require.NotNil(t, account.IsActive)
	assert.True(t, *account.IsActive)
	require.NotNil(t, account.IsEnabled)
	assert.True(t, *account.IsEnabled)
	assert.False(t, account.IsLocked)
	assert.Equal(t, 0, account.FailedLoginAttempts)
	assert.Equal(t, testTime, account.CreatedOn)
	assert.Equal(t, testTime, account.ModifiedOn)
	assert.Equal(t, 1, repo.saves)
}

func TestProvision_CreateWithExplicitFlags(t *testing.T) {
	svc, _ := newTestService(t, 3)

	account, err := svc.Provision(context.Background(), ProvisionRequest{
		ApplicationID: "app-1",
		Email:         "flagged@example.com",
		Password:      "Secret1",
		IsActive:      boolPtr(false),
		IsLocked:      boolPtr(true),
		IsEnabled:     boolPtr(false),
	})
	require.NoError(t, err)

	assert.False(t, *account.IsActive)
	assert.False(t, *account.IsEnabled)
	assert.True(t, account.IsLocked)
}

func TestProvision_UpdateUnlocksWithoutTouchingHash(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seeded := seedAccount(t, repo, "Secret1")

	// lock it the honest way
	for i := 0; i < 3; i++ {
		_, _ = svc.Login(context.Background(), "app-1", "user@example.com", "wrong")
	}
	require.True(t, loadAccount(t, repo).IsLocked)

	account, err := svc.Provision(context.Background(), ProvisionRequest{
		ApplicationID: "app-1",
		Email:         "user@example.com",
		IsLocked:      boolPtr(false),
	})
	require.NoError(t, err)

	assert.False(t, account.IsLocked)
	assert.Equal(t, seeded.PasswordHash, account.PasswordHash, "no password supplied, hash untouched")
}

func TestProvision_UpdateTriStateLeavesUnsetFlagsAlone(t *testing.T) {
	svc, repo := newTestService(t, 3)
	account := seedAccount(t, repo, "Secret1")
	account.IsActive = boolPtr(false)
	require.NoError(t, repo.Save(context.Background(), account))

	updated, err := svc.Provision(context.Background(), ProvisionRequest{
		ApplicationID: "app-1",
		Email:         "user@example.com",
		IsEnabled:     boolPtr(false),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.IsActive)
	assert.False(t, *updated.IsActive, "unset flag in request keeps stored value")
	require.NotNil(t, updated.IsEnabled)
	assert.False(t, *updated.IsEnabled)
	assert.Equal(t, testTime, updated.ModifiedOn)
}

func TestProvision_UpdateReplacesPassword(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seeded := seedAccount(t, repo, "OldSecret")

	updated, err := svc.Provision(context.Background(), ProvisionRequest{
		ApplicationID: "app-1",
		Email:         "user@example.com",
		Password:      "NewSecret",
	})
	require.NoError(t, err)

	assert.NotEqual(t, seeded.PasswordHash, updated.PasswordHash)
	assert.True(t, password.Verify("NewSecret", updated.PasswordHash))

	_, err = svc.Login(context.Background(), "app-1", "user@example.com", "NewSecret")
	assert.NoError(t, err)
}

// ---------- Refresh ----------

func TestRefresh_RotatesTokens(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seedAccount(t, repo, "Secret1")

	session, err := svc.Login(context.Background(), "app-1", "user@example.com", "Secret1")
	require.NoError(t, err)
	repo.saves = 0

	renewed, err := svc.Refresh(context.Background(), session.AccessToken, session.RefreshToken)
	require.NoError(t, err)

	assert.NotEmpty(t, renewed.AccessToken)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken, "refresh token must rotate")
	assert.Equal(t, renewed.RefreshToken, loadAccount(t, repo).RefreshToken)
	assert.Equal(t, 1, repo.saves)

	// old refresh token is spent
	_, err = svc.Refresh(context.Background(), session.AccessToken, session.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefresh_WorksWithExpiredAccessToken(t *testing.T) {
	repo := &countingRepo{InMemoryRepository: NewInMemoryRepository()}
	expired := token.NewManager([]byte("test-secret"), "authvault", "authvault-clients", -1*time.Second)
	svc := NewService(repo, expired, clock.NewFixed(testTime), &config.Config{MaxFailedLoginAttempts: 3})
	seedAccount(t, repo, "Secret1")

	session, err := svc.Login(context.Background(), "app-1", "user@example.com", "Secret1")
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), session.AccessToken, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
}

func TestRefresh_RejectsWrongRefreshToken(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seedAccount(t, repo, "Secret1")

	session, err := svc.Login(context.Background(), "app-1", "user@example.com", "Secret1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), session.AccessToken, "forged-token")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefresh_RejectsGarbageAccessToken(t *testing.T) {
	svc, _ := newTestService(t, 3)

	_, err := svc.Refresh(context.Background(), "not.a.jwt", "whatever")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefresh_LockedAccount(t *testing.T) {
	svc, repo := newTestService(t, 3)
	seedAccount(t, repo, "Secret1")

	session, err := svc.Login(context.Background(), "app-1", "user@example.com", "Secret1")
	require.NoError(t, err)

	account := loadAccount(t, repo)
	account.IsLocked = true
	require.NoError(t, repo.Save(context.Background(), account))

	_, err = svc.Refresh(context.Background(), session.AccessToken, session.RefreshToken)
	assert.ErrorIs(t, err, common.ErrAccountLocked)
}
