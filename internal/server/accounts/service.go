// Package accounts implements the credential core: the account record, the
// store contract, and the authentication engine that drives login, token
// refresh and provisioning.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/dkovalev/authvault/internal/common"
	"github.com/dkovalev/authvault/internal/server/clock"
	"github.com/dkovalev/authvault/internal/server/config"
	"github.com/dkovalev/authvault/internal/server/password"
	"github.com/dkovalev/authvault/internal/server/token"
)

// defaultMaxFailedLoginAttempts applies when the configured threshold is
// zero or unset.
const defaultMaxFailedLoginAttempts = 25

// Session is the transient result of a successful login or refresh. The
// store retains only the latest refresh token, not session history.
type Session struct {
	AccessToken   string
	RefreshToken  string
	Email         string
	ApplicationID string
	ExpiresIn     int64
}

// ProvisionRequest carries a create-or-update request for one account.
// Password is optional for existing accounts. The flag fields are tri-state:
// nil means leave unchanged (or apply the creation default).
type ProvisionRequest struct {
	ApplicationID string
	Email         string
	Password      string
	IsActive      *bool
	IsLocked      *bool
	IsEnabled     *bool
}

// Service is the authentication engine and account provisioner. Each call is
// an independent unit of work: one load, in-memory mutation, and exactly one
// save. Concurrent calls against the same key race under last-writer-wins,
// which the store contract accepts.
type Service struct {
	repo                   Repository
	tokens                 *token.Manager
	clock                  *clock.Clock
	maxFailedLoginAttempts int
}

func NewService(repo Repository, tokens *token.Manager, clk *clock.Clock, cfg *config.Config) *Service {
	maxAttempts := cfg.MaxFailedLoginAttempts
	if maxAttempts == 0 {
		maxAttempts = defaultMaxFailedLoginAttempts
	}
	return &Service{
		repo:                   repo,
		tokens:                 tokens,
		clock:                  clk,
		maxFailedLoginAttempts: maxAttempts,
	}
}

// Login runs the per-attempt state machine: load, lockout/flag gates,
// password check, counter bookkeeping, token issuance. Rejections are
// terminal for the request; there is no automatic unlock.
func (s *Service) Login(ctx context.Context, applicationID, email, plaintext string) (*Session, error) {

	account, err := s.repo.Load(ctx, applicationID, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// indistinguishable from a wrong password
			return nil, common.ErrInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if account.IsLocked {
		return nil, common.ErrAccountLocked
	}

	if !account.Usable() {
		return nil, common.ErrAccountInactive
	}

	now := s.clock.Now()

	if !password.Verify(plaintext, account.PasswordHash) {
		account.FailedLoginAttempts++
		account.FailedAttemptOn = &now

		if account.FailedLoginAttempts >= s.maxFailedLoginAttempts {
			account.IsLocked = true
			account.LockedOn = &now
		}
		account.ModifiedOn = now

		if err := s.repo.Save(ctx, account); err != nil {
			return nil, common.ErrorInternal
		}

		// the lockout transition, if any, is reported exactly like a plain
		// failure; it only becomes visible on the next attempt
		return nil, common.ErrInvalidCredentials
	}

	account.FailedLoginAttempts = 0
	account.FailedAttemptOn = nil
	account.IsLocked = false
	account.LockedOn = nil

	session, err := s.issueSession(account)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account.LastLoggedOn = &now
	account.ModifiedOn = now

	if err := s.repo.Save(ctx, account); err != nil {
		return nil, common.ErrorInternal
	}

	return session, nil
}

// Refresh exchanges an expired-but-signed access token plus the matching
// stored refresh token for a fresh pair, rotating the stored token. Any
// mismatch surfaces as an invalid-token error without detail.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Session, error) {

	claims, err := s.tokens.ParseExpired(accessToken)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	account, err := s.repo.Load(ctx, claims.ApplicationID, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, common.ErrorInternal
	}

	if account.IsLocked {
		return nil, common.ErrAccountLocked
	}
	if !account.Usable() {
		return nil, common.ErrAccountInactive
	}

	if account.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(account.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, common.ErrInvalidToken
	}

	session, err := s.issueSession(account)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account.ModifiedOn = s.clock.Now()

	if err := s.repo.Save(ctx, account); err != nil {
		return nil, common.ErrorInternal
	}

	return session, nil
}

// Provision creates or updates one account. New accounts require a password;
// existing accounts keep their hash unless a new password is supplied, and
// each flag is applied only when explicitly present in the request.
func (s *Service) Provision(ctx context.Context, req ProvisionRequest) (*Account, error) {

	userID := normalizeEmail(req.Email)
	now := s.clock.Now()

	account, err := s.repo.Load(ctx, req.ApplicationID, userID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	if account == nil {
		if req.Password == "" {
			return nil, fmt.Errorf("%w: password is required for new account creation", common.ErrValidation)
		}

		hash, err := password.Hash(req.Password)
		if err != nil {
			return nil, common.ErrorInternal
		}

		account = &Account{
			ApplicationID:       req.ApplicationID,
			UserID:              userID,
			PasswordHash:        hash,
			CreatedOn:           now,
			ModifiedOn:          now,
			IsActive:            orDefault(req.IsActive, true),
			IsEnabled:           orDefault(req.IsEnabled, true),
			IsLocked:            req.IsLocked != nil && *req.IsLocked,
			FailedLoginAttempts: 0,
			FailedAttemptOn:     nil,
			LockedOn:            nil,
		}
	} else {
		if req.Password != "" {
			hash, err := password.Hash(req.Password)
			if err != nil {
				return nil, common.ErrorInternal
			}
			account.PasswordHash = hash
		}
		account.ModifiedOn = now

		if req.IsActive != nil {
			account.IsActive = req.IsActive
		}
		if req.IsLocked != nil {
			account.IsLocked = *req.IsLocked
		}
		if req.IsEnabled != nil {
			account.IsEnabled = req.IsEnabled
		}
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return nil, common.ErrorInternal
	}

	return account, nil
}

func (s *Service) issueSession(account *Account) (*Session, error) {
	accessToken, err := s.tokens.IssueAccessToken(account.ApplicationID, account.UserID)
	if err != nil {
		return nil, err
	}

	refreshToken := s.tokens.IssueRefreshToken()
	account.RefreshToken = refreshToken

	return &Session{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		Email:         account.UserID,
		ApplicationID: account.ApplicationID,
		ExpiresIn:     s.tokens.AccessTokenTTLSeconds(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func orDefault(v *bool, def bool) *bool {
	if v != nil {
		return v
	}
	return &def
}
