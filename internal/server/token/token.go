// Package token issues and validates the two token kinds of the service:
// signed HS256 access tokens carrying account claims, and opaque random
// refresh tokens correlated only through the account store.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dkovalev/authvault/internal/common"
)

// refreshTokenBytes is the entropy of an opaque refresh token.
const refreshTokenBytes = 64

// Claims is the access-token claim set: registered claims plus the account
// coordinates. Subject and Email both carry the user ID (a lower-cased email).
type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	ApplicationID string `json:"applicationID"`
}

// Manager signs and verifies tokens with a single symmetric secret.
// Construct once and share; Manager is immutable after creation.
type Manager struct {
	secret    []byte
	issuer    string
	audience  string
	accessTTL time.Duration
}

func NewManager(secret []byte, issuer, audience string, accessTTL time.Duration) *Manager {
	return &Manager{
		secret:    secret,
		issuer:    issuer,
		audience:  audience,
		accessTTL: accessTTL,
	}
}

// IssueAccessToken mints a signed access token for the account identified by
// (applicationID, userID). Expiry is measured against plain UTC, not the
// offset storage clock.
func (m *Manager) IssueAccessToken(applicationID, userID string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
		},
		Email:         userID,
		ApplicationID: applicationID,
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// IssueRefreshToken generates an opaque refresh token: 64 random bytes,
// URL-safe base64 without padding. It carries no embedded claims.
func (m *Manager) IssueRefreshToken() string {
	return common.Base64URLEncode(common.GenerateRandByteArray(refreshTokenBytes))
}

// AccessTokenTTLSeconds reports the fixed access-token lifetime, for callers
// that surface expiresIn.
func (m *Manager) AccessTokenTTLSeconds() int64 {
	return int64(m.accessTTL.Seconds())
}

// Validate verifies signature, algorithm, issuer, audience and expiry, and
// returns the claims. Any failure surfaces as common.ErrInvalidToken.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ParseExpired verifies signature and algorithm only, skipping expiry, issuer
// and audience checks. It backs the refresh flow, where the access token has
// typically already expired but must still be provably ours.
func (m *Manager) ParseExpired(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

func (m *Manager) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return m.secret, nil
}
