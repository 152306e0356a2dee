package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every verification failure so callers
// cannot tell a bad signature from an expired or mistyped token.
var ErrInvalidToken = errors.New("invalid token")

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
	// KindReset is only accepted by the password reset endpoint.
	KindReset Kind = "reset"
)

const (
	DefaultAccessTTL  = 7 * 24 * time.Hour
	DefaultRefreshTTL = 3 * 24 * time.Hour
	DefaultResetTTL   = 10 * time.Minute
)

type Claims struct {
	Kind Kind `json:"typ"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

type Option func(*Manager)

func WithTTL(access, refresh time.Duration) Option {
	return func(m *Manager) {
		if access > 0 {
			m.accessTTL = access
		}
		if refresh > 0 {
			m.refreshTTL = refresh
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(secret []byte, opts ...Option) *Manager {
	m := &Manager{
		secret:     secret,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		resetTTL:   DefaultResetTTL,
		now:        time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Manager) AccessTTL() time.Duration  { return m.accessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.refreshTTL }

func (m *Manager) IssueAccess(userID uuid.UUID) (string, error) {
	return m.issue(userID, KindAccess, m.accessTTL)
}

func (m *Manager) IssueRefresh(userID uuid.UUID) (string, error) {
	return m.issue(userID, KindRefresh, m.refreshTTL)
}

func (m *Manager) IssueReset(userID uuid.UUID) (string, error) {
	return m.issue(userID, KindReset, m.resetTTL)
}

func (m *Manager) issue(userID uuid.UUID, kind Kind, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tkn.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and kind and returns the user id the
// token was issued for.
func (m *Manager) Verify(token string, kind Kind) (uuid.UUID, error) {
	id, _, err := m.VerifyIssued(token, kind)
	return id, err
}

// VerifyIssued is Verify that also returns the issue time, truncated to
// seconds.
func (m *Manager) VerifyIssued(token string, kind Kind) (uuid.UUID, time.Time, error) {
	if token == "" {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}

	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tkn.Valid {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	if claims.Kind != kind || claims.IssuedAt == nil {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, time.Time{}, ErrInvalidToken
	}
	return id, claims.IssuedAt.Time, nil
}
