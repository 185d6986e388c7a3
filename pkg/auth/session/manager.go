// Package session keeps refresh sessions in redis, keyed by the access token jti.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	redisclient "github.com/angelmondragon/autosallon-backend/pkg/redis"
)

const refreshTokenBytes = 32

var ErrInvalidRefreshToken = errors.New("invalid refresh token")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Take(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker is what the auth middleware needs to reject tokens
// whose session was revoked.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

var _ AccessSessionChecker = (*Manager)(nil)

// Manager issues, rotates and revokes refresh sessions. Only a digest of the
// refresh token is stored, bound to the user it was issued for.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newManager(client, cfg)
}

func newManager(store sessionStore, cfg config.JWTConfig) (*Manager, error) {
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}
	return &Manager{store: store, ttl: ttl}, nil
}

// NewAccessID produces the identifier used as JWT jti and redis key.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate opens a session for accessID and returns the plaintext refresh token.
func (m *Manager) Generate(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	if userID == uuid.Nil {
		return "", fmt.Errorf("user id is required")
	}
	return m.open(ctx, accessID, userID)
}

// Rotate swaps the session behind oldAccessID for a fresh one. The old
// session is consumed atomically before the token is checked: concurrent
// refreshes race for it and only one wins, and a wrong token or user burns
// the session so a leaked jti cannot be brute forced.
func (m *Manager) Rotate(ctx context.Context, oldAccessID string, userID uuid.UUID, provided string) (string, string, error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}

	raw, err := m.store.Take(ctx, m.store.AccessSessionKey(oldAccessID))
	if errors.Is(err, redislib.Nil) {
		return "", "", ErrInvalidRefreshToken
	}
	if err != nil {
		return "", "", err
	}
	stored, ok := parseRecord(raw)
	if !ok || stored.userID != userID || !stored.matches(provided) {
		return "", "", ErrInvalidRefreshToken
	}

	newAccessID := NewAccessID()
	token, err := m.open(ctx, newAccessID, userID)
	if err != nil {
		return "", "", err
	}
	return newAccessID, token, nil
}

func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

// HasSession reports whether accessID still has a live refresh session. The
// auth middleware uses it to reject tokens after logout.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	return m.store.Exists(ctx, m.store.AccessSessionKey(accessID))
}

func (m *Manager) open(ctx context.Context, accessID string, userID uuid.UUID) (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	rec := record{userID: userID, digest: tokenDigest(token)}
	if err := m.store.Set(ctx, m.store.AccessSessionKey(accessID), rec.String(), m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// record is stored as "<user uuid>:<sha256 hex of token>".
type record struct {
	userID uuid.UUID
	digest string
}

func (r record) String() string {
	return r.userID.String() + ":" + r.digest
}

func (r record) matches(token string) bool {
	return subtle.ConstantTimeCompare([]byte(r.digest), []byte(tokenDigest(token))) == 1
}

func parseRecord(raw string) (record, bool) {
	user, digest, ok := strings.Cut(raw, ":")
	if !ok || digest == "" {
		return record{}, false
	}
	id, err := uuid.Parse(user)
	if err != nil {
		return record{}, false
	}
	return record{userID: id, digest: digest}, true
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
