package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Take(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	delete(m.data, key)
	return val, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) AccessSessionKey(accessID string) string {
	return fmt.Sprintf("sess:%s", accessID)
}

func newTestManager(t *testing.T) (*Manager, *mockStore) {
	t.Helper()
	store := newMockStore()
	manager, err := newManager(store, config.JWTConfig{ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return manager, store
}

func TestNewManagerRejectsShortRefreshTTL(t *testing.T) {
	if _, err := newManager(newMockStore(), config.JWTConfig{ExpirationMinutes: 60, RefreshTokenTTLMinutes: 60}); err == nil {
		t.Fatal("expected refresh ttl not exceeding access ttl to be rejected")
	}
	if _, err := NewManager(nil, config.JWTConfig{}); err == nil {
		t.Fatal("expected nil redis client to be rejected")
	}
}

func TestManagerGenerateAndRotate(t *testing.T) {
	manager, store := newTestManager(t)
	ctx := context.Background()
	userID := uuid.New()
	accessID := "access-123"

	token, err := manager.Generate(ctx, accessID, userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	stored := store.data[store.AccessSessionKey(accessID)]
	if stored == "" || strings.Contains(stored, token) {
		t.Fatalf("expected digest of token to be stored, got %q", stored)
	}
	if !strings.HasPrefix(stored, userID.String()+":") {
		t.Fatalf("expected session bound to user, got %q", stored)
	}

	newAccessID, newToken, err := manager.Rotate(ctx, accessID, userID, token)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if _, exists := store.data[store.AccessSessionKey(accessID)]; exists {
		t.Fatalf("old access key left behind")
	}
	if newToken == token || newAccessID == accessID {
		t.Fatalf("expected fresh credentials")
	}
	if _, _, err := manager.Rotate(ctx, accessID, userID, token); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected replayed refresh token to fail, got %v", err)
	}
	if _, _, err := manager.Rotate(ctx, newAccessID, userID, newToken); err != nil {
		t.Fatalf("expected rotated token to work, got %v", err)
	}
}

func TestManagerRotateBurnsSessionOnMismatch(t *testing.T) {
	ctx := context.Background()
	cases := map[string]func(token string, userID uuid.UUID) (string, uuid.UUID){
		"wrong token": func(token string, userID uuid.UUID) (string, uuid.UUID) { return "wrong", userID },
		"other user":  func(token string, userID uuid.UUID) (string, uuid.UUID) { return token, uuid.New() },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			manager, store := newTestManager(t)
			userID := uuid.New()
			token, err := manager.Generate(ctx, "access-1", userID)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}

			badToken, badUser := mutate(token, userID)
			if _, _, err := manager.Rotate(ctx, "access-1", badUser, badToken); !errors.Is(err, ErrInvalidRefreshToken) {
				t.Fatalf("expected invalid refresh token, got %v", err)
			}
			if _, ok := store.data[store.AccessSessionKey("access-1")]; ok {
				t.Fatal("expected session to be consumed")
			}
			if _, _, err := manager.Rotate(ctx, "access-1", userID, token); !errors.Is(err, ErrInvalidRefreshToken) {
				t.Fatalf("expected burned session to stay invalid, got %v", err)
			}
		})
	}
}

func TestManagerConcurrentRotateHasOneWinner(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()
	userID := uuid.New()
	token, err := manager.Generate(ctx, "access-1", userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := manager.Rotate(ctx, "access-1", userID, token); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if wins != 1 {
		t.Fatalf("expected exactly one successful rotate, got %d", wins)
	}
}

func TestManagerRevokeAndHasSession(t *testing.T) {
	manager, _ := newTestManager(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := manager.Generate(ctx, "access-9", userID); err != nil {
		t.Fatalf("generate: %v", err)
	}
	ok, err := manager.HasSession(ctx, "access-9")
	if err != nil || !ok {
		t.Fatalf("expected active session, got ok=%v err=%v", ok, err)
	}

	if err := manager.Revoke(ctx, "access-9"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = manager.HasSession(ctx, "access-9")
	if err != nil || ok {
		t.Fatalf("expected revoked session, got ok=%v err=%v", ok, err)
	}

	if _, _, err := manager.Rotate(ctx, "access-9", userID, "anything"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected invalid refresh token after revoke, got %v", err)
	}
	if _, err := manager.Generate(ctx, " ", userID); err == nil {
		t.Fatal("expected error for blank access id")
	}
	if _, err := manager.Generate(ctx, "access-10", uuid.Nil); err == nil {
		t.Fatal("expected error for missing user")
	}
}

func TestManagerRejectsCorruptRecord(t *testing.T) {
	manager, store := newTestManager(t)
	store.data[store.AccessSessionKey("access-1")] = "not-a-record"

	if _, _, err := manager.Rotate(context.Background(), "access-1", uuid.New(), "token"); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected corrupt record to be rejected, got %v", err)
	}
}
