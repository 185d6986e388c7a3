package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	"github.com/redis/go-redis/v9"
)

func TestIncrWithTTLArmsExpiryOnce(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	for want := int64(1); want <= 3; want++ {
		count, err := client.IncrWithTTL(ctx, "autosallon:rl:login:ip:10.0.0.1", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != want {
			t.Fatalf("expected counter %d got %d", want, count)
		}
	}
	if len(mock.expireCalls) != 1 {
		t.Fatalf("expected a single expiry, got %v", mock.expireCalls)
	}
	if mock.expireCalls[0].ttl != time.Minute {
		t.Fatalf("unexpected ttl %s", mock.expireCalls[0].ttl)
	}
	if len(mock.scripts) != 3 || mock.scripts[0] != incrWithTTLScript {
		t.Fatalf("expected counter script on every call, got %d", len(mock.scripts))
	}
}

func TestIncrWithTTLWrapsErrors(t *testing.T) {
	mock := newMockCmdable()
	mock.evalErr = errors.New("NOSCRIPT")
	client := &Client{store: mock}

	if _, err := client.IncrWithTTL(context.Background(), "k", time.Second); err == nil || !errors.Is(err, mock.evalErr) {
		t.Fatalf("expected wrapped eval error, got %v", err)
	}
}

func TestSetTakeExists(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	key := client.AccessSessionKey("access-1")
	if err := client.Set(ctx, key, "token-value", 10*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if ok, err := client.Exists(ctx, key); err != nil || !ok {
		t.Fatalf("expected key to exist, got ok=%v err=%v", ok, err)
	}

	token, err := client.Take(ctx, key)
	if err != nil {
		t.Fatalf("take failed: %v", err)
	}
	if token != "token-value" {
		t.Fatalf("expected stored token, got %q", token)
	}
	if _, err := client.Take(ctx, key); !errors.Is(err, redis.Nil) {
		t.Fatalf("expected redis.Nil on second take, got %v", err)
	}
	if ok, err := client.Exists(ctx, key); err != nil || ok {
		t.Fatalf("expected key to be gone, got ok=%v err=%v", ok, err)
	}

	if err := client.Set(ctx, key, "again", 0); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := client.Del(ctx, key); err != nil {
		t.Fatalf("del failed: %v", err)
	}
	if ok, _ := client.Exists(ctx, key); ok {
		t.Fatal("expected key removed by del")
	}
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	ctx := context.Background()
	if err := client.Ping(ctx); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized from ping, got %v", err)
	}
	if _, err := client.Take(ctx, "k"); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized from take, got %v", err)
	}
	if _, err := client.IncrWithTTL(ctx, "k", time.Second); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized from incr, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close on nil raw client should be a no-op, got %v", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://localhost:6379/2", PoolSize: 7, DialTimeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.DB != 2 || opts.PoolSize != 7 || opts.DialTimeout != time.Second {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.AccessSessionKey("abc"); got != "autosallon:session:access:abc" {
		t.Fatalf("unexpected session key %s", got)
	}
	if got := client.buildKey("a", "", " b "); got != "autosallon:a:b" {
		t.Fatalf("empty parts should be skipped, got %s", got)
	}
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	expireCalls []expireCall
	scripts     []string
	evalErr     error
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		incr: make(map[string]int64),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) GetDel(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	delete(m.data, key)
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

// Eval mimics the counter script: INCR, then PEXPIRE on the first hit.
func (m *mockCmdable) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	m.scripts = append(m.scripts, script)
	if m.evalErr != nil {
		return redis.NewCmdResult(nil, m.evalErr)
	}
	key := keys[0]
	m.incr[key]++
	if ms, _ := args[0].(int64); m.incr[key] == 1 && ms > 0 {
		m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: time.Duration(ms) * time.Millisecond})
	}
	return redis.NewCmdResult(m.incr[key], nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
