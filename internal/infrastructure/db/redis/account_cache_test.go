package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/profilesapi/profiles-api/internal/core/domain"
)

type stubStore struct {
	account *domain.Account
	finds   int
	updates int
	// afterRead runs once, after FindByEmail has read its snapshot.
	afterRead func()
}

func (s *stubStore) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	clone := *a
	clone.ID = "acc-1"
	s.account = &clone
	return &clone, nil
}

func (s *stubStore) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	s.finds++
	if s.account == nil || s.account.Email != email {
		return nil, domain.ErrAccountNotFound
	}
	clone := *s.account
	if hook := s.afterRead; hook != nil {
		s.afterRead = nil
		hook()
	}
	return &clone, nil
}

func (s *stubStore) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if s.account == nil || s.account.ID != id {
		return nil, domain.ErrAccountNotFound
	}
	clone := *s.account
	return &clone, nil
}

func (s *stubStore) Update(_ context.Context, a *domain.Account) error {
	s.updates++
	clone := *a
	s.account = &clone
	return nil
}

// unreachableClient points at a closed port so every command fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestAccountCache_FallsThroughWhenRedisIsDown(t *testing.T) {
	store := &stubStore{}
	cache := NewAccountCache(store, unreachableClient(t), time.Minute, zerolog.Nop())
	ctx := context.Background()

	if _, err := cache.Create(ctx, &domain.Account{Email: "jane@example.com", Name: "Jane"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	account, err := cache.FindByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if account.ID != "acc-1" || store.finds != 1 {
		t.Fatalf("expected store lookup, got account=%+v finds=%d", account, store.finds)
	}

	account.IsStaff = true
	if err := cache.Update(ctx, account); err != nil {
		t.Fatalf("update should succeed despite cache failure: %v", err)
	}
	if store.updates != 1 {
		t.Fatalf("expected write-through update")
	}
}

func TestAccountCache_NotFoundPassesThrough(t *testing.T) {
	cache := NewAccountCache(&stubStore{}, unreachableClient(t), 0, zerolog.Nop())

	if _, err := cache.FindByEmail(context.Background(), "ghost@example.com"); err != domain.ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if cache.ttl != defaultCacheTTL {
		t.Fatalf("expected default ttl, got %s", cache.ttl)
	}
}

func TestAccountCache_CodecKeepsPasswordHash(t *testing.T) {
	login := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := &domain.Account{
		ID:           "acc-9",
		Email:        "root@site.com",
		Name:         "Root",
		PasswordHash: "$2a$04$abc",
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
		LastLogin:    &login,
	}

	raw, err := encodeAccount(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodeAccount(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.PasswordHash != in.PasswordHash {
		t.Fatalf("password hash lost in cache payload")
	}
	if !out.IsSuperuser || !out.IsStaff || out.LastLogin == nil || !out.LastLogin.Equal(login) {
		t.Fatalf("unexpected decoded account: %+v", out)
	}

	if _, err := decodeAccount([]byte("not-json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestAccountCache_Key(t *testing.T) {
	c := &AccountCache{}
	if got := c.key("jane@example.com"); got != "account:email:jane@example.com" {
		t.Fatalf("unexpected key %q", got)
	}
}

func newMiniredisCache(t *testing.T, store *stubStore) (*AccountCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewAccountCache(store, client, time.Minute, zerolog.Nop()), mr
}

func TestAccountCache_HitSkipsStore(t *testing.T) {
	store := &stubStore{account: &domain.Account{ID: "acc-1", Email: "jane@example.com", PasswordHash: "$2a$04$abc", IsActive: true}}
	cache, mr := newMiniredisCache(t, store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		account, err := cache.FindByEmail(ctx, "jane@example.com")
		if err != nil {
			t.Fatalf("find #%d: %v", i, err)
		}
		if account.ID != "acc-1" || account.PasswordHash != "$2a$04$abc" {
			t.Fatalf("unexpected account: %+v", account)
		}
	}
	if store.finds != 1 {
		t.Fatalf("expected a single store read, got %d", store.finds)
	}
	if ttl := mr.TTL("account:email:jane@example.com"); ttl != time.Minute {
		t.Fatalf("expected entry ttl of 1m, got %s", ttl)
	}
}

func TestAccountCache_UpdateRefreshesEntry(t *testing.T) {
	store := &stubStore{account: &domain.Account{ID: "acc-1", Email: "jane@example.com", IsActive: true}}
	cache, _ := newMiniredisCache(t, store)
	ctx := context.Background()

	account, err := cache.FindByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	account.IsActive = false
	if err := cache.Update(ctx, account); err != nil {
		t.Fatalf("update: %v", err)
	}

	cached, err := cache.FindByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if cached.IsActive {
		t.Fatalf("cache served the pre-update snapshot")
	}
	if store.finds != 1 {
		t.Fatalf("expected the refreshed entry to be served from redis, got %d store reads", store.finds)
	}
}

func TestAccountCache_RacingFillKeepsNewerSnapshot(t *testing.T) {
	store := &stubStore{account: &domain.Account{ID: "acc-1", Email: "jane@example.com", IsActive: true}}
	cache, _ := newMiniredisCache(t, store)
	ctx := context.Background()

	// The deactivation lands after the miss read the store but before the
	// fill reaches redis.
	store.afterRead = func() {
		deactivated := *store.account
		deactivated.IsActive = false
		if err := cache.Update(ctx, &deactivated); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	stale, err := cache.FindByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !stale.IsActive {
		t.Fatalf("the racing read should return the snapshot it read")
	}

	current, err := cache.FindByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("find after race: %v", err)
	}
	if current.IsActive {
		t.Fatalf("stale fill overwrote the deactivated snapshot")
	}
}
