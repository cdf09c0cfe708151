package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/profilesapi/profiles-api/internal/core/domain"
	"github.com/profilesapi/profiles-api/internal/core/ports"
)

const defaultCacheTTL = 10 * time.Minute

// AccountCache decorates a ports.AccountStore with a read-through Redis cache
// for email lookups. Key format: account:email:<normalized_email>
//
// Misses are filled with SET NX and updates overwrite the entry, so a fill
// racing an Update can never replace the newer snapshot. Redis failures are
// logged and the wrapped store answers instead.
type AccountCache struct {
	store  ports.AccountStore
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewAccountCache wraps store. A non-positive ttl uses defaultCacheTTL.
func NewAccountCache(store ports.AccountStore, client *redis.Client, ttl time.Duration, log zerolog.Logger) *AccountCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AccountCache{store: store, client: client, ttl: ttl, log: log}
}

// cachedAccount carries the password hash, which domain.Account hides from JSON.
type cachedAccount struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"password_hash"`
	IsActive     bool       `json:"is_active"`
	IsStaff      bool       `json:"is_staff"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (c *AccountCache) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	return c.store.Create(ctx, account)
}

func (c *AccountCache) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	raw, err := c.client.Get(ctx, c.key(email)).Bytes()
	switch {
	case err == nil:
		if account, decodeErr := decodeAccount(raw); decodeErr == nil {
			return account, nil
		}
		c.log.Warn().Str("email", email).Msg("discarding undecodable cached account")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("email", email).Msg("account cache read failed")
	}

	account, err := c.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if payload, encodeErr := encodeAccount(account); encodeErr == nil {
		if setErr := c.client.SetNX(ctx, c.key(email), payload, c.ttl).Err(); setErr != nil {
			c.log.Warn().Err(setErr).Str("email", email).Msg("account cache write failed")
		}
	}
	return account, nil
}

func (c *AccountCache) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return c.store.FindByID(ctx, id)
}

// Update writes through to the store and then replaces the cached entry.
// If the new snapshot cannot be written the entry is dropped instead.
func (c *AccountCache) Update(ctx context.Context, account *domain.Account) error {
	if err := c.store.Update(ctx, account); err != nil {
		return err
	}

	key := c.key(account.Email)
	payload, err := encodeAccount(account)
	if err == nil {
		err = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	if err == nil {
		return nil
	}

	c.log.Warn().Err(err).Str("email", account.Email).Msg("account cache refresh failed")
	if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
		c.log.Warn().Err(delErr).Str("email", account.Email).Msg("account cache invalidation failed")
	}
	return nil
}

func (c *AccountCache) key(email string) string {
	return fmt.Sprintf("account:email:%s", email)
}

func encodeAccount(a *domain.Account) ([]byte, error) {
	return json.Marshal(cachedAccount{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		IsActive:     a.IsActive,
		IsStaff:      a.IsStaff,
		IsSuperuser:  a.IsSuperuser,
		LastLogin:    a.LastLogin,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	})
}

func decodeAccount(raw []byte) (*domain.Account, error) {
	var ca cachedAccount
	if err := json.Unmarshal(raw, &ca); err != nil {
		return nil, err
	}
	return &domain.Account{
		ID:           ca.ID,
		Email:        ca.Email,
		Name:         ca.Name,
		PasswordHash: ca.PasswordHash,
		IsActive:     ca.IsActive,
		IsStaff:      ca.IsStaff,
		IsSuperuser:  ca.IsSuperuser,
		LastLogin:    ca.LastLogin,
		CreatedAt:    ca.CreatedAt,
		UpdatedAt:    ca.UpdatedAt,
	}, nil
}
