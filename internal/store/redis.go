package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tradestack/market-sim/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and invalidate the cache; reads
// check Redis first then fall back to the primary.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Write-through (write to primary, invalidate cache) ---

func (s *CachedStore) CreateAccount(ctx context.Context, a *model.Account) error {
	if err := s.primary.CreateAccount(ctx, a); err != nil {
		return err
	}
	s.cacheAccount(ctx, a)
	return nil
}

func (s *CachedStore) SaveAccount(ctx context.Context, a *model.Account) error {
	if err := s.primary.SaveAccount(ctx, a); err != nil {
		return err
	}
	// Invalidate; next read re-populates.
	s.rdb.Del(ctx, accountKey(a.ID))
	return nil
}

func (s *CachedStore) DeleteAccount(ctx context.Context, id string) error {
	if err := s.primary.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.rdb.Del(ctx, accountKey(id))
	return nil
}

// --- Read-through (check cache first) ---

func (s *CachedStore) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	data, err := s.rdb.Get(ctx, accountKey(id)).Bytes()
	if err == nil {
		var a model.Account
		if json.Unmarshal(data, &a) == nil {
			return &a, nil
		}
	}

	a, err := s.primary.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheAccount(ctx, a)
	return a, nil
}

func (s *CachedStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	// Try cache via email→ID mapping.
	id, err := s.rdb.Get(ctx, emailKey(email)).Result()
	if err == nil {
		return s.GetAccount(ctx, id)
	}

	a, err := s.primary.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	s.cacheAccount(ctx, a)
	s.rdb.Set(ctx, emailKey(email), a.ID, s.ttl)
	return a, nil
}

func (s *CachedStore) GetAccountByExternalID(ctx context.Context, externalID string) (*model.Account, error) {
	id, err := s.rdb.Get(ctx, externalKey(externalID)).Result()
	if err == nil {
		return s.GetAccount(ctx, id)
	}

	a, err := s.primary.GetAccountByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	s.cacheAccount(ctx, a)
	s.rdb.Set(ctx, externalKey(externalID), a.ID, s.ttl)
	return a, nil
}

// --- Cache helpers ---

func (s *CachedStore) cacheAccount(ctx context.Context, a *model.Account) {
	if data, err := json.Marshal(a); err == nil {
		s.rdb.Set(ctx, accountKey(a.ID), data, s.ttl)
	}
}

func accountKey(id string) string       { return fmt.Sprintf("account:%s", id) }
func emailKey(email string) string      { return fmt.Sprintf("account:email:%s", email) }
func externalKey(ext string) string     { return fmt.Sprintf("account:ext:%s", ext) }
