package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/shubhamsharma-10/CloudDrive/internal/config"
	"github.com/shubhamsharma-10/CloudDrive/pkg/logger"
	"github.com/shubhamsharma-10/CloudDrive/pkg/utils"
)

var ErrStateNotFound = errors.New("oauth state not found or expired")

// OAuthState is kept between the redirect to a provider and its callback.
type OAuthState struct {
	Provider  string    `json:"provider"`
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StateStore holds pending OAuth states. Consume returns a state at most once.
type StateStore interface {
	Save(ctx context.Context, key string, state *OAuthState) error
	Consume(ctx context.Context, key string) (*OAuthState, error)
}

// NewOAuthState returns a state with a fresh nonce and the key under which it
// should be stored (sent to the provider as the OAuth "state" parameter).
func NewOAuthState(provider string, ttl time.Duration) (string, *OAuthState, error) {
	key, err := utils.RandomURLString(32)
	if err != nil {
		return "", nil, err
	}
	nonce, err := utils.RandomURLString(32)
	if err != nil {
		return "", nil, err
	}
	return key, &OAuthState{
		Provider:  provider,
		Nonce:     nonce,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// NewStateStore uses redis when a URL is configured so that several API
// instances share pending logins, and an in-process cache otherwise.
func NewStateStore(ctx context.Context, cfg *config.Config) (StateStore, error) {
	if cfg.Redis.URL == "" {
		return NewMemoryStateStore(cfg.SSO.StateTTL), nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("oauth_state_store_redis", map[string]interface{}{
		"addr": opts.Addr,
		"db":   opts.DB,
	})
	return NewRedisStateStore(client, cfg.SSO.StateTTL), nil
}

const memoryStateCapacity = 10000

type MemoryStateStore struct {
	cache *expirable.LRU[string, *OAuthState]
}

func NewMemoryStateStore(ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{
		cache: expirable.NewLRU[string, *OAuthState](memoryStateCapacity, nil, ttl),
	}
}

func (m *MemoryStateStore) Save(_ context.Context, key string, state *OAuthState) error {
	m.cache.Add(key, state)
	return nil
}

func (m *MemoryStateStore) Consume(_ context.Context, key string) (*OAuthState, error) {
	state, ok := m.cache.Get(key)
	// Only the caller whose Remove succeeds owns the state.
	if !ok || !m.cache.Remove(key) {
		return nil, ErrStateNotFound
	}
	if time.Now().After(state.ExpiresAt) {
		return nil, ErrStateNotFound
	}
	return state, nil
}

const redisStatePrefix = "clouddrive:oauth_state:"

type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

func (r *RedisStateStore) Save(ctx context.Context, key string, state *OAuthState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisStatePrefix+key, data, r.ttl).Err()
}

func (r *RedisStateStore) Consume(ctx context.Context, key string) (*OAuthState, error) {
	data, err := r.client.GetDel(ctx, redisStatePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, err
	}

	var state OAuthState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if time.Now().After(state.ExpiresAt) {
		return nil, ErrStateNotFound
	}
	return &state, nil
}

func (r *RedisStateStore) Close() error {
	return r.client.Close()
}
