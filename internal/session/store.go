// Package session provides the server-side session store backing the
// cookie-based login flow. Sessions live in Redis; if Redis is not
// reachable at startup the store degrades to an in-process map, which
// is sufficient for a single-instance deployment.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"timebook-backend/internal/config"
	"timebook-backend/internal/domain"
	"timebook-backend/internal/models"
)

const keyPrefix = "session:"

// Store holds active sessions keyed by opaque session id.
type Store interface {
	Create(ctx context.Context, principal *models.Principal, ttl time.Duration) (string, error)
	Get(ctx context.Context, id string) (*models.Principal, error)
	Delete(ctx context.Context, id string) error
}

// NewStore connects to Redis if configured, falling back to the
// in-memory store otherwise.
func NewStore(cfg *config.Config) Store {
	if cfg.Redis.Host == "" {
		log.Info().Msg("redis not configured, using in-memory session store")
		return newMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		log.Warn().Err(err).Msg("redis unreachable, using in-memory session store")
		return newMemoryStore()
	}

	log.Info().Str("addr", client.Options().Addr).Msg("session store connected to redis")
	return &redisStore{client: client}
}

type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Create(ctx context.Context, principal *models.Principal, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(principal)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*models.Principal, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	var principal models.Principal
	if err := json.Unmarshal(payload, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

type memoryEntry struct {
	principal models.Principal
	expiresAt time.Time
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *memoryStore) Create(_ context.Context, principal *models.Principal, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{principal: *principal, expiresAt: time.Now().Add(ttl)}
	return id, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*models.Principal, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, domain.ErrUnauthorized
	}
	principal := entry.principal
	return &principal, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
