package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// RedisStore persists sessions as JSON values with a TTL equal to the idle
// expiry window, so Redis itself handles expiry and no sweeper is needed.
// The per-conversation lock is process-local: run a single instance, or put
// sticky routing in front of multiple ones.
type RedisStore struct {
	client *redis.Client
	tracer trace.Tracer
	locks  *keyedMutex

	maxAge time.Duration
	now    func() time.Time
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisMaxAge overrides the session TTL.
func WithRedisMaxAge(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.maxAge = d }
}

// WithRedisClock overrides the time source, for tests.
func WithRedisClock(now func() time.Time) RedisOption {
	return func(s *RedisStore) { s.now = now }
}

// NewRedisStore builds a Redis-backed session store.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	s := &RedisStore{
		client: client,
		tracer: otel.Tracer("gymchat.internal.session"),
		locks:  newKeyedMutex(),
		maxAge: DefaultMaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Get loads the session for id, or nil if none is stored.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.get")
	defer span.End()

	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode session: %w", err)
	}
	return &sess, nil
}

// Merge applies mutate under the conversation's lock and writes the result
// back with a refreshed TTL.
func (s *RedisStore) Merge(ctx context.Context, id string, mutate func(*Session)) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.merge")
	defer span.End()

	lock := s.locks.get(id)
	lock.Lock()
	defer lock.Unlock()

	now := s.now()

	sess, err := s.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if sess == nil {
		sess = &Session{Step: StepStart, CreatedAt: now}
	}

	mutate(sess)
	sess.LastAccessed = now

	data, err := json.Marshal(sess)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(id), data, s.maxAge).Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to persist session: %w", err)
	}

	cp := *sess
	return &cp, nil
}

// Clear removes the session for id.
func (s *RedisStore) Clear(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "session.clear")
	defer span.End()

	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to clear session: %w", err)
	}
	s.locks.drop(id)
	return nil
}
