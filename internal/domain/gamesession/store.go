package gamesession

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/xredis"
)

const (
	lockTTL        = 10 * time.Second
	lockRetryDelay = 20 * time.Millisecond
)

var errSessionNotFound = errorx.New(errorx.NotFound, "Not found session")

// Store persists sessions and serializes the operations on one session.
type Store interface {
	// Get returns an error with NotFound code when the session does not exist
	// or expired.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session, ttl time.Duration) error

	// Lock blocks until the session is owned by the caller or ctx is done.
	Lock(ctx context.Context, id string) (unlock func(), err error)
}

type redisStore struct {
	redisClient xredis.Client
}

func NewRedisStore(redisClient xredis.Client) *redisStore {
	return &redisStore{redisClient: redisClient}
}

func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	var session Session
	if err := s.redisClient.GetObj(ctx, common.RedisKeySession(id), &session); err != nil {
		if xredis.IsNil(err) {
			return nil, errSessionNotFound
		}

		return nil, err
	}

	return &session, nil
}

func (s *redisStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	return s.redisClient.SetObj(ctx, common.RedisKeySession(session.ID), session, ttl)
}

func (s *redisStore) Lock(ctx context.Context, id string) (func(), error) {
	key := common.RedisKeySessionLock(id)
	for {
		ok, err := s.redisClient.SetNX(ctx, key, "1", lockTTL)
		if err != nil {
			return nil, err
		}

		if ok {
			return func() { _ = s.redisClient.Del(context.Background(), key) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
}

type memoryEntry struct {
	data     []byte
	expireAt time.Time
}

// memoryStore keeps sessions in process, it is used when redis is not
// configured.
type memoryStore struct {
	sessions *xsync.MapOf[string, memoryEntry]
	locks    *xsync.MapOf[string, *sync.Mutex]
	now      func() time.Time
}

func NewMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: xsync.NewMapOf[memoryEntry](),
		locks:    xsync.NewMapOf[*sync.Mutex](),
		now:      time.Now,
	}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Session, error) {
	entry, ok := s.sessions.Load(id)
	if !ok {
		return nil, errSessionNotFound
	}

	if !entry.expireAt.IsZero() && s.now().After(entry.expireAt) {
		s.sessions.Delete(id)
		return nil, errSessionNotFound
	}

	var session Session
	if err := json.Unmarshal(entry.data, &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *memoryStore) Save(ctx context.Context, session *Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expireAt = s.now().Add(ttl)
	}

	s.sessions.Store(session.ID, entry)
	return nil
}

func (s *memoryStore) Lock(ctx context.Context, id string) (func(), error) {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	for !mu.TryLock() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return mu.Unlock, nil
}

// Cleanup removes the expired sessions.
func (s *memoryStore) Cleanup() int {
	removed := 0
	now := s.now()
	s.sessions.Range(func(id string, entry memoryEntry) bool {
		if !entry.expireAt.IsZero() && now.After(entry.expireAt) {
			s.sessions.Delete(id)
			s.locks.Delete(id)
			removed++
		}

		return true
	})

	return removed
}
