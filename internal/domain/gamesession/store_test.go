package gamesession

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_MemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	_, err := store.Get(ctx, "s1")
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))

	session := NewSession("s1", now, 10)
	require.NoError(t, session.Start("Spin & Win", "10% Off", "CODE", now))
	require.NoError(t, store.Save(ctx, session, time.Minute))

	// Mutating the saved value must not change the stored copy.
	session.Reset()

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, StatePlaying, got.State)
	require.Equal(t, "CODE", got.Code)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "s1")
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))
}

func Test_MemoryStore_Cleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, NewSession("old", now, 10), time.Second))
	require.NoError(t, store.Save(ctx, NewSession("new", now, 10), time.Hour))

	now = now.Add(time.Minute)
	require.Equal(t, 1, store.Cleanup())

	_, err := store.Get(ctx, "new")
	require.NoError(t, err)
}

func Test_MemoryStore_Lock(t *testing.T) {
	store := NewMemoryStore()

	unlock, err := store.Lock(context.Background(), "s1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = store.Lock(ctx, "s1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Other sessions are not blocked.
	unlockOther, err := store.Lock(context.Background(), "s2")
	require.NoError(t, err)
	unlockOther()

	unlock()
	unlock, err = store.Lock(context.Background(), "s1")
	require.NoError(t, err)
	unlock()
}

func Test_RedisStore(t *testing.T) {
	ctx := context.Background()
	data := map[string][]byte{}

	redisClient := &testutil.MockRedisClient{
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			require.Equal(t, time.Hour, ttl)
			b, err := json.Marshal(obj)
			data[key] = b
			return err
		},
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			b, ok := data[key]
			if !ok {
				return (&testutil.MockRedisClient{}).GetObj(ctx, key, v)
			}
			return json.Unmarshal(b, v)
		},
	}

	store := NewRedisStore(redisClient)

	_, err := store.Get(ctx, "s1")
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))

	require.NoError(t, store.Save(ctx, NewSession("s1", time.Now(), 10), time.Hour))
	require.Contains(t, data, common.RedisKeySession("s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, StateIdle, got.State)
}

func Test_RedisStore_Lock(t *testing.T) {
	held := map[string]bool{}
	redisClient := &testutil.MockRedisClient{
		SetNXFunc: func(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
			if held[key] {
				return false, nil
			}
			held[key] = true
			return true, nil
		},
		DelFunc: func(ctx context.Context, keys ...string) error {
			for _, k := range keys {
				delete(held, k)
			}
			return nil
		},
	}

	store := NewRedisStore(redisClient)
	unlock, err := store.Lock(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, held[common.RedisKeySessionLock("s1")])

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = store.Lock(ctx, "s1")
	require.Error(t, err)

	unlock()
	require.False(t, held[common.RedisKeySessionLock("s1")])
}
