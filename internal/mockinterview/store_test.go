package mockinterview

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CopiesAndExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Hour)
	store.now = func() time.Time { return now }

	s := testSession(q(CategoryCoding, 1, NotStarted))
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	got.Questions[0].UserInput = "mutated"

	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Questions[0].UserInput, "callers get private copies")

	now = now.Add(59 * time.Minute)
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	now = now.Add(2 * time.Minute)
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	s := testSession()
	require.NoError(t, store.Save(ctx, s))
	require.NoError(t, store.Delete(ctx, s.ID))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// setupRedisStore connects to a local Redis for integration testing.
// Skipped if the server is unreachable.
func setupRedisStore(t *testing.T) *RedisStore {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Minute)
}

func TestIntegration_RedisStore(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	s := testSession(q(CategorySystemDesign, 2, Done))
	s.Context.UserID = uuid.New()
	require.NoError(t, store.Save(ctx, s))
	defer store.Delete(ctx, s.ID)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.Context.UserID, got.Context.UserID)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, Done, got.Questions[0].Submitted)
	assert.Equal(t, 2, got.Questions[0].GenerateCount)

	ttl, err := store.client.TTL(ctx, redisKeyPrefix+s.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, s.ID))
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
