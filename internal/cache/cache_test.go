package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis is an in-memory RedisClientInterface
type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Close() error { return nil }

func samplePayload() *models.SearchPayload {
	return &models.SearchPayload{
		Data: []models.RawOffer{{ID: "1", OneWay: true}},
		Dictionaries: &models.Dictionaries{
			Carriers: map[string]string{"QF": "QANTAS"},
		},
	}
}

func TestCache_StoreAndLoad(t *testing.T) {
	fake := newFakeRedis()
	c := NewWithClient(fake, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "SYD|MEL|2024-06-01", "tok-1", samplePayload()))
	assert.Equal(t, 10*time.Minute, fake.ttls[tokenPrefix+"tok-1"])

	token, err := c.Token(ctx, "SYD|MEL|2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	payload, err := c.Payload(ctx, token)
	require.NoError(t, err)
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "1", payload.Data[0].ID.String())
	assert.Equal(t, "QANTAS", payload.Dictionaries.Carriers["QF"])
}

func TestCache_Miss(t *testing.T) {
	c := NewWithClient(newFakeRedis(), 0)
	ctx := context.Background()

	_, err := c.Payload(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	_, err = c.Token(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 15*time.Minute, c.ttl)
}

func TestCache_StoreWithoutKey(t *testing.T) {
	fake := newFakeRedis()
	c := NewWithClient(fake, time.Minute)

	require.NoError(t, c.Store(context.Background(), "", "tok-2", samplePayload()))
	assert.Len(t, fake.data, 1)
}

func TestCache_BackendError(t *testing.T) {
	fake := newFakeRedis()
	fake.failGet = errors.New("connection refused")
	c := NewWithClient(fake, time.Minute)

	_, err := c.Payload(context.Background(), "tok")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
