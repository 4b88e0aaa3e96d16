package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls [][]string
	err   error
}

func (c *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	c.calls = append(c.calls, append([]string(nil), texts...))
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 1}
	}
	return out, nil
}

func TestCachedEmbedderOnlySendsMisses(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(16, time.Hour)
	require.NoError(t, err)
	backend := &countingEmbedder{}
	embedder := NewCachedEmbedder(backend, cache, "m", "lru")

	first, err := embedder.Embed(ctx, []string{"a", "bbb"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {3, 1}}, first)

	second, err := embedder.Embed(ctx, []string{"bbb", "cc", "a"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{3, 1}, {2, 1}, {1, 1}}, second)

	require.Len(t, backend.calls, 2)
	assert.Equal(t, []string{"cc"}, backend.calls[1])

	_, err = embedder.Embed(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Len(t, backend.calls, 2, "fully cached batch skips the backend")
}

func TestCachedEmbedderKeysByModel(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(16, 0)
	require.NoError(t, err)
	backend := &countingEmbedder{}

	_, err = NewCachedEmbedder(backend, cache, "m1", "lru").Embed(ctx, []string{"x"})
	require.NoError(t, err)
	_, err = NewCachedEmbedder(backend, cache, "m2", "lru").Embed(ctx, []string{"x"})
	require.NoError(t, err)

	assert.Len(t, backend.calls, 2)
}

func TestCachedEmbedderPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	embedder := NewCachedEmbedder(&countingEmbedder{err: boom}, nil, "m", "none")

	_, err := embedder.Embed(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, boom)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(2, time.Minute)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set(ctx, "k", []float32{1})
	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []float32{1}, got)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	cache, err := NewMemoryCache(2, 0)
	require.NoError(t, err)

	cache.Set(ctx, "a", []float32{1})
	cache.Set(ctx, "b", []float32{2})
	_, _ = cache.Get(ctx, "a")
	cache.Set(ctx, "c", []float32{3})

	_, ok := cache.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "a")
	assert.True(t, ok)
}

func TestVectorBlobRoundTrip(t *testing.T) {
	v := []float32{0, -1.5, 3.25, 1e-7}
	decoded, err := decodeVector(encodeVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, decoded)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.ErrorIs(t, err, errBlobLength)
}

func TestNewCacheTypes(t *testing.T) {
	c, err := NewCache(CacheConfig{Type: "none"})
	require.NoError(t, err)
	assert.IsType(t, NoopCache{}, c)

	c, err = NewCache(CacheConfig{Type: "lru", MaxSize: 4})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = NewCache(CacheConfig{Type: "memcached"})
	assert.Error(t, err)
}

func TestTEIEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)
		var req teiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b"}, req.Inputs)
		assert.True(t, req.Normalize)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[0.1,0.2],[0.3,0.4]]`))
	}))
	defer srv.Close()

	vectors, err := NewTEIEmbedder(srv.URL + "/").Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vectors)
}

func TestTEIEmbedderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewTEIEmbedder(srv.URL).Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestOpenAIEmbedderRestoresOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"m","data":[
			{"object":"embedding","index":1,"embedding":[2,2]},
			{"object":"embedding","index":0,"embedding":[1,1]}
		]}`))
	}))
	defer srv.Close()

	vectors, err := NewOpenAIEmbedder(srv.URL+"/v1", "", "m").Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 2}}, vectors)
}

func TestEmbedOne(t *testing.T) {
	v, err := EmbedOne(context.Background(), &countingEmbedder{}, "four")
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1}, v)
}
