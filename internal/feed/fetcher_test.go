package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bilgisen/feedview/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoItems = `[
	{"id": 1, "link": "L1", "title": "First", "published": "2024-03-05 14:07:09", "source": "RSS", "summary": "one"},
	{"id": 2, "link": "/api/files/abc", "title": "Second", "published": "2024-03-04 10:00:00", "source": "PDF(local file)", "summary": ""}
]`

// backend serves body with status on /api/latest and counts requests
func backend(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != LatestPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchSuccessPreservesOrder(t *testing.T) {
	srv, hits := backend(t, http.StatusOK, twoItems)
	f := NewFetcher(5*time.Second, nil)

	items, err := f.Fetch(context.Background(), srv.URL, NoStore())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "L1", items[0].Link)
	assert.Equal(t, "/api/files/abc", items[1].Link)
	assert.Equal(t, "PDF(local file)", items[1].Source)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetchEmptyList(t *testing.T) {
	srv, _ := backend(t, http.StatusOK, `[]`)
	items, err := NewFetcher(5*time.Second, nil).Fetch(context.Background(), srv.URL, NoStore())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestFetchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   FailureKind
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"detail":"boom"}`, kind: FailureStatus},
		{name: "not found", status: http.StatusNotFound, body: ``, kind: FailureStatus},
		{name: "malformed json", status: http.StatusOK, body: `[{"link":`, kind: FailurePayload},
		{name: "object instead of array", status: http.StatusOK, body: `{"link":"L1"}`, kind: FailurePayload},
		{name: "null body", status: http.StatusOK, body: `null`, kind: FailurePayload},
		{name: "missing link", status: http.StatusOK, body: `[{"title":"t","published":"2024-01-01","source":"RSS"}]`, kind: FailurePayload},
		{name: "missing source", status: http.StatusOK, body: `[{"link":"L","published":"2024-01-01"}]`, kind: FailurePayload},
		{name: "bad timestamp", status: http.StatusOK, body: `[{"link":"L","published":"whenever","source":"RSS"}]`, kind: FailurePayload},
		{name: "wrong field type", status: http.StatusOK, body: `[{"link":"L","title":42,"published":"2024-01-01","source":"RSS"}]`, kind: FailurePayload},
		{name: "one bad element spoils the list", status: http.StatusOK, body: `[{"link":"L","published":"2024-01-01","source":"RSS"}, null]`, kind: FailurePayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := backend(t, tt.status, tt.body)
			items, err := NewFetcher(5*time.Second, nil).Fetch(context.Background(), srv.URL, NoStore())

			require.Error(t, err)
			assert.Nil(t, items)
			assert.True(t, errors.Is(err, ErrFetch))

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.kind, fe.Kind)
			assert.Equal(t, srv.URL+LatestPath, fe.Endpoint)
			if tt.kind == FailureStatus {
				assert.Equal(t, tt.status, fe.Status)
			}
			assert.Equal(t, int32(1), atomic.LoadInt32(hits), "no retries")
		})
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(2*time.Second, nil).Fetch(context.Background(), url, NoStore())
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, FailureTransport, fe.Kind)
	assert.ErrorIs(t, err, ErrFetch)
}

func TestFetchNoStoreAlwaysHitsBackend(t *testing.T) {
	srv, hits := backend(t, http.StatusOK, twoItems)
	f := NewFetcher(5*time.Second, cache.NewMemoryStore())

	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), srv.URL, NoStore())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestFetchRevalidateReusesResponse(t *testing.T) {
	srv, hits := backend(t, http.StatusOK, twoItems)
	f := NewFetcher(5*time.Second, cache.NewMemoryStore())
	policy := RevalidateEvery(5 * time.Minute)

	first, err := f.Fetch(context.Background(), srv.URL, policy)
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), srv.URL, policy)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestFetchDoesNotCacheFailures(t *testing.T) {
	srv, hits := backend(t, http.StatusBadGateway, ``)
	f := NewFetcher(5*time.Second, cache.NewMemoryStore())
	policy := RevalidateEvery(time.Minute)

	_, err := f.Fetch(context.Background(), srv.URL, policy)
	require.Error(t, err)
	_, err = f.Fetch(context.Background(), srv.URL, policy)
	require.Error(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestCachePolicy(t *testing.T) {
	assert.False(t, NoStore().Cacheable())
	assert.Equal(t, "no-store", NoStore().String())
	assert.True(t, RevalidateEvery(time.Minute).Cacheable())
	assert.Equal(t, "revalidate=60s", RevalidateEvery(time.Minute).String())
	assert.False(t, RevalidateEvery(-time.Second).Cacheable())
}
