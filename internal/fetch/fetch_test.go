package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DawsonJay/jam-hot-project/internal/config"
	"github.com/DawsonJay/jam-hot-project/internal/domain"
	"github.com/DawsonJay/jam-hot-project/internal/fetch"
	"github.com/DawsonJay/jam-hot-project/internal/logger"
)

func testScraperConfig() config.Scraper {
	return config.Scraper{
		RateLimit:           10 * time.Millisecond,
		RequestTimeout:      5 * time.Second,
		UserAgent:           "jam-hot-test",
		MaxRecipesPerSource: 10,
	}
}

func TestLightweightFetch(t *testing.T) {
	t.Parallel()

	var gotAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent.Store(r.UserAgent())
		w.Write([]byte("<html><body><h1>Strawberry Jam</h1></body></html>"))
	}))
	defer srv.Close()

	light := fetch.NewLightweight(testScraperConfig())

	body, err := light.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "Strawberry Jam")
	assert.Equal(t, "jam-hot-test", gotAgent.Load())
}

func TestLightweightFetchRepeatedURL(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	light := fetch.NewLightweight(testScraperConfig())

	for range 3 {
		_, err := light.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), hits.Load())
}

func TestLightweightFetchServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	light := fetch.NewLightweight(testScraperConfig())

	_, err := light.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestLightweightFetchCancelledContext(t *testing.T) {
	t.Parallel()

	light := fetch.NewLightweight(testScraperConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := light.Fetch(ctx, "http://localhost:1/never")
	require.ErrorIs(t, err, context.Canceled)
}

func TestDispatcherRoutesLightweight(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>lightweight</html>"))
	}))
	defer srv.Close()

	d := fetch.NewDispatcher(testScraperConfig(), config.Browser{}, logger.NewNoOp())
	defer d.Close()

	body, err := d.Fetch(context.Background(), fetch.Request{
		URL:  srv.URL,
		Mode: domain.FetchModeLightweight,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "lightweight")
}

func TestDispatcherUnknownMode(t *testing.T) {
	t.Parallel()

	d := fetch.NewDispatcher(testScraperConfig(), config.Browser{}, logger.NewNoOp())
	defer d.Close()

	_, err := d.Fetch(context.Background(), fetch.Request{
		URL:  "http://example.com",
		Mode: domain.FetchMode("teleport"),
	})
	require.ErrorIs(t, err, fetch.ErrUnknownFetchMode)
}

func TestDispatcherCloseWithoutRenderedEngine(t *testing.T) {
	t.Parallel()

	d := fetch.NewDispatcher(testScraperConfig(), config.Browser{}, logger.NewNoOp())
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
}
