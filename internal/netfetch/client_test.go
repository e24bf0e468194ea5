package netfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragonflyweb/dragonfly/internal/infrastructure/config"
)

func testClient() *Client {
	return NewClient(config.FetchConfig{
		UserAgent: "DragonFly/1.0",
		Timeout:   5 * time.Second,
	})
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	res, err := testClient().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "DragonFly/1.0", gotUA)
	assert.Equal(t, "text/html", res.ContentType)
	assert.Equal(t, []byte("<html></html>"), res.Body)
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestBreakerTripsAfterConsecutiveFailures(t *testing.T) {
	b := newBreaker(3, time.Minute)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.allow())
		b.record(false)
	}
	assert.ErrorIs(t, b.allow(), ErrCircuitOpen)
}

func TestBreakerRecoversAfterCooldown(t *testing.T) {
	b := newBreaker(1, 10*time.Millisecond)
	require.NoError(t, b.allow())
	b.record(false)
	assert.ErrorIs(t, b.allow(), ErrCircuitOpen)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, b.allow()) // half-open probe
	b.record(true)
	assert.NoError(t, b.allow())
}

func TestBreakerResetOnSuccess(t *testing.T) {
	b := newBreaker(3, time.Minute)
	require.NoError(t, b.allow())
	b.record(false)
	require.NoError(t, b.allow())
	b.record(true)
	// Failure count restarts after a success.
	for i := 0; i < 2; i++ {
		require.NoError(t, b.allow())
		b.record(false)
	}
	assert.NoError(t, b.allow())
}
