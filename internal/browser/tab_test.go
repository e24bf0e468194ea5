package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dragonflyweb/dragonfly/internal/page"
	"github.com/dragonflyweb/dragonfly/internal/resolver"
	"github.com/dragonflyweb/dragonfly/internal/shared/id"
)

// fakeResolver settles every URL as a terminal page. When gate is non-nil
// each Resolve blocks until the test sends a release.
type fakeResolver struct {
	gate chan struct{}
}

func (f *fakeResolver) Resolve(ctx context.Context, pid id.PageID, url string) page.Page {
	if f.gate != nil {
		<-f.gate
	}
	if resolver.IsRemote(url) {
		return page.ErrorDocument(pid, url)
	}
	return page.NewDirectory(pid, url, nil)
}

func waitSettled(t *testing.T, tab *Tab) page.Page {
	t.Helper()
	require.Eventually(t, func() bool {
		p := tab.CurrentPage()
		return p != nil && p.Status() != page.StatusLoading
	}, 2*time.Second, time.Millisecond)
	return tab.CurrentPage()
}

func newTestTab(res Resolver) *Tab {
	return newTab(res, nil)
}

func TestFreshTab(t *testing.T) {
	tab := newTestTab(&fakeResolver{})
	assert.Equal(t, -1, tab.CurrentIndex())
	assert.Nil(t, tab.CurrentPage())
	assert.False(t, tab.CanGoBack())
	assert.False(t, tab.CanGoForward())
}

func TestNavigateKeepsCursorAtEnd(t *testing.T) {
	tab := newTestTab(&fakeResolver{})
	ctx := context.Background()

	for i, url := range []string{"/a", "/b", "/c"} {
		tab.NavigateTo(ctx, url)
		assert.Equal(t, i+1, len(tab.History()))
		assert.Equal(t, i, tab.CurrentIndex())
	}
}

func TestNavigateInstallsLoadingPlaceholderFirst(t *testing.T) {
	gate := make(chan struct{})
	tab := newTestTab(&fakeResolver{gate: gate})

	tab.NavigateTo(context.Background(), "https://example.com")
	p := tab.CurrentPage()
	require.NotNil(t, p)
	assert.Equal(t, page.StatusLoading, p.Status())
	_, isDoc := p.(*page.Document)
	assert.True(t, isDoc, "http URL gets a document-shaped placeholder")

	gate <- struct{}{}
	settled := waitSettled(t, tab)
	assert.Equal(t, p.ID(), settled.ID(), "terminal page takes over the placeholder's id")
	assert.Equal(t, page.StatusError, settled.Status())
}

func TestNavigateTruncatesForwardHistory(t *testing.T) {
	tab := newTestTab(&fakeResolver{})
	ctx := context.Background()

	tab.NavigateTo(ctx, "/a")
	tab.NavigateTo(ctx, "/b")
	tab.NavigateTo(ctx, "/c")
	tab.Back()
	tab.Back()
	require.Equal(t, 0, tab.CurrentIndex())

	tab.NavigateTo(ctx, "/d")
	history := tab.History()
	require.Len(t, history, 2)
	assert.Equal(t, "/a", history[0].URL())
	assert.Equal(t, "/d", history[1].URL())
	assert.Equal(t, 1, tab.CurrentIndex())
}

func TestBackForwardRoundTrip(t *testing.T) {
	tab := newTestTab(&fakeResolver{})
	ctx := context.Background()

	tab.NavigateTo(ctx, "/a")
	tab.NavigateTo(ctx, "/b")
	before := tab.History()

	tab.Back()
	assert.Equal(t, 0, tab.CurrentIndex())
	tab.Forward()
	assert.Equal(t, 1, tab.CurrentIndex())

	after := tab.History()
	require.Equal(t, len(before), len(after))
	for i := range before {
		assert.Equal(t, before[i].ID(), after[i].ID())
	}
}

func TestBackForwardBoundaries(t *testing.T) {
	tab := newTestTab(&fakeResolver{})
	ctx := context.Background()

	tab.NavigateTo(ctx, "/a")
	assert.False(t, tab.CanGoBack())
	assert.False(t, tab.CanGoForward())
	tab.Back() // no-op
	assert.Equal(t, 0, tab.CurrentIndex())
	tab.Forward() // no-op
	assert.Equal(t, 0, tab.CurrentIndex())

	tab.NavigateTo(ctx, "/b")
	assert.True(t, tab.CanGoBack())
	assert.False(t, tab.CanGoForward())
	tab.Back()
	assert.True(t, tab.CanGoForward())
	assert.False(t, tab.CanGoBack())
}

func TestRefreshReplacesInPlace(t *testing.T) {
	tab := newTestTab(&fakeResolver{})
	ctx := context.Background()

	tab.NavigateTo(ctx, "/a")
	tab.NavigateTo(ctx, "/b")
	settled := waitSettled(t, tab)

	tab.Refresh(ctx)
	refreshed := waitSettled(t, tab)

	assert.Equal(t, 2, len(tab.History()))
	assert.Equal(t, 1, tab.CurrentIndex())
	assert.Equal(t, "/b", refreshed.URL())
	assert.NotEqual(t, settled.ID(), refreshed.ID(), "refresh substitutes a fresh page value")
}

func TestRefreshEmptyTabIsNoop(t *testing.T) {
	notified := 0
	tab := newTab(&fakeResolver{}, func() { notified++ })
	tab.Refresh(context.Background())
	assert.Equal(t, -1, tab.CurrentIndex())
	assert.Zero(t, notified)
}

// gatedResolver blocks settlement per URL so tests control pipeline order.
type gatedResolver struct {
	gates map[string]chan struct{}
}

func (g *gatedResolver) Resolve(ctx context.Context, pid id.PageID, url string) page.Page {
	if ch := g.gates[url]; ch != nil {
		<-ch
	}
	return page.ErrorDocument(pid, url)
}

func TestStaleSettlementDiscarded(t *testing.T) {
	stale := make(chan struct{})
	tab := newTestTab(&gatedResolver{gates: map[string]chan struct{}{
		"https://stale.example.com": stale,
	}})
	ctx := context.Background()

	tab.NavigateTo(ctx, "https://stale.example.com")
	tab.NavigateTo(ctx, "https://fresh.example.com")
	settled := waitSettled(t, tab)
	assert.Equal(t, "https://fresh.example.com", settled.URL())

	// Release the superseded pipeline; its result must be dropped, leaving
	// the first slot on its placeholder.
	close(stale)
	time.Sleep(20 * time.Millisecond)

	history := tab.History()
	require.Len(t, history, 2)
	assert.Equal(t, page.StatusLoading, history[0].Status())
	assert.Equal(t, page.StatusError, history[1].Status())
}

func TestNavigationNotifiesTwice(t *testing.T) {
	notify := make(chan struct{}, 16)
	tab := newTab(&fakeResolver{}, func() { notify <- struct{}{} })

	tab.NavigateTo(context.Background(), "/a")
	for i := 0; i < 2; i++ {
		select {
		case <-notify:
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 2 notifications, got %d", i)
		}
	}
	select {
	case <-notify:
		t.Fatal("unexpected third notification")
	case <-time.After(50 * time.Millisecond):
	}
}
