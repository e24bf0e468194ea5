// Package browser holds the navigation state machine: tabs with ordered page
// histories, and the browser that owns them.
package browser

import (
	"context"
	"sync"

	"github.com/dragonflyweb/dragonfly/internal/page"
	"github.com/dragonflyweb/dragonfly/internal/resolver"
	"github.com/dragonflyweb/dragonfly/internal/shared/id"
)

// Resolver produces the terminal page for a URL. The production
// implementation is *resolver.Resolver; tests substitute fakes.
type Resolver interface {
	Resolve(ctx context.Context, pid id.PageID, url string) page.Page
}

// Tab is one independent navigation history: an ordered sequence of pages
// and a cursor. Back and forward only move the cursor; the only operation
// that removes entries is the forward-history truncation in NavigateTo.
type Tab struct {
	id       id.TabID
	resolver Resolver
	notify   func()

	mu      sync.Mutex
	history []page.Page
	current int
	epoch   uint64
}

func newTab(res Resolver, notify func()) *Tab {
	if notify == nil {
		notify = func() {}
	}
	return &Tab{
		id:       id.NewTab(),
		resolver: res,
		notify:   notify,
		current:  -1,
	}
}

// ID returns the tab's stable identifier.
func (t *Tab) ID() id.TabID {
	return t.id
}

// CurrentPage returns the page under the cursor, or nil before any
// navigation.
func (t *Tab) CurrentPage() page.Page {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current < 0 {
		return nil
	}
	return t.history[t.current]
}

// History returns a snapshot of the tab's page history.
func (t *Tab) History() []page.Page {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]page.Page, len(t.history))
	copy(out, t.history)
	return out
}

// CurrentIndex returns the cursor position (-1 before any navigation).
func (t *Tab) CurrentIndex() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// NavigateTo discards forward history, installs a Loading placeholder at the
// new cursor position, and resolves the URL asynchronously. One notification
// fires when the placeholder is visible and another when the terminal page
// replaces it. A settlement that arrives after a newer navigation or refresh
// has taken the slot is discarded.
func (t *Tab) NavigateTo(ctx context.Context, url string) {
	pid := id.NewPage()

	t.mu.Lock()
	t.history = append(t.history[:t.current+1], resolver.Placeholder(pid, url))
	t.current++
	idx := t.current
	t.epoch++
	epoch := t.epoch
	t.mu.Unlock()

	t.notify()
	go t.settle(ctx, epoch, idx, pid, url)
}

// Refresh re-resolves the current page's URL in place. History length and
// cursor are untouched; the slot gets a fresh page identity. No-op on a tab
// with no history.
func (t *Tab) Refresh(ctx context.Context) {
	pid := id.NewPage()

	t.mu.Lock()
	if t.current < 0 {
		t.mu.Unlock()
		return
	}
	url := t.history[t.current].URL()
	idx := t.current
	t.history[idx] = resolver.Placeholder(pid, url)
	t.epoch++
	epoch := t.epoch
	t.mu.Unlock()

	t.notify()
	go t.settle(ctx, epoch, idx, pid, url)
}

// settle runs the resolver pipeline and writes the terminal page back into
// its slot, unless a newer navigation superseded it.
func (t *Tab) settle(ctx context.Context, epoch uint64, idx int, pid id.PageID, url string) {
	settled := t.resolver.Resolve(ctx, pid, url)

	t.mu.Lock()
	stale := t.epoch != epoch || idx >= len(t.history) || t.history[idx].ID() != pid
	if !stale {
		t.history[idx] = settled
	}
	t.mu.Unlock()

	if !stale {
		t.notify()
	}
}

// CanGoBack reports whether a previous history entry exists.
func (t *Tab) CanGoBack() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current > 0
}

// CanGoForward reports whether a later history entry exists.
func (t *Tab) CanGoForward() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current < len(t.history)-1
}

// Back moves the cursor one entry back. No-op at the start of history.
func (t *Tab) Back() {
	t.mu.Lock()
	moved := t.current > 0
	if moved {
		t.current--
	}
	t.mu.Unlock()
	if moved {
		t.notify()
	}
}

// Forward moves the cursor one entry forward. No-op at the end of history.
func (t *Tab) Forward() {
	t.mu.Lock()
	moved := t.current < len(t.history)-1
	if moved {
		t.current++
	}
	t.mu.Unlock()
	if moved {
		t.notify()
	}
}
