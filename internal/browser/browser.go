package browser

import (
	"context"
	"sync"

	"github.com/dragonflyweb/dragonfly/internal/infrastructure/logging"
	"github.com/dragonflyweb/dragonfly/internal/page"
	"github.com/dragonflyweb/dragonfly/internal/shared/id"
)

// Browser owns a collection of tabs and the identity of the active one. A
// single change-notification callback, supplied at construction, fires after
// every observable mutation so a presentation layer can re-render.
type Browser struct {
	resolver Resolver
	onChange func()
	log      *logging.Logger

	mu       sync.RWMutex
	tabs     []*Tab
	activeID id.TabID // empty when no tab is active
}

// New creates a browser. onChange may be nil for headless use.
func New(res Resolver, onChange func(), log *logging.Logger) *Browser {
	if onChange == nil {
		onChange = func() {}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Browser{resolver: res, onChange: onChange, log: log}
}

// OpenTab creates a tab, optionally starts navigating it to url, and
// optionally makes it active. Navigation is fire-and-continue: OpenTab
// returns once the Loading placeholder is installed, not when it settles.
func (b *Browser) OpenTab(ctx context.Context, url string, switchTo bool) *Tab {
	tab := newTab(b.resolver, b.onChange)

	b.mu.Lock()
	b.tabs = append(b.tabs, tab)
	if switchTo {
		b.activeID = tab.ID()
	}
	b.mu.Unlock()
	b.onChange()

	if url != "" {
		tab.NavigateTo(ctx, url)
	}
	return tab
}

// CloseTab removes the tab with the given identifier. When the active tab is
// closed, the tab preceding it in the collection becomes active; closing the
// first tab falls back to the new first tab, and closing the last remaining
// tab leaves no tab active.
func (b *Browser) CloseTab(tid id.TabID) bool {
	b.mu.Lock()
	idx := -1
	for i, t := range b.tabs {
		if t.ID() == tid {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return false
	}

	b.tabs = append(b.tabs[:idx], b.tabs[idx+1:]...)
	if b.activeID == tid {
		if len(b.tabs) == 0 {
			b.activeID = ""
		} else {
			succ := idx - 1
			if succ < 0 {
				succ = 0
			}
			b.activeID = b.tabs[succ].ID()
		}
	}
	b.mu.Unlock()

	b.onChange()
	return true
}

// CloseCurrentTab closes the active tab, if any.
func (b *Browser) CloseCurrentTab() bool {
	b.mu.RLock()
	active := b.activeID
	b.mu.RUnlock()
	if active == "" {
		return false
	}
	return b.CloseTab(active)
}

// SwitchTo makes the tab with the given identifier active. Callers pass an
// identifier of a tab they obtained from this browser.
func (b *Browser) SwitchTo(tid id.TabID) {
	b.mu.Lock()
	b.activeID = tid
	b.mu.Unlock()
	b.onChange()
}

// ActiveTab returns the active tab, or nil when none is active.
func (b *Browser) ActiveTab() *Tab {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.tabs {
		if t.ID() == b.activeID {
			return t
		}
	}
	return nil
}

// ActiveTabID returns the active tab's identifier, or "" when none.
func (b *Browser) ActiveTabID() id.TabID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.activeID
}

// Tabs returns a snapshot of the tab collection in order.
func (b *Browser) Tabs() []*Tab {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Tab, len(b.tabs))
	copy(out, b.tabs)
	return out
}

// CurrentPage returns the active tab's current page, or nil.
func (b *Browser) CurrentPage() page.Page {
	tab := b.ActiveTab()
	if tab == nil {
		return nil
	}
	return tab.CurrentPage()
}
