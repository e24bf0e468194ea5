// Package id provides prefixed ULID generation for browser entities.
//
// ULIDs are lexicographically sortable, so page and tab identifiers order by
// creation time without carrying a separate timestamp. Prefixes (page_*, tab_*)
// keep log lines readable and prevent one kind of ID being passed where the
// other is expected.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// PageID identifies one navigation entry. Assigned at page creation and
// retained across in-place replacement of the page's content.
type PageID string

// TabID identifies one tab within a browser.
type TabID string

const (
	pagePrefix = "page_"
	tabPrefix  = "tab_"
)

// Generator produces ULIDs from a guarded entropy source.
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

var defaultGen = NewGenerator(rand.Reader)

// NewGenerator creates a generator reading entropy from r. Tests can pass a
// deterministic reader.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{entropy: r}
}

func (g *Generator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

// Page returns a fresh page identifier.
func (g *Generator) Page() PageID {
	return PageID(pagePrefix + g.next())
}

// Tab returns a fresh tab identifier.
func (g *Generator) Tab() TabID {
	return TabID(tabPrefix + g.next())
}

// NewPage returns a fresh page identifier from the default generator.
func NewPage() PageID { return defaultGen.Page() }

// NewTab returns a fresh tab identifier from the default generator.
func NewTab() TabID { return defaultGen.Tab() }
