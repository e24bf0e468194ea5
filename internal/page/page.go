// Package page models one navigation entry: a variant-typed snapshot of what
// is loaded (document, directory listing, or local media) together with a
// loading/error/success status.
//
// Pages are immutable values. Replacing a page's content means constructing a
// new page that carries the same ID; nothing mutates a page after creation.
package page

import (
	"path"
	"strings"

	"github.com/dragonflyweb/dragonfly/internal/cache"
	"github.com/dragonflyweb/dragonfly/internal/content"
	"github.com/dragonflyweb/dragonfly/internal/explorer"
	"github.com/dragonflyweb/dragonfly/internal/shared/id"
)

// Status describes where a page is in its load lifecycle.
type Status int

const (
	// StatusLoading marks the placeholder installed before the pipeline runs.
	StatusLoading Status = iota
	// StatusError marks a terminal page whose load failed; payload is empty
	// and no implicit retry occurs.
	StatusError
	// StatusSuccess marks a terminal page with a fully resolved payload.
	StatusSuccess
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Page is one navigation entry. The interface is closed: the three variants
// in this package are the only implementations.
type Page interface {
	ID() id.PageID
	URL() string
	Status() Status
	// Title derives the user-visible title from the variant's payload.
	Title() string

	variant()
}

type meta struct {
	id     id.PageID
	url    string
	status Status
}

func (m meta) ID() id.PageID  { return m.id }
func (m meta) URL() string    { return m.url }
func (m meta) Status() Status { return m.status }

// Document is a page backed by a fetched remote document, with optional
// secondary resources resolved best-effort.
type Document struct {
	meta
	Doc        *content.Document
	Stylesheet *content.Stylesheet
	Favicon    *cache.Asset
}

func (*Document) variant() {}

// Title returns the document's trimmed title text, falling back to the URL
// while loading, on error, or for untitled documents.
func (p *Document) Title() string {
	if p.Doc != nil {
		if t := p.Doc.Title(); t != "" {
			return t
		}
	}
	return p.url
}

// Directory is a page backed by a local directory listing.
type Directory struct {
	meta
	Entries []explorer.Entry
}

func (*Directory) variant() {}

// Title returns "Index of " plus the listed path.
func (p *Directory) Title() string {
	return "Index of " + p.url
}

// Media is a page backed by a local media file.
type Media struct {
	meta
	Local bool
}

func (*Media) variant() {}

// Title returns the final path segment of the URL.
func (p *Media) Title() string {
	return path.Base(strings.TrimRight(p.url, "/"))
}

// LoadingDocument creates the placeholder installed when navigation to a
// remote URL begins.
func LoadingDocument(pid id.PageID, url string) *Document {
	return &Document{meta: meta{id: pid, url: url, status: StatusLoading}}
}

// NewDocument creates a settled document page. Stylesheet and favicon are
// optional; their absence does not affect the success status.
func NewDocument(pid id.PageID, url string, doc *content.Document, sheet *content.Stylesheet, favicon *cache.Asset) *Document {
	return &Document{
		meta:       meta{id: pid, url: url, status: StatusSuccess},
		Doc:        doc,
		Stylesheet: sheet,
		Favicon:    favicon,
	}
}

// ErrorDocument creates a terminal document page whose load failed.
func ErrorDocument(pid id.PageID, url string) *Document {
	return &Document{meta: meta{id: pid, url: url, status: StatusError}}
}

// LoadingDirectory creates the placeholder installed when navigation to a
// local path begins.
func LoadingDirectory(pid id.PageID, url string) *Directory {
	return &Directory{meta: meta{id: pid, url: url, status: StatusLoading}}
}

// NewDirectory creates a settled directory page.
func NewDirectory(pid id.PageID, url string, entries []explorer.Entry) *Directory {
	return &Directory{
		meta:    meta{id: pid, url: url, status: StatusSuccess},
		Entries: entries,
	}
}

// NewMedia creates a settled media page.
func NewMedia(pid id.PageID, url string, local bool) *Media {
	return &Media{
		meta:  meta{id: pid, url: url, status: StatusSuccess},
		Local: local,
	}
}
