// Package resolver turns a requested URL into a terminal page. It classifies
// the URL (remote document, local directory listing, local media), drives the
// fetch pipeline for each class, and coordinates the icon cache.
//
// Failures never escape as errors: a failed primary fetch settles the page at
// StatusError, and secondary-resource failures (stylesheet, icon) degrade to
// nil fields on an otherwise successful page. Failure detail is logged only.
package resolver

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/dragonflyweb/dragonfly/internal/cache"
	"github.com/dragonflyweb/dragonfly/internal/content"
	"github.com/dragonflyweb/dragonfly/internal/explorer"
	"github.com/dragonflyweb/dragonfly/internal/infrastructure/logging"
	"github.com/dragonflyweb/dragonfly/internal/page"
	"github.com/dragonflyweb/dragonfly/internal/shared/id"
)

// Class is the resource class a URL dispatches to.
type Class int

const (
	// ClassDocument is a remote document fetched over HTTP(S).
	ClassDocument Class = iota
	// ClassDirectory is a local path with no filesystem entry, served as a
	// directory listing.
	ClassDirectory
	// ClassMedia is a local path with an existing filesystem entry.
	ClassMedia
)

// Fetcher retrieves and parses remote resources.
type Fetcher interface {
	Document(ctx context.Context, url string) (*content.Document, error)
	Stylesheet(ctx context.Context, url string) (*content.Stylesheet, error)
	Bytes(ctx context.Context, url string) ([]byte, error)
}

// IconCache is the cache collaborator for auxiliary assets.
type IconCache interface {
	Lookup(ctx context.Context, url string) (*cache.Asset, error)
	Store(ctx context.Context, url string, data []byte) (*cache.Asset, error)
	RegisterMetadata(ctx context.Context, asset *cache.Asset) error
}

// Filesystem answers existence checks and directory exploration for local
// paths.
type Filesystem interface {
	Exists(path string) bool
	Explore(ctx context.Context, path string) []explorer.Entry
}

// Resolver dispatches URLs to their fetch pipelines.
type Resolver struct {
	fetch Fetcher
	icons IconCache
	fs    Filesystem
	log   *logging.Logger
}

// New creates a resolver from its collaborators.
func New(fetch Fetcher, icons IconCache, fs Filesystem, log *logging.Logger) *Resolver {
	if log == nil {
		log = logging.NewNop()
	}
	return &Resolver{fetch: fetch, icons: icons, fs: fs, log: log}
}

// IsRemote reports whether rawURL names a remote document. This is the one
// scheme predicate shared by navigation and refresh.
func IsRemote(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Classify maps rawURL to its resource class.
func (r *Resolver) Classify(rawURL string) Class {
	if IsRemote(rawURL) {
		return ClassDocument
	}
	if r.fs.Exists(rawURL) {
		return ClassMedia
	}
	return ClassDirectory
}

// Placeholder builds the Loading page installed synchronously when
// navigation begins. The variant shape is guessed from the scheme alone;
// classification proper happens in Resolve.
func Placeholder(pid id.PageID, rawURL string) page.Page {
	if IsRemote(rawURL) {
		return page.LoadingDocument(pid, rawURL)
	}
	return page.LoadingDirectory(pid, rawURL)
}

// Resolve produces the terminal page for rawURL, reusing pid so the settled
// page takes over the placeholder's identity.
func (r *Resolver) Resolve(ctx context.Context, pid id.PageID, rawURL string) page.Page {
	switch r.Classify(rawURL) {
	case ClassDocument:
		return r.resolveDocument(ctx, pid, rawURL)
	case ClassMedia:
		return page.NewMedia(pid, rawURL, true)
	default:
		return page.NewDirectory(pid, rawURL, r.fs.Explore(ctx, rawURL))
	}
}

func (r *Resolver) resolveDocument(ctx context.Context, pid id.PageID, rawURL string) page.Page {
	doc, err := r.fetch.Document(ctx, rawURL)
	if err != nil {
		r.log.Warn("document fetch failed", zap.String("url", rawURL), zap.Error(err))
		return page.ErrorDocument(pid, rawURL)
	}

	var sheet *content.Stylesheet
	if ref, ok := doc.StylesheetRef(); ok {
		sheetURL := resolveRef(doc.URL(), ref)
		sheet, err = r.fetch.Stylesheet(ctx, sheetURL)
		if err != nil {
			r.log.Warn("stylesheet fetch failed", zap.String("url", sheetURL), zap.Error(err))
			sheet = nil
		}
	}

	var favicon *cache.Asset
	if ref, ok := doc.IconRef(); ok {
		favicon = r.resolveIcon(ctx, resolveRef(doc.URL(), ref))
	}

	return page.NewDocument(pid, rawURL, doc, sheet, favicon)
}

// resolveIcon returns the cached asset for iconURL, fetching and storing it
// on a miss. Any failure yields nil; the document load proceeds without an
// icon.
func (r *Resolver) resolveIcon(ctx context.Context, iconURL string) *cache.Asset {
	cached, err := r.icons.Lookup(ctx, iconURL)
	if err != nil {
		r.log.Warn("icon cache lookup failed", zap.String("url", iconURL), zap.Error(err))
	} else if cached != nil {
		return cached
	}

	data, err := r.fetch.Bytes(ctx, iconURL)
	if err != nil {
		r.log.Warn("icon fetch failed", zap.String("url", iconURL), zap.Error(err))
		return nil
	}

	asset, err := r.icons.Store(ctx, iconURL, data)
	if err != nil {
		r.log.Warn("icon store failed", zap.String("url", iconURL), zap.Error(err))
		return nil
	}
	if err := r.icons.RegisterMetadata(ctx, asset); err != nil {
		r.log.Warn("icon metadata registration failed", zap.String("url", iconURL), zap.Error(err))
	}
	return asset
}

// resolveRef resolves a stylesheet or icon reference against the document
// URL: absolute URLs pass through, and any other reference replaces the
// document URL's path wholesale while keeping its authority.
func resolveRef(base *url.URL, ref string) string {
	if parsed, err := url.Parse(ref); err == nil && parsed.IsAbs() {
		return ref
	}
	u := *base
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	u.Path = ref
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
