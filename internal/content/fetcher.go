package content

import (
	"context"

	"github.com/dragonflyweb/dragonfly/internal/netfetch"
)

// Fetcher retrieves and parses remote documents and stylesheets through the
// shared fetch client.
type Fetcher struct {
	client *netfetch.Client
}

// NewFetcher creates a fetcher backed by client.
func NewFetcher(client *netfetch.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Document fetches url and parses the response as HTML.
func (f *Fetcher) Document(ctx context.Context, url string) (*Document, error) {
	res, err := f.client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseDocument(url, res.Body)
}

// Stylesheet fetches url and parses the response as CSS.
func (f *Fetcher) Stylesheet(ctx context.Context, url string) (*Stylesheet, error) {
	res, err := f.client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseStylesheet(res.Body)
}

// Bytes fetches url and returns the raw body. Used for icon assets.
func (f *Fetcher) Bytes(ctx context.Context, url string) ([]byte, error) {
	res, err := f.client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}
