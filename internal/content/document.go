// Package content turns fetched bytes into parsed document and stylesheet
// handles, and exposes the narrow queries the resolver needs (title, first
// stylesheet link, first icon link).
package content

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML document bound to the URL it was fetched from.
type Document struct {
	base *url.URL
	doc  *goquery.Document
}

// ParseDocument parses body as HTML rooted at rawURL.
func ParseDocument(rawURL string, body []byte) (*Document, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid document URL %q: %w", rawURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	if doc.Find("html").Length() == 0 {
		return nil, fmt.Errorf("parse %s: no document found", rawURL)
	}

	return &Document{base: base, doc: doc}, nil
}

// URL returns the document's base URL.
func (d *Document) URL() *url.URL {
	return d.base
}

// Title returns the trimmed text of the document's title element.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// StylesheetRef returns the href of the first linked stylesheet, if any.
func (d *Document) StylesheetRef() (string, bool) {
	return d.firstHref("link[rel='stylesheet']")
}

// IconRef returns the href of the first rel="icon" link, if any.
func (d *Document) IconRef() (string, bool) {
	return d.firstHref("link[rel='icon']")
}

func (d *Document) firstHref(selector string) (string, bool) {
	href, ok := d.doc.Find(selector).First().Attr("href")
	if !ok || href == "" {
		return "", false
	}
	return href, true
}

// Find exposes the underlying goquery selection for callers that need more
// than the canned queries.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}
