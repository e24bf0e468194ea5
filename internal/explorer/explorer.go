// Package explorer lists and walks local filesystem paths for the
// directory-page pipeline.
package explorer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
)

// Entry describes one item in a directory listing.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
	Type  string // MIME type for files, "inode/directory" for directories
}

// Explorer resolves local paths into directory listings.
type Explorer struct{}

// New creates an explorer.
func New() *Explorer {
	return &Explorer{}
}

// Exists reports whether a filesystem entry exists at path.
func (e *Explorer) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Explore returns the ordered entries of the directory at path. A missing or
// unreadable directory yields an empty listing rather than an error; the
// page-level status stays Success per the navigation model.
func (e *Explorer) Explore(ctx context.Context, path string) []Entry {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		select {
		case <-ctx.Done():
			return entries
		default:
		}

		full := filepath.Join(path, d.Name())
		entry := Entry{
			Name:  d.Name(),
			Path:  full,
			IsDir: d.IsDir(),
		}
		if d.IsDir() {
			entry.Type = "inode/directory"
		} else {
			if info, err := d.Info(); err == nil {
				entry.Size = info.Size()
			}
			entry.Type = detectType(full)
		}
		entries = append(entries, entry)
	}
	return entries
}

// Walk returns all entries under root up to maxDepth levels deep
// (0 = unlimited), skipping unreadable subtrees. Results are ordered by path;
// fastwalk visits concurrently, so the collection is guarded.
func (e *Explorer) Walk(ctx context.Context, root string, maxDepth int) []Entry {
	var (
		mu      sync.Mutex
		entries []Entry
	)
	conf := fastwalk.Config{Follow: false}

	_ = fastwalk.Walk(&conf, root, func(path string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil || path == root {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		depth := len(strings.Split(rel, string(os.PathSeparator))) - 1
		if maxDepth > 0 && depth >= maxDepth {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		entry := Entry{Name: d.Name(), Path: path, IsDir: d.IsDir()}
		if d.IsDir() {
			entry.Type = "inode/directory"
		} else {
			if info, ierr := d.Info(); ierr == nil {
				entry.Size = info.Size()
			}
			entry.Type = detectType(path)
		}
		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()
		return nil
	})

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries
}

func detectType(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
