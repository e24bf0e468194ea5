// Command dragonfly is a minimal shell around the browser core: it opens a
// tab, navigates to the given URL or path, waits for the page to settle, and
// prints what loaded.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dragonflyweb/dragonfly/internal/browser"
	"github.com/dragonflyweb/dragonfly/internal/cache"
	"github.com/dragonflyweb/dragonfly/internal/content"
	"github.com/dragonflyweb/dragonfly/internal/explorer"
	"github.com/dragonflyweb/dragonfly/internal/infrastructure/config"
	"github.com/dragonflyweb/dragonfly/internal/infrastructure/logging"
	"github.com/dragonflyweb/dragonfly/internal/netfetch"
	"github.com/dragonflyweb/dragonfly/internal/page"
	"github.com/dragonflyweb/dragonfly/internal/resolver"
)

func main() {
	cacheDir := flag.String("cache", "", "icon cache directory (default: user cache dir)")
	timeout := flag.Duration("timeout", 30*time.Second, "navigation timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <url-or-path>\n", os.Args[0])
		os.Exit(2)
	}
	target := flag.Arg(0)

	cfg := config.LoadOrDefault()
	if *cacheDir != "" {
		cfg.Cache.Dir = *cacheDir
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	icons, err := cache.Open(cfg.Cache.Dir)
	if err != nil {
		logger.Fatal("opening icon cache", zap.Error(err))
	}
	defer icons.Close()

	fetcher := content.NewFetcher(netfetch.NewClient(cfg.Fetch))
	res := resolver.New(fetcher, icons, explorer.New(), logger)

	settled := make(chan struct{}, 8)
	b := browser.New(res, func() {
		select {
		case settled <- struct{}{}:
		default:
		}
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	tab := b.OpenTab(ctx, target, true)

	for {
		select {
		case <-settled:
			p := tab.CurrentPage()
			if p == nil || p.Status() == page.StatusLoading {
				continue
			}
			report(p)
			return
		case <-ctx.Done():
			logger.Fatal("navigation timed out", zap.String("url", target))
		}
	}
}

func report(p page.Page) {
	fmt.Printf("%s  [%s]\n", p.Title(), p.Status())

	switch v := p.(type) {
	case *page.Document:
		if v.Stylesheet != nil {
			fmt.Printf("  stylesheet: %d rules\n", len(v.Stylesheet.Rules()))
		}
		if v.Favicon != nil {
			fmt.Printf("  favicon: %s (%s)\n", v.Favicon.Path, v.Favicon.ContentType)
		}
	case *page.Directory:
		for _, e := range v.Entries {
			marker := " "
			if e.IsDir {
				marker = "/"
			}
			fmt.Printf("  %s%s\t%s\n", e.Name, marker, e.Type)
		}
	case *page.Media:
		fmt.Printf("  local media: %s\n", p.URL())
	}
}
