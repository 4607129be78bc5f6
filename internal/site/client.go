// Package site checks a published archive against the snapshot.
package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"clubarchive/internal/config"
	"clubarchive/internal/util"
)

const maxAttempts = 5

// Page is one crawled archive page. ClubName is the text of #club-name and
// is empty on pages without one.
type Page struct {
	Path     string
	URL      string
	Status   int
	ClubName string
}

type Checker struct {
	base        *url.URL
	concurrency int
	httpClient  *http.Client
	limiter     *RateLimiter
	log         zerolog.Logger
}

func NewChecker(cfg config.Config, baseURL string, log zerolog.Logger) (*Checker, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = cfg.SiteBaseURL
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}

	concurrency := cfg.SiteConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	timeout := time.Duration(cfg.SiteTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Checker{
		base:        base,
		concurrency: concurrency,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     NewRateLimiter(cfg.SiteRateLimitRPS),
		log:         log,
	}, nil
}

// Crawl fetches the index, then every internal page it links to. The first
// transport failure cancels the remaining requests and is returned.
func (c *Checker) Crawl(ctx context.Context) ([]Page, error) {
	status, body, err := c.fetch(ctx, c.base.String())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("index %s: status %d", c.base, status)
	}

	links, err := c.internalLinks(body)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Int("links", len(links)).Msg("index crawled")

	pages := make([]Page, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			page, err := c.checkPage(gctx, link)
			if err != nil {
				return err
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

func (c *Checker) checkPage(ctx context.Context, link *url.URL) (Page, error) {
	page := Page{Path: pagePath(link), URL: link.String()}

	status, body, err := c.fetch(ctx, page.URL)
	if err != nil {
		return page, err
	}
	page.Status = status
	if status != http.StatusOK {
		c.log.Warn().Str("url", page.URL).Int("status", status).Msg("page not ok")
		return page, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return page, fmt.Errorf("parse %s: %w", page.URL, err)
	}
	page.ClubName = util.NormalizeSpaces(doc.Find("#club-name").First().Text())
	return page, nil
}

// internalLinks resolves every <a href> of the index against the base and
// keeps the same-host links other than the index itself, sorted by path.
func (c *Checker) internalLinks(body []byte) ([]*url.URL, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	basePath := pagePath(c.base)
	seen := map[string]struct{}{}
	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		u := c.base.ResolveReference(ref)
		if u.Host != c.base.Host || (u.Scheme != "http" && u.Scheme != "https") {
			return
		}
		u.Fragment = ""
		u.RawQuery = ""
		p := pagePath(u)
		if p == basePath {
			return
		}
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		links = append(links, u)
	})

	slices.SortFunc(links, func(a, b *url.URL) int {
		return strings.Compare(pagePath(a), pagePath(b))
	})
	return links, nil
}

func (c *Checker) fetch(ctx context.Context, target string) (int, []byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return 0, nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Accept", "text/html")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, fmt.Errorf("get %s: %w", target, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if isRetryableStatus(resp.StatusCode) && attempt < maxAttempts {
			backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}
		return resp.StatusCode, body, nil
	}
	return 0, nil, fmt.Errorf("get %s: %w", target, lastErr)
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func pagePath(u *url.URL) string {
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return "/"
	}
	return p
}
