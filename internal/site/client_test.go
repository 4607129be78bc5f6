package site

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"clubarchive/internal/config"
	"clubarchive/internal/logging"
)

func testConfig() config.Config {
	return config.Config{SiteConcurrency: 3, SiteRateLimitRPS: 1000, SiteTimeoutMs: 5000}
}

func newArchiveServer(t *testing.T, flaky *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
<a href="/clubs/181">Chess</a>
<a href="clubs/31/">Archery</a>
<a href="/clubs/181#officers">Chess officers</a>
<a href="https://www.fandm.edu/">F&amp;M</a>
<a href="mailto:jdoe@fandm.edu">mail</a>
<a href="/">Home</a>
<a href="/clubs/9">Gone</a>
</body></html>`)
	})
	mux.HandleFunc("/clubs/181", func(w http.ResponseWriter, r *http.Request) {
		if flaky != nil && flaky.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `<h1 id="club-name">  Chess
  Club </h1>`)
	})
	mux.HandleFunc("/clubs/31/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h1 id="club-name">Archery Society</h1>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCrawl(t *testing.T) {
	var flaky atomic.Int32
	srv := newArchiveServer(t, &flaky)

	checker, err := NewChecker(testConfig(), srv.URL, logging.Nop())
	require.NoError(t, err)

	pages, err := checker.Crawl(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 3)

	require.Equal(t, "/clubs/181", pages[0].Path)
	require.Equal(t, http.StatusOK, pages[0].Status)
	require.Equal(t, "Chess Club", pages[0].ClubName)
	require.EqualValues(t, 2, flaky.Load())

	require.Equal(t, "/clubs/31", pages[1].Path)
	require.Equal(t, "Archery Society", pages[1].ClubName)

	require.Equal(t, "/clubs/9", pages[2].Path)
	require.Equal(t, http.StatusNotFound, pages[2].Status)
}

func TestCrawlTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	checker, err := NewChecker(testConfig(), url, logging.Nop())
	require.NoError(t, err)

	_, err = checker.Crawl(context.Background())
	require.Error(t, err)
}

func TestNewCheckerRejectsRelativeBase(t *testing.T) {
	_, err := NewChecker(testConfig(), "archive/", logging.Nop())
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	pages := []Page{
		{Path: "/clubs/181", Status: 200, ClubName: "Chess Club"},
		{Path: "/clubs/31", Status: 200, ClubName: "Archery Society"},
		{Path: "/clubs/9", Status: 404},
	}
	report := Compare(pages, []Expected{
		{Path: "/clubs/181", Name: "Chess  Club"},
		{Path: "/clubs/31", Name: "Archery"},
		{Path: "/clubs/9", Name: "Gone"},
		{Path: "/clubs/66/", Name: "Rugby"},
	})

	require.False(t, report.OK())
	require.Equal(t, 3, report.Checked)
	require.Equal(t, []string{"/clubs/66"}, report.Missing)
	require.Len(t, report.Broken, 1)
	require.Equal(t, []Mismatch{{Path: "/clubs/31", Want: "Archery", Got: "Archery Society"}}, report.Mismatched)

	require.True(t, Compare(pages[:1], []Expected{{Path: "/clubs/181", Name: "Chess Club"}}).OK())
}
