package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/siteaudit"
	siteaudithttp "github.com/fwojciec/siteaudit/http"
	"github.com/fwojciec/siteaudit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns extracted page for HTML response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, siteaudithttp.DefaultUserAgent, r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Strict-Transport-Security", "max-age=63072000")
			w.Header().Set("X-Frame-Options", "DENY")
			_, _ = w.Write([]byte("<html><head><title>Hello</title></head><body>Hello World</body></html>"))
		}))
		defer server.Close()

		var gotHTML, gotBase string
		fetcher := newFetcher(func(html, baseURL string) (*siteaudit.PageRecord, error) {
			gotHTML, gotBase = html, baseURL
			page := siteaudit.NewEmptyPage(baseURL)
			page.Title = "Hello"
			return page, nil
		})

		page := fetcher.Fetch(context.Background(), server.URL+"/", nil)

		require.NotNil(t, page)
		assert.False(t, page.Failed())
		assert.Equal(t, server.URL+"/", page.URL)
		assert.Equal(t, http.StatusOK, page.StatusCode)
		assert.Equal(t, "Hello", page.Title)
		assert.Contains(t, gotHTML, "Hello World")
		assert.Equal(t, server.URL+"/", gotBase)
		assert.Equal(t, 2, page.Security.SecurityHeaders)
		assert.Equal(t, gotHTML, page.RawHTML)
		assert.False(t, page.HasHTTPS)
		assert.False(t, page.Rendered)
		assert.Empty(t, page.FinalURL)
		assert.Positive(t, page.PageLoadSpeed.SizeBytes)
	})

	t.Run("invalid URL yields status -1", func(t *testing.T) {
		t.Parallel()

		fetcher := newFetcher(nil)
		page := fetcher.Fetch(context.Background(), "ftp://example.com", nil)

		require.NotNil(t, page)
		assert.True(t, page.Failed())
		assert.Equal(t, -1, page.StatusCode)
	})

	t.Run("DNS failure yields DNS Error without HTTP attempt", func(t *testing.T) {
		t.Parallel()

		var lookups atomic.Int32
		resolver := &mock.Resolver{
			LookupHostFn: func(_ context.Context, host string) ([]string, error) {
				lookups.Add(1)
				return nil, errors.New("no such host")
			},
		}
		fetcher := siteaudithttp.NewFetcher(nil,
			siteaudithttp.WithResolver(resolver),
			siteaudithttp.WithDelay(0),
		)
		cache := newMapCache()

		page := fetcher.Fetch(context.Background(), "https://no-such-host.example/", cache)
		assert.Equal(t, "DNS Error", page.Title)
		assert.Equal(t, 0, page.StatusCode)
		assert.True(t, page.Failed())

		// Second fetch on the same host is answered from the cache.
		page = fetcher.Fetch(context.Background(), "https://no-such-host.example/other", cache)
		assert.Equal(t, "DNS Error", page.Title)
		assert.Equal(t, int32(1), lookups.Load())
	})

	t.Run("non-200 status yields error page with status text", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		fetcher := newFetcher(nil)
		page := fetcher.Fetch(context.Background(), server.URL+"/missing", nil)

		assert.True(t, page.Failed())
		assert.Equal(t, http.StatusNotFound, page.StatusCode)
		assert.Equal(t, "404 Not Found", page.Title)
	})

	t.Run("server errors are reported, not thrown", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		fetcher := newFetcher(nil)
		page := fetcher.Fetch(context.Background(), server.URL, nil)

		assert.Equal(t, http.StatusServiceUnavailable, page.StatusCode)
		assert.Equal(t, "503 Service Unavailable", page.Title)
	})

	t.Run("non-HTML content is rejected", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		}))
		defer server.Close()

		fetcher := newFetcher(nil)
		page := fetcher.Fetch(context.Background(), server.URL+"/file", nil)

		assert.True(t, page.Failed())
		assert.Equal(t, "Non-HTML Content", page.Title)
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>" + strings.Repeat("x", 2048) + "</body></html>"))
		}))
		defer server.Close()

		fetcher := newFetcher(nil, siteaudithttp.WithMaxBodySize(1024))
		page := fetcher.Fetch(context.Background(), server.URL, nil)

		assert.True(t, page.Failed())
		assert.Equal(t, "Content Too Large", page.Title)
	})

	t.Run("stops after max redirects", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/loop", http.StatusFound)
		}))
		defer server.Close()

		fetcher := newFetcher(nil, siteaudithttp.WithMaxRedirects(3))
		page := fetcher.Fetch(context.Background(), server.URL, nil)

		assert.True(t, page.Failed())
		assert.Contains(t, page.Error, "stopped after 3 redirects")
	})

	t.Run("records the URL a redirect ended on", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				http.Redirect(w, r, "/home", http.StatusMovedPermanently)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Welcome</body></html>"))
		}))
		defer server.Close()

		fetcher := newFetcher(nil)
		page := fetcher.Fetch(context.Background(), server.URL+"/", nil)

		require.False(t, page.Failed())
		assert.Equal(t, server.URL+"/", page.URL)
		assert.Equal(t, server.URL+"/home", page.FinalURL)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		fetcher := newFetcher(nil, siteaudithttp.WithTimeout(10*time.Millisecond))
		page := fetcher.Fetch(context.Background(), server.URL, nil)

		assert.True(t, page.Failed())
		assert.Equal(t, "Fetch Error", page.Title)
	})

	t.Run("renders JS-heavy pages when a renderer is configured", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
		}))
		defer server.Close()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, url string) (string, error) {
				return "<html><body><h1>Rendered</h1></body></html>", nil
			},
		}
		detector := &mock.JSDetector{IsJSHeavyFn: func(string) bool { return true }}

		var gotHTML string
		fetcher := newFetcher(func(html, baseURL string) (*siteaudit.PageRecord, error) {
			gotHTML = html
			return siteaudit.NewEmptyPage(baseURL), nil
		}, siteaudithttp.WithRenderer(renderer, detector))

		page := fetcher.Fetch(context.Background(), server.URL, nil)

		assert.True(t, page.Rendered)
		assert.Contains(t, gotHTML, "Rendered")
	})

	t.Run("render failure falls back to static HTML", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><body>static</body></html>`))
		}))
		defer server.Close()

		renderer := &mock.Renderer{
			RenderFn: func(context.Context, string) (string, error) {
				return "", errors.New("browser crashed")
			},
		}
		detector := &mock.JSDetector{IsJSHeavyFn: func(string) bool { return true }}

		var gotHTML string
		fetcher := newFetcher(func(html, baseURL string) (*siteaudit.PageRecord, error) {
			gotHTML = html
			return siteaudit.NewEmptyPage(baseURL), nil
		}, siteaudithttp.WithRenderer(renderer, detector))

		page := fetcher.Fetch(context.Background(), server.URL, nil)

		assert.False(t, page.Failed())
		assert.False(t, page.Rendered)
		assert.Contains(t, gotHTML, "static")
	})

	t.Run("extractor failure yields empty page without error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		fetcher := newFetcher(func(string, string) (*siteaudit.PageRecord, error) {
			return nil, errors.New("parse failure")
		})

		page := fetcher.Fetch(context.Background(), server.URL, nil)

		require.NotNil(t, page)
		assert.False(t, page.Failed())
		assert.Equal(t, http.StatusOK, page.StatusCode)
		assert.NotNil(t, page.Links.Internal)
	})

	t.Run("verifies the first internal links with HEAD", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/":
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(`<html></html>`))
			case "/ok":
				w.WriteHeader(http.StatusOK)
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		fetcher := newFetcher(func(_ string, baseURL string) (*siteaudit.PageRecord, error) {
			page := siteaudit.NewEmptyPage(baseURL)
			page.Links.Internal = []siteaudit.LinkRef{
				{URL: server.URL + "/ok"},
				{URL: server.URL + "/missing"},
			}
			return page, nil
		})

		page := fetcher.Fetch(context.Background(), server.URL+"/", nil)

		require.Len(t, page.Links.Internal, 2)
		assert.False(t, page.Links.Internal[0].Broken)
		assert.True(t, page.Links.Internal[1].Broken)
		assert.Equal(t, 1, page.Links.BrokenCount())
	})

	t.Run("verification is limited", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		var checked atomic.Int32
		verifier := &mock.LinkVerifier{
			BrokenFn: func(context.Context, string) bool {
				checked.Add(1)
				return false
			},
		}
		fetcher := newFetcher(func(_ string, baseURL string) (*siteaudit.PageRecord, error) {
			page := siteaudit.NewEmptyPage(baseURL)
			for range 8 {
				page.Links.Internal = append(page.Links.Internal, siteaudit.LinkRef{URL: baseURL + "x"})
			}
			return page, nil
		}, siteaudithttp.WithLinkVerifier(verifier))

		fetcher.Fetch(context.Background(), server.URL+"/", nil)

		assert.Equal(t, int32(siteaudithttp.DefaultVerifyLimit), checked.Load())
	})

	t.Run("serves repeated fetches from the cache", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html></html>`))
		}))
		defer server.Close()

		fetcher := newFetcher(nil)
		cache := newMapCache()

		first := fetcher.Fetch(context.Background(), server.URL+"/", cache)
		second := fetcher.Fetch(context.Background(), server.URL+"/", cache)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), hits.Load())
	})
}

func TestSpeedScore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, siteaudithttp.SpeedScore(200*time.Millisecond, 50_000))
	assert.Equal(t, 0, siteaudithttp.SpeedScore(10*time.Second, 50_000))
	assert.Equal(t, 50, siteaudithttp.SpeedScore(4400*time.Millisecond, 50_000))
	assert.Equal(t, 90, siteaudithttp.SpeedScore(200*time.Millisecond, 3<<20))
}

func TestProber(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html")
		case "/image.png":
			w.Header().Set("Content-Type", "image/png")
		case "/no-head":
			w.WriteHeader(http.StatusMethodNotAllowed)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	prober := siteaudithttp.NewProber(server.Client())
	ctx := context.Background()

	assert.False(t, prober.Broken(ctx, server.URL+"/page"))
	assert.True(t, prober.Broken(ctx, server.URL+"/missing"))
	assert.False(t, prober.Broken(ctx, server.URL+"/no-head"))
	assert.True(t, prober.Broken(ctx, "http://127.0.0.1:1/unreachable"))

	assert.True(t, prober.IsHTML(ctx, server.URL+"/page"))
	assert.False(t, prober.IsHTML(ctx, server.URL+"/image.png"))
	assert.True(t, prober.IsHTML(ctx, "http://127.0.0.1:1/unreachable"))
}

func newFetcher(extract func(html, baseURL string) (*siteaudit.PageRecord, error), opts ...siteaudithttp.Option) *siteaudithttp.Fetcher {
	if extract == nil {
		extract = func(_ string, baseURL string) (*siteaudit.PageRecord, error) {
			return siteaudit.NewEmptyPage(baseURL), nil
		}
	}
	opts = append([]siteaudithttp.Option{siteaudithttp.WithDelay(0)}, opts...)
	return siteaudithttp.NewFetcher(&mock.PageExtractor{ExtractFn: extract}, opts...)
}

// newMapCache returns a mock session cache backed by maps.
func newMapCache() *mock.SessionCache {
	var mu sync.Mutex
	pages := map[string]*siteaudit.PageRecord{}
	hosts := map[string]bool{}
	return &mock.SessionCache{
		PageFn: func(url string) (*siteaudit.PageRecord, bool) {
			mu.Lock()
			defer mu.Unlock()
			p, ok := pages[url]
			return p, ok
		},
		StorePageFn: func(url string, page *siteaudit.PageRecord) {
			mu.Lock()
			defer mu.Unlock()
			pages[url] = page
		},
		HostFn: func(host string) (bool, bool) {
			mu.Lock()
			defer mu.Unlock()
			r, ok := hosts[host]
			return r, ok
		},
		StoreHostFn: func(host string, resolved bool) {
			mu.Lock()
			defer mu.Unlock()
			hosts[host] = resolved
		},
	}
}
