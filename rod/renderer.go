// Package rod renders JavaScript-heavy pages in headless Chrome.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/go-rod/rod/lib/proto"
	"golang.org/x/sync/semaphore"
)

// Renderer defaults.
const (
	DefaultPoolSize = 2
	DefaultTimeout  = 30 * time.Second
	DefaultSettle   = 2 * time.Second
)

var _ siteaudit.Renderer = (*Renderer)(nil)

// Renderer returns the DOM of a page after its scripts have run. At most
// poolSize pages render at once; further calls queue until a tab frees up.
//
// Renderer is safe for concurrent use. Close must be called when the
// Renderer is no longer needed.
type Renderer struct {
	browsers *browsers
	pool     *semaphore.Weighted
	poolSize int64
	timeout  time.Duration
	settle   time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPoolSize sets the number of concurrent render tabs. Defaults to 2.
func WithPoolSize(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.poolSize = int64(n)
		}
	}
}

// WithMaxPages sets the number of renders before the browser is recycled.
// Defaults to 75.
func WithMaxPages(n int64) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.browsers.maxPages = n
		}
	}
}

// WithTimeout bounds a single render including queueing. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithSettle sets how long a loaded page may keep issuing requests before
// its DOM is captured. Defaults to 2s.
func WithSettle(d time.Duration) Option {
	return func(r *Renderer) {
		r.settle = d
	}
}

// NewRenderer creates a Renderer. Chrome is found or downloaded and
// launched on the first render.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		browsers: &browsers{maxPages: DefaultMaxPages},
		poolSize: DefaultPoolSize,
		timeout:  DefaultTimeout,
		settle:   DefaultSettle,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool = semaphore.NewWeighted(r.poolSize)
	return r
}

// Render navigates to url, waits for the page to load and settle, and
// returns the rendered HTML.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.pool.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer r.pool.Release(1)

	browser, err := r.browsers.get()
	if err != nil {
		return "", err
	}
	defer r.browsers.done()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	if r.settle > 0 {
		// Pages that keep polling never go idle; capture what is there.
		_ = page.WaitIdle(r.settle)
	}

	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	return r.browsers.close()
}

// LauncherPID returns the process ID of the browser launcher, or 0 before
// the first render. It exists so tests can verify cleanup.
func (r *Renderer) LauncherPID() int {
	return r.browsers.pid()
}
