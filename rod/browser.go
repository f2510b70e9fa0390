package rod

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of renders before browser recycling.
const DefaultMaxPages = 75

// browsers owns one headless Chrome and replaces it after maxPages renders.
// Chrome's memory baseline keeps growing even with proper page cleanup, so
// long crawls periodically start from a fresh process.
//
// The browser is launched on first use. browsers is safe for concurrent use.
type browsers struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int64
	inFlight  int
	maxPages  int64
	mu        sync.Mutex
	closed    atomic.Bool
}

// get returns the current browser, launching it on first use. Once the
// render count has reached maxPages the browser is recycled as soon as no
// render is using it. Every successful get must be paired with done.
func (b *browsers) get() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed.Load() {
		return nil, fmt.Errorf("renderer closed")
	}
	if b.browser == nil {
		if err := b.launch(); err != nil {
			return nil, err
		}
	} else if b.pageCount >= b.maxPages && b.inFlight == 0 {
		b.recycle()
	}
	b.inFlight++
	return b.browser, nil
}

// done records one finished render.
func (b *browsers) done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight--
	b.pageCount++
}

// close shuts the browser down. close is safe to call multiple times.
func (b *browsers) close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// launch starts a new browser with stability flags. Must be called with mu held.
func (b *browsers) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	b.browser = browser
	b.launcher = l
	b.pageCount = 0
	return nil
}

// recycle starts a fresh browser and closes the old one. If the new launch
// fails the old browser is kept. Must be called with mu held.
func (b *browsers) recycle() {
	oldBrowser, oldLauncher := b.browser, b.launcher
	if err := b.launch(); err != nil {
		b.browser, b.launcher = oldBrowser, oldLauncher
		return
	}
	_ = oldBrowser.Close()
	oldLauncher.Kill()
}

func (b *browsers) pid() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}
