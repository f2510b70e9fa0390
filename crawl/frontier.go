package crawl

import (
	"sync"

	"github.com/fwojciec/siteaudit/bloom"
)

// Frontier is a FIFO crawl queue that remembers every URL it has ever
// accepted, so a URL is queued at most once per session and a popped URL
// is never queued again. A Bloom filter answers most "not seen" checks
// before the exact set is consulted.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	bloom *bloom.Filter
	seen  map[string]struct{}
	queue []string
}

// NewFrontier creates a new Frontier sized for n expected URLs.
func NewFrontier(n uint) *Frontier {
	return &Frontier{
		bloom: bloom.NewFilter(n, bloom.DefaultFalsePositiveRate),
		seen:  make(map[string]struct{}),
	}
}

// Push queues rawURL. Returns false if the URL has already been seen.
// Fragments are stripped before queueing.
func (f *Frontier) Push(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	rawURL = stripFragment(rawURL)
	if !f.mark(Key(rawURL)) {
		return false
	}
	f.queue = append(f.queue, rawURL)
	return true
}

// Visit marks rawURL as seen without queueing it.
// Returns false if the URL has already been seen.
func (f *Frontier) Visit(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mark(Key(rawURL))
}

// mark records key and reports whether it was new. Must be called with mu held.
func (f *Frontier) mark(key string) bool {
	if f.bloom.TestAndAdd(key) {
		if _, ok := f.seen[key]; ok {
			return false
		}
	}
	f.seen[key] = struct{}{}
	return true
}

// PopN removes and returns up to n of the oldest queued URLs.
func (f *Frontier) PopN(n int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	n = min(n, len(f.queue))
	out := make([]string, n)
	copy(out, f.queue[:n])
	f.queue = f.queue[n:]
	return out
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}
