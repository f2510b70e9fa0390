// Package bloom provides a probabilistic set of crawl keys backed by
// github.com/bits-and-blooms/bloom/v3.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate is used by crawl sessions that do not specify one.
const DefaultFalsePositiveRate = 0.001

// Filter answers "definitely not seen" quickly for crawl keys. It is not
// safe for concurrent use; callers guard it with their own lock.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// TestAndAdd records key and reports whether it might have been added
// before. False positives are possible; false negatives are not.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}
