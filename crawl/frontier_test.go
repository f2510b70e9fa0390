package crawl_test

import (
	"sync"
	"testing"

	"github.com/fwojciec/siteaudit/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier(t *testing.T) {
	t.Parallel()

	t.Run("pops in insertion order", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100)
		require.True(t, f.Push("https://example.com/a"))
		require.True(t, f.Push("https://example.com/b"))
		require.True(t, f.Push("https://example.com/c"))

		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b", "https://example.com/c"}, f.PopN(10))
	})

	t.Run("rejects equivalent URLs", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100)
		require.True(t, f.Push("https://example.com/about"))
		assert.False(t, f.Push("https://example.com/about/"))
		assert.False(t, f.Push("http://www.example.com/about"))
		assert.False(t, f.Push("https://EXAMPLE.com/about#team"))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("popped URLs are never queued again", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100)
		f.Push("https://example.com/a")
		require.Len(t, f.PopN(1), 1)

		assert.False(t, f.Push("https://example.com/a"))
		assert.False(t, f.Visit("https://example.com/a"))
		assert.Equal(t, 0, f.Len())
	})

	t.Run("visited URLs are not queued", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100)
		require.True(t, f.Visit("https://example.com/"))
		assert.False(t, f.Visit("https://example.com"))
		assert.False(t, f.Push("https://example.com/"))
		assert.Equal(t, 0, f.Len())
	})

	t.Run("strips fragments", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100)
		f.Push("https://example.com/a#section")
		assert.Equal(t, []string{"https://example.com/a"}, f.PopN(1))
	})

	t.Run("PopN returns at most n URLs", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100)
		f.Push("https://example.com/1")
		f.Push("https://example.com/2")
		f.Push("https://example.com/3")

		assert.Equal(t, []string{"https://example.com/1", "https://example.com/2"}, f.PopN(2))
		assert.Equal(t, []string{"https://example.com/3"}, f.PopN(5))
		assert.Empty(t, f.PopN(5))
	})

	t.Run("PopN on empty frontier", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(10)
		assert.Empty(t, f.PopN(3))
		assert.True(t, f.Push("https://example.com/x"))
	})

	t.Run("concurrent pushes dedupe", func(t *testing.T) {
		t.Parallel()

		f := crawl.NewFrontier(100)
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				f.Push("https://example.com/same")
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, f.Len())
	})
}

func TestScope(t *testing.T) {
	t.Parallel()

	scope := crawl.NewScope("https://www.example.com/")

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"same host", "https://www.example.com/services", true},
		{"bare domain", "https://example.com/services", true},
		{"other domain", "https://other.com/services", false},
		{"subdomain", "https://shop.example.com/", false},
		{"image", "https://example.com/logo.PNG", false},
		{"pdf", "https://example.com/menu.pdf", false},
		{"wordpress admin", "https://example.com/wp-admin/edit.php", false},
		{"blog", "https://example.com/blog/post-1", false},
		{"tag archive", "https://example.com/tag/plumbing", false},
		{"paginated", "https://example.com/services?page=2", false},
		{"search", "https://example.com/?s=roof", false},
		{"other query", "https://example.com/services?ref=nav", true},
		{"mailto", "mailto:info@example.com", false},
		{"unparsable", "https://example.com/%zz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, scope.Contains(tt.url))
		})
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com/about", crawl.Key("https://www.example.com/about/"))
	assert.Equal(t, "example.com/about", crawl.Key("http://Example.com/about#x"))
	assert.Equal(t, "example.com", crawl.Key("https://example.com/"))
	assert.Equal(t, "example.com/list?id=2", crawl.Key("https://example.com/list?id=2"))
}
