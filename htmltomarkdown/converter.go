// Package htmltomarkdown converts extracted page content to Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/siteaudit"
)

// Ensure Converter implements siteaudit.Converter at compile time.
var _ siteaudit.Converter = (*Converter)(nil)

// DefaultRemovedTags are dropped before conversion. Forms, embeds and
// images carry per-page tokens and URLs that are not part of the copy.
var DefaultRemovedTags = []string{"form", "iframe", "img", "picture", "svg", "video", "noscript"}

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// Option configures a Converter.
type Option func(*options)

type options struct {
	removed []string
}

// WithRemovedTags replaces the list of elements dropped before conversion.
func WithRemovedTags(tags ...string) Option {
	return func(o *options) {
		o.removed = tags
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	o := options{removed: DefaultRemovedTags}
	for _, opt := range opts {
		opt(&o)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	for _, tag := range o.removed {
		conv.Register.TagType(tag, converter.TagTypeRemove, converter.PriorityStandard)
	}
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", siteaudit.Errorf(siteaudit.EINVALID, "empty HTML input")
	}
	return c.conv.ConvertString(html)
}
