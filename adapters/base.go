package adapters

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"weidian-scraper/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// BaseAdapter provides common functionality for site adapters.
// Site adapters embed it and add their own selectors and flow.
type BaseAdapter struct {
	config *types.Config // Timeouts and site URLs
	logger types.Logger  // Structured logging interface
}

// NewBaseAdapter creates a new base adapter
func NewBaseAdapter(config *types.Config, logger types.Logger) *BaseAdapter {
	return &BaseAdapter{
		config: config,
		logger: logger,
	}
}

// Config returns the config field of the BaseAdapter
func (b *BaseAdapter) Config() *types.Config {
	return b.config
}

// ReadText reads the text of loc from a live page. Any failure is logged
// and reported as a missing field; it never aborts the caller.
func (b *BaseAdapter) ReadText(ctx context.Context, page types.Page, field string, loc types.Locator) types.Field {
	text, err := page.Text(ctx, loc)
	if err != nil {
		b.logger.Warnf("Error getting %s: %v", field, err)
		return types.Missing()
	}
	b.logger.Debugf("Product %s: %s", field, text)
	return types.Present(text)
}

// ReadAttribute reads attribute attr of loc from a live page, fail-soft like ReadText
func (b *BaseAdapter) ReadAttribute(ctx context.Context, page types.Page, field string, loc types.Locator, attr string) types.Field {
	value, err := page.Attribute(ctx, loc, attr)
	if err != nil {
		b.logger.Warnf("Error getting %s: %v", field, err)
		return types.Missing()
	}
	b.logger.Debugf("Product %s: %s", field, value)
	return types.Present(value)
}

// ParseHTML parses HTML content into a goquery document
func (b *BaseAdapter) ParseHTML(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// ExtractText extracts the text of the first match of selector inside s
func (b *BaseAdapter) ExtractText(s *goquery.Selection, selector string) (types.Field, error) {
	element := s.Find(selector).First()
	if element.Length() == 0 {
		return types.Missing(), fmt.Errorf("element not found with selector: %s", selector)
	}

	return types.Present(strings.TrimSpace(element.Text())), nil
}

// ExtractAttribute extracts an attribute value from the first match of selector inside s
func (b *BaseAdapter) ExtractAttribute(s *goquery.Selection, selector string, attribute string) (types.Field, error) {
	element := s.Find(selector).First()
	if element.Length() == 0 {
		return types.Missing(), fmt.Errorf("element not found with selector: %s", selector)
	}

	value, exists := element.Attr(attribute)
	if !exists {
		return types.Missing(), fmt.Errorf("attribute %s not found on element %s", attribute, selector)
	}

	return types.Present(strings.TrimSpace(value)), nil
}

// ResolveURL makes ref absolute against base. Unparseable input is returned as is.
func ResolveURL(base, ref string) string {
	if ref == "" {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
