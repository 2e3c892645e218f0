package adapters

import (
	"context"
	"fmt"
	"time"

	"weidian-scraper/internal/types"

	"github.com/PuerkitoBio/goquery"
)

// Selectors of the loongbuy.com search flow
const (
	SearchInputSelector  = "input[placeholder='Product link or name / Store link']"
	ListingItemSelector  = ".goods-item"
	ListingImageSelector = ".img-box img"
	ListingNameSelector  = ".text-box p"
	ListingPriceSelector = ".text-box span"
)

// LoongbuyAdapter drives the loongbuy.com keyword search and reads the result grid
type LoongbuyAdapter struct {
	*BaseAdapter
}

// NewLoongbuyAdapter creates a new Loongbuy adapter
func NewLoongbuyAdapter(config *types.Config, logger types.Logger) *LoongbuyAdapter {
	return &LoongbuyAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// GetSiteName returns the site name
func (l *LoongbuyAdapter) GetSiteName() string {
	return "loongbuy.com"
}

// Search opens the home page and submits keyword in the search box
func (l *LoongbuyAdapter) Search(ctx context.Context, page types.Page, keyword string) error {
	l.logger.Infof("Opening %s", l.config.SearchBaseURL)
	if err := page.Navigate(ctx, l.config.SearchBaseURL); err != nil {
		return err
	}

	if err := page.WaitPresent(ctx, SearchInputSelector, l.config.SearchTimeout); err != nil {
		return fmt.Errorf("search box not found: %w", err)
	}
	if err := page.Fill(ctx, SearchInputSelector, keyword); err != nil {
		return err
	}
	if err := page.Submit(ctx, SearchInputSelector); err != nil {
		return err
	}

	l.logger.Infof("Searching for %q", keyword)
	return nil
}

// ScrollPage scrolls to the bottom up to MaxScrolls times so that lazily
// loaded results render, stopping early once the document stops growing.
// It returns the number of scrolls performed.
func (l *LoongbuyAdapter) ScrollPage(ctx context.Context, page types.Page) (int, error) {
	lastHeight, err := page.ScrollHeight(ctx)
	if err != nil {
		return 0, err
	}

	for i := 0; i < l.config.MaxScrolls; i++ {
		l.logger.Infof("Scrolling... (%d/%d)", i+1, l.config.MaxScrolls)
		if err := page.ScrollToBottom(ctx); err != nil {
			return i, err
		}
		if err := sleep(ctx, l.config.ScrollPause); err != nil {
			return i + 1, err
		}

		newHeight, err := page.ScrollHeight(ctx)
		if err != nil {
			return i + 1, err
		}
		if newHeight == lastHeight {
			l.logger.Info("Reached end of page.")
			return i + 1, nil
		}
		lastHeight = newHeight
	}

	return l.config.MaxScrolls, nil
}

// ScrapeListings waits for the result grid and reads every listing on it
func (l *LoongbuyAdapter) ScrapeListings(ctx context.Context, page types.Page) ([]types.Listing, error) {
	startTime := time.Now()
	if err := page.WaitPresent(ctx, ListingItemSelector, l.config.ListingTimeout); err != nil {
		return nil, fmt.Errorf("no listings appeared: %w", err)
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := l.ParseHTML(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listings page: %w", err)
	}

	listings := l.ParseListings(doc)
	l.logger.Infof("Read %d listings in %v", len(listings), time.Since(startTime))
	return listings, nil
}

// ParseListings reads name, price and image of every listing item in doc.
// A field missing from one item leaves only that field missing.
func (l *LoongbuyAdapter) ParseListings(doc *goquery.Document) []types.Listing {
	var listings []types.Listing

	doc.Find(ListingItemSelector).Each(func(i int, s *goquery.Selection) {
		var listing types.Listing
		var err error

		if listing.Image, err = l.ExtractAttribute(s, ListingImageSelector, "src"); err != nil {
			l.logger.Debugf("Listing %d: %v", i+1, err)
		} else {
			listing.Image.Value = ResolveURL(l.config.SearchBaseURL, listing.Image.Value)
		}
		if listing.Name, err = l.ExtractText(s, ListingNameSelector); err != nil {
			l.logger.Debugf("Listing %d: %v", i+1, err)
		}
		if listing.Price, err = l.ExtractText(s, ListingPriceSelector); err != nil {
			l.logger.Debugf("Listing %d: %v", i+1, err)
		}

		listings = append(listings, listing)
	})

	return listings
}
