package adapters

import (
	"context"
	"fmt"
	"time"

	"weidian-scraper/internal/types"
)

// Selectors of the product-details page
const (
	NameSelector           = ".goods-info-name"
	PriceSelector          = ".price-num.flex"
	ImageContainerSelector = ".big-icture"
	PropListSelector       = ".prop-list.list-prop"
	VariantTriggerSelector = ".prop-item.el-tooltip__trigger"

	// variantGroupIndex is the position of the colour group among the prop lists
	variantGroupIndex = 2
)

// WeidianAdapter extracts product fields and colour variants from
// loongbuy.com product-details pages for Weidian items.
type WeidianAdapter struct {
	*BaseAdapter
}

// NewWeidianAdapter creates a new Weidian adapter
func NewWeidianAdapter(config *types.Config, logger types.Logger) *WeidianAdapter {
	return &WeidianAdapter{
		BaseAdapter: NewBaseAdapter(config, logger),
	}
}

// GetSiteName returns the site name
func (w *WeidianAdapter) GetSiteName() string {
	return "weidian"
}

// ExtractProduct reads the product from an already loaded page: the fixed
// fields first, then the variants. It only returns an error when ctx is done.
func (w *WeidianAdapter) ExtractProduct(ctx context.Context, page types.Page, productURL string) (types.ProductRecord, error) {
	startTime := time.Now()
	record := w.ExtractFields(ctx, page)
	record.URL = productURL
	if err := ctx.Err(); err != nil {
		return record, err
	}

	variants, err := w.ExtractVariants(ctx, page)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return record, ctxErr
		}
		w.logger.Warnf("Error getting color variants: %v", err)
		variants = []types.Variant{}
	}
	record.Variants = variants

	w.logger.Debugf("Product %s extracted in %v with %d variants", productURL, time.Since(startTime), len(variants))
	return record, nil
}

// ExtractFields reads name, price and base image. Every field is read
// independently; a miss leaves that field missing and the rest untouched.
func (w *WeidianAdapter) ExtractFields(ctx context.Context, page types.Page) types.ProductRecord {
	if err := page.WaitPresent(ctx, NameSelector, w.config.PageTimeout); err != nil {
		w.logger.Warnf("Product content did not appear: %v", err)
	}
	if err := sleep(ctx, w.config.SettleDelay); err != nil {
		return types.ProductRecord{}
	}

	record := types.ProductRecord{
		Name:  w.ReadText(ctx, page, "name", types.Query(NameSelector)),
		Price: w.ReadText(ctx, page, "price", types.Query(PriceSelector)),
	}

	if err := page.WaitPresent(ctx, ImageContainerSelector, w.config.ImageTimeout); err != nil {
		w.logger.Warnf("Error getting image: %v", err)
		record.BaseImage = types.Missing()
	} else {
		loc := types.Locator{Selector: ImageContainerSelector, Child: "img"}
		record.BaseImage = w.ReadAttribute(ctx, page, "image", loc, "src")
	}

	return record
}

// ExtractVariants activates the colour group, then every variant trigger in
// document order, reading the price shown after each activation together
// with the trigger's own image. Activation changes the page's price, so the
// triggers are visited strictly one after another.
func (w *WeidianAdapter) ExtractVariants(ctx context.Context, page types.Page) ([]types.Variant, error) {
	group := types.Locator{Selector: PropListSelector, Index: variantGroupIndex, Child: "li"}
	if err := page.Click(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to open variant group: %w", err)
	}

	count, err := page.Count(ctx, VariantTriggerSelector)
	if err != nil {
		return nil, fmt.Errorf("failed to list variant triggers: %w", err)
	}

	variants := make([]types.Variant, 0, count)
	for i := 0; i < count; i++ {
		trigger := types.Locator{Selector: VariantTriggerSelector, Index: i}
		if err := page.Click(ctx, trigger); err != nil {
			return nil, fmt.Errorf("failed to activate variant %d: %w", i+1, err)
		}

		price, err := page.Text(ctx, types.Query(PriceSelector))
		if err != nil {
			return nil, fmt.Errorf("failed to read price of variant %d: %w", i+1, err)
		}

		image, err := page.Attribute(ctx, types.Locator{Selector: VariantTriggerSelector, Index: i, Child: "img"}, "src")
		if err != nil {
			return nil, fmt.Errorf("failed to read image of variant %d: %w", i+1, err)
		}

		variants = append(variants, types.Variant{Image: image, Price: price})
	}

	w.logger.Debugf("Found %d color variants", len(variants))
	return variants, nil
}
