package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"malscraper/pkg/config"
	errs "malscraper/pkg/errors"
	"malscraper/pkg/logger"
	"malscraper/pkg/mal"
)

// ChromeFetcher renders list pages in headless Chrome. The list table lazy
// loads rows as the page scrolls, so the fetcher scrolls to the bottom until
// the content height stops growing before handing the DOM over.
type ChromeFetcher struct {
	scrollPause time.Duration
	maxScrolls  int
	tableWait   time.Duration
	headless    bool
	logger      logger.Logger
}

// NewChromeFetcher creates a fetcher configured from the scrape settings
func NewChromeFetcher(cfg *config.ScrapeConfig, log logger.Logger) *ChromeFetcher {
	return &ChromeFetcher{
		scrollPause: cfg.ScrollPause,
		maxScrolls:  cfg.MaxScrolls,
		tableWait:   cfg.TableWait,
		headless:    cfg.Headless,
		logger:      log,
	}
}

// FetchList loads a user's completed-list page and returns the rendered DOM
func (f *ChromeFetcher) FetchList(ctx context.Context, user string) (*goquery.Document, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	listURL := mal.ListURL(user)
	f.logger.DebugWithFields("Loading list page", map[string]interface{}{
		"user": user,
		"url":  listURL,
	})

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(listURL),
		f.scrollToBottom(),
		f.waitForTable(),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, errs.Wrap(errs.KindExtraction,
			fmt.Sprintf("list table not available for %s", user), err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errs.Wrap(errs.KindExtraction,
			fmt.Sprintf("failed to parse rendered page for %s", user), err)
	}
	return doc, nil
}

// scrollToBottom repeatedly scrolls to the page bottom, pausing between
// scrolls, until the content height stops growing or the iteration budget
// runs out
func (f *ChromeFetcher) scrollToBottom() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		var lastHeight int64
		if err := chromedp.Evaluate(`document.body.scrollHeight`, &lastHeight).Do(ctx); err != nil {
			return err
		}

		for i := 0; i < f.maxScrolls; i++ {
			if err := chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil).Do(ctx); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(f.scrollPause):
			}

			var height int64
			if err := chromedp.Evaluate(`document.body.scrollHeight`, &height).Do(ctx); err != nil {
				return err
			}
			if height == lastHeight {
				break
			}
			lastHeight = height
		}
		return nil
	}
}

// waitForTable waits up to the table wait budget for list rows to appear
func (f *ChromeFetcher) waitForTable() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, f.tableWait)
		defer cancel()
		return chromedp.WaitReady(mal.RowSelector).Do(waitCtx)
	}
}
