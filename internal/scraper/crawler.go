package scraper

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog"

	"github.com/fr4nk3nst1ner/jobharvest/internal/client"
	"github.com/fr4nk3nst1ner/jobharvest/internal/models"
	"github.com/fr4nk3nst1ner/jobharvest/internal/store"
)

// Fetcher retrieves a single search result page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*client.Page, error)
}

// StopReason says why a crawl ended
type StopReason int

const (
	// StopBadStatus means a page was served with a non-200 status
	StopBadStatus StopReason = iota
	// StopExtraction means a listing fragment or page could not be parsed
	StopExtraction
	// StopFetchError means the request itself failed
	StopFetchError
	// StopCanceled means the context was canceled between pages
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopBadStatus:
		return "bad status"
	case StopExtraction:
		return "extraction failed"
	case StopFetchError:
		return "fetch failed"
	case StopCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("StopReason(%d)", int(r))
	}
}

// Result summarizes a finished crawl
type Result struct {
	Reason StopReason
	// StatusCode of the page that ended the crawl, 0 unless Reason is StopBadStatus
	StatusCode int
	// Offset of the page that ended the crawl
	Offset int
	// Pages is the number of pages fully processed
	Pages int
	// Fragments is the number of listings extracted successfully
	Fragments int
	// Added is the number of listings that were new to the store
	Added int
	Err   error
}

// Crawler walks the search result pages for one keyword and location and
// merges every listing it finds into a store
type Crawler struct {
	fetcher Fetcher
	store   *store.Store
	baseURL string
	logger  zerolog.Logger
	bar     *pb.ProgressBar
}

// Option configures a Crawler
type Option func(*Crawler)

// WithBaseURL overrides DefaultBaseURL
func WithBaseURL(baseURL string) Option {
	return func(c *Crawler) { c.baseURL = baseURL }
}

// WithLogger sets the crawl logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Crawler) { c.logger = logger }
}

// WithProgressBar increments bar for each record added to the store
func WithProgressBar(bar *pb.ProgressBar) Option {
	return func(c *Crawler) { c.bar = bar }
}

// NewCrawler creates a crawler that merges into st
func NewCrawler(fetcher Fetcher, st *store.Store, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher: fetcher,
		store:   st,
		baseURL: DefaultBaseURL,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run pages through the search results starting at offset 0 until a page
// cannot be fetched or parsed. There is no page limit; an empty page that is
// served successfully does not end the crawl.
func (c *Crawler) Run(ctx context.Context, keyword, locationToken string) Result {
	cursor := models.Cursor{Keyword: keyword, LocationToken: locationToken}
	var res Result

	for {
		res.Offset = cursor.Offset
		if err := ctx.Err(); err != nil {
			res.Reason, res.Err = StopCanceled, err
			c.logger.Warn().Err(err).Int("offset", cursor.Offset).Msg("crawl canceled")
			return res
		}

		pageURL := SearchURL(c.baseURL, cursor)
		page, err := c.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			res.Reason, res.Err = StopFetchError, err
			c.logger.Error().Err(err).Str("url", pageURL).Msg("fetch failed")
			return res
		}
		c.logger.Info().Str("url", pageURL).Int("status_code", page.StatusCode).Msg("fetch")

		if !page.OK() {
			res.Reason, res.StatusCode = StopBadStatus, page.StatusCode
			res.Err = fmt.Errorf("status code was %d, not 200", page.StatusCode)
			c.logger.Warn().Int("status_code", page.StatusCode).Str("url", pageURL).Msg("status code was not 200")
			return res
		}

		if err := c.processPage(page, &res); err != nil {
			res.Reason, res.Err = StopExtraction, err
			c.logger.Error().Err(err).Str("url", pageURL).Msg("could not parse job information from response")
			return res
		}

		res.Pages++
		cursor.Advance()
	}
}

// processPage extracts and merges every listing on page in document order,
// stopping at the first listing that cannot be extracted
func (c *Crawler) processPage(page *client.Page, res *Result) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	var extractErr error
	ExtractListings(doc).EachWithBreak(func(i int, s *goquery.Selection) bool {
		rec, err := ExtractRecord(s)
		if err != nil {
			extractErr = fmt.Errorf("listing %d: %w", i, err)
			return false
		}
		res.Fragments++

		if c.store.Merge(rec.ID, rec) {
			res.Added++
			if c.bar != nil {
				c.bar.Increment()
			}
			c.logger.Debug().Str("job_id", rec.ID).Str("title", rec.Title).Msg("added job")
		}
		return true
	})

	return extractErr
}
