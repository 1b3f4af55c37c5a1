package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fr4nk3nst1ner/jobharvest/internal/models"
)

const (
	// DefaultBaseURL is the host the search endpoint lives on
	DefaultBaseURL = "https://www.linkedin.com"

	listingSelector  = `li[class*="result-card"]`
	linkSelector     = "a.result-card__full-card-link"
	titleSelector    = "h3"
	companySelector  = "h4"
	locationSelector = "span.job-result-card__location"
	timeSelector     = "time"
)

// ErrExtractionFailed matches every ExtractionError
var ErrExtractionFailed = errors.New("could not parse job information")

// ExtractionError reports a listing fragment missing a required field
type ExtractionError struct {
	Field  string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrExtractionFailed, e.Field, e.Reason)
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}

// SearchURL builds the search page URL for the cursor's position
func SearchURL(baseURL string, c models.Cursor) string {
	return fmt.Sprintf("%s/jobs/search?keywords=%s&locationId=%s:0&start=%d",
		strings.TrimRight(baseURL, "/"),
		url.QueryEscape(c.Keyword),
		url.QueryEscape(c.LocationToken),
		c.Offset)
}

// ExtractListings returns the listing fragments of a result page in document order
func ExtractListings(doc *goquery.Document) *goquery.Selection {
	return doc.Find(listingSelector)
}

// ExtractRecord pulls the job fields out of a single listing fragment.
// Elements must be present but their text may be empty.
func ExtractRecord(s *goquery.Selection) (models.Record, error) {
	id, ok := s.Attr("data-id")
	if !ok {
		return models.Record{}, &ExtractionError{Field: "id", Reason: "missing data-id attribute"}
	}
	id = strings.TrimSpace(id)
	if !models.ValidID(id) {
		return models.Record{}, &ExtractionError{Field: "id", Reason: fmt.Sprintf("invalid data-id %q", id)}
	}

	href, ok := s.Find(linkSelector).First().Attr("href")
	if !ok {
		return models.Record{}, &ExtractionError{Field: "url", Reason: "missing listing link"}
	}

	title, err := elementText(s, titleSelector, "title")
	if err != nil {
		return models.Record{}, err
	}
	company, err := elementText(s, companySelector, "company name")
	if err != nil {
		return models.Record{}, err
	}
	location, err := elementText(s, locationSelector, "company location")
	if err != nil {
		return models.Record{}, err
	}

	posted, ok := s.Find(timeSelector).First().Attr("datetime")
	if !ok {
		return models.Record{}, &ExtractionError{Field: "date posted", Reason: "missing time datetime attribute"}
	}

	return models.Record{
		ID:              id,
		Title:           title,
		URL:             StripQuery(href),
		CompanyName:     company,
		CompanyLocation: location,
		DatePosted:      posted,
	}, nil
}

// StripQuery drops everything from the first '?' onward
func StripQuery(link string) string {
	if i := strings.IndexByte(link, '?'); i >= 0 {
		return link[:i]
	}
	return link
}

// elementText returns the trimmed text of the first element matching selector
func elementText(s *goquery.Selection, selector, field string) (string, error) {
	el := s.Find(selector).First()
	if el.Length() == 0 {
		return "", &ExtractionError{Field: field, Reason: fmt.Sprintf("missing %s element", selector)}
	}
	return strings.TrimSpace(el.Text()), nil
}
