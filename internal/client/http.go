package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single page request
const DefaultTimeout = 30 * time.Second

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
}

// Page is a fetched search result page
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// OK reports whether the page was served with a 200 status
func (p *Page) OK() bool {
	return p.StatusCode == http.StatusOK
}

// Options configures the HTTP client
type Options struct {
	// Timeout bounds each request, DefaultTimeout when zero
	Timeout time.Duration
	// UserAgent pins the User-Agent header; a random browser agent is used when empty
	UserAgent string
	// ProxyURL routes requests through an HTTP proxy when set
	ProxyURL string
}

// Client fetches search result pages
type Client struct {
	http      *resty.Client
	userAgent string
}

// New creates a client with cookie support and browser-like headers
func New(opts Options) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	rc := resty.New().
		SetTimeout(timeout).
		SetCookieJar(jar).
		SetTLSClientConfig(&tls.Config{MinVersion: tls.VersionTLS12}).
		SetHeaders(browserHeaders())
	if opts.ProxyURL != "" {
		rc.SetProxy(opts.ProxyURL)
	}

	return &Client{http: rc, userAgent: opts.UserAgent}, nil
}

// Fetch issues a GET for url. A non-200 response is not an error; callers
// decide what a status means.
func (c *Client) Fetch(ctx context.Context, url string) (*Page, error) {
	ua := c.userAgent
	if ua == "" {
		ua = userAgents[rand.Intn(len(userAgents))]
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", ua).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	return &Page{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}

// browserHeaders returns headers that mimic a desktop browser
func browserHeaders() map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Connection":                "keep-alive",
		"DNT":                       "1",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
	}
}
