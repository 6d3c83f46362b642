package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/CSJesus/HardwarePriceCharting/internal/config"
	"github.com/CSJesus/HardwarePriceCharting/internal/ratelimit"
)

// resultsSelector matches the search results section of a sold-listings
// page. A page without it carries no listings (exhausted pagination or an
// interstitial), which the pipeline treats as an empty page.
const resultsSelector = ".srp-results.srp-list"

// SourceError wraps a page fetch failure with retryability info
type SourceError struct {
	Page      int
	Err       error
	Retryable bool
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("marketplace page %d: %v", e.Page, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Client fetches sold-listing search result pages from the marketplace
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *ratelimit.Limiter
	log       zerolog.Logger
}

// NewClient creates a marketplace client
func NewClient(cfg config.MarketplaceConfig, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   ratelimit.NewLimiter("marketplace", cfg.RateLimit),
		log:       log,
	}
}

// FetchPage requests one page of sold-listing search results for the given
// keywords. It returns the results container, or nil when the page carries
// no results section. The keywords are joined with '+' to form the query.
func (c *Client) FetchPage(ctx context.Context, keywords []string, page int) (*goquery.Selection, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := strings.Join(keywords, "+")
	url := fmt.Sprintf("%s?_nkw=%s&_sacat=0&rt=nc&LH_Sold=1&LH_Complete=1&_pgn=%d",
		c.baseURL, query, page)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &SourceError{Page: page, Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.SignalRateLimited()
		return nil, &SourceError{Page: page, Err: fmt.Errorf("rate limited"), Retryable: true}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &SourceError{Page: page, Err: fmt.Errorf("status %d", resp.StatusCode), Retryable: false}
	}

	c.limiter.ResetBackoff()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &SourceError{Page: page, Err: fmt.Errorf("parsing page: %w", err), Retryable: false}
	}

	section := doc.Find(resultsSelector).First()
	if section.Length() == 0 {
		c.log.Debug().Int("page", page).Str("query", query).Msg("no results section")
		return nil, nil
	}

	return section, nil
}
