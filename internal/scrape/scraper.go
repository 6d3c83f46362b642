package scrape

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CSJesus/HardwarePriceCharting/internal/catalog"
	"github.com/CSJesus/HardwarePriceCharting/internal/marketplace"
	"github.com/CSJesus/HardwarePriceCharting/internal/recorder"
	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

// PageFetcher fetches one page of sold-listing search results.
// A nil selection with nil error means the page carried no listings.
type PageFetcher interface {
	FetchPage(ctx context.Context, keywords []string, page int) (*goquery.Selection, error)
}

// ProgressCallback is called after each search term completes
type ProgressCallback func(done, total int)

// Scraper runs the ingestion pipeline for a set of search terms:
// paginated fetch, parse, validate, normalize, aggregate.
type Scraper struct {
	source   PageFetcher
	rec      recorder.Recorder
	band     PriceBand
	maxPages int
	workers  int
	log      zerolog.Logger
	progress ProgressCallback
}

// NewScraper creates a scraper
func NewScraper(source PageFetcher, rec recorder.Recorder, band PriceBand, maxPages, workers int, log zerolog.Logger) *Scraper {
	if workers < 1 {
		workers = 1
	}
	return &Scraper{
		source:   source,
		rec:      rec,
		band:     band,
		maxPages: maxPages,
		workers:  workers,
		log:      log,
	}
}

// SetProgressCallback sets the per-term progress callback
func (s *Scraper) SetProgressCallback(fn ProgressCallback) {
	s.progress = fn
}

// accepted pairs an observation with the listing it came from, so the
// recorder can keep the full listing detail.
type accepted struct {
	raw model.RawListing
	obs model.Observation
}

// Run scrapes every search term and assembles the run's daily price
// table. A term with zero valid observations still yields a well-formed
// empty row. Cancellation takes effect between pages and terms; a
// cancelled run returns no table.
func (s *Scraper) Run(ctx context.Context, terms []string) (*catalog.Table, []model.RunSummary, error) {
	runID := uuid.NewString()
	s.log.Info().Str("run_id", runID).Int("terms", len(terms)).Msg("scrape run starting")

	table := catalog.NewTable()
	summaries := make([]model.RunSummary, 0, len(terms))

	for i, term := range terms {
		agg, err := s.scrapeTerm(ctx, runID, term)
		if err != nil {
			return nil, nil, err
		}

		if err := table.Append(agg.Row()); err != nil {
			return nil, nil, err
		}
		summaries = append(summaries, agg.Summary())

		s.log.Info().Str("term", term).Int("observations", agg.Count()).Msg("term finished")
		if s.progress != nil {
			s.progress(i+1, len(terms))
		}
	}

	return table, summaries, nil
}

// scrapeTerm fetches all pages for one term on a bounded worker pool.
// The aggregator only sees observations after every page has completed,
// so no date's mean is computed from a partial page set.
func (s *Scraper) scrapeTerm(ctx context.Context, runID, term string) (*Aggregator, error) {
	term = strings.TrimSpace(term)
	keywords := strings.Fields(strings.ToLower(term))

	jobs := make(chan int, s.maxPages)
	results := make(chan []accepted, s.maxPages)

	for page := 1; page <= s.maxPages; page++ {
		jobs <- page
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					results <- s.processPage(ctx, keywords, term, page)
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	agg := NewAggregator(term)
	for listings := range results {
		for _, a := range listings {
			agg.Add(a.obs)
			s.record(runID, a)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return agg, nil
}

// processPage fetches and filters one page. Every failure below the
// fetch boundary drops just the affected listing; a failed fetch drops
// the page. Neither aborts the run.
func (s *Scraper) processPage(ctx context.Context, keywords []string, term string, page int) []accepted {
	section, err := s.source.FetchPage(ctx, keywords, page)
	if err != nil {
		s.log.Warn().Err(err).Str("term", term).Int("page", page).Msg("page skipped")
		return nil
	}
	if section == nil {
		return nil
	}

	var out []accepted
	marketplace.Fragments(section).Each(func(_ int, item *goquery.Selection) {
		raw, err := marketplace.ParseListing(item)
		if err != nil {
			s.log.Debug().Err(err).Int("page", page).Msg("listing skipped")
			return
		}
		if !IsRelevant(raw.Title, keywords) {
			return
		}
		price, err := NormalizePrice(raw.PriceText)
		if err != nil {
			s.log.Debug().Err(err).Str("title", raw.Title).Msg("observation dropped")
			return
		}
		if !s.band.Contains(price) {
			return
		}
		date, err := ParseSoldDate(raw.DateText)
		if err != nil {
			s.log.Debug().Err(err).Str("title", raw.Title).Msg("observation dropped")
			return
		}

		out = append(out, accepted{
			raw: raw,
			obs: model.Observation{Product: term, Date: date, Price: price},
		})
	})
	return out
}

func (s *Scraper) record(runID string, a accepted) {
	if s.rec == nil {
		return
	}
	err := s.rec.RecordListing(&recorder.Listing{
		RunID:     runID,
		Product:   a.obs.Product,
		Title:     a.raw.Title,
		Price:     a.obs.Price,
		SoldDate:  a.obs.Date,
		Link:      a.raw.Link,
		Condition: a.raw.Condition,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("link", a.raw.Link).Msg("recorder write failed")
	}
}
