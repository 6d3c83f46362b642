package scrape

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/CSJesus/HardwarePriceCharting/internal/recorder"
)

func listingHTML(title, price, date, link string) string {
	return fmt.Sprintf(`<li class="s-item s-item__pl-on-bottom">
		<a class="s-item__link" href=%q><span class="s-item__title">%s</span></a>
		<span class="POSITIVE">Sold %s</span>
		<span class="s-item__price">%s</span>
	</li>`, link, title, date, price)
}

func pageHTML(listings ...string) string {
	return `<ul class="srp-results srp-list">` + strings.Join(listings, "\n") + `</ul>`
}

// fakeSource serves canned pages; pages without an entry report no
// results, and pages in failPages return a fetch error.
type fakeSource struct {
	pages     map[int]string
	failPages map[int]bool
}

func (f *fakeSource) FetchPage(ctx context.Context, keywords []string, page int) (*goquery.Selection, error) {
	if f.failPages[page] {
		return nil, fmt.Errorf("boom")
	}
	html, ok := f.pages[page]
	if !ok {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return doc.Find(".srp-results.srp-list").First(), nil
}

// captureRecorder collects recorded listings for assertions.
type captureRecorder struct {
	mu       sync.Mutex
	listings []recorder.Listing
}

func (c *captureRecorder) RecordListing(l *recorder.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings = append(c.listings, *l)
	return nil
}

func (c *captureRecorder) Close() error { return nil }

func testBand() PriceBand { return PriceBand{Min: 10, Max: 900} }

func TestScraperRun(t *testing.T) {
	source := &fakeSource{pages: map[int]string{
		1: pageHTML(
			listingHTML("AMD Ryzen 7 5800X CPU", "$300.00", "Dec 1, 2024", "https://x/itm/1"),
			listingHTML("AMD Ryzen 7 5800X", "$310.00", "Dec 1, 2024", "https://x/itm/2"),
			listingHTML("Intel Core i7-12700K", "$250.00", "Dec 1, 2024", "https://x/itm/3"), // irrelevant
			listingHTML("AMD Ryzen 7 5800X fan bracket", "$5.00", "Dec 1, 2024", "https://x/itm/4"), // irrelevant and under band
			listingHTML("AMD Ryzen 7 5800X bundle lot", "$950.00", "Dec 1, 2024", "https://x/itm/5"), // over band
		),
		2: pageHTML(
			listingHTML("amd ryzen 7 5800x processor", "$305.00", "Dec 2, 2024", "https://x/itm/6"),
		),
	}}
	rec := &captureRecorder{}

	s := NewScraper(source, rec, testBand(), 4, 2, zerolog.Nop())
	table, summaries, err := s.Run(context.Background(), []string{"AMD Ryzen 7 5800X"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if table.Len() != 1 {
		t.Fatalf("table has %d rows, want 1", table.Len())
	}
	row, ok := table.Lookup("AMD Ryzen 7 5800X")
	if !ok {
		t.Fatal("product row missing")
	}

	if v, ok := row.Price("2024-12-01"); !ok || v != 305.00 {
		t.Errorf("Dec 1 mean = %.2f, %v; want 305.00", v, ok)
	}
	if v, ok := row.Price("2024-12-02"); !ok || v != 305.00 {
		t.Errorf("Dec 2 mean = %.2f, %v; want 305.00", v, ok)
	}

	if len(summaries) != 1 || summaries[0].Observations != 3 {
		t.Errorf("summaries = %+v, want 3 observations", summaries)
	}
	if len(rec.listings) != 3 {
		t.Errorf("recorded %d listings, want 3", len(rec.listings))
	}
	for _, l := range rec.listings {
		if l.RunID == "" {
			t.Error("recorded listing missing run id")
		}
	}
}

func TestScraperSkipsFailedPages(t *testing.T) {
	source := &fakeSource{
		pages: map[int]string{
			1: pageHTML(listingHTML("rtx 4080 founders", "$800.00", "Dec 3, 2024", "https://x/itm/1")),
			3: pageHTML(listingHTML("rtx 4080 gaming oc", "$820.00", "Dec 4, 2024", "https://x/itm/2")),
		},
		failPages: map[int]bool{2: true},
	}

	s := NewScraper(source, recorder.NewNoopRecorder(), testBand(), 3, 1, zerolog.Nop())
	table, _, err := s.Run(context.Background(), []string{"rtx 4080"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	row, _ := table.Lookup("rtx 4080")
	if len(row.Prices) != 2 {
		t.Errorf("got %d dates, want 2 (failed page skipped, not fatal)", len(row.Prices))
	}
}

func TestScraperEmptyTermStillProducesRow(t *testing.T) {
	source := &fakeSource{pages: map[int]string{}}

	s := NewScraper(source, recorder.NewNoopRecorder(), testBand(), 2, 1, zerolog.Nop())
	table, summaries, err := s.Run(context.Background(), []string{"Radeon RX 7900 XTX"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	row, ok := table.Lookup("Radeon RX 7900 XTX")
	if !ok {
		t.Fatal("empty term should still produce a row")
	}
	if len(row.Prices) != 0 {
		t.Errorf("row has %d cells, want 0", len(row.Prices))
	}
	if summaries[0].Observations != 0 {
		t.Errorf("Observations = %d, want 0", summaries[0].Observations)
	}
}

func TestScraperCancellation(t *testing.T) {
	source := &fakeSource{pages: map[int]string{}}
	s := NewScraper(source, recorder.NewNoopRecorder(), testBand(), 2, 1, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := s.Run(ctx, []string{"anything"}); err == nil {
		t.Error("cancelled run should return an error")
	}
}
