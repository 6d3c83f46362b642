package scrape

import (
	"sort"

	"github.com/CSJesus/HardwarePriceCharting/internal/catalog"
	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

// Aggregator collects one product's observations across a scrape run and
// reduces them to one mean price per calendar day. Grouping is by date
// only, so the order pages arrive in does not affect the result. Listings
// repeated across overlapping pages are counted each time they appear;
// the daily mean reflects the feed as scraped, not a de-duplicated set.
type Aggregator struct {
	product string
	byDate  map[string][]float64
	all     []float64
}

// NewAggregator creates an aggregator for one product.
func NewAggregator(product string) *Aggregator {
	return &Aggregator{
		product: product,
		byDate:  make(map[string][]float64),
	}
}

// Add records one observation.
func (a *Aggregator) Add(obs model.Observation) {
	label := obs.Date.Format(catalog.DateLabel)
	a.byDate[label] = append(a.byDate[label], obs.Price)
	a.all = append(a.all, obs.Price)
}

// Count returns the number of observations added.
func (a *Aggregator) Count() int {
	return len(a.all)
}

// Row returns the product's daily price row: per date, the mean of that
// date's observations rounded to cents. Zero observations produce a
// well-formed empty row.
func (a *Aggregator) Row() catalog.Row {
	row := catalog.NewRow(a.product)
	for label, prices := range a.byDate {
		var sum float64
		for _, p := range prices {
			sum += p
		}
		row.Prices[label] = round2(sum / float64(len(prices)))
	}
	return row
}

// Summary reports the run's outcome for this product. High, low, average
// and median are computed over the de-duplicated price set, so a price
// seen many times moves the daily means but not the run-level spread.
func (a *Aggregator) Summary() model.RunSummary {
	s := model.RunSummary{
		Product:      a.product,
		Observations: len(a.all),
		Dates:        len(a.byDate),
	}
	if len(a.all) == 0 {
		return s
	}

	unique := uniqueSorted(a.all)
	s.Low = unique[0]
	s.High = unique[len(unique)-1]

	var sum float64
	for _, p := range unique {
		sum += p
	}
	s.Average = round2(sum / float64(len(unique)))
	s.Median = round2(median(unique))
	return s
}

func uniqueSorted(prices []float64) []float64 {
	seen := make(map[float64]struct{}, len(prices))
	out := make([]float64, 0, len(prices))
	for _, p := range prices {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Float64s(out)
	return out
}

// median of a sorted slice; the mean of the middle pair for even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
