package view

import (
	"errors"
	"fmt"
	"time"

	"github.com/CSJesus/HardwarePriceCharting/internal/catalog"
	"github.com/CSJesus/HardwarePriceCharting/internal/series"
	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

var (
	// ErrProductNotFound means the requested name matches no catalog row.
	ErrProductNotFound = errors.New("product not found")
	// ErrNoPriceData means the product exists but has no usable prices yet.
	ErrNoPriceData = errors.New("no price data")
)

// ProductSeries is one product's dense history on the page's shared
// date bounds, so overlaid products stay time-aligned.
type ProductSeries struct {
	Product string        `json:"product"`
	Points  []model.Point `json:"points"`
}

// ProductPage is the full view model for one product: trailing stats,
// the change against the previous price, the dense history of the
// product and any comparison products, and its weekly candles.
type ProductPage struct {
	Product   string              `json:"product"`
	Stats     model.TrailingStats `json:"stats"`
	ChangePct float64             `json:"change_pct"`
	History   []ProductSeries     `json:"history"`
	Candles   []model.Candle      `json:"candles"`
}

// Service answers presentation requests against a merged catalog.
type Service struct {
	catalog    *catalog.Table
	epoch      time.Time
	windowDays int
	now        func() time.Time
}

// NewService creates a view service. epoch is the fixed start of every
// dense history; windowDays sizes the trailing statistics window.
func NewService(cat *catalog.Table, epoch time.Time, windowDays int) *Service {
	return &Service{
		catalog:    cat,
		epoch:      epoch,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Products returns all product names in catalog order.
func (s *Service) Products() []string {
	return s.catalog.Products()
}

// ProductPage builds the page for a product by exact name, with optional
// comparison products resolved by case-insensitive substring match (the
// search box's behavior). An unknown primary name is ErrProductNotFound;
// a known product with no parsable prices is ErrNoPriceData. Comparison
// names that resolve to nothing are skipped rather than failing the page.
func (s *Service) ProductPage(name string, compare ...string) (*ProductPage, error) {
	row, ok := s.catalog.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrProductNotFound, name)
	}

	daily := series.FromRow(row)
	if len(daily) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoPriceData, name)
	}

	stats, err := series.Trailing(daily, s.windowDays)
	if err != nil {
		return nil, err
	}

	page := &ProductPage{
		Product: row.Product,
		Stats:   stats,
		Candles: series.WeeklyCandles(daily),
	}
	if stats.Previous != nil && *stats.Previous != 0 {
		page.ChangePct = (stats.Current - *stats.Previous) / *stats.Previous * 100
	}

	// All overlaid series share the same [epoch, now] bounds.
	end := s.now()
	dense, err := series.Dense(daily, s.epoch, end)
	if err != nil {
		return nil, err
	}
	page.History = append(page.History, ProductSeries{Product: row.Product, Points: dense})

	for _, cmp := range compare {
		cmpRow, ok := s.catalog.Match(cmp)
		if !ok || cmpRow.Product == row.Product {
			continue
		}
		cmpDaily := series.FromRow(cmpRow)
		if len(cmpDaily) == 0 {
			continue
		}
		cmpDense, err := series.Dense(cmpDaily, s.epoch, end)
		if err != nil {
			continue
		}
		page.History = append(page.History, ProductSeries{Product: cmpRow.Product, Points: cmpDense})
	}

	return page, nil
}
