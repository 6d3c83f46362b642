package series

import (
	"errors"
	"sort"
	"time"

	"github.com/CSJesus/HardwarePriceCharting/internal/catalog"
	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

// ErrEmptySeries means there is no data to fill from; no meaningful
// series can be produced and the caller must handle it.
var ErrEmptySeries = errors.New("empty series")

// FromRow converts a catalog row into an ordered daily series. Column
// labels that do not parse as dates are dropped, not fatal. Dates are
// strictly increasing in the result.
func FromRow(row catalog.Row) []model.Point {
	points := make([]model.Point, 0, len(row.Prices))
	for label, price := range row.Prices {
		d, err := time.Parse(catalog.DateLabel, label)
		if err != nil {
			continue
		}
		points = append(points, model.Point{Date: d, Price: price})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// Dense reindexes a daily series onto every calendar day of the
// inclusive range [start, end]. Days without an observation carry the
// nearest earlier value forward; days before the first observation carry
// the first value backward. The result has no gaps and exactly one point
// per day of the span.
func Dense(points []model.Point, start, end time.Time) ([]model.Point, error) {
	if len(points) == 0 {
		return nil, ErrEmptySeries
	}

	start = dateOf(start)
	end = dateOf(end)

	var out []model.Point
	idx := 0
	last := points[0].Price // back-fill value for leading gaps
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		for idx < len(points) && !points[idx].Date.After(d) {
			last = points[idx].Price
			idx++
		}
		out = append(out, model.Point{Date: d, Price: last})
	}
	return out, nil
}

// dateOf truncates a time to its calendar day in UTC.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
