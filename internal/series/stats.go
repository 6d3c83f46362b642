package series

import (
	"sort"

	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

// Trailing computes low/high/average/current/previous over the most
// recent windowDays points of a daily series (fewer when the series is
// shorter). Current is the newest point; previous is the point right
// before it, left nil when the window holds a single point.
func Trailing(points []model.Point, windowDays int) (model.TrailingStats, error) {
	if len(points) == 0 {
		return model.TrailingStats{}, ErrEmptySeries
	}

	desc := make([]model.Point, len(points))
	copy(desc, points)
	sort.Slice(desc, func(i, j int) bool {
		return desc[i].Date.After(desc[j].Date)
	})

	if len(desc) > windowDays {
		desc = desc[:windowDays]
	}

	stats := model.TrailingStats{
		Low:     desc[0].Price,
		High:    desc[0].Price,
		Current: desc[0].Price,
	}
	var sum float64
	for _, p := range desc {
		if p.Price < stats.Low {
			stats.Low = p.Price
		}
		if p.Price > stats.High {
			stats.High = p.Price
		}
		sum += p.Price
	}
	stats.Average = sum / float64(len(desc))

	if len(desc) > 1 {
		prev := desc[1].Price
		stats.Previous = &prev
	}

	return stats, nil
}
