package series

import (
	"time"

	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

// WeeklyCandles partitions an ascending daily series into disjoint
// calendar weeks (Monday start) and emits one candle per week that holds
// at least one point: open is the week's earliest price, close its
// latest, high/low the extrema. Weeks with no points produce no candle.
func WeeklyCandles(points []model.Point) []model.Candle {
	var candles []model.Candle
	for _, p := range points {
		ws := weekStart(p.Date)
		if len(candles) == 0 || !candles[len(candles)-1].WeekStart.Equal(ws) {
			candles = append(candles, model.Candle{
				WeekStart: ws,
				Open:      p.Price,
				High:      p.Price,
				Low:       p.Price,
				Close:     p.Price,
			})
			continue
		}

		c := &candles[len(candles)-1]
		if p.Price > c.High {
			c.High = p.Price
		}
		if p.Price < c.Low {
			c.Low = p.Price
		}
		c.Close = p.Price
	}
	return candles
}

// weekStart returns the Monday of t's ISO week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return dateOf(t).AddDate(0, 0, -offset)
}

// RollingCandles is the legacy variant the old dashboard used: a sliding
// window of the trailing 7 samples per point, so consecutive candles
// overlap and are not independent. WeeklyCandles is the canonical
// resampling; this one is kept only to reproduce the old charts. The
// candle's WeekStart holds the sample's own date, not a week boundary.
func RollingCandles(points []model.Point) []model.Candle {
	candles := make([]model.Candle, 0, len(points))
	for i := range points {
		lo := i - 6
		if lo < 0 {
			lo = 0
		}
		window := points[lo : i+1]

		c := model.Candle{
			WeekStart: points[i].Date,
			Open:      window[0].Price,
			High:      window[0].Price,
			Low:       window[0].Price,
			Close:     window[len(window)-1].Price,
		}
		for _, p := range window {
			if p.Price > c.High {
				c.High = p.Price
			}
			if p.Price < c.Low {
				c.Low = p.Price
			}
		}
		candles = append(candles, c)
	}
	return candles
}
