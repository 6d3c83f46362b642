package scrape

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrUnparsablePrice marks price text that yields no numeric value.
// The observation is dropped, the run continues.
var ErrUnparsablePrice = errors.New("unparsable price")

// soldDateLayout is the marketplace's sold-date label format ("Dec 2, 2024").
const soldDateLayout = "Jan 2, 2006"

// NormalizePrice converts raw price text into a numeric price. Currency
// symbols and thousands separators are stripped. Range prices
// ("$10 to $20") resolve to the mean of their endpoints. The result is
// rounded to cents.
func NormalizePrice(text string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(text)
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnparsablePrice, text)
	}

	isRange := false
	for _, f := range fields {
		if f == "to" {
			isRange = true
			break
		}
	}

	if isRange {
		var sum float64
		n := 0
		for _, f := range fields {
			if f == "to" {
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrUnparsablePrice, text)
			}
			sum += v
			n++
		}
		if n == 0 {
			return 0, fmt.Errorf("%w: %q", ErrUnparsablePrice, text)
		}
		return round2(sum / float64(n)), nil
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnparsablePrice, text)
	}
	return round2(v), nil
}

// ParseSoldDate parses a sold-date label into a calendar day.
func ParseSoldDate(text string) (time.Time, error) {
	t, err := time.Parse(soldDateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, fmt.Errorf("sold date %q: %w", text, err)
	}
	return t, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
