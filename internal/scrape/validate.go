package scrape

import "strings"

// IsRelevant reports whether every keyword appears as a standalone
// whitespace-delimited word of the lower-cased title. Whole-word matching
// keeps a keyword like "4080" from matching "14080".
func IsRelevant(title string, keywords []string) bool {
	words := strings.Fields(strings.ToLower(title))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		seen[w] = struct{}{}
	}
	for _, kw := range keywords {
		if _, ok := seen[strings.ToLower(kw)]; !ok {
			return false
		}
	}
	return true
}

// PriceBand is the observation acceptance band. Both bounds are exclusive:
// the band screens out accessory listings priced in single digits and
// bulk/lot listings far above a single unit's price.
type PriceBand struct {
	Min float64
	Max float64
}

// Contains reports whether price lies strictly inside the band.
func (b PriceBand) Contains(price float64) bool {
	return price > b.Min && price < b.Max
}
