package model

import "time"

// RawListing is one scraped search result before any validation.
// Price and date are kept as raw text; normalization happens later.
type RawListing struct {
	Title     string `json:"title"`
	PriceText string `json:"price_text"`
	DateText  string `json:"date_text"`
	Link      string `json:"link"`
	Condition string `json:"condition"`
}

// Observation is a validated, normalized (product, date, price) fact.
type Observation struct {
	Product string    `json:"product"`
	Date    time.Time `json:"date"` // calendar day, zero clock
	Price   float64   `json:"price"`
}

// Point is one (date, price) pair of a daily series.
type Point struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// Candle represents one calendar week of prices (OHLC).
// WeekStart is the Monday of the ISO week the prices fall in.
type Candle struct {
	WeekStart time.Time `json:"week_start"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}

// TrailingStats summarizes the most recent window of a daily series.
// Previous is nil when the window holds fewer than two points.
type TrailingStats struct {
	Low      float64  `json:"low"`
	High     float64  `json:"high"`
	Average  float64  `json:"average"`
	Current  float64  `json:"current"`
	Previous *float64 `json:"previous,omitempty"`
}

// RunSummary reports one search term's scrape outcome: observation count
// and the spread over the run's de-duplicated price set.
type RunSummary struct {
	Product      string  `json:"product"`
	Observations int     `json:"observations"`
	Dates        int     `json:"dates"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Average      float64 `json:"average"`
	Median       float64 `json:"median"`
}
