package recorder

import "time"

// Listing is one accepted observation together with its source listing
// detail, tagged with the scrape run that produced it.
type Listing struct {
	RunID     string
	Product   string
	Title     string
	Price     float64
	SoldDate  time.Time
	Link      string
	Condition string
}

// Recorder persists accepted listings for later inspection.
type Recorder interface {
	RecordListing(l *Listing) error
	Close() error
}
