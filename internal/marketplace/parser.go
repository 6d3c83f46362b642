package marketplace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/CSJesus/HardwarePriceCharting/pkg/model"
)

const (
	listingSelector   = "li.s-item.s-item__pl-on-bottom"
	titleSelector     = ".s-item__title"
	priceSelector     = ".s-item__price"
	soldDateSelector  = ".POSITIVE"
	linkSelector      = ".s-item__link"
	conditionSelector = ".s-item__subtitle"
)

// ErrMalformedListing marks a fragment missing a required field.
// Such listings are skipped, never fed into the pipeline.
var ErrMalformedListing = errors.New("malformed listing")

// Fragments returns the individual listing fragments of a results section.
func Fragments(section *goquery.Selection) *goquery.Selection {
	return section.Find(listingSelector)
}

// ParseListing extracts the raw fields of one listing fragment. Title,
// price, date and link are required; condition defaults to "Unknown".
// Price and date stay as raw text.
func ParseListing(item *goquery.Selection) (model.RawListing, error) {
	title := strings.ToLower(strings.TrimSpace(item.Find(titleSelector).First().Text()))
	if title == "" {
		return model.RawListing{}, fmt.Errorf("%w: no title", ErrMalformedListing)
	}

	price := strings.TrimSpace(item.Find(priceSelector).First().Text())
	if price == "" {
		return model.RawListing{}, fmt.Errorf("%w: no price", ErrMalformedListing)
	}

	date := item.Find(soldDateSelector).First().Text()
	date = strings.TrimSpace(strings.ReplaceAll(date, "Sold", ""))
	if date == "" {
		return model.RawListing{}, fmt.Errorf("%w: no sold date", ErrMalformedListing)
	}

	href, ok := item.Find(linkSelector).First().Attr("href")
	if !ok || href == "" {
		return model.RawListing{}, fmt.Errorf("%w: no link", ErrMalformedListing)
	}
	// Drop tracking parameters, keep the canonical item URL.
	link, _, _ := strings.Cut(href, "?")

	condition := "Unknown"
	if sub := item.Find(conditionSelector).First(); sub.Length() > 0 {
		if text := strings.TrimSpace(sub.Text()); text != "" {
			condition = strings.ToLower(text)
		}
	}

	return model.RawListing{
		Title:     title,
		PriceText: price,
		DateText:  date,
		Link:      link,
		Condition: condition,
	}, nil
}
