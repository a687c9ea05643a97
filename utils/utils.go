package utils

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Datable is a type that can be parsed into a date (hopefully).
type Datable interface{}

// ParseDate parses a provider date value into a time.Time object in UTC.
// Providers are wildly inconsistent: RSS feeds use RFC1123, REST APIs use RFC3339,
// Reddit and CryptoCompare return unix timestamps (sometimes in milliseconds).
func ParseDate(dateValue Datable) (time.Time, error) {
	var timestamp int64

	switch dateValue := dateValue.(type) {
	case nil:
		return time.Time{}, nil
	case string:
		if dateValue == "" {
			return time.Time{}, nil
		}
		// List of potential layouts to try
		layouts := []string{
			time.RFC1123,
			time.RFC1123Z,
			time.RFC3339,
			"2006-01-02T15:04:05",
		}

		var parsedTime time.Time
		var err error

		for _, layout := range layouts {
			parsedTime, err = time.Parse(layout, dateValue)
			if err == nil {
				break
			}
		}

		if parsedTime.IsZero() && err != nil {
			return time.Time{}, fmt.Errorf("error parsing date: %s", dateValue)
		}

		return parsedTime.UTC(), nil
	case int:
		timestamp = int64(dateValue)
	case int32:
		timestamp = int64(dateValue)
	case int64:
		timestamp = dateValue
	case float64:
		timestamp = int64(dateValue)
	default:
		return time.Time{}, fmt.Errorf("unknown type: %T of value %v", dateValue, dateValue)
	}

	if timestamp == 0 {
		return time.Time{}, nil
	}

	// If Unix milliseconds - convert to seconds
	if timestamp > 9999999999 {
		return time.Unix(timestamp/1000, 0).UTC(), nil
	}
	return time.Unix(timestamp, 0).UTC(), nil
}

var stripPolicy = bluemonday.StrictPolicy()

// StripHTML removes all markup from a scraped payload and collapses the
// remaining whitespace. Scraper sources (Nitter, CoinMarketCap) embed full
// HTML fragments in their text fields.
func StripHTML(s string) string {
	clean := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

// Truncate cuts s to at most n runes. Used for display titles.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
