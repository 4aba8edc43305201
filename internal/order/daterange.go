// AngelaMos | 2026
// daterange.go

package order

import (
	"strings"
	"time"

	"github.com/carterperez-dev/orderdesk/internal/core"
)

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether a stored DD-MM-YYYY date falls in the range.
// Unparseable dates are outside every bounded range.
func (r DateRange) Contains(stored string) bool {
	if r.IsZero() {
		return true
	}

	d, err := time.Parse(DateLayout, strings.TrimSpace(stored))
	if err != nil {
		return false
	}
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

var inputLayouts = []string{DateLayout, time.DateOnly}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, core.Invalidf("invalid date %q, want DD-MM-YYYY", s)
}

// ParseDateRange reads optional bounds in DD-MM-YYYY or YYYY-MM-DD form.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var err error

	if strings.TrimSpace(from) != "" {
		if r.From, err = parseDay(from); err != nil {
			return DateRange{}, err
		}
	}
	if strings.TrimSpace(to) != "" {
		if r.To, err = parseDay(to); err != nil {
			return DateRange{}, err
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return DateRange{}, core.Invalidf("date range starts after it ends")
	}

	return r, nil
}
