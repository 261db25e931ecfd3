package finance

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/waghrental/rentledger/internal/domain"
)

// MonthKey identifies a calendar month bucket. Its canonical text form is
// "{month}/{year}", e.g. "3/2024".
type MonthKey struct {
	Year  int
	Month time.Month
}

// NewMonthKey builds a key, rejecting out-of-range components.
func NewMonthKey(year int, month time.Month) (MonthKey, error) {
	if month < time.January || month > time.December {
		return MonthKey{}, fmt.Errorf("%w: month %d", domain.ErrInvalidMonth, int(month))
	}
	if year < 1 || year > 9999 {
		return MonthKey{}, fmt.Errorf("%w: year %d", domain.ErrInvalidMonth, year)
	}
	return MonthKey{Year: year, Month: month}, nil
}

// MonthKeyOf returns the bucket a calendar date falls into.
func MonthKeyOf(d domain.Date) MonthKey {
	return MonthKey{Year: d.Year(), Month: d.Month()}
}

// MonthKeyAt returns the UTC month containing t.
func MonthKeyAt(t time.Time) MonthKey {
	u := t.UTC()
	return MonthKey{Year: u.Year(), Month: u.Month()}
}

// ParseMonthKey accepts "3/2024", "2024-03" or a label such as "March 2024".
func ParseMonthKey(s string) (MonthKey, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "/"):
		parts := strings.SplitN(s, "/", 2)
		return parseParts(parts[1], parts[0], s)
	case len(s) == 7 && s[4] == '-':
		return parseParts(s[:4], s[5:], s)
	}
	t, err := time.Parse("January 2006", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, s)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

func parseParts(year, month, raw string) (MonthKey, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, raw)
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, raw)
	}
	return NewMonthKey(y, time.Month(m))
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%d/%d", int(k.Month), k.Year)
}

// Label is the human form, e.g. "March 2024".
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month.String(), k.Year)
}

// First returns the first day of the month.
func (k MonthKey) First() domain.Date {
	return domain.NewDate(k.Year, k.Month, 1)
}

// Last returns the last day of the month.
func (k MonthKey) Last() domain.Date {
	return k.Next().First().AddDays(-1)
}

// Next returns the following month.
func (k MonthKey) Next() MonthKey {
	t := k.First().AddDate(0, 1, 0)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Prev returns the preceding month.
func (k MonthKey) Prev() MonthKey {
	t := k.First().AddDate(0, -1, 0)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether d falls inside the month.
func (k MonthKey) Contains(d domain.Date) bool {
	return !d.IsZero() && d.Year() == k.Year && d.Month() == k.Month
}

// Compare orders keys chronologically.
func (k MonthKey) Compare(o MonthKey) int {
	switch {
	case k.Year != o.Year:
		if k.Year < o.Year {
			return -1
		}
		return 1
	case k.Month != o.Month:
		if k.Month < o.Month {
			return -1
		}
		return 1
	}
	return 0
}

// MarshalText lets MonthKey be used as a JSON object key.
func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses any form accepted by ParseMonthKey.
func (k *MonthKey) UnmarshalText(text []byte) error {
	parsed, err := ParseMonthKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// SortMonthsDesc orders keys most recent first.
func SortMonthsDesc(keys []MonthKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Compare(keys[j]) > 0
	})
}
