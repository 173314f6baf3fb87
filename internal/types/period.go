// Package types implements special types for the ledger.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrPeriodIncomplete = errors.New("month and year must be specified together")
	ErrInvalidPeriod    = errors.New("the specified period is invalid, month must be an English month name and year a four digit number")
)

var yearPattern = regexp.MustCompile("^[0-9]{4}$")

// Period is a calendar month in a specific year, in the form it is
// stored on expenses: the long English month name and a four digit year.
type Period struct {
	Month string `json:"month" example:"March"`
	Year  string `json:"year" example:"2024"`
}

// PeriodOf returns the Period in which a time occurs.
//
// The time is converted to UTC first since all dates are stored in UTC.
func PeriodOf(t time.Time) Period {
	t = t.In(time.UTC)
	return Period{
		Month: t.Month().String(),
		Year:  fmt.Sprintf("%04d", t.Year()),
	}
}

// NewPeriod returns the Period for a year and month.
func NewPeriod(year int, month time.Month) Period {
	return PeriodOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
}

// ParsePeriod parses a month name and a year as sent in query strings.
//
// Both values empty yields the zero Period. Month names are matched
// case-insensitively and returned in their canonical form.
func ParsePeriod(month, year string) (Period, error) {
	month = strings.TrimSpace(month)
	year = strings.TrimSpace(year)

	if month == "" && year == "" {
		return Period{}, nil
	}

	if month == "" || year == "" {
		return Period{}, ErrPeriodIncomplete
	}

	m, ok := parseMonthName(month)
	if !ok || !yearPattern.MatchString(year) {
		return Period{}, ErrInvalidPeriod
	}

	return Period{Month: m.String(), Year: year}, nil
}

func parseMonthName(s string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), s) {
			return m, true
		}
	}

	return 0, false
}

// IsZero reports if the period is the zero value.
func (p Period) IsZero() bool {
	return p.Month == "" && p.Year == ""
}

// Contains reports whether the time instant is in the period.
func (p Period) Contains(t time.Time) bool {
	return PeriodOf(t) == p
}

// String returns the period formatted as "Month YYYY".
func (p Period) String() string {
	return fmt.Sprintf("%s %s", p.Month, p.Year)
}
