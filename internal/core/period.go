package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	PeriodMonthly   PeriodKind = "monthly"
	PeriodQuarterly PeriodKind = "quarterly"
	PeriodAnnual    PeriodKind = "annual"
)

type (
	PeriodKind string

	// Period is a calendar reporting window: one month, one quarter or
	// one year. Membership is by calendar date, not elapsed time.
	Period struct {
		Kind    PeriodKind
		Year    int
		Month   int // 1-12, monthly only
		Quarter int // 1-4, quarterly only
	}
)

var ErrInvalidPeriod = errors.New("invalid period")

func Monthly(year, month int) Period {
	return Period{Kind: PeriodMonthly, Year: year, Month: month}
}

func Quarterly(year, quarter int) Period {
	return Period{Kind: PeriodQuarterly, Year: year, Quarter: quarter}
}

func Annual(year int) Period {
	return Period{Kind: PeriodAnnual, Year: year}
}

// ParsePeriod parses the report form encoding: "2025-03" (monthly),
// "2025-Q2" (quarterly) or "2025" (annual).
func ParsePeriod(kind PeriodKind, value string) (Period, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case PeriodMonthly:
		parts := strings.SplitN(value, "-", 2)
		if len(parts) != 2 {
			return Period{}, ErrInvalidPeriod
		}
		year, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			return Period{}, ErrInvalidPeriod
		}
		return Monthly(year, month), nil
	case PeriodQuarterly:
		parts := strings.SplitN(value, "-Q", 2)
		if len(parts) != 2 {
			return Period{}, ErrInvalidPeriod
		}
		year, err1 := strconv.Atoi(parts[0])
		quarter, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || quarter < 1 || quarter > 4 {
			return Period{}, ErrInvalidPeriod
		}
		return Quarterly(year, quarter), nil
	case PeriodAnnual:
		year, err := strconv.Atoi(value)
		if err != nil {
			return Period{}, ErrInvalidPeriod
		}
		return Annual(year), nil
	}
	return Period{}, ErrInvalidPeriod
}

// Contains reports whether the date falls within the period. Zero dates
// are never contained.
func (p Period) Contains(d Date) bool {
	if d.IsZero() || d.Year() != p.Year {
		return false
	}
	switch p.Kind {
	case PeriodMonthly:
		return d.Month() == p.Month
	case PeriodQuarterly:
		start := (p.Quarter-1)*3 + 1
		return d.Month() >= start && d.Month() <= start+2
	case PeriodAnnual:
		return true
	}
	return false
}

// SocialSecurityMonths is the flat multiplier applied to the monthly
// social-security contribution for this period: 1, 3 or 12. It is an
// approximation, not prorated by actual elapsed months.
func (p Period) SocialSecurityMonths() int {
	switch p.Kind {
	case PeriodQuarterly:
		return 3
	case PeriodAnnual:
		return 12
	}
	return 1
}

// Label is the human heading used on reports, e.g. "March 2025",
// "Q2 2025" or "2025".
func (p Period) Label() string {
	switch p.Kind {
	case PeriodMonthly:
		return fmt.Sprintf("%s %d", time.Month(p.Month).String(), p.Year)
	case PeriodQuarterly:
		return fmt.Sprintf("Q%d %d", p.Quarter, p.Year)
	}
	return strconv.Itoa(p.Year)
}

// Key is the filename-safe encoding, the inverse of ParsePeriod.
func (p Period) Key() string {
	switch p.Kind {
	case PeriodMonthly:
		return fmt.Sprintf("%d-%02d", p.Year, p.Month)
	case PeriodQuarterly:
		return fmt.Sprintf("%d-Q%d", p.Year, p.Quarter)
	}
	return strconv.Itoa(p.Year)
}

// MonthsElapsed returns how many months of the year that contains t have
// started, inclusive of the current month. Used by the year-to-date
// summary to accumulate social-security contributions.
func MonthsElapsed(t time.Time) int {
	return int(t.Month())
}
