package signals

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParsedDate is the (dateType, targetDate, periodKey) triple every date
// parse yields. Date is a UTC midnight instant when set.
type ParsedDate struct {
	Type      DateType
	Date      *time.Time
	PeriodKey string
}

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

const monthAlt = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec`

var (
	monthEndPattern = regexp.MustCompile(`(?i)\b(?:final|last)\s+trading\s+day\s+of\s+(` + monthAlt + `)(?:\s+(\d{4}))?`)
	dayExactPattern = regexp.MustCompile(`(?i)\b(` + monthAlt + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,)?(?:\s+(\d{4}))?`)
	periodPattern   = regexp.MustCompile(`(?i)\b(?:on|in|for|by|during)\s+(` + monthAlt + `)\s+(\d{4})`)
	quarterPattern  = regexp.MustCompile(`(?i)\bq([1-4])\s*(\d{4})`)
)

// ParseDate tries the date families in precedence order: month-end, exact
// day, period month, quarter. When nothing in the title parses, the venue
// close time anchors the date with type CLOSE_TIME. A missing year falls
// back to the close time's year, keeping the parse a pure function of its
// inputs.
func ParseDate(title string, closeTime *time.Time) ParsedDate {
	fallbackYear := 0
	if closeTime != nil {
		fallbackYear = closeTime.UTC().Year()
	}

	if m := monthEndPattern.FindStringSubmatch(title); m != nil {
		year := atoiOr(m[2], fallbackYear)
		if year > 0 {
			month := monthsByName[strings.ToLower(m[1])]
			d := endOfMonth(year, month)
			return ParsedDate{Type: DateMonthEnd, Date: &d, PeriodKey: monthKey(year, month)}
		}
	}

	if m := dayExactPattern.FindStringSubmatch(title); m != nil {
		year := atoiOr(m[3], fallbackYear)
		day := atoiOr(m[2], 0)
		if year > 0 && day >= 1 && day <= 31 {
			month := monthsByName[strings.ToLower(m[1])]
			d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			if d.Month() == month { // reject Feb 30 style rollovers
				return ParsedDate{Type: DateDayExact, Date: &d, PeriodKey: monthKey(year, month)}
			}
		}
	}

	if m := periodPattern.FindStringSubmatch(title); m != nil {
		year := atoiOr(m[2], 0)
		month := monthsByName[strings.ToLower(m[1])]
		d := endOfMonth(year, month)
		return ParsedDate{Type: DateMonthEnd, Date: &d, PeriodKey: monthKey(year, month)}
	}

	if m := quarterPattern.FindStringSubmatch(title); m != nil {
		q := atoiOr(m[1], 0)
		year := atoiOr(m[2], 0)
		d := endOfMonth(year, time.Month(q*3))
		return ParsedDate{Type: DateQuarter, Date: &d, PeriodKey: fmt.Sprintf("%04d-Q%d", year, q)}
	}

	if closeTime != nil {
		d := closeTime.UTC().Truncate(24 * time.Hour)
		return ParsedDate{Type: DateCloseTime, Date: &d, PeriodKey: monthKey(d.Year(), d.Month())}
	}
	return ParsedDate{Type: DateUnknown}
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func endOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthKeyOf formats a time as the YYYY-MM period key.
func MonthKeyOf(t time.Time) string {
	return monthKey(t.UTC().Year(), t.UTC().Month())
}

// DayKeyOf formats a time as the YYYY-MM-DD blocking-key component.
func DayKeyOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FloorToBucket floors a start time to the nearest 30-minute boundary, the
// bucket size sports blocking keys use.
func FloorToBucket(t time.Time) time.Time {
	return t.UTC().Truncate(30 * time.Minute)
}
