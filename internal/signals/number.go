package signals

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches $50, 50k, 1.5m, 100,000, 4.25%, and plain numbers.
// Group 1: currency sign, group 2: digits, group 3: magnitude suffix,
// group 4: percent sign.
var numberPattern = regexp.MustCompile(`(\$|€|£)?(\d{1,3}(?:,\d{3})+|\d+(?:\.\d+)?)([kKmMbB])?(%)?`)

// ParsedNumber is one numeric value recognized in a title.
type ParsedNumber struct {
	Value    float64
	Currency bool // had $/€/£ or a magnitude suffix
	Percent  bool
}

// monthDayPrefix matches a month name directly before a number, so
// "January 31" style day-of-month integers stay out of threshold lists.
var monthDayPrefix = regexp.MustCompile(`(?i)\b(?:` + monthAlt + `)\.?\s+$`)

// ParseNumbers extracts every numeric value from a title, normalizing
// thousands separators and k/m/b suffixes (100k → 100000). Plain values in
// [1900, 2100] are skipped unless marked as currency, so years don't leak
// into threshold lists; plain 1-31 integers right after a month name are
// skipped too, those are calendar days.
func ParseNumbers(title string) []ParsedNumber {
	matches := numberPattern.FindAllStringSubmatchIndex(title, -1)
	out := make([]ParsedNumber, 0, len(matches))
	for _, idx := range matches {
		group := func(g int) string {
			if idx[2*g] < 0 {
				return ""
			}
			return title[idx[2*g]:idx[2*g+1]]
		}
		raw := strings.ReplaceAll(group(2), ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		currency := group(1) != "" || group(3) != ""
		switch strings.ToLower(group(3)) {
		case "k":
			v *= 1_000
		case "m":
			v *= 1_000_000
		case "b":
			v *= 1_000_000_000
		}
		percent := group(4) == "%"
		if !currency && !percent && v == float64(int64(v)) {
			if v >= 1900 && v <= 2100 {
				continue // almost certainly a year
			}
			if v >= 1 && v <= 31 && monthDayPrefix.MatchString(title[:idx[0]]) {
				continue // day of month, not a threshold
			}
		}
		out = append(out, ParsedNumber{Value: v, Currency: currency, Percent: percent})
	}
	return out
}

// Thresholds returns just the non-percent values, for topics priced in
// dollars or index points.
func Thresholds(nums []ParsedNumber) []float64 {
	out := make([]float64, 0, len(nums))
	for _, n := range nums {
		if !n.Percent {
			out = append(out, n.Value)
		}
	}
	return out
}

var (
	bpsPattern      = regexp.MustCompile(`(?i)(\d+)\s*(?:bps|bp|basis\s+points?)`)
	pctRatePattern  = regexp.MustCompile(`(0?\.\d+)\s*%`)
	wordRatePattern = regexp.MustCompile(`(?i)\b(quarter|half|full)[\s-]*(?:point|pt)\b`)
	noChangePattern = regexp.MustCompile(`(?i)\b(no\s+change|unchanged|hold|pause)\b`)
)

// ParseBasisPoints recognizes "25 bps", "0.25%", and "quarter point"
// phrasings. Returns nil when no basis-point quantity is present.
func ParseBasisPoints(title string) *int {
	if m := bpsPattern.FindStringSubmatch(title); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return &v
		}
	}
	if m := pctRatePattern.FindStringSubmatch(title); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			// 0.25 percentage points is 25 bps
			bps := int(v*100 + 0.5)
			return &bps
		}
	}
	if m := wordRatePattern.FindStringSubmatch(title); m != nil {
		var bps int
		switch strings.ToLower(m[1]) {
		case "quarter":
			bps = 25
		case "half":
			bps = 50
		case "full":
			bps = 100
		}
		return &bps
	}
	if noChangePattern.MatchString(title) {
		zero := 0
		return &zero
	}
	return nil
}
