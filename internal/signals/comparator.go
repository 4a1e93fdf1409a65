package signals

import "regexp"

var (
	betweenPattern   = regexp.MustCompile(`(?i)\bbetween\s+(\$?[\d,\.]+[kKmMbB]?)\s+and\s+(\$?[\d,\.]+[kKmMbB]?)`)
	rangeDashPattern = regexp.MustCompile(`(\$[\d,\.]+[kKmMbB]?)\s*[-–]\s*(\$?[\d,\.]+[kKmMbB]?)`)
	gePattern        = regexp.MustCompile(`(?i)\b(above|over|exceed(s)?|at\s+least|greater\s+than|more\s+than|settle\s+over|higher\s+than|reach(es)?|hit(s)?|surpass(es)?)\b|≥|>=`)
	lePattern        = regexp.MustCompile(`(?i)\b(below|under|at\s+most|less\s+than|lower\s+than|fewer\s+than|settle\s+under|drop(s)?\s+below|fall(s)?\s+below)\b|≤|<=`)
	eqPattern        = regexp.MustCompile(`(?i)\b(exactly|precisely|equal\s+to)\b`)
)

// ParseComparator classifies a title's threshold direction. GT and LT
// phrasings are folded into GE and LE — for matching purposes the strict
// and inclusive forms are the same market shape. BETWEEN wins over a stray
// "above" inside the range phrasing.
func ParseComparator(title string) Comparator {
	if betweenPattern.MatchString(title) || rangeDashPattern.MatchString(title) {
		return CompBetween
	}
	ge := gePattern.MatchString(title)
	le := lePattern.MatchString(title)
	switch {
	case ge && !le:
		return CompGE
	case le && !ge:
		return CompLE
	case eqPattern.MatchString(title):
		return CompEQ
	}
	return CompUnknown
}

// ParseRange extracts the two endpoints of a BETWEEN/dash range, low first.
// ok is false when the title has no range phrasing or endpoints fail to
// parse as numbers.
func ParseRange(title string) (low, high float64, ok bool) {
	m := betweenPattern.FindStringSubmatch(title)
	if m == nil {
		m = rangeDashPattern.FindStringSubmatch(title)
	}
	if m == nil {
		return 0, 0, false
	}
	a := ParseNumbers(m[1])
	b := ParseNumbers(m[2])
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, false
	}
	low, high = a[0].Value, b[0].Value
	if low > high {
		low, high = high, low
	}
	return low, high, true
}
