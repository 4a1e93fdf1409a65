package pipeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pmxlab/crosslink/internal/signals"
)

// clamp01 keeps every published score inside [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// weightedSum folds named components with their weights and clamps.
// Weights per topic sum to 1.0.
func weightedSum(parts []Component, weights map[string]float64) float64 {
	total := 0.0
	for _, p := range parts {
		total += p.Value * weights[p.Name]
	}
	return clamp01(total)
}

// reasonString renders the component breakdown every link's reason carries,
// e.g. "entity=1.00 date=0.80 cmp=1.00 num=1.00 text=0.35".
func reasonString(parts []Component, extras ...string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%.2f", p.Name, p.Value)
	}
	for _, e := range extras {
		b.WriteByte(' ')
		b.WriteString(e)
	}
	return b.String()
}

// entityScore is binary: canonical entities either match or they don't.
func entityScore(a, b string) float64 {
	if a != "" && a == b {
		return 1.0
	}
	return 0.0
}

// dateScore grades settle-date agreement. Exact same day on the same date
// type is 1.0; same day under differing types still counts high because the
// venues anchor dates differently.
func dateScore(aDate, bDate *time.Time, aType, bType signals.DateType) float64 {
	if aDate == nil || bDate == nil {
		return 0.0
	}
	a, b := aDate.UTC(), bDate.UTC()
	switch {
	case signals.DayKeyOf(a) == signals.DayKeyOf(b):
		if aType == bType {
			return 1.0
		}
		return 0.85
	case a.Year() == b.Year() && a.Month() == b.Month():
		return 0.7
	case adjacentMonth(a, b):
		return 0.4
	}
	return 0.0
}

func adjacentMonth(a, b time.Time) bool {
	am := a.Year()*12 + int(a.Month()) - 1
	bm := b.Year()*12 + int(b.Month()) - 1
	diff := am - bm
	return diff == 1 || diff == -1
}

// PeriodCompatKind enumerates how two period keys can relate.
type PeriodCompatKind string

const (
	PeriodExact           PeriodCompatKind = "exact"
	PeriodMonthInQuarter  PeriodCompatKind = "month_in_quarter"
	PeriodQuarterHasMonth PeriodCompatKind = "quarter_contains_month"
	PeriodSameYear        PeriodCompatKind = "same_year"
	PeriodAdjacentMonth   PeriodCompatKind = "adjacent_month"
	PeriodIncompatible    PeriodCompatKind = "incompatible"
)

// PeriodCompat classifies two period keys (YYYY-MM, YYYY-Qn, YYYY).
// Missing or unrelated keys are incompatible, which scorers treat as 0 and
// hard gates treat as a failure.
func PeriodCompat(a, b string) PeriodCompatKind {
	if a == "" || b == "" {
		return PeriodIncompatible
	}
	if a == b {
		return PeriodExact
	}
	ay, am, aq := parsePeriodKey(a)
	by, bm, bq := parsePeriodKey(b)
	if ay == 0 || by == 0 {
		return PeriodIncompatible
	}
	switch {
	case am > 0 && bq > 0:
		if ay == by && (am-1)/3+1 == bq {
			return PeriodMonthInQuarter
		}
	case aq > 0 && bm > 0:
		if ay == by && (bm-1)/3+1 == aq {
			return PeriodQuarterHasMonth
		}
	case am > 0 && bm > 0:
		ma, mb := ay*12+am-1, by*12+bm-1
		if ma-mb == 1 || mb-ma == 1 {
			return PeriodAdjacentMonth
		}
	}
	if ay == by {
		return PeriodSameYear
	}
	return PeriodIncompatible
}

// periodScore maps compatibility kinds to component scores.
func periodScore(a, b string) float64 {
	switch PeriodCompat(a, b) {
	case PeriodExact:
		return 1.0
	case PeriodMonthInQuarter, PeriodQuarterHasMonth:
		return 0.8
	case PeriodAdjacentMonth:
		return 0.4
	case PeriodSameYear:
		return 0.2
	}
	return 0.0
}

// parsePeriodKey splits YYYY, YYYY-MM, or YYYY-Qn. Unset parts are 0.
func parsePeriodKey(key string) (year, month, quarter int) {
	if len(key) < 4 {
		return 0, 0, 0
	}
	if _, err := fmt.Sscanf(key[:4], "%d", &year); err != nil {
		return 0, 0, 0
	}
	if len(key) >= 7 && key[4] == '-' {
		if key[5] == 'Q' || key[5] == 'q' {
			fmt.Sscanf(key[6:], "%d", &quarter)
		} else {
			fmt.Sscanf(key[5:7], "%d", &month)
		}
	}
	return year, month, quarter
}

// comparatorScore grades threshold-direction agreement. Opposite directions
// are 0 — the pair is asking inverted questions.
func comparatorScore(a, b signals.Comparator) float64 {
	if a == signals.CompUnknown || b == signals.CompUnknown {
		return 0.5
	}
	if a == b {
		return 1.0
	}
	if (a == signals.CompGE && b == signals.CompLE) || (a == signals.CompLE && b == signals.CompGE) {
		return 0.0
	}
	if a == signals.CompBetween || b == signals.CompBetween {
		return 0.3
	}
	return 0.3
}

// conflictingComparators reports the strict GE-vs-LE case auto-reject keys on.
func conflictingComparators(a, b signals.Comparator) bool {
	return (a == signals.CompGE && b == signals.CompLE) ||
		(a == signals.CompLE && b == signals.CompGE)
}

// numbersCompatible is the auto-confirm tolerance: within max(1.0, 0.1%).
func numbersCompatible(a, b float64) bool {
	tol := math.Max(1.0, 0.001*math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= tol
}

// numberScore grades threshold closeness: full credit inside the tolerance,
// partial credit decaying linearly out to a 10% relative gap.
func numberScore(a, b float64) float64 {
	if numbersCompatible(a, b) {
		return 1.0
	}
	denom := math.Max(math.Abs(a), math.Abs(b))
	if denom == 0 {
		return 0.0
	}
	rel := math.Abs(a-b) / denom
	if rel >= 0.10 {
		return 0.0
	}
	return clamp01(1.0 - rel/0.10)
}

// bestNumberScore scores the closest pair across two threshold lists. Both
// empty is 0.5 (no evidence either way); one empty is 0.25.
func bestNumberScore(as, bs []float64) float64 {
	if len(as) == 0 && len(bs) == 0 {
		return 0.5
	}
	if len(as) == 0 || len(bs) == 0 {
		return 0.25
	}
	best := 0.0
	for _, a := range as {
		for _, b := range bs {
			if s := numberScore(a, b); s > best {
				best = s
			}
		}
	}
	return best
}

// rangeScore grades two [low,high] ranges by interval overlap ratio, with
// an endpoint-tolerance fallback.
func rangeScore(aLow, aHigh, bLow, bHigh float64) float64 {
	if numbersCompatible(aLow, bLow) && numbersCompatible(aHigh, bHigh) {
		return 1.0
	}
	lo := math.Max(aLow, bLow)
	hi := math.Min(aHigh, bHigh)
	if hi <= lo {
		return 0.0
	}
	union := math.Max(aHigh, bHigh) - math.Min(aLow, bLow)
	if union <= 0 {
		return 0.0
	}
	overlap := (hi - lo) / union
	if overlap >= 0.90 {
		return 1.0
	}
	return clamp01(overlap)
}

// textScore is Jaccard similarity over the token sets.
func textScore(a, b []string) float64 {
	return signals.Jaccard(signals.TokenSet(a), signals.TokenSet(b))
}

// bucketScore grades 30-minute start buckets: exact, adjacent, or nothing.
func bucketScore(a, b *time.Time) float64 {
	if a == nil || b == nil {
		return 0.0
	}
	diff := a.Sub(*b)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1.0
	case diff <= 30*time.Minute:
		return 0.7
	}
	return 0.0
}

// closeTimeScore is the linear-decay proximity score for close-time-only
// anchoring, with breakpoints at 12h, 24h, 48h, and 168h.
func closeTimeScore(a, b *time.Time) float64 {
	if a == nil || b == nil {
		return 0.0
	}
	diff := a.Sub(*b)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 12*time.Hour:
		return 1.0
	case diff <= 24*time.Hour:
		return 0.8
	case diff <= 48*time.Hour:
		return 0.6
	case diff <= 168*time.Hour:
		return 0.3
	}
	return 0.0
}

// overlapCount counts shared strings across two sorted sets.
func overlapCount(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	n := 0
	for _, s := range b {
		if _, ok := set[s]; ok {
			n++
		}
	}
	return n
}
