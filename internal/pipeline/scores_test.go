package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pmxlab/crosslink/internal/signals"
)

func TestPeriodCompat(t *testing.T) {
	tests := []struct {
		a, b string
		want PeriodCompatKind
	}{
		{"2026-03", "2026-03", PeriodExact},
		{"2026-Q1", "2026-Q1", PeriodExact},
		{"2026-03", "2026-Q1", PeriodMonthInQuarter},
		{"2026-Q1", "2026-03", PeriodQuarterHasMonth},
		{"2026-03", "2026-04", PeriodAdjacentMonth},
		{"2026-12", "2027-01", PeriodAdjacentMonth},
		{"2026-03", "2026-07", PeriodSameYear},
		{"2026-03", "2027-03", PeriodIncompatible},
		{"2026-04", "2026-Q1", PeriodSameYear},
		{"", "2026-03", PeriodIncompatible},
		{"2026-03", "", PeriodIncompatible},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, PeriodCompat(tt.a, tt.b))
		})
	}
}

func TestNumberScore(t *testing.T) {
	t.Run("exact", func(t *testing.T) {
		assert.Equal(t, 1.0, numberScore(100000, 100000))
	})
	t.Run("inside absolute tolerance", func(t *testing.T) {
		assert.Equal(t, 1.0, numberScore(3.2, 3.1))
	})
	t.Run("inside relative tolerance", func(t *testing.T) {
		assert.Equal(t, 1.0, numberScore(100000, 100050))
	})
	t.Run("partial credit decays", func(t *testing.T) {
		got := numberScore(100000, 103000) // 3% gap
		assert.Greater(t, got, 0.0)
		assert.Less(t, got, 1.0)
	})
	t.Run("beyond ten percent", func(t *testing.T) {
		assert.Equal(t, 0.0, numberScore(100000, 115000))
	})
}

func TestBestNumberScore(t *testing.T) {
	assert.Equal(t, 0.5, bestNumberScore(nil, nil))
	assert.Equal(t, 0.25, bestNumberScore([]float64{100}, nil))
	assert.Equal(t, 1.0, bestNumberScore([]float64{90000, 100000}, []float64{100000}))
}

func TestComparatorScore(t *testing.T) {
	assert.Equal(t, 1.0, comparatorScore(signals.CompGE, signals.CompGE))
	assert.Equal(t, 0.0, comparatorScore(signals.CompGE, signals.CompLE))
	assert.Equal(t, 0.5, comparatorScore(signals.CompGE, signals.CompUnknown))
	assert.Equal(t, 0.3, comparatorScore(signals.CompGE, signals.CompBetween))
}

func TestDateScore(t *testing.T) {
	day := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	t.Run("same day same type", func(t *testing.T) {
		assert.Equal(t, 1.0, dateScore(day(2026, 12, 31), day(2026, 12, 31), signals.DateDayExact, signals.DateDayExact))
	})
	t.Run("same day different anchor", func(t *testing.T) {
		assert.Equal(t, 0.85, dateScore(day(2026, 12, 31), day(2026, 12, 31), signals.DateDayExact, signals.DateCloseTime))
	})
	t.Run("same month", func(t *testing.T) {
		assert.Equal(t, 0.7, dateScore(day(2026, 12, 1), day(2026, 12, 31), signals.DateDayExact, signals.DateDayExact))
	})
	t.Run("adjacent month", func(t *testing.T) {
		assert.Equal(t, 0.4, dateScore(day(2026, 12, 31), day(2027, 1, 2), signals.DateDayExact, signals.DateDayExact))
	})
	t.Run("missing date", func(t *testing.T) {
		assert.Equal(t, 0.0, dateScore(nil, day(2026, 12, 31), signals.DateUnknown, signals.DateDayExact))
	})
}

func TestCloseTimeScore(t *testing.T) {
	base := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		t := base.Add(d)
		return &t
	}
	assert.Equal(t, 1.0, closeTimeScore(&base, at(6*time.Hour)))
	assert.Equal(t, 0.8, closeTimeScore(&base, at(-20*time.Hour)))
	assert.Equal(t, 0.6, closeTimeScore(&base, at(40*time.Hour)))
	assert.Equal(t, 0.3, closeTimeScore(&base, at(100*time.Hour)))
	assert.Equal(t, 0.0, closeTimeScore(&base, at(200*time.Hour)))
	assert.Equal(t, 0.0, closeTimeScore(&base, nil))
}

func TestRangeScore(t *testing.T) {
	t.Run("identical endpoints", func(t *testing.T) {
		assert.Equal(t, 1.0, rangeScore(3000, 3500, 3000, 3500))
	})
	t.Run("disjoint", func(t *testing.T) {
		assert.Equal(t, 0.0, rangeScore(3000, 3500, 4000, 4500))
	})
	t.Run("partial overlap", func(t *testing.T) {
		got := rangeScore(3000, 3500, 3250, 3750)
		assert.Greater(t, got, 0.0)
		assert.Less(t, got, 1.0)
	})
}

func TestWeightedSumClamps(t *testing.T) {
	parts := []Component{{"a", 1.0}, {"b", 1.0}}
	weights := map[string]float64{"a": 0.8, "b": 0.4}
	assert.Equal(t, 1.0, weightedSum(parts, weights))
}
