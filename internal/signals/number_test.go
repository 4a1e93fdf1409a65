package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumbers(t *testing.T) {
	t.Run("currency with thousands separator", func(t *testing.T) {
		nums := ParseNumbers("above $100,000")
		require.Len(t, nums, 1)
		assert.Equal(t, 100000.0, nums[0].Value)
		assert.True(t, nums[0].Currency)
	})

	t.Run("magnitude suffixes", func(t *testing.T) {
		nums := ParseNumbers("100k or 1.5m or 2b")
		require.Len(t, nums, 3)
		assert.Equal(t, 100000.0, nums[0].Value)
		assert.Equal(t, 1500000.0, nums[1].Value)
		assert.Equal(t, 2000000000.0, nums[2].Value)
	})

	t.Run("percent", func(t *testing.T) {
		nums := ParseNumbers("CPI above 3.2%")
		require.Len(t, nums, 1)
		assert.Equal(t, 3.2, nums[0].Value)
		assert.True(t, nums[0].Percent)
	})

	t.Run("bare years are skipped", func(t *testing.T) {
		nums := ParseNumbers("Bitcoin $150k in 2026")
		require.Len(t, nums, 1)
		assert.Equal(t, 150000.0, nums[0].Value)
	})

	t.Run("dollar year is kept", func(t *testing.T) {
		nums := ParseNumbers("gold above $2050")
		require.Len(t, nums, 1)
		assert.Equal(t, 2050.0, nums[0].Value)
	})

	t.Run("calendar day after a month name is skipped", func(t *testing.T) {
		nums := ParseNumbers("Bitcoin above $100,000 on January 31, 2026")
		require.Len(t, nums, 1)
		assert.Equal(t, 100000.0, nums[0].Value)
	})

	t.Run("small value before a month name is kept", func(t *testing.T) {
		nums := ParseNumbers("rate above 25 in March")
		require.Len(t, nums, 1)
		assert.Equal(t, 25.0, nums[0].Value)
	})
}

func TestParseBasisPoints(t *testing.T) {
	tests := []struct {
		title string
		want  *int
	}{
		{"Fed cuts 25 bps in March", intp(25)},
		{"50 basis point hike", intp(50)},
		{"ECB to cut rates by 0.25%", intp(25)},
		{"quarter-point cut at the March meeting", intp(25)},
		{"half point cut", intp(50)},
		{"Fed holds rates unchanged", intp(0)},
		{"Fed decision in March", nil},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := ParseBasisPoints(tt.title)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func intp(v int) *int { return &v }

func TestThresholds(t *testing.T) {
	nums := ParseNumbers("CPI above 3.2% or $320")
	got := Thresholds(nums)
	assert.Equal(t, []float64{320}, got)
}
