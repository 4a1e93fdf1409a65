package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEntity(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"btc", "BITCOIN"},
		{"Bitcoin", "BITCOIN"},
		{"  ETH  ", "ETHEREUM"},
		{"donald trump", "DONALD_TRUMP"},
		{"Donald  Trump", "DONALD_TRUMP"},
		{"fed", "FED"},
		{"unknown thing", "UNKNOWN_THING"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEntity(tt.alias))
		})
	}
}

// NormalizeEntity must be idempotent: feeding a canonical name back in
// returns the same name.
func TestNormalizeEntityIdempotent(t *testing.T) {
	for alias := range entityAliases {
		canonical := NormalizeEntity(alias)
		assert.Equal(t, canonical, NormalizeEntity(canonical), "alias %q", alias)
	}
}

func TestLookupEntity(t *testing.T) {
	got, ok := LookupEntity("xrp")
	assert.True(t, ok)
	assert.Equal(t, "XRP", got)

	_, ok = LookupEntity("definitely not an alias")
	assert.False(t, ok)
}
