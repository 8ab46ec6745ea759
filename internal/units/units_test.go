package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveExactMatch(t *testing.T) {
	tests := []struct {
		token  string
		symbol string
	}{
		{"m", "m"},
		{"A", "A"},
		{"T", "T"}, // tesla, not the tera prefix
		{"eV", "eV"},
		{"T/m", "T/m"},
		{"unitless", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res := Resolve(tt.token)
			assert.True(t, res.Known)
			assert.Equal(t, tt.symbol, res.Symbol)
			assert.Equal(t, 1.0, res.Multiplier)
		})
	}
}

func TestResolvePrefixed(t *testing.T) {
	tests := []struct {
		token      string
		symbol     string
		multiplier float64
	}{
		{"kA", "A", 1e3},
		{"mm", "m", 1e-3},
		{"millim", "m", 1e-3}, // long prefix wins over repeated short match
		{"um", "m", 1e-6},
		{"µm", "m", 1e-6},
		{"ns", "s", 1e-9},
		{"MeV", "eV", 1e6},
		{"GHz", "Hz", 1e9},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res := Resolve(tt.token)
			assert.True(t, res.Known, "expected %q to resolve", tt.token)
			assert.Equal(t, tt.symbol, res.Symbol)
			assert.InDelta(t, tt.multiplier, res.Multiplier, 0)
		})
	}
}

func TestResolveCustomPassthrough(t *testing.T) {
	for _, token := range []string{"BACT", "counts", "pixel", "kXYZ", ""} {
		res := Resolve(token)
		assert.False(t, res.Known)
		assert.Equal(t, token, res.Symbol, "custom token kept verbatim")
		assert.Equal(t, 1.0, res.Multiplier)
	}
}
