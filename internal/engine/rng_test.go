package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterministicForSeed(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}

	// Different seeds diverge quickly.
	c := NewRNG(43)
	same := 0
	d := NewRNG(42)
	for i := 0; i < 100; i++ {
		if c.Float64() == d.Float64() {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestRNGUniformBounds(t *testing.T) {
	r := NewRNG(1)
	for i := 0; i < 1000; i++ {
		v := r.Uniform(-2.5, 7.5)
		assert.GreaterOrEqual(t, v, -2.5)
		assert.Less(t, v, 7.5)
	}
}

func TestRNGIntN(t *testing.T) {
	r := NewRNG(1)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		n := r.IntN(4)
		require.GreaterOrEqual(t, n, 0)
		require.Less(t, n, 4)
		seen[n] = true
	}
	assert.Len(t, seen, 4)
}

func TestRNGLogNormalPositive(t *testing.T) {
	r := NewRNG(7)
	for i := 0; i < 1000; i++ {
		assert.Greater(t, r.LogNormal(0, 0.5), 0.0)
	}
}

func TestRNGPick(t *testing.T) {
	r := NewRNG(3)
	choices := []string{"a", "b", "c"}
	for i := 0; i < 100; i++ {
		assert.Contains(t, choices, r.Pick(choices))
	}
}

func TestSectorTicker(t *testing.T) {
	r := NewRNG(11)
	for i := 0; i < 200; i++ {
		ticker := r.SectorTicker("Technology")
		assert.True(t, len(ticker) == 3 || len(ticker) == 4, "ticker %q", ticker)
		assert.True(t, strings.HasPrefix(ticker, "T"), "ticker %q", ticker)
		assert.Equal(t, strings.ToUpper(ticker), ticker)
	}
}
