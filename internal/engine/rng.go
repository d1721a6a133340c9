package engine

import (
	"time"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RNG centralizes every random draw the engine makes so tests can seed the
// whole simulation from a single source. It is used only by the tick producer
// and is not safe for concurrent use.
type RNG struct {
	rnd *xrand.Rand
}

// NewRNG returns an RNG seeded with the given value. Seed 0 selects a
// time-based seed for non-deterministic runs.
func NewRNG(seed uint64) *RNG {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RNG{rnd: xrand.New(xrand.NewSource(seed))}
}

// Float64 draws U ~ Uniform(0,1).
func (r *RNG) Float64() float64 {
	return r.rnd.Float64()
}

// Uniform draws from Uniform(lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + r.rnd.Float64()*(hi-lo)
}

// IntN draws an integer in [0, n).
func (r *RNG) IntN(n int) int {
	return r.rnd.Intn(n)
}

// LogNormal draws from a log-normal distribution whose underlying normal has
// the given mean and standard deviation.
func (r *RNG) LogNormal(mu, sigma float64) float64 {
	return distuv.LogNormal{Mu: mu, Sigma: sigma, Src: r.rnd}.Rand()
}

// Pick returns a uniformly chosen element of choices.
func (r *RNG) Pick(choices []string) string {
	return choices[r.rnd.Intn(len(choices))]
}

const tickerLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// SectorTicker generates a 3-4 letter ticker symbol beginning with the
// sector's first letter.
func (r *RNG) SectorTicker(sector string) string {
	length := 3
	if r.Float64() > 0.5 {
		length = 4
	}
	b := make([]byte, length)
	b[0] = sector[0]
	for i := 1; i < length; i++ {
		b[i] = tickerLetters[r.IntN(len(tickerLetters))]
	}
	return string(b)
}
