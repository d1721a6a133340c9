package engine

import (
	"marketsim/pkg/contracts/domain"
)

// macroUpdater evolves the volatility index and the interest rate once per
// tick from the current regime's config.
type macroUpdater struct {
	rng *RNG
}

func newMacroUpdater(rng *RNG) *macroUpdater {
	return &macroUpdater{rng: rng}
}

// Update mutates state in place. The interest rate mean-reverts to the
// midpoint of the regime's target range; the VIX mean-reverts to the regime
// base with occasional upward spikes and a hard floor.
func (m *macroUpdater) Update(state *domain.MarketState, cfg RegimeConfig) {
	target := (cfg.RateLo + cfg.RateHi) / 2
	rate := state.InterestRate + 0.05*(target-state.InterestRate) + m.rng.Uniform(-0.01, 0.01)
	if rate < 0 {
		rate = 0
	}
	state.InterestRate = rate

	spike := 0.0
	if m.rng.Float64() < 0.002 {
		// Rare large spike.
		spike = m.rng.Uniform(15, 40)
	} else if m.rng.Float64() < 0.01 {
		// Common small spike.
		spike = m.rng.Uniform(5, 12)
	}

	decay := 0.15 * (state.VIX - cfg.VIXBase)
	noise := m.rng.Uniform(-0.75, 0.75)
	vix := state.VIX - decay + spike + noise
	if vix < vixFloor {
		vix = vixFloor
	}
	state.VIX = vix
}
