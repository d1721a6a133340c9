package engine

import (
	"marketsim/pkg/contracts/domain"
)

// RegimeConfig is the static parameter record of one regime.
type RegimeConfig struct {
	Label           string
	RateLo, RateHi  float64
	VIXBase         float64
	DriftMultiplier float64
	HealthRegen     float64
}

var regimeConfigs = map[domain.Regime]RegimeConfig{
	domain.RegimeGrowth: {
		Label:           "Bull Market",
		RateLo:          0,
		RateHi:          1.5,
		VIXBase:         15,
		DriftMultiplier: 6.5,
		HealthRegen:     0.0002,
	},
	domain.RegimeStagnation: {
		Label:           "Sideways Market",
		RateLo:          1.5,
		RateHi:          3.5,
		VIXBase:         18,
		DriftMultiplier: 1.2,
		HealthRegen:     0.00001,
	},
	domain.RegimeContraction: {
		Label:           "Correction",
		RateLo:          3.5,
		RateHi:          5.0,
		VIXBase:         25,
		DriftMultiplier: -1.2,
		HealthRegen:     -0.00005,
	},
	domain.RegimeCrisis: {
		Label:           "Bear Market",
		RateLo:          4.0,
		RateHi:          5.5,
		VIXBase:         35,
		DriftMultiplier: -5.0,
		HealthRegen:     -0.0002,
	},
}

// regimeTransitions holds the per-check successor probabilities, walked in
// domain.Regimes order. Each row sums to 1. GROWTH cannot jump straight to
// CRISIS.
var regimeTransitions = map[domain.Regime]map[domain.Regime]float64{
	domain.RegimeGrowth: {
		domain.RegimeGrowth:      0.994,
		domain.RegimeStagnation:  0.004,
		domain.RegimeContraction: 0.002,
		domain.RegimeCrisis:      0.0,
	},
	domain.RegimeStagnation: {
		domain.RegimeGrowth:      0.002,
		domain.RegimeStagnation:  0.990,
		domain.RegimeContraction: 0.005,
		domain.RegimeCrisis:      0.003,
	},
	domain.RegimeContraction: {
		domain.RegimeGrowth:      0.003,
		domain.RegimeStagnation:  0.004,
		domain.RegimeContraction: 0.988,
		domain.RegimeCrisis:      0.005,
	},
	domain.RegimeCrisis: {
		domain.RegimeGrowth:      0.002,
		domain.RegimeStagnation:  0.005,
		domain.RegimeContraction: 0.002,
		domain.RegimeCrisis:      0.991,
	},
}

// RegimeConfigFor exposes the static config of a regime tag.
func RegimeConfigFor(r domain.Regime) RegimeConfig {
	return regimeConfigs[r]
}

// TransitionRow exposes one row of the transition matrix.
func TransitionRow(r domain.Regime) map[domain.Regime]float64 {
	row := make(map[domain.Regime]float64, len(domain.Regimes))
	for next, p := range regimeTransitions[r] {
		row[next] = p
	}
	return row
}

// regimeManager runs the four-state Markov chain. Transitions are evaluated
// every regimeCheckInterval ticks to damp high-frequency flicker.
type regimeManager struct {
	current         domain.Regime
	ticksSinceCheck int
	rng             *RNG
}

func newRegimeManager(rng *RNG) *regimeManager {
	return &regimeManager{current: domain.RegimeGrowth, rng: rng}
}

func (m *regimeManager) Current() domain.Regime { return m.current }

func (m *regimeManager) Config() RegimeConfig { return regimeConfigs[m.current] }

// Update advances the chain by one tick. It returns the new regime and true
// when a transition was committed on this tick.
func (m *regimeManager) Update() (domain.Regime, bool) {
	m.ticksSinceCheck++
	if m.ticksSinceCheck < regimeCheckInterval {
		return m.current, false
	}
	m.ticksSinceCheck = 0

	row := regimeTransitions[m.current]
	u := m.rng.Float64()
	cumulative := 0.0
	for _, next := range domain.Regimes {
		cumulative += row[next]
		if u < cumulative {
			if next != m.current {
				m.current = next
				return next, true
			}
			break
		}
	}
	return m.current, false
}
