package engine

import "marketsim/pkg/contracts/domain"

// Timing and sizing contract values. These are behavioural constants of the
// simulation, not tunables; changing them changes the statistical contract.
const (
	// historyLength is the per-stock rolling price window.
	historyLength = 60

	// tradingWindowTicks and closedWindowTicks define the phase clock.
	tradingWindowTicks = domain.TradingWindowTicks
	closedWindowTicks  = domain.ClosedWindowTicks

	// ticksPerPeriod and periodsPerCycle define cycle analytics granularity:
	// one cycle is 7300 ticks.
	ticksPerPeriod  = 20
	periodsPerCycle = 365
	ticksPerCycle   = ticksPerPeriod * periodsPerCycle

	// marketCapHistoryLength covers the winner-tracking window plus the
	// current sample.
	marketCapHistoryLength   = 1461
	performanceTrackerLength = 1460

	// winnerCheckInterval is how often winner status is recomputed.
	winnerCheckInterval = 365

	// winnerThreshold is the escape-velocity multiple over the market average
	// gross return.
	winnerThreshold = 1.10

	// regimeCheckInterval throttles regime transition draws.
	regimeCheckInterval = 5

	// IPO admission gates.
	ipoCheckInterval = 50
	ipoProbability   = 0.10
	ipoMaxActive     = 110
	ipoMaxVIX        = 25.0
	ipoPriceLo       = 80.0
	ipoPriceHi       = 120.0
	ipoSmallCapShare = 0.85

	// vixFloor is the hard lower bound of the volatility index.
	vixFloor = 10.0

	// activePriceFloor bounds prices of trading companies; gapPriceFloor
	// bounds the overnight gap jump.
	activePriceFloor = 0.01
	gapPriceFloor    = 0.1

	// Bankruptcy requires both a collapsed price and exhausted health.
	bankruptcyPriceThreshold  = 0.25
	bankruptcyHealthThreshold = 0.05

	// logRingSize is the engine event ring; snapshotLogCount is how many of
	// those entries a snapshot exposes.
	logRingSize      = 10
	snapshotLogCount = 5
)
