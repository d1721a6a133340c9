package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsim/pkg/contracts/domain"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name                  string
		values                []float64
		wantMin, wantMed, max float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single", []float64{5}, 5, 5, 5},
		{"odd", []float64{3, 1, 2}, 1, 2, 3},
		{"even", []float64{4, 1, 3, 2}, 1, 2.5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, med, max := summarize(tt.values)
			assert.Equal(t, tt.wantMin, min)
			assert.InDelta(t, tt.wantMed, med, 1e-9)
			assert.Equal(t, tt.max, max)
		})
	}
}

func TestReturnOver(t *testing.T) {
	r := newRing(100)

	// Needs n+1 samples.
	for i := 0; i < 60; i++ {
		r.Push(100)
	}
	assert.Nil(t, returnOver(r, 60))

	r.Push(110)
	got := returnOver(r, 60)
	require.NotNil(t, got)
	assert.InDelta(t, 10.0, *got, 1e-9)
}

func TestReturnOverZeroBase(t *testing.T) {
	r := newRing(10)
	r.Push(0)
	for i := 0; i < 5; i++ {
		r.Push(100)
	}
	assert.Nil(t, returnOver(r, 5))
}

func TestCycleCompletion(t *testing.T) {
	capHistory := newRing(marketCapHistoryLength)
	a := newCycleAnalytics(capHistory)

	a.RecordIPO()
	a.RecordIPO()
	a.RecordBankruptcy()

	for tick := int64(0); tick <= int64(ticksPerCycle); tick++ {
		capHistory.Push(1e12 + float64(tick))
		a.TickUpdate(tick, 80, domain.RegimeGrowth, 15.5, 1.25)
	}

	require.Len(t, a.completed, 1)
	cycle := a.completed[0]

	assert.Equal(t, 0, cycle.CycleNumber)
	assert.Equal(t, int64(0), cycle.StartTick)
	assert.Equal(t, int64(ticksPerCycle), cycle.EndTick)
	assert.True(t, cycle.IsComplete)
	assert.Equal(t, 80, cycle.MinCompanies)
	assert.Equal(t, 80, cycle.MaxCompanies)
	assert.Equal(t, 80.0, cycle.AvgCompanies)
	assert.Equal(t, 2, cycle.IPOCount)
	assert.Equal(t, 1, cycle.BankruptcyCount)
	assert.Equal(t, 0, cycle.RegimeTransitions)
	assert.Equal(t, 15.5, cycle.MinVIX)
	assert.Equal(t, 15.5, cycle.MaxVIX)

	// All observed time was GROWTH: the full period budget lands there.
	assert.GreaterOrEqual(t, cycle.RegimePeriods[domain.RegimeGrowth], periodsPerCycle)
	assert.Zero(t, cycle.RegimePeriods[domain.RegimeCrisis])

	// Counters reset for the next cycle, cap history survives.
	assert.Zero(t, a.ipoCount)
	assert.Zero(t, a.bankruptcyCount)
	assert.Equal(t, 1, a.cycleNumber)
	assert.Equal(t, int64(ticksPerCycle), a.cycleStartTick)
	assert.Equal(t, marketCapHistoryLength, capHistory.Len())
}

func TestCycleRegimeTransitionCount(t *testing.T) {
	a := newCycleAnalytics(newRing(marketCapHistoryLength))

	regimes := []domain.Regime{
		domain.RegimeGrowth, domain.RegimeGrowth,
		domain.RegimeStagnation,
		domain.RegimeContraction, domain.RegimeContraction,
		domain.RegimeGrowth,
	}
	for i, regime := range regimes {
		a.TickUpdate(int64(i), 80, regime, 18, 2)
	}

	assert.Equal(t, 3, a.regimeTransitions)
}

func TestAnalyticsSnapshot(t *testing.T) {
	capHistory := newRing(marketCapHistoryLength)
	a := newCycleAnalytics(capHistory)

	t.Run("empty state has no current cycle", func(t *testing.T) {
		view := a.Snapshot(0)
		assert.Empty(t, view.CompletedCycles)
		assert.Nil(t, view.CurrentCycle)
		assert.Zero(t, view.Summary.TotalCompletedCycles)
	})

	for tick := int64(0); tick < 100; tick++ {
		capHistory.Push(1e12)
		a.TickUpdate(tick, 75, domain.RegimeGrowth, 16, 1.3)
	}
	a.RecordIPO()

	view := a.Snapshot(100)
	require.NotNil(t, view.CurrentCycle)
	assert.False(t, view.CurrentCycle.IsComplete)
	assert.Equal(t, int64(100), view.CurrentCycle.EndTick)
	assert.Equal(t, 75, view.CurrentCycle.MinCompanies)

	assert.Equal(t, 0, view.Summary.TotalCompletedCycles)
	assert.Equal(t, 1, view.Summary.TotalIPOs)
	assert.Equal(t, int64(100), view.Summary.CurrentCycleTicks)
	assert.InDelta(t, float64(100)/float64(ticksPerCycle)*100, view.Summary.CurrentCycleProgressPct, 1e-9)
}

func TestAnalyticsSnapshotCopiesCompletedCycles(t *testing.T) {
	capHistory := newRing(marketCapHistoryLength)
	a := newCycleAnalytics(capHistory)

	for tick := int64(0); tick <= int64(ticksPerCycle); tick++ {
		capHistory.Push(1e12)
		a.TickUpdate(tick, 80, domain.RegimeGrowth, 15.5, 1.25)
	}
	require.Len(t, a.completed, 1)

	view := a.Snapshot(int64(ticksPerCycle) + 1)
	view.CompletedCycles[0].IPOCount = 999

	assert.Zero(t, a.completed[0].IPOCount)
}
