package engine

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"marketsim/pkg/contracts/domain"
)

// cycleAnalytics accumulates per-tick market observations and folds them into
// CycleStats records at every cycle boundary. The market-cap history ring is
// shared with the orchestrator and survives cycle resets.
type cycleAnalytics struct {
	capHistory *ring

	completed      []domain.CycleStats
	cycleStartTick int64
	cycleNumber    int

	companyCounts []int
	vixValues     []float64
	rateValues    []float64

	regimeTicks       map[domain.Regime]int
	lastRegime        domain.Regime
	hasLastRegime     bool
	regimeTransitions int

	ipoCount        int
	bankruptcyCount int
}

func newCycleAnalytics(capHistory *ring) *cycleAnalytics {
	return &cycleAnalytics{
		capHistory:  capHistory,
		regimeTicks: make(map[domain.Regime]int),
	}
}

// TickUpdate accumulates one tick of observations. tick is the global tick
// counter before this tick's increment.
func (a *cycleAnalytics) TickUpdate(tick int64, activeCount int, regime domain.Regime, vix, rate float64) {
	a.companyCounts = append(a.companyCounts, activeCount)
	a.vixValues = append(a.vixValues, vix)
	a.rateValues = append(a.rateValues, rate)

	a.regimeTicks[regime]++
	if a.hasLastRegime && a.lastRegime != regime {
		a.regimeTransitions++
	}
	a.lastRegime = regime
	a.hasLastRegime = true

	ticksInCycle := tick - a.cycleStartTick
	if ticksInCycle > 0 && ticksInCycle%ticksPerCycle == 0 {
		a.completeCycle(tick)
	}
}

// RecordIPO counts one admission in the current cycle.
func (a *cycleAnalytics) RecordIPO() { a.ipoCount++ }

// RecordBankruptcy counts one extinction in the current cycle.
func (a *cycleAnalytics) RecordBankruptcy() { a.bankruptcyCount++ }

func (a *cycleAnalytics) completeCycle(tick int64) {
	stats := a.calculate(a.cycleNumber, a.cycleStartTick, tick, true)
	a.completed = append(a.completed, stats)

	a.cycleNumber++
	a.cycleStartTick = tick
	a.companyCounts = nil
	a.vixValues = nil
	a.rateValues = nil
	a.regimeTicks = make(map[domain.Regime]int)
	a.regimeTransitions = 0
	a.ipoCount = 0
	a.bankruptcyCount = 0
	// capHistory deliberately survives; period returns span cycles.
}

func (a *cycleAnalytics) calculate(number int, start, end int64, complete bool) domain.CycleStats {
	minC, maxC := 0, 0
	avgC := 0.0
	if len(a.companyCounts) > 0 {
		minC, maxC = a.companyCounts[0], a.companyCounts[0]
		sum := 0
		for _, c := range a.companyCounts {
			if c < minC {
				minC = c
			}
			if c > maxC {
				maxC = c
			}
			sum += c
		}
		avgC = float64(sum) / float64(len(a.companyCounts))
	}

	regimePeriods := make(map[domain.Regime]int, len(domain.Regimes))
	for _, r := range domain.Regimes {
		regimePeriods[r] = a.regimeTicks[r] / ticksPerPeriod
	}

	minVIX, medVIX, maxVIX := summarize(a.vixValues)
	minIR, medIR, maxIR := summarize(a.rateValues)

	return domain.CycleStats{
		CycleNumber:        number,
		StartTick:          start,
		EndTick:            end,
		IsComplete:         complete,
		MinCompanies:       minC,
		MaxCompanies:       maxC,
		AvgCompanies:       avgC,
		IPOCount:           a.ipoCount,
		BankruptcyCount:    a.bankruptcyCount,
		RegimePeriods:      regimePeriods,
		RegimeTransitions:  a.regimeTransitions,
		MinVIX:             minVIX,
		MedianVIX:          medVIX,
		MaxVIX:             maxVIX,
		MinInterestRate:    minIR,
		MedianInterestRate: medIR,
		MaxInterestRate:    maxIR,
		Return60T:          returnOver(a.capHistory, 60),
		Return180T:         returnOver(a.capHistory, 180),
		Return365T:         returnOver(a.capHistory, 365),
	}
}

// Snapshot returns all completed cycles, the current partial cycle computed
// the same way, and the cross-cycle summary row.
func (a *cycleAnalytics) Snapshot(currentTick int64) domain.Analytics {
	var current *domain.CycleStats
	if len(a.companyCounts) > 0 {
		c := a.calculate(a.cycleNumber, a.cycleStartTick, currentTick, false)
		current = &c
	}

	totalIPOs, totalBankruptcies := 0, 0
	var avgCompanies []float64
	for _, c := range a.completed {
		totalIPOs += c.IPOCount
		totalBankruptcies += c.BankruptcyCount
		avgCompanies = append(avgCompanies, c.AvgCompanies)
	}
	if current != nil {
		totalIPOs += current.IPOCount
		totalBankruptcies += current.BankruptcyCount
		avgCompanies = append(avgCompanies, current.AvgCompanies)
	}
	avg := 0.0
	if len(avgCompanies) > 0 {
		avg = stat.Mean(avgCompanies, nil)
	}

	ticksInCycle := currentTick - a.cycleStartTick
	completed := make([]domain.CycleStats, len(a.completed))
	copy(completed, a.completed)

	return domain.Analytics{
		CompletedCycles: completed,
		CurrentCycle:    current,
		Summary: domain.AnalyticsSummary{
			TotalCompletedCycles:    len(a.completed),
			TotalIPOs:               totalIPOs,
			TotalBankruptcies:       totalBankruptcies,
			AvgCompanies:            avg,
			CurrentCycleTicks:       ticksInCycle,
			CurrentCycleProgressPct: float64(ticksInCycle) / float64(ticksPerCycle) * 100,
		},
	}
}

// summarize computes min, median and max of xs; zeros when empty.
func summarize(xs []float64) (min, median, max float64) {
	if len(xs) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	min = sorted[0]
	max = sorted[len(sorted)-1]
	median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	return min, median, max
}

// returnOver computes the percentage change of the newest history sample
// against the sample n positions back, or nil when fewer than n+1 samples
// exist or the base is zero.
func returnOver(history *ring, n int) *float64 {
	if history.Len() <= n {
		return nil
	}
	last := history.Last()
	past := history.Lookback(n)
	if past == 0 {
		return nil
	}
	pct := (last - past) / past * 100
	return &pct
}
