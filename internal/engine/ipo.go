package engine

import (
	"fmt"

	"marketsim/pkg/contracts/domain"
)

// ipoManager admits new companies at a throttled cadence. Admission is gated
// on market conditions: GROWTH regime, calm VIX, and a population cap. IPOs
// are independent of bankruptcies; the list only ever grows.
type ipoManager struct {
	idCounter       int
	ticksSinceCheck int
	rng             *RNG
}

func newIPOManager(rng *RNG, nextID int) *ipoManager {
	return &ipoManager{idCounter: nextID, rng: rng}
}

// Process runs one tick of the IPO clock and returns a newly admitted stock,
// or nil when no IPO occurs.
func (m *ipoManager) Process(activeCount int, regime domain.Regime, vix float64) *Stock {
	m.ticksSinceCheck++
	if m.ticksSinceCheck < ipoCheckInterval {
		return nil
	}
	m.ticksSinceCheck = 0

	if activeCount >= ipoMaxActive {
		return nil
	}
	if regime != domain.RegimeGrowth {
		return nil
	}
	if vix > ipoMaxVIX {
		return nil
	}
	if m.rng.Float64() >= ipoProbability {
		return nil
	}

	sector := sectors[m.rng.IntN(len(sectors))]
	sub := sector.SubIndustries[m.rng.IntN(len(sector.SubIndustries))]
	return m.newListing(sector.Name, sub)
}

// newListing builds an IPO stock: mostly small caps, tier-specific volatility,
// an $80-$120 offer price and a fresh health budget.
func (m *ipoManager) newListing(sector, subIndustry string) *Stock {
	tier := domain.CapTierSmall
	if m.rng.Float64() >= ipoSmallCapShare {
		tier = domain.CapTierMid
	}
	td := capTiers[tier]

	marketCap := m.rng.Uniform(td.MinCap, td.MaxCap)
	baseVol := m.rng.Uniform(td.VolMin, td.VolMax) / 100
	price := m.rng.Uniform(ipoPriceLo, ipoPriceHi)

	s := &Stock{
		ID:                fmt.Sprintf("stock-%d", m.idCounter),
		Ticker:            m.rng.SectorTicker(sector),
		Name:              fmt.Sprintf("%s %s", subIndustry, m.rng.Pick(ipoNameSuffixes)),
		Sector:            sector,
		SubIndustry:       subIndustry,
		Price:             price,
		SharesOutstanding: marketCap / price,
		MarketCap:         marketCap,
		Volatility:        baseVol,
		ValueScore:        0.4,
		Health:            1.0,
		History:           newFilledRing(historyLength, price),
		Status:            domain.StockStatusActive,
		Tier:              tier,
		Winner:            domain.WinnerStatusNormal,
		BaseVolatility:    baseVol,
		Performance:       seededTracker(price),
	}
	m.idCounter++
	return s
}
