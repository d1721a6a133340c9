package engine

import (
	"fmt"
	"math"

	"marketsim/pkg/contracts/domain"
)

// sectorDef pairs a sector with its sub-industries. The slice order is fixed
// so seeded runs generate the same universe.
type sectorDef struct {
	Name          string
	SubIndustries []string
}

var sectors = []sectorDef{
	{"Technology", []string{"Cloud", "Semiconductors", "AI Hardware", "SaaS", "Cybersecurity"}},
	{"Healthcare", []string{"Biotech", "Pharmaceuticals", "Medical Devices", "Payors"}},
	{"Energy", []string{"E&P", "Renewables", "Midstream", "Services"}},
	{"Financials", []string{"Banks", "Fintech", "Asset Management", "Insurance"}},
	{"Consumer", []string{"Retail", "Luxury", "Staples", "E-commerce"}},
	{"Industrials", []string{"Aerospace", "Logistics", "Infrastructure", "Manufacturing"}},
	{"Communication", []string{"Telco", "Social Media", "Streaming", "Advertising"}},
	{"Materials", []string{"Mining", "Chemicals", "Forestry", "Steel"}},
}

var seedNameSuffixes = []string{"Corp", "Systems", "Global", "Tech", "Industries"}
var ipoNameSuffixes = []string{"Inc", "Corp", "Group", "Holdings"}

// tierDef holds the market-cap bounds (in dollars) and base volatility range
// (in percent) for one capitalization tier.
type tierDef struct {
	MinCap, MaxCap float64
	VolMin, VolMax float64
}

var capTiers = map[domain.CapTier]tierDef{
	domain.CapTierMega:  {MinCap: 200e9, MaxCap: 5e12, VolMin: 10, VolMax: 25},
	domain.CapTierLarge: {MinCap: 10e9, MaxCap: 200e9, VolMin: 20, VolMax: 35},
	domain.CapTierMid:   {MinCap: 2e9, MaxCap: 10e9, VolMin: 30, VolMax: 50},
	domain.CapTierSmall: {MinCap: 0.25e9, MaxCap: 2e9, VolMin: 40, VolMax: 70},
}

// tierForCap classifies a market cap in dollars.
func tierForCap(cap float64) domain.CapTier {
	switch {
	case cap >= 200e9:
		return domain.CapTierMega
	case cap >= 10e9:
		return domain.CapTierLarge
	case cap >= 2e9:
		return domain.CapTierMid
	default:
		return domain.CapTierSmall
	}
}

// Stock is the mutable simulation state of one company. The exported wire
// projections live in pkg/contracts/domain; this struct is owned by the
// engine and only escapes as a deep copy.
type Stock struct {
	ID                string
	Ticker            string
	Name              string
	Sector            string
	SubIndustry       string
	Price             float64
	SharesOutstanding float64
	MarketCap         float64
	Volatility        float64
	ValueScore        float64
	Health            float64
	History           *ring // last historyLength prices, newest last
	Status            domain.StockStatus
	Tier              domain.CapTier
	Winner            domain.WinnerStatus
	BaseVolatility    float64
	Performance       *ring // tracking window for winner detection
}

// Active reports whether the stock still trades.
func (s *Stock) Active() bool { return s.Status == domain.StockStatusActive }

// seedUniverse builds the initial population: 2-3 companies per sub-industry
// with a 15/30/55 large/mid/small cap mix and log-normal initial prices.
func seedUniverse(rng *RNG) []*Stock {
	var stocks []*Stock
	id := 0

	for _, sector := range sectors {
		for _, sub := range sector.SubIndustries {
			count := 2 + rng.IntN(2)
			for i := 0; i < count; i++ {
				var baseCap float64
				switch roll := rng.Float64(); {
				case roll > 0.85:
					baseCap = rng.Uniform(10e9, 200e9)
				case roll > 0.55:
					baseCap = rng.Uniform(2e9, 10e9)
				default:
					baseCap = rng.Uniform(0.25e9, 2e9)
				}

				tier := tierForCap(baseCap)
				td := capTiers[tier]
				baseVol := rng.Uniform(td.VolMin, td.VolMax) / 100

				// ln(100) so the price distribution centers near $100.
				initialPrice := rng.LogNormal(math.Log(100), 0.5)

				stocks = append(stocks, &Stock{
					ID:                fmt.Sprintf("stock-%d", id),
					Ticker:            rng.SectorTicker(sector.Name),
					Name:              fmt.Sprintf("%s %s", sub, rng.Pick(seedNameSuffixes)),
					Sector:            sector.Name,
					SubIndustry:       sub,
					Price:             initialPrice,
					SharesOutstanding: baseCap / initialPrice,
					MarketCap:         baseCap,
					Volatility:        baseVol,
					ValueScore:        clamp(baseCap/3e12+rng.Float64()*0.2, 0.1, 1.0),
					Health:            1.0,
					History:           newFilledRing(historyLength, initialPrice),
					Status:            domain.StockStatusActive,
					Tier:              tier,
					Winner:            domain.WinnerStatusNormal,
					BaseVolatility:    baseVol,
					Performance:       seededTracker(initialPrice),
				})
				id++
			}
		}
	}

	return stocks
}

func seededTracker(initialPrice float64) *ring {
	r := newRing(performanceTrackerLength)
	r.Push(initialPrice)
	return r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
