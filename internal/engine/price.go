package engine

import (
	"math"

	"marketsim/pkg/contracts/domain"
)

// priceEngine applies the per-tick stochastic price and health model to every
// active stock.
type priceEngine struct {
	rng *RNG
}

func newPriceEngine(rng *RNG) *priceEngine {
	return &priceEngine{rng: rng}
}

// UpdateAll sweeps the stock list once. Bankrupt stocks are never touched.
// It returns the tickers of companies that went bankrupt on this tick.
func (p *priceEngine) UpdateAll(stocks []*Stock, state domain.MarketState, cfg RegimeConfig) []string {
	var extinct []string

	for _, s := range stocks {
		if !s.Active() {
			continue
		}

		// Metabolic cost scales with rates and market-wide volatility.
		cost := 0.0004*(state.InterestRate/5) + 0.0005*(state.VIX/90)

		// Regeneration from the trailing 60-tick return.
		perf := 0.0
		if s.History.Len() >= historyLength {
			past := s.History.Lookback(historyLength - 1)
			if past > 0 {
				perf = ((s.Price - past) / past) * 0.02
			}
		}

		health := clamp(s.Health-cost+perf+cfg.HealthRegen, 0, 1.2)

		drift := (s.ValueScore*2e-5)*cfg.DriftMultiplier + (health-0.5)*1e-5

		// Bounded symmetric shock rather than a true Gaussian.
		v := (s.Volatility / 50) * (state.VIX / 14)
		term := clamp(v*(p.rng.Float64()-0.5), -0.015, 0.015)

		price := s.Price * math.Exp(drift+term)
		if price < activePriceFloor {
			price = activePriceFloor
		}

		if price < bankruptcyPriceThreshold && health <= bankruptcyHealthThreshold {
			s.Status = domain.StockStatusBankrupt
			s.Price = 0
			s.MarketCap = 0
			s.Health = health
			extinct = append(extinct, s.Ticker)
			continue
		}

		s.Price = price
		s.MarketCap = price * s.SharesOutstanding
		s.Health = health
		s.History.Push(price)
		s.Performance.Push(price)
	}

	return extinct
}

// RefreshWinners recomputes winner status against the market's average gross
// return over the tracking window. Stocks without a full tracking window keep
// their current status.
func (p *priceEngine) RefreshWinners(stocks []*Stock, marketAvgReturn float64) {
	for _, s := range stocks {
		if !s.Active() || s.Performance.Len() < performanceTrackerLength {
			continue
		}
		base := s.Performance.At(0)
		if base <= 0 {
			continue
		}
		if s.Price/base > marketAvgReturn*winnerThreshold {
			s.Winner = domain.WinnerStatusWinner
		} else {
			s.Winner = domain.WinnerStatusNormal
		}
	}
}
