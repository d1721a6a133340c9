package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsim/pkg/contracts/domain"
)

func testStock(price float64) *Stock {
	return &Stock{
		ID:                "stock-0",
		Ticker:            "TST",
		Name:              "Test Corp",
		Sector:            "Technology",
		SubIndustry:       "SaaS",
		Price:             price,
		SharesOutstanding: 1e9,
		MarketCap:         price * 1e9,
		Volatility:        0.30,
		ValueScore:        0.5,
		Health:            1.0,
		History:           newFilledRing(historyLength, price),
		Status:            domain.StockStatusActive,
		Tier:              domain.CapTierMid,
		Winner:            domain.WinnerStatusNormal,
		BaseVolatility:    0.30,
		Performance:       seededTracker(price),
	}
}

func TestPriceMoveBoundedByShockClamp(t *testing.T) {
	p := newPriceEngine(NewRNG(1))
	state := domain.MarketState{VIX: 15.5, InterestRate: 1.25}
	cfg := RegimeConfigFor(domain.RegimeGrowth)

	s := testStock(100)
	for i := 0; i < 500; i++ {
		before := s.Price
		extinct := p.UpdateAll([]*Stock{s}, state, cfg)
		require.Empty(t, extinct)

		logReturn := math.Log(s.Price / before)
		drift := (s.ValueScore*2e-5)*cfg.DriftMultiplier + (s.Health-0.5)*1e-5
		assert.LessOrEqual(t, math.Abs(logReturn-drift), 0.015+1e-9)
	}
}

func TestPriceUpdateMaintainsMarketCap(t *testing.T) {
	p := newPriceEngine(NewRNG(2))
	state := domain.MarketState{VIX: 20, InterestRate: 2}
	cfg := RegimeConfigFor(domain.RegimeStagnation)

	s := testStock(50)
	for i := 0; i < 100; i++ {
		p.UpdateAll([]*Stock{s}, state, cfg)
		assert.InEpsilon(t, s.Price*s.SharesOutstanding, s.MarketCap, 1e-9)
		assert.GreaterOrEqual(t, s.Price, activePriceFloor)
	}
}

func TestPriceUpdatePushesHistory(t *testing.T) {
	p := newPriceEngine(NewRNG(3))
	state := domain.MarketState{VIX: 15.5, InterestRate: 1.25}
	cfg := RegimeConfigFor(domain.RegimeGrowth)

	s := testStock(100)
	p.UpdateAll([]*Stock{s}, state, cfg)

	assert.Equal(t, historyLength, s.History.Len())
	assert.Equal(t, s.Price, s.History.Last())
	assert.Equal(t, 2, s.Performance.Len())
}

func TestHealthStaysWithinBounds(t *testing.T) {
	p := newPriceEngine(NewRNG(4))
	state := domain.MarketState{VIX: 90, InterestRate: 5}
	cfg := RegimeConfigFor(domain.RegimeCrisis)

	s := testStock(100)
	for i := 0; i < 2000 && s.Active(); i++ {
		p.UpdateAll([]*Stock{s}, state, cfg)
		assert.GreaterOrEqual(t, s.Health, 0.0)
		assert.LessOrEqual(t, s.Health, 1.2)
	}
}

func TestBankruptcyRequiresBothThresholds(t *testing.T) {
	state := domain.MarketState{VIX: 30, InterestRate: 4.5}
	cfg := RegimeConfigFor(domain.RegimeCrisis)

	t.Run("low price with exhausted health goes bankrupt", func(t *testing.T) {
		p := newPriceEngine(NewRNG(5))
		s := testStock(0.02)
		s.Health = 0.0

		extinct := p.UpdateAll([]*Stock{s}, state, cfg)
		require.Equal(t, []string{"TST"}, extinct)
		assert.Equal(t, domain.StockStatusBankrupt, s.Status)
		assert.Zero(t, s.Price)
		assert.Zero(t, s.MarketCap)
	})

	t.Run("low price with healthy balance sheet survives", func(t *testing.T) {
		p := newPriceEngine(NewRNG(5))
		s := testStock(0.02)
		s.Health = 1.0

		extinct := p.UpdateAll([]*Stock{s}, state, cfg)
		assert.Empty(t, extinct)
		assert.Equal(t, domain.StockStatusActive, s.Status)
		assert.Greater(t, s.Price, 0.0)
	})
}

func TestBankruptStocksAreNeverTouched(t *testing.T) {
	p := newPriceEngine(NewRNG(6))
	state := domain.MarketState{VIX: 15.5, InterestRate: 1.25}
	cfg := RegimeConfigFor(domain.RegimeGrowth)

	s := testStock(100)
	s.Status = domain.StockStatusBankrupt
	s.Price = 0
	s.MarketCap = 0

	extinct := p.UpdateAll([]*Stock{s}, state, cfg)
	assert.Empty(t, extinct)
	assert.Zero(t, s.Price)
	assert.Zero(t, s.MarketCap)
}

func TestRefreshWinners(t *testing.T) {
	p := newPriceEngine(NewRNG(7))

	full := func(base, price float64) *Stock {
		s := testStock(price)
		s.Performance = newFilledRing(performanceTrackerLength, base)
		return s
	}

	t.Run("outperformer is marked", func(t *testing.T) {
		s := full(100, 200) // 2.0x gross return
		p.RefreshWinners([]*Stock{s}, 1.0)
		assert.Equal(t, domain.WinnerStatusWinner, s.Winner)
	})

	t.Run("market performer stays normal", func(t *testing.T) {
		s := full(100, 105)
		s.Winner = domain.WinnerStatusWinner
		p.RefreshWinners([]*Stock{s}, 1.0)
		assert.Equal(t, domain.WinnerStatusNormal, s.Winner)
	})

	t.Run("threshold is relative to market average", func(t *testing.T) {
		s := full(100, 200)
		p.RefreshWinners([]*Stock{s}, 2.0) // market itself doubled
		assert.Equal(t, domain.WinnerStatusNormal, s.Winner)
	})

	t.Run("partial tracking window keeps status", func(t *testing.T) {
		s := testStock(500)
		s.Winner = domain.WinnerStatusWinner
		p.RefreshWinners([]*Stock{s}, 1.0)
		assert.Equal(t, domain.WinnerStatusWinner, s.Winner)
	})
}
