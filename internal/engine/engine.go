package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"marketsim/pkg/contracts/domain"
)

// Options configures an Engine.
type Options struct {
	// Seed seeds the engine RNG; 0 selects a time-based seed.
	Seed uint64
	// Logger receives engine lifecycle events. Nil defaults to slog.Default.
	Logger *slog.Logger
}

// Engine owns the full simulation state: the stock list, market macro state,
// regime machine, IPO clock, cycle analytics, the global market-cap history
// and the event log ring.
//
// A single producer calls Tick; it takes the write lock. All read accessors
// take the read lock and return deep copies, so callers never observe a
// half-applied tick and returned views are immune to later mutation.
type Engine struct {
	mu sync.RWMutex

	rng       *RNG
	stocks    []*Stock
	market    domain.MarketState
	regimes   *regimeManager
	macro     *macroUpdater
	prices    *priceEngine
	ipos      *ipoManager
	analytics *cycleAnalytics

	capHistory *ring
	logs       []domain.LogEntry

	tickCount             int64
	timeInPhase           int
	ticksSinceWinnerCheck int

	logger *slog.Logger
}

// New seeds the universe and returns a ready engine. The market starts in
// GROWTH, TRADING phase, with VIX 15.5 and a 1.25% interest rate.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "engine"))

	rng := NewRNG(opts.Seed)
	stocks := seedUniverse(rng)
	capHistory := newRing(marketCapHistoryLength)

	e := &Engine{
		rng:        rng,
		stocks:     stocks,
		market:     domain.MarketState{VIX: 15.5, InterestRate: 1.25, Phase: domain.PhaseTrading},
		regimes:    newRegimeManager(rng),
		macro:      newMacroUpdater(rng),
		prices:     newPriceEngine(rng),
		ipos:       newIPOManager(rng, len(stocks)),
		analytics:  newCycleAnalytics(capHistory),
		capHistory: capHistory,
		logger:     logger,
	}

	logger.Info("universe seeded",
		slog.Int("companies", len(stocks)),
		slog.Uint64("seed", opts.Seed))

	return e
}

// Tick executes one simulation step. Must be called only by the scheduler.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.updatePhase()

	if regime, changed := e.regimes.Update(); changed {
		e.addLog(fmt.Sprintf("Regime Shift: %s", regimeConfigs[regime].Label), "error")
		e.logger.Info("regime transition", slog.String("regime", string(regime)))
	}

	e.macro.Update(&e.market, e.regimes.Config())

	extinct := e.prices.UpdateAll(e.stocks, e.market, e.regimes.Config())
	for _, ticker := range extinct {
		e.analytics.RecordBankruptcy()
		e.addLog(fmt.Sprintf("Extinction: %s", ticker), "error")
	}

	if ipo := e.ipos.Process(e.activeCount(), e.regimes.Current(), e.market.VIX); ipo != nil {
		e.stocks = append(e.stocks, ipo)
		e.analytics.RecordIPO()
		e.addLog(fmt.Sprintf("IPO: %s (%s - %s) enters the market", ipo.Ticker, ipo.Sector, ipo.SubIndustry), "success")
	}

	totalCap := e.totalMarketCap()
	e.capHistory.Push(totalCap)

	e.analytics.TickUpdate(e.tickCount, e.activeCount(), e.regimes.Current(), e.market.VIX, e.market.InterestRate)

	e.ticksSinceWinnerCheck++
	if e.ticksSinceWinnerCheck >= winnerCheckInterval {
		e.ticksSinceWinnerCheck = 0
		e.refreshWinners()
	}

	e.tickCount++
}

// updatePhase advances the TRADING/CLOSED clock and applies gap pricing on
// reopen.
func (e *Engine) updatePhase() {
	e.timeInPhase++

	switch {
	case e.market.Phase == domain.PhaseTrading && e.timeInPhase >= tradingWindowTicks:
		e.market.Phase = domain.PhaseClosed
		e.timeInPhase = 0
		e.addLog("Market closing - after-hours trading begins", "warning")

	case e.market.Phase == domain.PhaseClosed && e.timeInPhase >= closedWindowTicks:
		e.market.Phase = domain.PhaseTrading
		e.timeInPhase = 0
		e.applyGapPricing()
		e.addLog("Market open - gap from overnight drift", "success")
	}
}

// applyGapPricing jumps every active stock by a uniform 0.5%-2% in either
// direction. History buffers are not rewritten.
func (e *Engine) applyGapPricing() {
	for _, s := range e.stocks {
		if !s.Active() {
			continue
		}
		direction := 1.0
		if e.rng.Float64() > 0.5 {
			direction = -1.0
		}
		magnitude := e.rng.Uniform(0.005, 0.020)
		price := s.Price * (1 + direction*magnitude)
		if price < gapPriceFloor {
			price = gapPriceFloor
		}
		s.Price = price
		s.MarketCap = price * s.SharesOutstanding
	}
}

func (e *Engine) refreshWinners() {
	if e.capHistory.Len() < performanceTrackerLength {
		return
	}
	past := e.capHistory.Lookback(performanceTrackerLength - 1)
	marketAvgReturn := 1.0
	if past > 0 {
		marketAvgReturn = e.capHistory.Last() / past
	}
	e.prices.RefreshWinners(e.stocks, marketAvgReturn)
}

func (e *Engine) activeCount() int {
	n := 0
	for _, s := range e.stocks {
		if s.Active() {
			n++
		}
	}
	return n
}

func (e *Engine) totalMarketCap() float64 {
	total := 0.0
	for _, s := range e.stocks {
		if s.Active() {
			total += s.MarketCap
		}
	}
	return total
}

// addLog appends to the bounded event ring.
func (e *Engine) addLog(msg, logType string) {
	e.logs = append(e.logs, domain.LogEntry{Msg: msg, Type: logType, Tick: e.tickCount})
	if len(e.logs) > logRingSize {
		e.logs = e.logs[len(e.logs)-logRingSize:]
	}
}

func (e *Engine) recentLogs(n int) []domain.LogEntry {
	if n > len(e.logs) {
		n = len(e.logs)
	}
	out := make([]domain.LogEntry, n)
	copy(out, e.logs[len(e.logs)-n:])
	return out
}

func (e *Engine) periodReturns() domain.PeriodReturns {
	return domain.PeriodReturns{
		Return60:  returnOver(e.capHistory, 60),
		Return180: returnOver(e.capHistory, 180),
		Return365: returnOver(e.capHistory, 365),
	}
}

func projectStock(s *Stock) domain.Stock {
	return domain.Stock{
		ID:                s.ID,
		Ticker:            s.Ticker,
		Name:              s.Name,
		Sector:            s.Sector,
		SubIndustry:       s.SubIndustry,
		Price:             s.Price,
		SharesOutstanding: s.SharesOutstanding,
		CurrentMarketCap:  s.MarketCap,
		Volatility:        s.Volatility,
		ValueScore:        s.ValueScore,
		MetabolicHealth:   s.Health,
		History:           s.History.Values(),
		Status:            s.Status,
		MarketCapTier:     s.Tier,
		WinnerStatus:      s.Winner,
		BaseVolatility:    s.BaseVolatility,
	}
}

func projectExternal(s *Stock, marketStatus string) domain.ExternalStock {
	return domain.ExternalStock{
		ID:                s.ID,
		Ticker:            s.Ticker,
		Name:              s.Name,
		Sector:            s.Sector,
		SubIndustry:       s.SubIndustry,
		Price:             s.Price,
		MarketStatus:      marketStatus,
		SharesOutstanding: s.SharesOutstanding,
		CurrentMarketCap:  s.MarketCap,
		Volatility:        s.Volatility,
	}
}

// Snapshot builds the full internal view: every stock with history, the macro
// state, recent logs and analytics, all observing the same tick.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stocks := make([]domain.Stock, len(e.stocks))
	for i, s := range e.stocks {
		stocks[i] = projectStock(s)
	}

	return domain.Snapshot{
		Tick:          e.tickCount,
		Stocks:        stocks,
		MarketState:   e.market,
		Regime:        e.regimes.Current(),
		TimeInPhase:   e.timeInPhase,
		Phase:         e.market.Phase,
		PeriodReturns: e.periodReturns(),
		Logs:          e.recentLogs(snapshotLogCount),
		Analytics:     e.analytics.Snapshot(e.tickCount),
	}
}

// ExternalSnapshot builds the public view with internal mechanics hidden.
func (e *Engine) ExternalSnapshot() domain.ExternalSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := e.market.Phase.MarketStatus()
	stocks := make([]domain.ExternalStock, len(e.stocks))
	for i, s := range e.stocks {
		stocks[i] = projectExternal(s, status)
	}

	return domain.ExternalSnapshot{
		Stocks:      stocks,
		MarketState: e.market,
		TimeInPhase: e.timeInPhase,
		Logs:        e.recentLogs(snapshotLogCount),
	}
}

// Stocks returns external projections of every stock, for list queries.
func (e *Engine) Stocks() []domain.ExternalStock {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := e.market.Phase.MarketStatus()
	out := make([]domain.ExternalStock, len(e.stocks))
	for i, s := range e.stocks {
		out[i] = projectExternal(s, status)
	}
	return out
}

// StockStatuses reports each stock's status keyed by id, for list filtering.
func (e *Engine) StockStatuses() map[string]domain.StockStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]domain.StockStatus, len(e.stocks))
	for _, s := range e.stocks {
		out[s.ID] = s.Status
	}
	return out
}

// StockByTicker returns the external projection of one company.
func (e *Engine) StockByTicker(ticker string) (domain.ExternalStock, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, s := range e.stocks {
		if s.Ticker == ticker {
			return projectExternal(s, e.market.Phase.MarketStatus()), true
		}
	}
	return domain.ExternalStock{}, false
}

// StockHistory returns up to n of the newest history samples for a ticker.
func (e *Engine) StockHistory(ticker string, n int) (domain.StockHistory, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, s := range e.stocks {
		if s.Ticker == ticker {
			history := s.History.Tail(n)
			return domain.StockHistory{
				Ticker:       s.Ticker,
				History:      history,
				Ticks:        len(history),
				MarketStatus: e.market.Phase.MarketStatus(),
			}, true
		}
	}
	return domain.StockHistory{}, false
}

// MarketStats aggregates the active universe.
func (e *Engine) MarketStats() domain.MarketStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return domain.MarketStats{
		TotalMarketCap: e.totalMarketCap(),
		ActiveStocks:   e.activeCount(),
		VIX:            e.market.VIX,
		InterestRate:   e.market.InterestRate,
	}
}

// AnalyticsView returns completed cycles, the current partial cycle and the
// summary row.
func (e *Engine) AnalyticsView() domain.Analytics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.analytics.Snapshot(e.tickCount)
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickCount
}

// Clock reports the tick counter, phase and time in phase together.
func (e *Engine) Clock() (tick int64, phase domain.Phase, timeInPhase int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickCount, e.market.Phase, e.timeInPhase
}

// Regime returns the current regime tag.
func (e *Engine) Regime() domain.Regime {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.regimes.Current()
}
