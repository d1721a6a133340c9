package domain

// Phase is the market clock state. Prices only evolve while TRADING; a gap
// jump is applied once on each CLOSED to TRADING transition.
type Phase string

const (
	PhaseTrading Phase = "TRADING"
	PhaseClosed  Phase = "CLOSED"
)

// Phase window lengths in ticks.
const (
	TradingWindowTicks = 12
	ClosedWindowTicks  = 8
)

// MarketStatus derives the public open/closed label from the phase.
func (p Phase) MarketStatus() string {
	if p == PhaseTrading {
		return "open"
	}
	return "closed"
}

// Regime tags the macro environment driving drift, VIX reversion and health
// regeneration.
type Regime string

const (
	RegimeGrowth      Regime = "GROWTH"
	RegimeStagnation  Regime = "STAGNATION"
	RegimeContraction Regime = "CONTRACTION"
	RegimeCrisis      Regime = "CRISIS"
)

// Regimes lists all regime tags in their declared transition-walk order.
var Regimes = []Regime{RegimeGrowth, RegimeStagnation, RegimeContraction, RegimeCrisis}

// MarketState is the macro singleton: volatility index, interest rate and
// trading phase.
type MarketState struct {
	VIX          float64 `json:"vix"`
	InterestRate float64 `json:"interestRate"`
	Phase        Phase   `json:"phase"`
}

// PeriodReturns carries market-wide returns over trailing windows of the
// market-cap history. A window is null until N+1 samples exist.
type PeriodReturns struct {
	Return60  *float64 `json:"return60"`
	Return180 *float64 `json:"return180"`
	Return365 *float64 `json:"return365"`
}

// LogEntry is one event from the engine's bounded log ring.
type LogEntry struct {
	Msg  string `json:"msg"`
	Type string `json:"type"`
	Tick int64  `json:"tick"`
}

// MarketStats is the aggregate view served by the stats endpoint.
type MarketStats struct {
	TotalMarketCap float64 `json:"totalMarketCap"`
	ActiveStocks   int     `json:"activeStocks"`
	VIX            float64 `json:"vix"`
	InterestRate   float64 `json:"interestRate"`
}
