package domain

// Snapshot is the complete engine view published to subscribers and served to
// query handlers. All fields observe the same tick.
type Snapshot struct {
	Tick          int64         `json:"tick"`
	Stocks        []Stock       `json:"stocks"`
	MarketState   MarketState   `json:"market_state"`
	Regime        Regime        `json:"regime"`
	TimeInPhase   int           `json:"time"`
	Phase         Phase         `json:"phase"`
	PeriodReturns PeriodReturns `json:"period_returns"`
	Logs          []LogEntry    `json:"logs"`
	Analytics     Analytics     `json:"analytics"`
}

// ExternalSnapshot is the public variant built from external stock
// projections, served on the REST snapshot endpoint.
type ExternalSnapshot struct {
	Stocks      []ExternalStock `json:"stocks"`
	MarketState MarketState     `json:"market_state"`
	TimeInPhase int             `json:"time"`
	Logs        []LogEntry      `json:"logs"`
}
