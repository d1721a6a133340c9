package domain

// SimulationInfo reports simulation timing: the live clock plus the timing
// contract constants.
type SimulationInfo struct {
	TickCount           int64 `json:"tickCount"`
	Phase               Phase `json:"phase"`
	TimeInPhase         int   `json:"timeInPhase"`
	TickIntervalMS      int64 `json:"tickIntervalMs"`
	BroadcastIntervalMS int64 `json:"broadcastIntervalMs"`
	TradingWindowTicks  int   `json:"tradingWindowTicks"`
	ClosedWindowTicks   int   `json:"closedWindowTicks"`
}
