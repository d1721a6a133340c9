package domain

// CycleStats summarizes one market cycle (365 periods of 20 ticks). Partial
// cycles are computed the same way and flagged is_complete=false. Analytics
// fields keep their snake_case wire names.
type CycleStats struct {
	CycleNumber int   `json:"cycle_number"`
	StartTick   int64 `json:"start_tick"`
	EndTick     int64 `json:"end_tick"`
	IsComplete  bool  `json:"is_complete"`

	MinCompanies int     `json:"min_companies"`
	MaxCompanies int     `json:"max_companies"`
	AvgCompanies float64 `json:"avg_companies"`

	IPOCount        int `json:"ipo_count"`
	BankruptcyCount int `json:"bankruptcy_count"`

	// Regime dwell, in periods of 20 ticks.
	RegimePeriods     map[Regime]int `json:"regime_periods"`
	RegimeTransitions int            `json:"regime_transitions"`

	MinVIX    float64 `json:"min_vix"`
	MedianVIX float64 `json:"median_vix"`
	MaxVIX    float64 `json:"max_vix"`

	MinInterestRate    float64 `json:"min_interest_rate"`
	MedianInterestRate float64 `json:"median_interest_rate"`
	MaxInterestRate    float64 `json:"max_interest_rate"`

	Return60T  *float64 `json:"return_60t"`
	Return180T *float64 `json:"return_180t"`
	Return365T *float64 `json:"return_365t"`
}

// AnalyticsSummary aggregates across all completed cycles plus the current
// partial cycle.
type AnalyticsSummary struct {
	TotalCompletedCycles    int     `json:"total_completed_cycles"`
	TotalIPOs               int     `json:"total_ipos"`
	TotalBankruptcies       int     `json:"total_bankruptcies"`
	AvgCompanies            float64 `json:"avg_companies"`
	CurrentCycleTicks       int64   `json:"current_cycle_ticks"`
	CurrentCycleProgressPct float64 `json:"current_cycle_progress_pct"`
}

// Analytics is the full analytics view: historical cycles, the in-progress
// cycle (nil before the first tick) and the summary row.
type Analytics struct {
	CompletedCycles []CycleStats     `json:"completed_cycles"`
	CurrentCycle    *CycleStats      `json:"current_cycle"`
	Summary         AnalyticsSummary `json:"summary"`
}
