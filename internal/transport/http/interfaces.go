// Package http exposes the read-only REST surface over the engine. Handlers
// observe the engine only through EngineReader; they never mutate state.
package http

import (
	"marketsim/pkg/contracts/domain"
)

// EngineReader is the read-only engine handle injected into handlers.
type EngineReader interface {
	Snapshot() domain.Snapshot
	ExternalSnapshot() domain.ExternalSnapshot
	Stocks() []domain.ExternalStock
	StockStatuses() map[string]domain.StockStatus
	StockByTicker(ticker string) (domain.ExternalStock, bool)
	StockHistory(ticker string, n int) (domain.StockHistory, bool)
	MarketStats() domain.MarketStats
	AnalyticsView() domain.Analytics
	Clock() (tick int64, phase domain.Phase, timeInPhase int)
}
