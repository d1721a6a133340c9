package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketsim/pkg/contracts/domain"
)

// mockEngine is a canned EngineReader.
type mockEngine struct {
	stocks   []domain.ExternalStock
	statuses map[string]domain.StockStatus
	stats    domain.MarketStats
}

func newMockEngine(n int) *mockEngine {
	m := &mockEngine{statuses: make(map[string]domain.StockStatus)}
	for i := 0; i < n; i++ {
		sector := "Technology"
		if i%2 == 1 {
			sector = "Energy"
		}
		id := fmt.Sprintf("stock-%d", i)
		m.stocks = append(m.stocks, domain.ExternalStock{
			ID:                id,
			Ticker:            fmt.Sprintf("TCK%d", i),
			Name:              fmt.Sprintf("Company %d", i),
			Sector:            sector,
			SubIndustry:       "SaaS",
			Price:             100 + float64(i),
			MarketStatus:      "open",
			SharesOutstanding: 1e9,
			CurrentMarketCap:  (100 + float64(i)) * 1e9,
			Volatility:        0.3,
		})
		m.statuses[id] = domain.StockStatusActive
	}
	m.stats = domain.MarketStats{TotalMarketCap: 5e12, ActiveStocks: n, VIX: 15.5, InterestRate: 1.25}
	return m
}

func (m *mockEngine) Snapshot() domain.Snapshot { return domain.Snapshot{Tick: 77} }

func (m *mockEngine) ExternalSnapshot() domain.ExternalSnapshot {
	return domain.ExternalSnapshot{Stocks: m.stocks, TimeInPhase: 3}
}

func (m *mockEngine) Stocks() []domain.ExternalStock { return m.stocks }

func (m *mockEngine) StockStatuses() map[string]domain.StockStatus { return m.statuses }

func (m *mockEngine) StockByTicker(ticker string) (domain.ExternalStock, bool) {
	for _, s := range m.stocks {
		if s.Ticker == ticker {
			return s, true
		}
	}
	return domain.ExternalStock{}, false
}

func (m *mockEngine) StockHistory(ticker string, n int) (domain.StockHistory, bool) {
	if _, ok := m.StockByTicker(ticker); !ok {
		return domain.StockHistory{}, false
	}
	if n > 60 {
		n = 60
	}
	history := make([]float64, n)
	return domain.StockHistory{Ticker: ticker, History: history, Ticks: n, MarketStatus: "open"}, true
}

func (m *mockEngine) MarketStats() domain.MarketStats { return m.stats }

func (m *mockEngine) AnalyticsView() domain.Analytics {
	return domain.Analytics{Summary: domain.AnalyticsSummary{CurrentCycleTicks: 123}}
}

func (m *mockEngine) Clock() (int64, domain.Phase, int) { return 77, domain.PhaseTrading, 3 }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, handler http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestListStocksPagination(t *testing.T) {
	h := NewStocksHandler(newMockEngine(120), discardLogger())
	router := h.Routes()

	t.Run("defaults", func(t *testing.T) {
		rec, body := doRequest(t, router, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(120), body["total"])
		assert.Equal(t, float64(1), body["page"])
		assert.Equal(t, float64(50), body["pageSize"])
		assert.Equal(t, float64(3), body["totalPages"])
		assert.Len(t, body["data"], 50)
	})

	t.Run("second page", func(t *testing.T) {
		rec, body := doRequest(t, router, "/?page=3&page_size=50")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body["data"], 20)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		rec, body := doRequest(t, router, "/?page=100")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body["data"], 0)
		assert.Equal(t, float64(120), body["total"])
	})

	t.Run("invalid page", func(t *testing.T) {
		rec, body := doRequest(t, router, "/?page=zero")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_PARAMETER", body["error_code"])
	})

	t.Run("page size over limit", func(t *testing.T) {
		rec, _ := doRequest(t, router, "/?page_size=500")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListStocksFilters(t *testing.T) {
	engine := newMockEngine(10)
	engine.statuses["stock-0"] = domain.StockStatusBankrupt
	h := NewStocksHandler(engine, discardLogger())
	router := h.Routes()

	t.Run("sector filter", func(t *testing.T) {
		rec, body := doRequest(t, router, "/?sector=Energy")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(5), body["total"])
	})

	t.Run("default hides bankrupt", func(t *testing.T) {
		_, body := doRequest(t, router, "/")
		assert.Equal(t, float64(9), body["total"])
	})

	t.Run("status bankrupt shows tombstones", func(t *testing.T) {
		_, body := doRequest(t, router, "/?status=bankrupt")
		assert.Equal(t, float64(1), body["total"])
	})

	t.Run("status all shows everything", func(t *testing.T) {
		_, body := doRequest(t, router, "/?status=all")
		assert.Equal(t, float64(10), body["total"])
	})
}

func TestGetStock(t *testing.T) {
	h := NewStocksHandler(newMockEngine(3), discardLogger())
	router := h.Routes()

	t.Run("found", func(t *testing.T) {
		rec, body := doRequest(t, router, "/TCK1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "TCK1", body["ticker"])
		assert.Equal(t, "open", body["marketStatus"])
	})

	t.Run("not found", func(t *testing.T) {
		rec, body := doRequest(t, router, "/NOPE")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "STOCK_NOT_FOUND", body["error_code"])
	})
}

func TestGetStockHistory(t *testing.T) {
	h := NewStocksHandler(newMockEngine(3), discardLogger())
	router := h.Routes()

	t.Run("explicit ticks", func(t *testing.T) {
		rec, body := doRequest(t, router, "/TCK0/history?ticks=15")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(15), body["ticks"])
	})

	t.Run("default is the full window", func(t *testing.T) {
		_, body := doRequest(t, router, "/TCK0/history")
		assert.Equal(t, float64(60), body["ticks"])
	})

	t.Run("ticks above window rejected", func(t *testing.T) {
		rec, _ := doRequest(t, router, "/TCK0/history?ticks=100")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown ticker", func(t *testing.T) {
		rec, _ := doRequest(t, router, "/NOPE/history")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestMarketEndpoints(t *testing.T) {
	h := NewMarketHandler(newMockEngine(4), discardLogger())
	router := h.Routes()

	t.Run("stats", func(t *testing.T) {
		rec, body := doRequest(t, router, "/stats")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(15.5), body["vix"])
		assert.Equal(t, float64(4), body["activeStocks"])
	})

	t.Run("snapshot", func(t *testing.T) {
		rec, body := doRequest(t, router, "/snapshot")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body["stocks"], 4)
	})
}

func TestSimulationInfo(t *testing.T) {
	h := NewSimulationHandler(newMockEngine(1), 500*time.Millisecond, 2, discardLogger())

	rec, body := doRequest(t, h.Routes(), "/info")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(77), body["tickCount"])
	assert.Equal(t, "TRADING", body["phase"])
	assert.Equal(t, float64(500), body["tickIntervalMs"])
	assert.Equal(t, float64(1000), body["broadcastIntervalMs"])
	assert.Equal(t, float64(12), body["tradingWindowTicks"])
	assert.Equal(t, float64(8), body["closedWindowTicks"])
}

func TestAnalyticsCycles(t *testing.T) {
	h := NewSimulationHandler(newMockEngine(1), 500*time.Millisecond, 2, discardLogger())

	rec, body := doRequest(t, h.AnalyticsRoutes(), "/cycles")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(123), summary["current_cycle_ticks"])
}

type stubCounter struct {
	n       int
	dropped int64
}

func (s stubCounter) ClientCount() int { return s.n }

func (s stubCounter) ConnectionStats() (int64, int64, int64) {
	return int64(s.n) + s.dropped, s.dropped, 0
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHealthHandler(newMockEngine(1), stubCounter{n: 4, dropped: 2}, "1.0.0-test")

	rec, body := doRequest(t, h.Routes(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.0.0-test", body["version"])
	assert.Equal(t, float64(77), body["tick"])
	assert.Equal(t, float64(4), body["subscribers"])
	assert.Equal(t, float64(6), body["totalConnections"])
	assert.Equal(t, float64(2), body["droppedSubscribers"])
	assert.Equal(t, float64(0), body["droppedBroadcasts"])
}
