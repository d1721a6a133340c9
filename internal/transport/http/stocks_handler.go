package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "marketsim/internal/errors"
	"marketsim/pkg/contracts/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	maxHistoryTicks = 60
)

// PaginatedStocks is the list response envelope.
type PaginatedStocks struct {
	Data       []domain.ExternalStock `json:"data"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"pageSize"`
	TotalPages int                    `json:"totalPages"`
}

// StocksHandler serves stock listing and per-ticker queries.
type StocksHandler struct {
	engine EngineReader
	logger *slog.Logger
}

// NewStocksHandler creates the handler.
func NewStocksHandler(engine EngineReader, logger *slog.Logger) *StocksHandler {
	return &StocksHandler{
		engine: engine,
		logger: logger.With(slog.String("component", "stocks_handler")),
	}
}

// Routes mounts the stock endpoints.
func (h *StocksHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.ListStocks)
	r.Get("/{ticker}", h.GetStock)
	r.Get("/{ticker}/history", h.GetStockHistory)
	return r
}

// ListStocks supports pagination plus sector and status filters. Status
// defaults to active; bankruptcy tombstones are visible with status=bankrupt
// or status=all.
func (h *StocksHandler) ListStocks(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil || page < 1 {
		render.Render(w, r, apierrors.InvalidParameter("page", "must be a positive integer"))
		return
	}
	pageSize, err := queryInt(r, "page_size", defaultPageSize)
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		render.Render(w, r, apierrors.InvalidParameter("page_size", "must be in [1, 100]"))
		return
	}

	sector := r.URL.Query().Get("sector")
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(domain.StockStatusActive)
	}

	stocks := h.engine.Stocks()
	statuses := h.engine.StockStatuses()

	filtered := stocks[:0:0]
	for _, s := range stocks {
		if sector != "" && s.Sector != sector {
			continue
		}
		if status != "all" && string(statuses[s.ID]) != status {
			continue
		}
		filtered = append(filtered, s)
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	render.JSON(w, r, PaginatedStocks{
		Data:       filtered[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	})
}

// GetStock returns the external projection for one ticker.
func (h *StocksHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	stock, ok := h.engine.StockByTicker(ticker)
	if !ok {
		render.Render(w, r, apierrors.StockNotFound(ticker))
		return
	}
	render.JSON(w, r, stock)
}

// GetStockHistory returns up to 60 of the newest prices, newest last.
func (h *StocksHandler) GetStockHistory(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	ticks, err := queryInt(r, "ticks", maxHistoryTicks)
	if err != nil || ticks < 1 || ticks > maxHistoryTicks {
		render.Render(w, r, apierrors.InvalidParameter("ticks", "must be in [1, 60]"))
		return
	}

	history, ok := h.engine.StockHistory(ticker, ticks)
	if !ok {
		render.Render(w, r, apierrors.StockNotFound(ticker))
		return
	}
	render.JSON(w, r, history)
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
