package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// MarketHandler serves market-wide aggregates and the full snapshot.
type MarketHandler struct {
	engine EngineReader
	logger *slog.Logger
}

// NewMarketHandler creates the handler.
func NewMarketHandler(engine EngineReader, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		engine: engine,
		logger: logger.With(slog.String("component", "market_handler")),
	}
}

// Routes mounts the market endpoints.
func (h *MarketHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/stats", h.GetStats)
	r.Get("/snapshot", h.GetSnapshot)
	return r
}

// GetStats returns aggregate market statistics.
func (h *MarketHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.engine.MarketStats())
}

// GetSnapshot returns the public snapshot with internal mechanics hidden.
func (h *MarketHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.engine.ExternalSnapshot())
}
