package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"marketsim/pkg/contracts/domain"
)

// SimulationHandler exposes engine timing metadata and cycle analytics.
type SimulationHandler struct {
	engine         EngineReader
	tickInterval   time.Duration
	broadcastEvery int
	logger         *slog.Logger
}

// NewSimulationHandler creates the handler. tickInterval and broadcastEvery
// describe the scheduler cadence so clients can derive wall-clock timing.
func NewSimulationHandler(engine EngineReader, tickInterval time.Duration, broadcastEvery int, logger *slog.Logger) *SimulationHandler {
	return &SimulationHandler{
		engine:         engine,
		tickInterval:   tickInterval,
		broadcastEvery: broadcastEvery,
		logger:         logger.With(slog.String("component", "simulation_handler")),
	}
}

// Routes mounts the simulation endpoints.
func (h *SimulationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/info", h.GetInfo)
	return r
}

// AnalyticsRoutes mounts the analytics endpoints.
func (h *SimulationHandler) AnalyticsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/cycles", h.GetCycles)
	return r
}

// GetInfo reports the clock position and configured cadence.
func (h *SimulationHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	tick, phase, timeInPhase := h.engine.Clock()
	render.JSON(w, r, domain.SimulationInfo{
		TickCount:           tick,
		Phase:               phase,
		TimeInPhase:         timeInPhase,
		TickIntervalMS:      h.tickInterval.Milliseconds(),
		BroadcastIntervalMS: h.tickInterval.Milliseconds() * int64(h.broadcastEvery),
		TradingWindowTicks:  domain.TradingWindowTicks,
		ClosedWindowTicks:   domain.ClosedWindowTicks,
	})
}

// GetCycles returns completed market cycles plus the running partial cycle.
func (h *SimulationHandler) GetCycles(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.engine.AnalyticsView())
}
