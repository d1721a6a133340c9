package http

import (
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ClientCounter reports WebSocket subscriber counts: the attached set plus
// lifetime connection and drop totals.
type ClientCounter interface {
	ClientCount() int
	ConnectionStats() (connections, droppedClients, droppedBroadcasts int64)
}

// HealthHandler serves liveness and basic runtime status.
type HealthHandler struct {
	engine  EngineReader
	clients ClientCounter
	started time.Time
	version string
}

// NewHealthHandler creates the handler.
func NewHealthHandler(engine EngineReader, clients ClientCounter, version string) *HealthHandler {
	return &HealthHandler{
		engine:  engine,
		clients: clients,
		started: time.Now(),
		version: version,
	}
}

// Routes mounts the health endpoints.
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetHealth)
	return r
}

// GetHealth reports service status, clock position and subscriber count.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	tick, phase, _ := h.engine.Clock()
	connections, droppedClients, droppedBroadcasts := h.clients.ConnectionStats()
	render.JSON(w, r, map[string]any{
		"status":             "healthy",
		"version":            h.version,
		"uptime":             time.Since(h.started).String(),
		"tick":               tick,
		"phase":              phase,
		"subscribers":        h.clients.ClientCount(),
		"totalConnections":   connections,
		"droppedSubscribers": droppedClients,
		"droppedBroadcasts":  droppedBroadcasts,
		"goroutines":         runtime.NumGoroutine(),
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
	})
}
