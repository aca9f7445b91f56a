package rest

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const pingTimeout = 3 * time.Second

// Component is a named dependency the service needs to answer requests.
type Component struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves /live, /ready and /health.
type HealthHandler struct {
	version    string
	components []Component
	started    time.Time
	now        func() time.Time
}

// NewHealthHandler reports version and checks components on every
// readiness or health request.
func NewHealthHandler(version string, components ...Component) *HealthHandler {
	return &HealthHandler{
		version:    version,
		components: components,
		started:    time.Now(),
		now:        time.Now,
	}
}

// HealthResponse is the body of every health endpoint.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Uptime     string                `json:"uptime,omitempty"`
	Down       []string              `json:"down,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the outcome of one component check.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live always answers 200 while the process is serving.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: h.now(),
	})
}

// Ready answers 503 naming the components that failed their check.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	results := h.check(r.Context())

	resp := HealthResponse{Status: "ok", Down: h.down(results), Timestamp: h.now()}

	status := http.StatusOK
	if len(resp.Down) > 0 {
		resp.Status = "down"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// Health adds version, uptime and per-component latency to the readiness answer.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	results := h.check(r.Context())

	now := h.now()
	resp := HealthResponse{
		Status:     "ok",
		Version:    h.version,
		Uptime:     now.Sub(h.started).Truncate(time.Second).String(),
		Down:       h.down(results),
		Components: results,
		Timestamp:  now,
	}

	status := http.StatusOK
	if len(resp.Down) > 0 {
		resp.Status = "down"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// check runs every component concurrently under a shared deadline.
func (h *HealthHandler) check(ctx context.Context) map[string]CompStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	statuses := make([]CompStatus, len(h.components))
	var g errgroup.Group
	for i, c := range h.components {
		g.Go(func() error {
			start := time.Now()
			if err := c.Check(ctx); err != nil {
				statuses[i] = CompStatus{Status: "down"}
				return nil
			}
			statuses[i] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]CompStatus, len(h.components))
	for i, c := range h.components {
		out[c.Name] = statuses[i]
	}
	return out
}

// down lists failed components in registration order.
func (h *HealthHandler) down(results map[string]CompStatus) []string {
	var names []string
	for _, c := range h.components {
		if results[c.Name].Status != "ok" {
			names = append(names, c.Name)
		}
	}
	return names
}
