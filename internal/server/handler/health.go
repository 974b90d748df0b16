package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthHandler reports service liveness, including database reachability.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler returns a HealthHandler. db may be nil; then only the
// process itself is reported.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, code, map[string]string{"status": status})
}
