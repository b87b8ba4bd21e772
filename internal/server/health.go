package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

type CheckResult struct {
	Status string `json:"status"`
}

type HealthResponse struct {
	Checks   map[string]CheckResult `json:"checks"`
	Sessions int                    `json:"sessions"`
}

func handleHealth(logger *slog.Logger, checks map[string]Checker, sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := HealthResponse{
			Checks:   make(map[string]CheckResult, len(checks)),
			Sessions: sessions.Len(),
		}
		status := http.StatusOK

		for name, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.Error("health check failed", "name", name, "error", err)
				resp.Checks[name] = CheckResult{Status: "error"}
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = CheckResult{Status: "ok"}
		}

		writeJSON(w, status, resp)
	}
}
