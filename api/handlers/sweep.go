package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/doseminder/doseminder-api/coordinator"
)

// sweepTimeout bounds an on-demand sweep; the cron-driven sweep has
// its own, longer budget.
const sweepTimeout = 2 * time.Minute

// Sweep exposes the divergence repair sweep on demand, for app
// foregrounding and support tooling
type Sweep struct {
	Coordinator *coordinator.Coordinator
}

// RunSweepHandler handles POST requests to run one consistency sweep
// and returns its report
func (h Sweep) RunSweepHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), sweepTimeout)
	defer cancel()

	report := h.Coordinator.Sweep(ctx)

	if len(report.Findings) > 0 {
		BroadcastReminderEvent("sweep_repairs", report)
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		zap.S().With(err).Error("failed to encode sweep report")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}
