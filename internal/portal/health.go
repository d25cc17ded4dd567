package portal

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidfriends/webclient/internal/logging"
	"github.com/vidfriends/webclient/internal/ui"
)

// HealthHandler reports portal liveness and the session state.
type HealthHandler struct {
	Controller *ui.Controller
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload := map[string]string{
		"status":  "ok",
		"session": h.Controller.State().String(),
	}
	respondJSON(r.Context(), w, http.StatusOK, payload)
}

func respondJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
	}
}
