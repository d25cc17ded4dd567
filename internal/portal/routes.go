package portal

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vidfriends/webclient/internal/middleware"
	"github.com/vidfriends/webclient/internal/ui"
)

// Dependencies aggregates collaborators required by the portal.
type Dependencies struct {
	Controller *ui.Controller
	Logger     *slog.Logger
	// Limiter throttles form posts per client IP. Nil disables limiting.
	Limiter middleware.RateLimiter
}

// NewRouter wires the portal routes behind request logging, submission rate
// limiting and the same-origin check on form posts.
func NewRouter(deps Dependencies) http.Handler {
	pages := Handler{Controller: deps.Controller}
	health := HealthHandler{Controller: deps.Controller}

	r := mux.NewRouter()
	r.HandleFunc("/", pages.Index).Methods(http.MethodGet)
	r.HandleFunc("/watch", pages.Watch).Methods(http.MethodGet)
	r.HandleFunc("/login", pages.Login).Methods(http.MethodPost)
	r.HandleFunc("/register", pages.Register).Methods(http.MethodPost)
	r.HandleFunc("/upload", pages.Upload).Methods(http.MethodPost)
	r.HandleFunc("/logout", pages.Logout).Methods(http.MethodPost)
	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = r
	if deps.Limiter != nil {
		handler = middleware.LimitSubmissions(deps.Limiter)(handler)
	}
	handler = middleware.SameOrigin(handler)

	var sessions middleware.SessionReporter
	if deps.Controller != nil {
		sessions = deps.Controller
	}
	return middleware.RequestLogger(logger, sessions)(handler)
}
