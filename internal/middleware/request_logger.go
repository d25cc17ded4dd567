package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vidfriends/webclient/internal/logging"
	"github.com/vidfriends/webclient/internal/session"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *responseWriter) Status() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

// SessionReporter exposes the session state an action ran under.
type SessionReporter interface {
	State() session.State
}

// RequestLogger treats every portal request as one user action: it tags the
// context with an action id and an action-scoped logger, recovers panics,
// and logs the status together with the session state before and after the
// action. sessions may be nil.
func RequestLogger(base *slog.Logger, sessions SessionReporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			actionID := uuid.NewString()
			before := sessionState(sessions)

			logger := base.With(
				slog.String("action_id", actionID),
				slog.String("action", r.Method+" "+r.URL.Path),
				slog.String("client", ClientIP(r)),
			)

			ctx := logging.WithActionID(logging.WithLogger(r.Context(), logger), actionID)
			wrapped := &responseWriter{ResponseWriter: w}

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", "panic", rec)
					http.Error(wrapped, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}

				status := wrapped.Status()
				after := sessionState(sessions)
				logger.Log(ctx, levelForStatus(status), "action completed",
					slog.Int("status", status),
					slog.Duration("duration", time.Since(start)),
					slog.String("session", after.String()),
					slog.Bool("session_changed", before != after),
				)
			}()

			next.ServeHTTP(wrapped, r.WithContext(ctx))
		})
	}
}

func sessionState(sessions SessionReporter) session.State {
	if sessions == nil {
		return session.Anonymous
	}
	return sessions.State()
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
