package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"
)

// DefaultHost keeps the portal on loopback when no host is configured.
const DefaultHost = "127.0.0.1"

// ShutdownTimeout bounds how long Serve waits for in-flight requests on exit.
var ShutdownTimeout = 10 * time.Second

// Server wraps the http.Server with defaults suited to the local portal.
type Server struct {
	inner *http.Server
}

// New constructs a server listening on host:port. Writes are not bounded
// because a portal upload holds the response until the service answers.
func New(host string, port int, handler http.Handler) *Server {
	if host == "" {
		host = DefaultHost
	}
	return &Server{
		inner: &http.Server{
			Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Addr reports the configured listen address.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srvErr := make(chan error, 1)
	go func() {
		srvErr <- s.inner.Serve(ln)
	}()

	select {
	case err := <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully terminates the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
