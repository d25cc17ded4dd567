package app

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vidfriends/webclient/internal/httpserver"
	"github.com/vidfriends/webclient/internal/middleware"
	"github.com/vidfriends/webclient/internal/portal"
)

func (c *cli) serveCommand() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web portal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.deps.cfg
			if !cmd.Flags().Changed("port") {
				port = cfg.Portal.Port
			}
			if !cmd.Flags().Changed("host") {
				host = cfg.Portal.Host
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var limiter middleware.RateLimiter
			if cfg.Portal.RateLimit > 0 {
				limiter = middleware.NewIPRateLimiter(cfg.Portal.RateLimit, cfg.Portal.RateWindow, cfg.Portal.RateLimit, 0)
			}

			handler := portal.NewRouter(portal.Dependencies{
				Controller: c.deps.controller,
				Logger:     c.logger,
				Limiter:    limiter,
			})

			srv := httpserver.New(host, port, handler)
			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return fmt.Errorf("listen on %s: %w", srv.Addr(), err)
			}

			c.logger.Info("starting portal", "addr", ln.Addr().String(), "server_url", cfg.ServerURL)
			c.deps.controller.Start(ctx)

			err = srv.Serve(ctx, ln)
			c.logger.Info("portal stopped")
			return err
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default VIDCLIENT_PORTAL_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default VIDCLIENT_PORT)")
	return cmd
}
