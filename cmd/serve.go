package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guestbites/guestbites/internal/config"
	"github.com/guestbites/guestbites/internal/server"
)

var servePort int

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		env, err := newApp(cfg)
		if err != nil {
			return err
		}

		go env.Sampler().Run(ctx)
		zap.L().Info("place search ready",
			zap.Duration("cache_ttl", env.Cache.TTL()),
			zap.Bool("fallback", cfg.Guide.FallbackEnabled),
		)

		srv := newHTTPServer(cfg, env)
		return runServer(ctx, srv)
	},
}

func newHTTPServer(c *config.Config, env *appEnv) *http.Server {
	h := server.New(env.Deps(), server.Options{
		Origin:      c.Server.Origin,
		CORSOrigins: c.Server.CORSOrigins,
		Timeout:     c.Upstream.Timeout(),
	}).Handler()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", c.Server.Port),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// runServer serves until ctx is cancelled, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("server shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("starting server", zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
