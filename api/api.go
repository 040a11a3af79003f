package api

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/handlers"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// WithCORS allows cross-origin GET requests from anywhere
func WithCORS(handler http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)(handler)
}

// Run serves handler on addr until ctx is done
func Run(ctx context.Context, addr string, handler http.Handler) error {
	listener, err := net.Listen("tcp", ListenAddr(addr))
	if err != nil {
		return err
	}

	return serve(ctx, listener, handler)
}

func serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	server := &http.Server{
		Handler:           handlers.CompressHandler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// ListenAddr strips the scheme of addresses like tcp://0.0.0.0:8841
func ListenAddr(addr string) string {
	u, err := url.Parse(addr)
	if err != nil || u.Host == "" {
		return addr
	}
	return u.Host
}
