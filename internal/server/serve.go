package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Serve runs the diff workers and the HTTP listener until ctx is cancelled,
// then shuts both down. The listener stops first so no request is left
// waiting on a closed pool.
func (s *Server) Serve(ctx context.Context, addr string) error {
	eg, egctx := errgroup.WithContext(ctx)

	poolCtx, stopPool := context.WithCancel(context.Background())
	defer stopPool()

	srv := &http.Server{
		Addr:    addr,
		Handler: s.SetupRouter(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	poolDone := make(chan struct{})
	eg.Go(func() error {
		defer close(poolDone)
		return s.Pool.Run(poolCtx)
	})

	eg.Go(func() error {
		s.Logger.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.Logger.Info("shutting down server")
		err := srv.Shutdown(shutdownCtx)
		stopPool()
		<-poolDone
		return err
	})

	return eg.Wait()
}
