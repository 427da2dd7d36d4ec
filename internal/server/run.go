// internal/server/run.go
//
// Run serves srv and any background workers until ctx ends, then shuts the
// server down gracefully.
//
// Workflow
// --------
//   1. ListenAndServe runs in an errgroup goroutine.
//   2. Each worker (e.g. the idle-form evictor) runs in its own goroutine
//      with the group context.
//   3. When ctx is cancelled (SIGINT/SIGTERM) or any goroutine fails, the
//      server gets `grace` to finish in-flight requests.

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Worker is a background loop that returns when ctx ends.
type Worker func(ctx context.Context) error

// Run blocks until srv has shut down and every worker has returned.  The
// first non-nil error wins.
func Run(ctx context.Context, srv *http.Server, grace time.Duration, workers ...Worker) error {
	if grace <= 0 {
		grace = DefaultShutdownTimeout
	}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.S().Infow("http listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()
		zap.S().Infow("http shutting down", "grace", grace)
		return srv.Shutdown(sctx)
	})

	for _, w := range workers {
		w := w
		g.Go(func() error { return w(gctx) })
	}

	return g.Wait()
}
