//go:build profile

package monitoring

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/pprof"
)

// NOTE: profiling shares the metrics mux, so it is only reachable where /metrics is
func (s *service) setupProfiling(ctx context.Context, mux *http.ServeMux) {
	slog.DebugContext(ctx, "Enabling profiling endpoints")

	mux.HandleFunc("/debug/pprof/", pprof.Index)

	for _, p := range []string{"goroutine", "heap", "allocs", "block", "mutex"} {
		mux.Handle("/debug/pprof/"+p, pprof.Handler(p))
	}

	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}
