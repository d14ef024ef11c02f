// Package ops runs the operational sidecar: health checks and pprof on a
// port separate from the user-facing UI.
package ops

import (
	"log"
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the ops router with the standard middleware stack
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Handle("/{name}", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			pprof.Handler(chi.URLParam(req, "name")).ServeHTTP(w, req)
		}))
	})

	return r
}

// Start runs the ops server in the background
func Start(port string) {
	go func() {
		addr := ":" + port
		log.Printf("[Ops] sidecar listening on %s", addr)
		if err := http.ListenAndServe(addr, NewRouter()); err != nil {
			log.Printf("[Ops] sidecar server failed: %v", err)
		}
	}()
}
