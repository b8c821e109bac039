// Package server implements the HandFlow web application.
//
// # Architecture
//
// The server wires three collaborators together: a score store holding
// uploaded archives under opaque UUID handles, the compilation pipeline
// runner, and the handpan layout registry. Three pages drive the flow:
//
//   - GET  /          upload form
//   - POST /upload    store the archive, show part and scale selection
//   - POST /generate  compile the selection into a tablature page
//
// Uploaded scores expire after a TTL; a janitor goroutine started by the
// serve command sweeps them, so page handlers never delete anything as a
// side effect. /generate with format=json returns the tablature document
// instead of a page, for programmatic callers.
//
// # Usage
//
//	srv, err := server.New(cfg, st, runner, logger)
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe(cfg.Addr, srv.Handler())
package server

import (
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MusicFlow-app/HandFlow/internal/config"
	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
	"github.com/MusicFlow-app/HandFlow/pkg/pipeline"
	"github.com/MusicFlow-app/HandFlow/pkg/store"
)

// Server handles the HandFlow HTTP surface.
type Server struct {
	cfg    config.ServerConfig
	store  store.Store
	runner *pipeline.Runner
	scales *handpan.Registry
	logger *log.Logger
	pages  map[string]*template.Template
}

// New creates a Server. The store and runner are owned by the caller;
// Server never closes them.
func New(cfg config.ServerConfig, st store.Store, runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		store:  st,
		runner: runner,
		scales: handpan.Default(),
		logger: logger,
		pages:  pages,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/static/*", http.FileServer(http.FS(staticFiles)))

	// Uploads and compilations are the expensive routes; queue excess
	// requests instead of piling them onto the pipeline.
	r.Group(func(r chi.Router) {
		r.Use(middleware.ThrottleBacklog(s.cfg.MaxConcurrent, s.cfg.MaxConcurrent, 30*time.Second))
		r.Post("/upload", s.handleUpload)
		r.Post("/generate", s.handleGenerate)
	})

	return r
}

// requestLogger logs one line per request with the chi request id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
