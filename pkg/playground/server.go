package playground

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/syringe/internal/errors"
	"github.com/vango-dev/syringe/pkg/fixture"
)

// DefaultMaxBodyBytes limits the size of a posted fixture.
const DefaultMaxBodyBytes = 1 << 20

// Config configures a Server.
type Config struct {
	// Pipeline processes fixtures. Required.
	Pipeline *Pipeline

	// Loader serves GET /fixtures/*. If nil, the route is not mounted.
	Loader *fixture.Loader

	// Gatherer serves MetricsPath. If nil, no metrics route is mounted.
	Gatherer    prometheus.Gatherer
	MetricsPath string

	// Live mounts the /live WebSocket endpoint.
	Live bool

	// AllowedOrigins lists origins accepted by /live. "*" accepts any
	// origin. Empty means same origin only.
	AllowedOrigins []string

	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Server is the playground HTTP server.
type Server struct {
	config Config
	logger *slog.Logger
	hub    *Hub
	router chi.Router
}

// New creates a Server.
func New(config Config) *Server {
	if config.Pipeline == nil {
		config.Pipeline = &Pipeline{}
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{config: config, logger: logger}
	if config.Live {
		s.hub = NewHub(config.AllowedOrigins, logger)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Post("/inject", s.handleInject)
	if s.config.Loader != nil {
		r.Get("/fixtures/*", s.handleFixture)
	}
	if s.config.Gatherer != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	if s.hub != nil {
		r.Get("/live", s.handleLive)
	}
	return r
}

// Handler returns the server's http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the live connection hub, or nil when Live is off.
func (s *Server) Hub() *Hub {
	return s.hub
}

// handleInject processes the fixture in the request body. Repeated "emit"
// query parameters name events to fire after injection.
func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		s.writeError(w, errors.New("E300").WithDetail("request body could not be read").Wrap(err))
		return
	}
	doc, err := fixture.Parse(body, "request")
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.process(w, r, doc)
}

func (s *Server) handleFixture(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "*")
	if strings.HasPrefix(location, "s3/") {
		location = "s3://" + strings.TrimPrefix(location, "s3/")
	}
	doc, err := s.config.Loader.Load(r.Context(), location)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.process(w, r, doc)
}

func (s *Server) process(w http.ResponseWriter, r *http.Request, doc *fixture.Document) {
	result, err := s.config.Pipeline.Run(r.Context(), doc, r.URL.Query()["emit"]...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(LiveMessage{Type: MessageResult, Result: result})
	}
	writeJSON(w, http.StatusOK, result)
}

type errorResponse struct {
	Error *errors.SyringeError `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	se := errors.FromError(err, "E302")
	status := statusFor(se.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("playground: request failed", "code", se.Code, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: se})
}

func statusFor(code string) int {
	switch code {
	case "E200":
		return http.StatusNotFound
	case "E201", "E202", "E203", "E204", "E300":
		return http.StatusBadRequest
	case "E205":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// requestLogger logs each request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("playground: request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			)
		})
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("playground starting", "address", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if s.hub != nil {
			s.hub.Close()
		}
		return httpServer.Shutdown(shutdownCtx)
	}
}
