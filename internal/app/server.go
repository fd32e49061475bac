package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/klabast/wb-services/holiday-planner/internal/planner"
)

// Options configures a Server
type Options struct {
	Store  *planner.Store
	Period planner.Period
	Auth   *Authenticator
	Logger *zap.Logger
	Addr   string
}

// Server exposes the planner document over HTTP
type Server struct {
	store    *planner.Store
	period   planner.Period
	auth     *Authenticator
	log      *zap.Logger
	validate *validator.Validate
	addr     string
}

// NewServer builds a server around opts.Store
func NewServer(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("app: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Period.Days == 0 {
		opts.Period = planner.DefaultPeriod()
	}
	return &Server{
		store:    opts.Store,
		period:   opts.Period,
		auth:     opts.Auth,
		log:      opts.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		addr:     opts.Addr,
	}, nil
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/data", s.handleData)
	mux.HandleFunc("GET /api/data/{date}", s.handleDay)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/period", s.handlePeriod)
	mux.HandleFunc("GET /api/overview", s.handleOverview)
	mux.HandleFunc("GET /api/export", s.handleExport)

	// Mutating routes (protected with Basic Auth when an auth file exists)
	mux.HandleFunc("POST /api/plan", s.auth.Require(s.handleAddPlan))
	mux.HandleFunc("POST /api/plan/{date}/{index}/complete", s.auth.Require(s.handleCompletePlan))
	mux.HandleFunc("DELETE /api/plan/{date}/{index}", s.auth.Require(s.handleDeletePlan))
	mux.HandleFunc("POST /api/achievement", s.auth.Require(s.handleAddAchievement))
	mux.HandleFunc("DELETE /api/achievement/{date}/{index}", s.auth.Require(s.handleDeleteAchievement))
	mux.HandleFunc("POST /api/rating", s.auth.Require(s.handleRating))
	mux.HandleFunc("POST /api/memo", s.auth.Require(s.handleMemo))
	mux.HandleFunc("POST /api/notes", s.auth.Require(s.handleNotes))
	mux.HandleFunc("POST /api/sync", s.auth.Require(s.handleSync))

	return s.withLogging(s.withCORS(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("starting holiday planner",
			zap.String("addr", s.addr),
			zap.String("data_file", s.store.Path()),
			zap.Bool("auth", s.auth.Enabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging tags each request with an ID and logs its outcome
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
