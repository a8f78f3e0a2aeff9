package ui

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"civia/app"
	"civia/internal"
	"civia/ports"
)

// Options tunes the page sessions of the server
type Options struct {
	// PollInterval is how often a busy page asks for fresh state
	PollInterval time.Duration
	// IdleTTL drops page visits that stopped polling or never closed
	IdleTTL time.Duration
}

// DefaultOptions matches the configuration defaults
func DefaultOptions() Options {
	return Options{PollInterval: time.Second, IdleTTL: 10 * time.Minute}
}

// Server serves the CivIA dashboard
type Server struct {
	router    *gin.Engine
	backend   ports.AnalyticsBackend
	sessions  *Sessions
	templates map[PageKind]*template.Template
	opts      Options
	logger    *internal.Logger
}

// NewServer creates the dashboard server on top of an analytics backend
func NewServer(backend ports.AnalyticsBackend, opts Options, logger *internal.Logger) (*Server, error) {
	if opts.PollInterval <= 0 || opts.IdleTTL <= 0 {
		def := DefaultOptions()
		if opts.PollInterval <= 0 {
			opts.PollInterval = def.PollInterval
		}
		if opts.IdleTTL <= 0 {
			opts.IdleTTL = def.IdleTTL
		}
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.Default(),
		backend:   backend,
		sessions:  NewSessions(opts.IdleTTL, logger),
		templates: templates,
		opts:      opts,
		logger:    logger.With("UI"),
	}

	if err := s.setupStatic(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupStatic() error {
	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return err
	}
	s.router.StaticFS("/assets", http.FS(staticFS))
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleHome)
	s.router.GET("/dashboard", s.handlePage(PageDashboard))
	s.router.GET("/train", s.handlePage(PageTrain))
	s.router.GET("/evaluation", s.handlePage(PageEvaluation))
	s.router.GET("/healthz", s.handleHealth)

	pages := s.router.Group("/pages/:id")
	pages.GET("/state", s.handleState)
	pages.POST("/explain", s.handleExplain)
	pages.POST("/train", s.handleTrain)
	pages.POST("/kpis/refresh", s.handleKpisRefresh)
	pages.POST("/metrics/refresh", s.handleMetricsRefresh)
	pages.GET("/metrics.xlsx", s.handleMetricsExport)
	pages.POST("/toasts/:toastID/dismiss", s.handleDismiss)
	pages.POST("/close", s.handleClose)

	s.router.POST("/ui/sidebar/toggle", s.handleSidebarToggle)
	s.router.NoRoute(s.handleNotFound)
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the live page registry
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// Run serves on addr until ctx is cancelled, sweeping idle pages alongside
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting CivIA dashboard on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.sessions.RunSweeper(ctx, sweepEvery(s.opts.IdleTTL))
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func sweepEvery(ttl time.Duration) time.Duration {
	every := ttl / 2
	if every < time.Second {
		every = time.Second
	}
	if every > time.Minute {
		every = time.Minute
	}
	return every
}

// newPage builds the controller for a page kind on the given lifetime
func (s *Server) newPage(kind PageKind, life *app.Lifetime) pageController {
	switch kind {
	case PageDashboard:
		return app.NewDashboardPage(s.backend, life, s.logger)
	case PageTrain:
		return app.NewTrainPage(s.backend, life, s.logger)
	default:
		return app.NewEvaluationPage(s.backend, life, s.logger)
	}
}
