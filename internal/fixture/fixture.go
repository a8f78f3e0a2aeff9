package fixture

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"civia/domain/insight"
	"civia/internal"
)

// Endpoint names one of the analytics routes whose failure can be forced
type Endpoint string

const (
	EndpointRunPipeline Endpoint = "run_pipeline"
	EndpointMetrics     Endpoint = "metrics"
	EndpointExplain     Endpoint = "explain"
	EndpointKpis        Endpoint = "kpis"
)

const (
	msgPipelineDone = "Pipeline ejecutado correctamente. Modelo y gráficos actualizados."
	explanationText = "## Resumen del panel\n\n" +
		"El **sentimiento positivo** se mantiene por encima del promedio en la mayoría de ciudades.\n\n" +
		"- Las categorías urgentes se concentran en zonas con bajo acceso a internet.\n" +
		"- Los temas más reportados son salud, educación y seguridad.\n\n" +
		"Se recomienda priorizar la atención en las zonas rurales con mayor nivel de urgencia."
)

// Options configures a fixture backend
type Options struct {
	// KpisPath serves the KPI summary; defaults to /api/kpis
	KpisPath string
	// ChartsDir holds real chart PNGs; missing charts get a placeholder
	ChartsDir string
	// Metrics replaces the canned metrics
	Metrics *insight.Metrics
	Logger  *internal.Logger
}

// Server is a deterministic stand-in for the analytics backend
type Server struct {
	router    *chi.Mux
	chartsDir string
	logger    *internal.Logger

	mu      sync.Mutex
	failing map[Endpoint]int
	calls   map[Endpoint]int
	kpis    insight.KpiSnapshot
	metrics *insight.Metrics
}

// DefaultMetrics returns the canned evaluation metrics
func DefaultMetrics() *insight.Metrics {
	m := insight.NewMetrics()
	m.Set(insight.MetricAccuracy, insight.NumberValue(0.9423))
	m.Set(insight.MetricPrecision, insight.NumberValue(0.9311))
	m.Set(insight.MetricRecall, insight.NumberValue(0.9187))
	m.Set(insight.MetricF1Score, insight.NumberValue(0.9248))
	m.Set("modelo", insight.StringValue("naive_bayes"))
	m.Set("registros_evaluados", insight.NumberValue(1247))
	return m
}

// DefaultKpis returns the KPI summary before any pipeline run
func DefaultKpis() insight.KpiSnapshot {
	return insight.NewKpiSnapshot(1247, 62.4, 8, 15)
}

// New creates a fixture backend
func New(opts Options) *Server {
	if opts.KpisPath == "" {
		opts.KpisPath = "/api/kpis"
	}
	if opts.Metrics == nil {
		opts.Metrics = DefaultMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = internal.NewDiscardLogger()
	}

	s := &Server{
		router:    chi.NewRouter(),
		chartsDir: opts.ChartsDir,
		logger:    opts.Logger.With("Fixture"),
		failing:   make(map[Endpoint]int),
		calls:     make(map[Endpoint]int),
		kpis:      DefaultKpis(),
		metrics:   opts.Metrics,
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Post("/api/run_pipeline", s.guard(EndpointRunPipeline, s.handleRunPipeline))
	s.router.Get("/api/metrics", s.guard(EndpointMetrics, s.handleMetrics))
	s.router.Post("/api/explain", s.guard(EndpointExplain, s.handleExplain))
	s.router.Get(opts.KpisPath, s.guard(EndpointKpis, s.handleKpis))
	s.router.Get("/static/{name}", s.handleChart)

	s.router.Route("/_fixture", func(r chi.Router) {
		r.Post("/fail/{endpoint}", s.handleFail)
		r.Delete("/fail/{endpoint}", s.handleRecover)
	})
	return s
}

// Handler returns the fixture's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Fail makes ep answer with status until Recover is called
func (s *Server) Fail(ep Endpoint, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[ep] = status
}

// Recover clears a forced failure
func (s *Server) Recover(ep Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failing, ep)
}

// Calls returns how many requests reached ep, failed ones included
func (s *Server) Calls(ep Endpoint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[ep]
}

// guard counts calls and answers forced failures with the bare status text
func (s *Server) guard(ep Endpoint, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[ep]++
		status, failing := s.failing[ep]
		s.mu.Unlock()

		if failing {
			s.logger.Debug("forcing %d on %s", status, ep)
			http.Error(w, http.StatusText(status), status)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleRunPipeline(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	// every run processes another batch of reports
	total := *s.kpis.TotalRecords + 250
	s.kpis = insight.NewKpiSnapshot(total, *s.kpis.PositiveSentiment+1.5, *s.kpis.ActiveCategories, *s.kpis.IdentifiedTopics+1)
	s.mu.Unlock()

	writeJSON(w, insight.PipelineRunResult{Status: "ok", Message: msgPipelineDone})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	metrics := s.metrics
	s.mu.Unlock()
	writeJSON(w, metrics)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, insight.ExplanationResult{Explanation: explanationText})
}

func (s *Server) handleKpis(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	kpis := s.kpis.Clone()
	s.mu.Unlock()
	writeJSON(w, kpis)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !insight.IsKnownChart(name) {
		http.NotFound(w, r)
		return
	}

	if s.chartsDir != "" {
		path := filepath.Join(s.chartsDir, filepath.Base(name))
		if _, err := os.Stat(path); err == nil {
			http.ServeFile(w, r, path)
			return
		}
	}

	img, err := placeholderPNG(name)
	if err != nil {
		s.logger.Error("placeholder for %s failed: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Write(img)
}

func (s *Server) handleFail(w http.ResponseWriter, r *http.Request) {
	status := http.StatusInternalServerError
	if v := r.URL.Query().Get("status"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 400 || n > 599 {
			http.Error(w, "status must be between 400 and 599", http.StatusBadRequest)
			return
		}
		status = n
	}
	s.Fail(Endpoint(chi.URLParam(r, "endpoint")), status)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecover(w http.ResponseWriter, r *http.Request) {
	s.Recover(Endpoint(chi.URLParam(r, "endpoint")))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// placeholderPNG draws a flat bar chart whose shape depends on the name
func placeholderPNG(name string) ([]byte, error) {
	const width, height = 320, 180
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	background := color.RGBA{0xf6, 0xf7, 0xf9, 0xff}
	bar := color.RGBA{0xb4, 0x00, 0x00, 0xff}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, background)
		}
	}

	seed := 0
	for _, c := range name {
		seed = (seed*31 + int(c)) % 9973
	}
	const bars = 8
	slot := width / bars
	for i := 0; i < bars; i++ {
		h := 30 + (seed*(i+3))%(height-50)
		for x := i*slot + 8; x < (i+1)*slot-8; x++ {
			for y := height - h; y < height-10; y++ {
				img.Set(x, y, bar)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
