package app

import (
	"context"
	"sync"

	"github.com/montanaflynn/stats"

	"civia/domain/insight"
	"civia/internal"
	"civia/ports"
)

const (
	msgMetricsLoaded = "Métricas actualizadas"
	msgMetricsFailed = "Error al cargar métricas"
)

// HeadlineCard is one of the four fixed metric cards
type HeadlineCard struct {
	Title   string
	Value   string
	Caption string
}

// MetricRow is one line of the detailed metrics list
type MetricRow struct {
	Key   string
	Label string
	Value string
}

// MetricSummary aggregates the ratio metrics of a response
type MetricSummary struct {
	Count int
	Mean  string
	Min   string
	Max   string
}

// EvaluationView is an immutable snapshot of the Evaluation page.
// Empty is set when no metrics have ever loaded.
type EvaluationView struct {
	Loading  bool
	Empty    bool
	Headline []HeadlineCard
	Rows     []MetricRow
	Summary  *MetricSummary
}

var headlineMetrics = []struct {
	key     string
	title   string
	caption string
}{
	{insight.MetricAccuracy, "Precisión", "Accuracy del modelo"},
	{insight.MetricPrecision, "Precisión", "Precision score"},
	{insight.MetricRecall, "Recall", "Recall score"},
	{insight.MetricF1Score, "F1-Score", "F1 score"},
}

// EvaluationPage loads model metrics on mount and on demand
type EvaluationPage struct {
	backend ports.AnalyticsBackend
	notes   *Notifications
	life    *Lifetime
	logger  *internal.Logger

	mu      sync.Mutex
	metrics *insight.Metrics
	loading bool
}

// NewEvaluationPage creates the controller for one Evaluation visit
func NewEvaluationPage(backend ports.AnalyticsBackend, life *Lifetime, logger *internal.Logger) *EvaluationPage {
	return &EvaluationPage{
		backend: backend,
		notes:   NewNotifications(),
		life:    life,
		logger:  logger.With("Evaluation"),
	}
}

// Mount loads the metrics for the first time
func (p *EvaluationPage) Mount() {
	p.Load()
}

// Load fetches the metrics. It is a no-op returning false while a load is
// in flight.
func (p *EvaluationPage) Load() bool {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return false
	}
	p.loading = true
	p.mu.Unlock()

	started := p.life.Go(p.load)
	if !started {
		p.setLoading(false)
	}
	return started
}

func (p *EvaluationPage) load(ctx context.Context) {
	metrics, err := p.backend.GetMetrics(ctx)
	p.life.Apply(func() {
		defer p.setLoading(false)
		if err != nil {
			p.logger.Warn("metrics fetch failed: %v", err)
			p.notes.Error(msgMetricsFailed, err.Error())
			return
		}
		p.mu.Lock()
		p.metrics = metrics
		p.mu.Unlock()
		p.logger.Debug("loaded %d metrics", metrics.Len())
		p.notes.Success(msgMetricsLoaded, "")
	})
}

func (p *EvaluationPage) setLoading(v bool) {
	p.mu.Lock()
	p.loading = v
	p.mu.Unlock()
}

// Metrics returns the last successfully loaded metrics, or nil
func (p *EvaluationPage) Metrics() *insight.Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metrics
}

// Busy reports whether a load is in flight
func (p *EvaluationPage) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Notifications returns the page's toast queue
func (p *EvaluationPage) Notifications() *Notifications {
	return p.notes
}

// View returns the current page state
func (p *EvaluationPage) View() EvaluationView {
	p.mu.Lock()
	metrics, loading := p.metrics, p.loading
	p.mu.Unlock()

	view := EvaluationView{Loading: loading, Empty: metrics == nil}
	if metrics == nil {
		return view
	}

	view.Headline = make([]HeadlineCard, len(headlineMetrics))
	for i, h := range headlineMetrics {
		view.Headline[i] = HeadlineCard{
			Title:   h.title,
			Value:   insight.FormatPercentage(metrics.NumberPtr(h.key)),
			Caption: h.caption,
		}
	}

	for _, e := range metrics.Entries() {
		view.Rows = append(view.Rows, MetricRow{
			Key:   e.Key,
			Label: insight.HumanizeKey(e.Key),
			Value: insight.FormatMetricValue(e.Value),
		})
	}

	view.Summary = summarize(metrics.Ratios())
	return view
}

// summarize returns nil when there is nothing numeric to aggregate
func summarize(values []float64) *MetricSummary {
	if len(values) == 0 {
		return nil
	}
	data := stats.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return nil
	}
	lo, err := data.Min()
	if err != nil {
		return nil
	}
	hi, err := data.Max()
	if err != nil {
		return nil
	}
	return &MetricSummary{
		Count: len(values),
		Mean:  insight.FormatPercentage(&mean),
		Min:   insight.FormatPercentage(&lo),
		Max:   insight.FormatPercentage(&hi),
	}
}
