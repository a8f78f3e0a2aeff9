package app

import (
	"context"
	"sync"

	"civia/domain/insight"
	"civia/internal"
	"civia/ports"
)

const (
	msgExplainDone       = "Explicación generada"
	msgExplainDoneDetail = "La IA ha analizado el dashboard exitosamente"
	msgExplainFailed     = "Error al obtener explicación"
)

// ChartView is a catalog chart with its resolved image URL
type ChartView struct {
	Name  string
	Title string
	URL   string
}

// DashboardView is an immutable snapshot of the Dashboard page
type DashboardView struct {
	Kpis        insight.KpiSnapshot
	KpisLoading bool
	Explanation string
	Explaining  bool
	Charts      []ChartView
}

// DashboardPage loads the KPI cards on mount and fetches the AI
// explanation on demand
type DashboardPage struct {
	backend ports.AnalyticsBackend
	notes   *Notifications
	life    *Lifetime
	logger  *internal.Logger
	kpis    *kpiPanel

	mu          sync.Mutex
	explanation string
	explaining  bool
}

// NewDashboardPage creates the controller for one Dashboard visit
func NewDashboardPage(backend ports.AnalyticsBackend, life *Lifetime, logger *internal.Logger) *DashboardPage {
	notes := NewNotifications()
	logger = logger.With("Dashboard")
	return &DashboardPage{
		backend: backend,
		notes:   notes,
		life:    life,
		logger:  logger,
		kpis:    newKpiPanel(backend, notes, life, logger),
	}
}

// Mount starts the KPI fetch. Failure is reported but never blocks rendering.
func (p *DashboardPage) Mount() {
	p.kpis.refresh()
}

// Explain requests an explanation. It is a no-op returning false while a
// previous request is still in flight.
func (p *DashboardPage) Explain() bool {
	p.mu.Lock()
	if p.explaining {
		p.mu.Unlock()
		return false
	}
	p.explaining = true
	p.mu.Unlock()

	started := p.life.Go(p.explain)
	if !started {
		p.setExplaining(false)
	}
	return started
}

func (p *DashboardPage) explain(ctx context.Context) {
	res, err := p.backend.ExplainDashboard(ctx)
	p.life.Apply(func() {
		defer p.setExplaining(false)
		if err != nil {
			p.logger.Warn("explanation failed: %v", err)
			p.notes.Error(msgExplainFailed, err.Error())
			return
		}
		p.mu.Lock()
		p.explanation = res.Text()
		p.mu.Unlock()
		p.notes.Success(msgExplainDone, msgExplainDoneDetail)
	})
}

func (p *DashboardPage) setExplaining(v bool) {
	p.mu.Lock()
	p.explaining = v
	p.mu.Unlock()
}

// Busy reports whether any request of the page is in flight
func (p *DashboardPage) Busy() bool {
	v := p.View()
	return v.Explaining || v.KpisLoading
}

// Notifications returns the page's toast queue
func (p *DashboardPage) Notifications() *Notifications {
	return p.notes
}

// View returns the current page state
func (p *DashboardPage) View() DashboardView {
	kpis, loading := p.kpis.snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()

	charts := insight.Charts()
	views := make([]ChartView, len(charts))
	for i, c := range charts {
		views[i] = ChartView{Name: c.Name, Title: c.Title, URL: p.backend.ChartURL(c.Name)}
	}

	return DashboardView{
		Kpis:        kpis,
		KpisLoading: loading,
		Explanation: p.explanation,
		Explaining:  p.explaining,
		Charts:      views,
	}
}
