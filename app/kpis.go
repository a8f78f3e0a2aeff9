package app

import (
	"context"
	"sync"

	"civia/domain/insight"
	"civia/internal"
	"civia/ports"
)

// Status is the state of one page operation
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

const msgKpisFailed = "No se pudieron cargar los indicadores principales"

// kpiPanel holds the KPI cards shared by the Dashboard and Train pages.
// The snapshot starts at zero and is only ever replaced as a whole. When
// fetches overlap, only the most recently started one may replace it.
type kpiPanel struct {
	backend ports.AnalyticsBackend
	notes   *Notifications
	life    *Lifetime
	logger  *internal.Logger

	mu      sync.Mutex
	kpis    insight.KpiSnapshot
	loading bool
	gen     uint64
}

func newKpiPanel(backend ports.AnalyticsBackend, notes *Notifications, life *Lifetime, logger *internal.Logger) *kpiPanel {
	return &kpiPanel{
		backend: backend,
		notes:   notes,
		life:    life,
		logger:  logger,
		kpis:    insight.ZeroKpis(),
	}
}

// begin registers a new fetch and returns its generation
func (p *kpiPanel) begin() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.beginLocked()
}

func (p *kpiPanel) beginLocked() uint64 {
	p.gen++
	p.loading = true
	return p.gen
}

// refresh starts a KPI fetch unless one is already running
func (p *kpiPanel) refresh() bool {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return false
	}
	gen := p.beginLocked()
	p.mu.Unlock()

	started := p.life.Go(func(ctx context.Context) {
		p.fetch(ctx, gen)
	})
	if !started {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}
	return started
}

// fetch performs the call on the caller's goroutine
func (p *kpiPanel) fetch(ctx context.Context, gen uint64) {
	kpis, err := p.backend.GetKpis(ctx)
	p.life.Apply(func() {
		if err != nil {
			p.logger.Warn("KPI fetch failed: %v", err)
			p.notes.Error(msgKpisFailed, err.Error())
		}

		p.mu.Lock()
		defer p.mu.Unlock()
		if gen != p.gen {
			return
		}
		p.loading = false
		if err == nil {
			p.kpis = kpis.Clone()
			p.logger.Debug("KPIs updated")
		}
	})
}

func (p *kpiPanel) snapshot() (insight.KpiSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.kpis.Clone(), p.loading
}
