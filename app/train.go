package app

import (
	"context"
	"sync"

	"civia/domain/insight"
	"civia/internal"
	"civia/ports"
)

const (
	msgTrainDone        = "Entrenamiento completado"
	msgTrainDoneDefault = "El modelo se ha entrenado exitosamente"
	msgTrainFailed      = "Error en el entrenamiento"
)

// TrainView is an immutable snapshot of the Train page
type TrainView struct {
	Status      Status
	Training    bool
	LastMessage string
	Kpis        insight.KpiSnapshot
	KpisLoading bool
}

// TrainPage runs the training pipeline on demand and keeps the KPI cards
// current afterwards
type TrainPage struct {
	backend ports.AnalyticsBackend
	notes   *Notifications
	life    *Lifetime
	logger  *internal.Logger
	kpis    *kpiPanel

	mu          sync.Mutex
	status      Status
	training    bool
	lastMessage string
}

// NewTrainPage creates the controller for one Train visit
func NewTrainPage(backend ports.AnalyticsBackend, life *Lifetime, logger *internal.Logger) *TrainPage {
	notes := NewNotifications()
	logger = logger.With("Train")
	return &TrainPage{
		backend: backend,
		notes:   notes,
		life:    life,
		logger:  logger,
		kpis:    newKpiPanel(backend, notes, life, logger),
		status:  StatusIdle,
	}
}

// Train starts a pipeline run. A second call while a run is in flight is
// a no-op returning false.
func (p *TrainPage) Train() bool {
	p.mu.Lock()
	if p.training {
		p.mu.Unlock()
		return false
	}
	p.training = true
	p.status = StatusLoading
	p.mu.Unlock()

	started := p.life.Go(p.train)
	if !started {
		p.mu.Lock()
		p.training = false
		p.mu.Unlock()
	}
	return started
}

func (p *TrainPage) train(ctx context.Context) {
	p.logger.Info("pipeline run requested")
	res, err := p.backend.RunPipeline(ctx)

	applied := p.life.Apply(func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.training = false
		if err != nil {
			p.logger.Warn("pipeline run failed: %v", err)
			p.status = StatusError
			p.notes.Error(msgTrainFailed, err.Error())
			return
		}
		p.status = StatusSuccess
		p.lastMessage = res.Message
		description := res.Message
		if description == "" {
			description = msgTrainDoneDefault
		}
		p.notes.Success(msgTrainDone, description)
	})

	if applied && err == nil {
		// post-training numbers
		p.kpis.fetch(ctx, p.kpis.begin())
	}
}

// RefreshKpis re-fetches the KPI cards independently of training
func (p *TrainPage) RefreshKpis() bool {
	return p.kpis.refresh()
}

// Busy reports whether any request of the page is in flight
func (p *TrainPage) Busy() bool {
	v := p.View()
	return v.Training || v.KpisLoading
}

// Notifications returns the page's toast queue
func (p *TrainPage) Notifications() *Notifications {
	return p.notes
}

// View returns the current page state
func (p *TrainPage) View() TrainView {
	kpis, loading := p.kpis.snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()
	return TrainView{
		Status:      p.status,
		Training:    p.training,
		LastMessage: p.lastMessage,
		Kpis:        kpis,
		KpisLoading: loading,
	}
}
