package ports

import (
	"context"

	"civia/domain/insight"
)

// AnalyticsBackend is the REST surface of the sentiment/impact analysis
// service. Implementations never retry; callers decide.
type AnalyticsBackend interface {
	// RunPipeline triggers a training run on the backend
	RunPipeline(ctx context.Context) (*insight.PipelineRunResult, error)

	// GetMetrics fetches the evaluation metrics of the current model
	GetMetrics(ctx context.Context) (*insight.Metrics, error)

	// ExplainDashboard asks the backend for an AI explanation of the dashboard
	ExplainDashboard(ctx context.Context) (*insight.ExplanationResult, error)

	// GetKpis fetches the four-field KPI summary
	GetKpis(ctx context.Context) (*insight.KpiSnapshot, error)

	// ChartURL builds the address of a chart image without any I/O
	ChartURL(name string) string
}
