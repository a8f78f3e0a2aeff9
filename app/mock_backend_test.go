package app

import (
	"context"

	"github.com/stretchr/testify/mock"

	"civia/domain/insight"
	"civia/internal"
)

// MockBackend stubs the analytics service
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) RunPipeline(ctx context.Context) (*insight.PipelineRunResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*insight.PipelineRunResult)
	return res, args.Error(1)
}

func (m *MockBackend) GetMetrics(ctx context.Context) (*insight.Metrics, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*insight.Metrics)
	return res, args.Error(1)
}

func (m *MockBackend) ExplainDashboard(ctx context.Context) (*insight.ExplanationResult, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*insight.ExplanationResult)
	return res, args.Error(1)
}

func (m *MockBackend) GetKpis(ctx context.Context) (*insight.KpiSnapshot, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*insight.KpiSnapshot)
	return res, args.Error(1)
}

func (m *MockBackend) ChartURL(name string) string {
	return "http://backend.test/static/" + name
}

func testLogger() *internal.Logger {
	return internal.NewDiscardLogger()
}

func kpis(a, b, c, d float64) *insight.KpiSnapshot {
	k := insight.NewKpiSnapshot(a, b, c, d)
	return &k
}
