package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"civia/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestRunPipeline(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/run_pipeline", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, int64(0), r.ContentLength)
		w.Write([]byte(`{"status":"ok","message":"trained"}`))
	})

	res, err := NewClient(server.URL).RunPipeline(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "trained", res.Message)
}

func TestGetMetricsKeepsOrder(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/metrics", r.URL.Path)
		w.Write([]byte(`{"f1_score":0.8,"accuracy":0.9,"trained_on":"2025-10-01"}`))
	})

	m, err := NewClient(server.URL).GetMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"f1_score", "accuracy", "trained_on"}, m.Keys())
}

func TestExplainDashboard(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/explain", r.URL.Path)
		w.Write([]byte(`{"message":"done"}`))
	})

	res, err := NewClient(server.URL).ExplainDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", res.Text())
}

func TestGetKpis(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/kpis", r.URL.Path)
		w.Write([]byte(`{"total_registros":1247,"sentimiento_positivo":62.5,"categorias_activas":8,"temas_identificados":12}`))
	})

	k, err := NewClient(server.URL).GetKpis(context.Background())
	require.NoError(t, err)
	require.NotNil(t, k.TotalRecords)
	assert.Equal(t, 1247.0, *k.TotalRecords)
	assert.Equal(t, 12.0, *k.IdentifiedTopics)
}

func TestGetKpisCustomPath(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/kpis", r.URL.Path)
		w.Write([]byte(`{}`))
	})

	_, err := NewClient(server.URL, WithKpisPath("api/v2/kpis")).GetKpis(context.Background())
	assert.NoError(t, err)
}

func TestNonSuccessStatusIsRequestFailed(t *testing.T) {
	var calls int32
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		// not JSON: the status check must come first
		w.Write([]byte("<html>oops</html>"))
	})
	c := NewClient(server.URL)
	ctx := context.Background()

	calls2 := []func() error{
		func() error { _, err := c.RunPipeline(ctx); return err },
		func() error { _, err := c.GetMetrics(ctx); return err },
		func() error { _, err := c.ExplainDashboard(ctx); return err },
		func() error { _, err := c.GetKpis(ctx); return err },
	}
	for _, call := range calls2 {
		err := call()
		require.Error(t, err)
		assert.True(t, errors.IsRequestFailed(err))
		assert.Contains(t, err.Error(), "Internal Server Error")
	}
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls), "no retries")
}

func TestSuccessWithBadBodyIsDecodeFailed(t *testing.T) {
	bodies := []string{"", "not json", "[1,2,3]"}
	for _, body := range bodies {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		c := NewClient(server.URL)

		_, err := c.GetKpis(context.Background())
		assert.True(t, errors.IsDecodeFailed(err), "kpis body %q", body)

		_, err = c.GetMetrics(context.Background())
		assert.True(t, errors.IsDecodeFailed(err), "metrics body %q", body)
	}
}

func TestConnectionErrorIsRequestFailed(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewClient(url).GetKpis(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsRequestFailed(err))
}

func TestChartURLIsPure(t *testing.T) {
	c := NewClient("http://127.0.0.1:8000/")
	assert.Equal(t, "http://127.0.0.1:8000/static/x.png", c.ChartURL("x.png"))
	assert.Equal(t, c.ChartURL("x.png"), c.ChartURL("x.png"))
	assert.Equal(t, "http://127.0.0.1:8000", c.BaseURL())
}
