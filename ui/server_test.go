package ui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"civia/adapters/backend"
	"civia/adapters/excel"
	"civia/app"
	"civia/internal"
	"civia/internal/fixture"
)

var pageIDPattern = regexp.MustCompile(`data-page-id="([0-9a-f-]{36})"`)

type testEnv struct {
	server  *Server
	fixture *fixture.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fx := fixture.New(fixture.Options{})
	api := httptest.NewServer(fx.Handler())
	t.Cleanup(api.Close)

	server, err := NewServer(backend.NewClient(api.URL), Options{PollInterval: time.Second, IdleTTL: time.Minute}, internal.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(server.Sessions().CloseAll)

	return &testEnv{server: server, fixture: fx}
}

func (e *testEnv) do(method, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

// open renders a page and returns its session once mount work has settled
func (e *testEnv) open(t *testing.T, path string) (*httptest.ResponseRecorder, *session) {
	t.Helper()
	rec := e.do(http.MethodGet, path)
	require.Equal(t, http.StatusOK, rec.Code)

	m := pageIDPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "page id missing from %s", path)

	sess, ok := e.server.Sessions().lookup(m[1])
	require.True(t, ok)
	sess.life.Wait()
	return rec, sess
}

func TestHomeIsStandalone(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Entrar a la Plataforma")
	assert.Contains(t, body, `href="/dashboard"`)
	assert.NotContains(t, body, `class="sidebar"`)
	assert.Equal(t, 0, env.server.Sessions().Len())
}

func TestUnknownPathRendersNotFoundInLayout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/train/history")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `class="sidebar"`)
	assert.Contains(t, body, "/train/history")
	assert.Regexp(t, `href="/train" class="nav-link active"`, body)
}

func TestDashboardRendersChartsAndKpis(t *testing.T) {
	env := newTestEnv(t)

	rec, sess := env.open(t, "/dashboard")
	body := rec.Body.String()
	assert.Contains(t, body, "Impacto Social por Ciudad")
	assert.Contains(t, body, "/static/impacto_por_ciudad.png")
	assert.Regexp(t, `href="/dashboard" class="nav-link active"`, body)

	state := env.do(http.MethodGet, "/pages/"+sess.id+"/state")
	assert.Equal(t, http.StatusOK, state.Code)
	assert.Contains(t, state.Body.String(), "1.247")
	assert.Contains(t, state.Body.String(), "62.4%")
}

func TestDashboardExplain(t *testing.T) {
	env := newTestEnv(t)
	_, sess := env.open(t, "/dashboard")

	rec := env.do(http.MethodPost, "/pages/"+sess.id+"/explain")
	assert.Equal(t, http.StatusOK, rec.Code)
	sess.life.Wait()

	state := env.do(http.MethodGet, "/pages/"+sess.id+"/state").Body.String()
	assert.Contains(t, state, "Resumen del panel</h2>")
	assert.Contains(t, state, "<strong>sentimiento positivo</strong>")
	assert.Contains(t, state, "Explicación generada")
	assert.NotContains(t, state, "hx-trigger=\"every")
}

func TestTrainFlowUpdatesKpis(t *testing.T) {
	env := newTestEnv(t)
	_, sess := env.open(t, "/train")

	rec := env.do(http.MethodPost, "/pages/"+sess.id+"/train")
	assert.Equal(t, http.StatusOK, rec.Code)
	sess.life.Wait()

	page := sess.page.(*app.TrainPage)
	view := page.View()
	assert.Equal(t, app.StatusSuccess, view.Status)
	assert.Equal(t, 1497.0, *view.Kpis.TotalRecords)
	assert.Equal(t, 1, env.fixture.Calls(fixture.EndpointKpis))

	state := env.do(http.MethodGet, "/pages/"+sess.id+"/state").Body.String()
	assert.Contains(t, state, "Entrenamiento completado")
	assert.Contains(t, state, "1.497")
}

func TestTrainFailureShowsError(t *testing.T) {
	env := newTestEnv(t)
	env.fixture.Fail(fixture.EndpointRunPipeline, http.StatusInternalServerError)
	_, sess := env.open(t, "/train")

	env.do(http.MethodPost, "/pages/"+sess.id+"/train")
	sess.life.Wait()

	state := env.do(http.MethodGet, "/pages/"+sess.id+"/state").Body.String()
	assert.Contains(t, state, "Error durante el entrenamiento")
	assert.Contains(t, state, "Internal Server Error")
	assert.Contains(t, state, "Iniciar Entrenamiento")
	assert.Equal(t, 0, env.fixture.Calls(fixture.EndpointKpis))
}

func TestEvaluationFailureShowsEmptyState(t *testing.T) {
	env := newTestEnv(t)
	env.fixture.Fail(fixture.EndpointMetrics, http.StatusInternalServerError)

	_, sess := env.open(t, "/evaluation")
	state := env.do(http.MethodGet, "/pages/"+sess.id+"/state")
	assert.Equal(t, http.StatusOK, state.Code)
	body := state.Body.String()
	assert.Contains(t, body, "Ejecuta el entrenamiento primero")
	assert.Contains(t, body, "Error al cargar métricas")

	export := env.do(http.MethodGet, "/pages/"+sess.id+"/metrics.xlsx")
	assert.Equal(t, http.StatusNotFound, export.Code)
}

func TestEvaluationRendersAndExportsMetrics(t *testing.T) {
	env := newTestEnv(t)
	_, sess := env.open(t, "/evaluation")

	body := env.do(http.MethodGet, "/pages/"+sess.id+"/state").Body.String()
	assert.Contains(t, body, "94.23%")
	assert.Contains(t, body, "naive_bayes")
	assert.Contains(t, body, "registros evaluados")

	export := env.do(http.MethodGet, "/pages/"+sess.id+"/metrics.xlsx")
	require.Equal(t, http.StatusOK, export.Code)
	assert.Equal(t, xlsxContentType, export.Header().Get("Content-Type"))

	metrics, err := excel.ReadMetrics(bytes.NewReader(export.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, fixture.DefaultMetrics().Keys(), metrics.Keys())

	wb, err := excelize.OpenReader(bytes.NewReader(export.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	assert.Contains(t, wb.GetSheetList(), excel.SheetName)
}

func TestActionOnWrongPageIsRejected(t *testing.T) {
	env := newTestEnv(t)
	_, sess := env.open(t, "/evaluation")

	rec := env.do(http.MethodPost, "/pages/"+sess.id+"/train")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "INVALID_INPUT", payload["code"])
}

func TestUnknownPageAsksForRefresh(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/pages/00000000-0000-0000-0000-000000000000/state")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
}

func TestClosePageDropsSession(t *testing.T) {
	env := newTestEnv(t)
	_, sess := env.open(t, "/dashboard")

	rec := env.do(http.MethodPost, "/pages/"+sess.id+"/close")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, sess.life.Closed())

	rec = env.do(http.MethodPost, "/pages/"+sess.id+"/explain")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDismissToast(t *testing.T) {
	env := newTestEnv(t)
	env.fixture.Fail(fixture.EndpointKpis, http.StatusServiceUnavailable)
	_, sess := env.open(t, "/dashboard")

	pending := sess.page.Notifications().Pending()
	require.Len(t, pending, 1)

	rec := env.do(http.MethodPost, "/pages/"+sess.id+"/toasts/"+pending[0].ID+"/dismiss")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), pending[0].ID)
	assert.Empty(t, sess.page.Notifications().Pending())
}

func TestSidebarToggleFlipsCookie(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/ui/sidebar/toggle")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sidebarCollapsed, cookies[0].Value)

	page := env.do(http.MethodGet, "/dashboard", cookies[0])
	assert.Contains(t, page.Body.String(), "sidebar-collapsed")

	rec = env.do(http.MethodPost, "/ui/sidebar/toggle", cookies[0])
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
}

func TestHealthAndAssets(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	css := env.do(http.MethodGet, "/assets/civia.css")
	assert.Equal(t, http.StatusOK, css.Code)

	js := env.do(http.MethodGet, "/assets/civia.js")
	assert.Equal(t, http.StatusOK, js.Code)
	assert.Contains(t, js.Body.String(), "sendBeacon")
}
