package ui

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"civia/adapters/excel"
	"civia/app"
	apperrors "civia/internal/errors"
)

const (
	sidebarCookie    = "sidebar"
	sidebarCollapsed = "collapsed"
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// pageData is the model handed to every template
type pageData struct {
	Route   Route
	Path    string
	Sidebar Sidebar
	PageID  string
	Poll    string
	Busy    bool
	View    interface{}
	Toasts  []app.Notice
}

func (s *Server) basePageData(c *gin.Context, route Route) pageData {
	path := c.Request.URL.Path
	return pageData{
		Route:   route,
		Path:    path,
		Sidebar: NewSidebar(path, sidebarIsCollapsed(c)),
		Poll:    s.opts.PollInterval.String(),
	}
}

func sidebarIsCollapsed(c *gin.Context) bool {
	v, err := c.Cookie(sidebarCookie)
	return err == nil && v == sidebarCollapsed
}

func (s *Server) handleHome(c *gin.Context) {
	data := s.basePageData(c, Shell("/"))
	data.View = app.NewHomePage().View()
	s.renderTemplate(c, http.StatusOK, PageHome, "layout", data)
}

func (s *Server) handleNotFound(c *gin.Context) {
	route := Shell(c.Request.URL.Path)
	data := s.basePageData(c, route)
	s.renderTemplate(c, route.Status, PageNotFound, "layout", data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePage opens a fresh visit for kind and mounts it
func (s *Server) handlePage(kind PageKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := s.sessions.open(kind, func(life *app.Lifetime) pageController {
			return s.newPage(kind, life)
		})

		switch p := sess.page.(type) {
		case *app.DashboardPage:
			p.Mount()
		case *app.EvaluationPage:
			p.Mount()
		}

		data := s.basePageData(c, Shell(c.Request.URL.Path))
		s.fillState(&data, sess)
		s.renderTemplate(c, http.StatusOK, kind, "layout", data)
	}
}

func (s *Server) fillState(data *pageData, sess *session) {
	data.PageID = sess.id
	data.Busy = sess.page.Busy()
	data.Toasts = sess.page.Notifications().Pending()

	switch p := sess.page.(type) {
	case *app.DashboardPage:
		data.View = p.View()
	case *app.TrainPage:
		data.View = p.View()
	case *app.EvaluationPage:
		data.View = p.View()
	}
}

// session resolves the :id parameter. Unknown ids answer 404 and ask htmx
// to reload, which opens a new visit.
func (s *Server) session(c *gin.Context) (*session, bool) {
	sess, ok := s.sessions.lookup(c.Param("id"))
	if !ok {
		c.Header("HX-Refresh", "true")
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.NotFound("page").Error()})
		return nil, false
	}
	return sess, true
}

func (s *Server) renderState(c *gin.Context, sess *session) {
	data := pageData{Poll: s.opts.PollInterval.String()}
	s.fillState(&data, sess)
	s.renderTemplate(c, http.StatusOK, sess.kind, "state", data)
}

func (s *Server) wrongPage(c *gin.Context, sess *session, action string) {
	err := apperrors.InvalidInput(action + " is not available on the " + string(sess.kind) + " page")
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": err.Code})
}

func (s *Server) handleState(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	s.renderState(c, sess)
}

func (s *Server) handleExplain(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	page, ok := sess.page.(*app.DashboardPage)
	if !ok {
		s.wrongPage(c, sess, "explain")
		return
	}
	page.Explain()
	s.renderState(c, sess)
}

func (s *Server) handleTrain(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	page, ok := sess.page.(*app.TrainPage)
	if !ok {
		s.wrongPage(c, sess, "train")
		return
	}
	page.Train()
	s.renderState(c, sess)
}

func (s *Server) handleKpisRefresh(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	page, ok := sess.page.(*app.TrainPage)
	if !ok {
		s.wrongPage(c, sess, "KPI refresh")
		return
	}
	page.RefreshKpis()
	s.renderState(c, sess)
}

func (s *Server) handleMetricsRefresh(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	page, ok := sess.page.(*app.EvaluationPage)
	if !ok {
		s.wrongPage(c, sess, "metrics refresh")
		return
	}
	page.Load()
	s.renderState(c, sess)
}

func (s *Server) handleMetricsExport(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	page, ok := sess.page.(*app.EvaluationPage)
	if !ok {
		s.wrongPage(c, sess, "metrics export")
		return
	}

	metrics := page.Metrics()
	if metrics == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": apperrors.NotFound("metrics").Error()})
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteMetrics(&buf, metrics); err != nil {
		s.logger.Error("metrics export failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="metricas.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleDismiss(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.page.Notifications().Dismiss(c.Param("toastID"))
	s.renderState(c, sess)
}

func (s *Server) handleClose(c *gin.Context) {
	s.sessions.drop(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleSidebarToggle(c *gin.Context) {
	next := sidebarCollapsed
	if sidebarIsCollapsed(c) {
		next = ""
	}
	maxAge := 365 * 24 * 60 * 60
	if next == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sidebarCookie, next, maxAge, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
