package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"civia/domain/insight"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

var pageKinds = []PageKind{PageHome, PageDashboard, PageTrain, PageEvaluation, PageNotFound}

var funcMap = template.FuncMap{
	"percent":   insight.FormatPercentage,
	"count":     insight.FormatCount,
	"sentiment": insight.FormatSentiment,
	"plain":     insight.FormatPlain,
	"markdown":  renderMarkdown,
	"icon":      icon,
}

// parseTemplates builds one template set per page: the shared layout and
// fragments plus the page's own "content" and "state" definitions
func parseTemplates() (map[PageKind]*template.Template, error) {
	sets := make(map[PageKind]*template.Template, len(pageKinds))
	for _, kind := range pageKinds {
		t, err := template.New(string(kind)).Funcs(funcMap).ParseFS(embeddedFiles,
			"templates/layout.html",
			"templates/fragments.html",
			"templates/"+string(kind)+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s templates: %w", kind, err)
		}
		sets[kind] = t
	}
	return sets, nil
}

// renderMarkdown turns backend explanation text into HTML. Raw HTML in the
// source is dropped and only http(s), ftp and mailto links stay links.
func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.HardLineBreak)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.Safelink})
	return template.HTML(markdown.ToHTML([]byte(src), p, r))
}

var icons = map[string]string{
	"brain":  "🧠",
	"chart":  "📊",
	"target": "🎯",
	"home":   "🏠",
}

func icon(name string) string {
	return icons[name]
}

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written response
func (s *Server) renderTemplate(c *gin.Context, status int, kind PageKind, name string, data interface{}) {
	t, ok := s.templates[kind]
	if !ok {
		s.logger.Error("no templates for page %s", kind)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template error for %s/%s: %v", kind, name, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("error writing template response: %v", err)
	}
}
