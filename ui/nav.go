package ui

import "strings"

// PageKind identifies one of the routed pages
type PageKind string

const (
	PageHome       PageKind = "home"
	PageDashboard  PageKind = "dashboard"
	PageTrain      PageKind = "train"
	PageEvaluation PageKind = "evaluation"
	PageNotFound   PageKind = "not_found"
)

// NavItem is one sidebar entry
type NavItem struct {
	Label string
	Path  string
	Icon  string
}

// SidebarItems lists the sidebar entries in display order
var SidebarItems = []NavItem{
	{Label: "Entrenar IA", Path: "/train", Icon: "brain"},
	{Label: "Dashboard", Path: "/dashboard", Icon: "chart"},
	{Label: "Evaluación", Path: "/evaluation", Icon: "target"},
}

// HomeLink is the "back home" link under the sidebar items
var HomeLink = NavItem{Label: "Volver al Inicio", Path: "/", Icon: "home"}

// Route is the result of resolving a path against the shell
type Route struct {
	Page        PageKind
	Title       string
	WithSidebar bool
	Status      int
}

var routes = map[string]Route{
	"/":           {Page: PageHome, Title: "CivIA", Status: 200},
	"/dashboard":  {Page: PageDashboard, Title: "Dashboard", WithSidebar: true, Status: 200},
	"/train":      {Page: PageTrain, Title: "Entrenar IA", WithSidebar: true, Status: 200},
	"/evaluation": {Page: PageEvaluation, Title: "Evaluación", WithSidebar: true, Status: 200},
}

// Shell maps a path to its page. Home stands alone; every other page,
// including the not-found page, is framed by the sidebar layout.
func Shell(path string) Route {
	if r, ok := routes[path]; ok {
		return r
	}
	return Route{Page: PageNotFound, Title: "Página no encontrada", WithSidebar: true, Status: 404}
}

// IsActive reports whether the sidebar entry for itemPath should be
// highlighted while current is displayed. The root only matches exactly.
func IsActive(current, itemPath string) bool {
	if itemPath == "/" {
		return current == "/"
	}
	return current == itemPath || strings.HasPrefix(current, itemPath+"/")
}

// NavLink is a sidebar entry resolved for the current path
type NavLink struct {
	NavItem
	Active bool
}

// Sidebar is the template model of the navigation sidebar
type Sidebar struct {
	Items     []NavLink
	Home      NavLink
	Collapsed bool
}

// NewSidebar resolves the sidebar for the current path
func NewSidebar(current string, collapsed bool) Sidebar {
	items := make([]NavLink, len(SidebarItems))
	for i, item := range SidebarItems {
		items[i] = NavLink{NavItem: item, Active: IsActive(current, item.Path)}
	}
	return Sidebar{
		Items:     items,
		Home:      NavLink{NavItem: HomeLink, Active: IsActive(current, HomeLink.Path)},
		Collapsed: collapsed,
	}
}
