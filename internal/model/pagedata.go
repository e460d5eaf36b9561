package model

import (
	"net/http"
	"strings"
)

type NavItem struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

var (
	PublicNav = []NavItem{
		{Label: "Home", Href: "/"},
		{Label: "About", Href: "/about"},
		{Label: "Blog", Href: "/blog"},
		{Label: "Projects", Href: "/projects"},
		{Label: "Resume", Href: "/resume"},
		{Label: "Contact", Href: "/contact"},
	}

	AdminNav = []NavItem{
		{Label: "Dashboard", Href: "/admin"},
		{Label: "Posts", Href: "/admin/posts"},
		{Label: "Projects", Href: "/admin/projects"},
		{Label: "Messages", Href: "/admin/messages"},
		{Label: "Resume", Href: "/admin/resume"},
	}
)

// PageData is what a page needs to know about where it is. Who is looking at
// it travels separately, as an auth.Session.
type PageData struct {
	SiteName string    `json:"siteName"`
	PageURL  string    `json:"pageUrl"`
	Nav      []NavItem `json:"nav"`
}

func NewPageData(siteName string, r *http.Request) *PageData {
	path := r.URL.Path
	items := PublicNav
	if path == "/admin" || strings.HasPrefix(path, "/admin/") {
		items = AdminNav
	}

	return &PageData{
		SiteName: siteName,
		PageURL:  path,
		Nav:      Navigation(items, path),
	}
}

// Navigation returns a copy of items with the entry owning path marked active.
// The longest matching href wins, so "/admin/posts" does not light up "/admin".
func Navigation(items []NavItem, path string) []NavItem {
	nav := make([]NavItem, len(items))
	copy(nav, items)

	best := -1
	for i, item := range nav {
		if !navMatches(item.Href, path) {
			continue
		}
		if best == -1 || len(item.Href) > len(nav[best].Href) {
			best = i
		}
	}
	if best >= 0 {
		nav[best].Active = true
	}
	return nav
}

func navMatches(href, path string) bool {
	if href == path {
		return true
	}
	if href == "/" {
		return false
	}
	return strings.HasPrefix(path, href+"/")
}

func (pd *PageData) ActiveItem() (NavItem, bool) {
	for _, item := range pd.Nav {
		if item.Active {
			return item, true
		}
	}
	return NavItem{}, false
}
