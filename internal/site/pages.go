package site

import "quezon.gov.ph/portal/internal/lazysection"

// Page is one entry of the public route table. Every page is a list of
// sections; the first ones render inline and the rest may be deferred.
type Page struct {
	Path  string
	Name  string
	Title string
	// Parent is the path of the page this one is listed under in the sitemap.
	Parent   string
	Sections []lazysection.Section
	// Hidden pages are routed but left out of the sitemap and navigation.
	Hidden bool
}

func intro(page string) lazysection.Section {
	return lazysection.Section{Name: "intro", Template: page + "/intro"}
}

func deferred(page, name string, minHeight int) lazysection.Section {
	return lazysection.Section{Name: name, Template: page + "/" + name, Deferred: true, MinHeight: minHeight}
}

var pages = []Page{
	{Path: "/", Name: "home", Title: "Municipality of Quezon, Bukidnon", Sections: []lazysection.Section{
		intro("home"),
		deferred("home", "news", 360),
		deferred("home", "events", 360),
	}},
	{Path: "/about", Name: "about", Title: "About Quezon", Sections: []lazysection.Section{
		intro("about"),
		deferred("about", "history", 400),
	}},
	{Path: "/governance", Name: "governance", Title: "Governance", Sections: []lazysection.Section{intro("governance")}},
	{Path: "/governance/executive", Name: "executive", Title: "Executive Branch", Parent: "/governance", Sections: []lazysection.Section{intro("executive")}},
	{Path: "/governance/legislative", Name: "legislative", Title: "Sangguniang Bayan", Parent: "/governance", Sections: []lazysection.Section{intro("legislative")}},
	{Path: "/governance/departments", Name: "departments", Title: "Departments and Offices", Parent: "/governance", Sections: []lazysection.Section{intro("departments")}},
	{Path: "/governance/barangays", Name: "barangays", Title: "Barangays", Parent: "/governance", Sections: []lazysection.Section{
		intro("barangays"),
		deferred("barangays", "list", 600),
	}},
	{Path: "/news", Name: "news", Title: "News and Updates", Sections: []lazysection.Section{
		intro("news"),
		{Name: "list", Template: "news/list"},
	}},
	{Path: "/services", Name: "services", Title: "Public Services", Sections: []lazysection.Section{intro("services")}},
	{Path: "/investment", Name: "investment", Title: "Invest in Quezon", Sections: []lazysection.Section{intro("investment")}},
	{Path: "/tourism", Name: "tourism", Title: "Tourism", Sections: []lazysection.Section{
		intro("tourism"),
		deferred("tourism", "highlights", 420),
	}},
	{Path: "/tourism/attractions", Name: "attractions", Title: "Attractions", Parent: "/tourism", Sections: []lazysection.Section{intro("attractions")}},
	{Path: "/tourism/festivals", Name: "festivals", Title: "Festivals", Parent: "/tourism", Sections: []lazysection.Section{
		intro("festivals"),
		deferred("festivals", "events", 360),
	}},
	{Path: "/tourism/accommodations", Name: "accommodations", Title: "Accommodations", Parent: "/tourism", Sections: []lazysection.Section{intro("accommodations")}},
	{Path: "/transparency", Name: "transparency", Title: "Transparency", Sections: []lazysection.Section{intro("transparency")}},
	{Path: "/transparency/bac", Name: "bac", Title: "Bids and Awards Committee", Parent: "/transparency", Sections: []lazysection.Section{
		intro("bac"),
		deferred("bac", "documents", 480),
	}},
	{Path: "/transparency/full-disclosure", Name: "full-disclosure", Title: "Full Disclosure Policy", Parent: "/transparency", Sections: []lazysection.Section{
		intro("full-disclosure"),
		deferred("full-disclosure", "documents", 480),
	}},
	{Path: "/transparency/citizens-charter", Name: "citizens-charter", Title: "Citizen's Charter", Parent: "/transparency", Sections: []lazysection.Section{intro("citizens-charter")}},
	{Path: "/transparency/downloads", Name: "downloads", Title: "Downloadable Forms", Parent: "/transparency", Sections: []lazysection.Section{
		intro("downloads"),
		{Name: "files", Template: "downloads/files"},
	}},
	{Path: "/accessibility", Name: "accessibility", Title: "Accessibility", Sections: []lazysection.Section{intro("accessibility")}},
	{Path: "/sitemap", Name: "sitemap", Title: "Sitemap", Sections: []lazysection.Section{intro("sitemap")}},
	{Path: "/data-privacy", Name: "data-privacy", Title: "Data Privacy Notice", Sections: []lazysection.Section{intro("data-privacy")}},
	{Path: "/auth", Name: "auth", Title: "Staff Sign In", Hidden: true, Sections: []lazysection.Section{intro("auth")}},
	{Path: "/admin", Name: "admin", Title: "Administration", Hidden: true, Sections: []lazysection.Section{intro("admin")}},
	{Path: "/maintenance", Name: "maintenance", Title: "Scheduled Maintenance", Hidden: true, Sections: []lazysection.Section{intro("maintenance")}},
}

var (
	newsDetailPage = Page{Path: "/news/:id", Name: "news-detail", Title: "News", Parent: "/news", Hidden: true,
		Sections: []lazysection.Section{intro("news-detail")}}
	notFoundPage = Page{Name: "not-found", Title: "Page Not Found", Hidden: true,
		Sections: []lazysection.Section{intro("not-found")}}
)

// Pages returns a copy of the route table.
func Pages() []Page {
	return append([]Page(nil), pages...)
}

func pageByName(name string) (Page, bool) {
	for _, p := range pages {
		if p.Name == name {
			return p, true
		}
	}
	return Page{}, false
}

func (p Page) section(name string) (lazysection.Section, bool) {
	for _, s := range p.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return lazysection.Section{}, false
}

// SitemapEntry is one node of the generated sitemap.
type SitemapEntry struct {
	Path     string
	Title    string
	Children []SitemapEntry
}

// Sitemap nests every visible page under its parent, in table order.
func Sitemap() []SitemapEntry {
	var roots []SitemapEntry
	index := map[string]int{}
	for _, p := range pages {
		if p.Hidden {
			continue
		}
		e := SitemapEntry{Path: p.Path, Title: p.Title}
		if i, ok := index[p.Parent]; ok && p.Parent != "" {
			roots[i].Children = append(roots[i].Children, e)
			continue
		}
		index[p.Path] = len(roots)
		roots = append(roots, e)
	}
	return roots
}

// navigation lists the top-level visible pages.
func navigation() []SitemapEntry {
	var out []SitemapEntry
	for _, p := range pages {
		if p.Hidden || p.Parent != "" || p.Path == "/sitemap" || p.Path == "/data-privacy" || p.Path == "/accessibility" {
			continue
		}
		out = append(out, SitemapEntry{Path: p.Path, Title: p.Title})
	}
	return out
}
