// Package pages holds the embedded templates and stylesheet for the marketing
// site.
package pages

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Site struct {
	Brand       string
	AnalyticsID string
}

// Page is one entry of the navigation bar.
type Page struct {
	Name     string
	Title    string
	Path     string
	Template string
}

var Pages = []Page{
	{Name: "home", Title: "Smart Watering System", Path: "/", Template: "home.html"},
	{Name: "about", Title: "About", Path: "/about", Template: "about.html"},
	{Name: "features", Title: "Features", Path: "/features", Template: "features.html"},
	{Name: "register", Title: "Register", Path: "/register", Template: "register.html"},
}

// Notice is the status banner shown after a register form submission.
type Notice struct {
	Kind string
	Text string
}

type FormValues struct {
	Name    string
	Email   string
	Message string
}

type View struct {
	Site   Site
	Page   Page
	Pages  []Page
	Year   int
	Notice *Notice
	Form   FormValues
}

func NewView(site Site, page Page) View {
	return View{
		Site:  site,
		Page:  page,
		Pages: Pages,
		Year:  time.Now().Year(),
	}
}

func Lookup(name string) (Page, bool) {
	for _, p := range Pages {
		if p.Name == name {
			return p, true
		}
	}
	return Page{}, false
}

func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
