// Package render turns page data into HTML.  Every page is parsed together
// with the shared layout and partials, and always rendered whole.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-access-map/internal/resolver"
	"github.com/iliyamo/campus-access-map/internal/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names.
const (
	PageMap            = "map"
	PageAdminComments  = "admin_comments"
	PageAdminLocations = "admin_locations"
	PageModeration     = "moderation"
)

var shared = []string{"templates/layout.html", "templates/partials.html"}

var funcs = template.FuncMap{
	"add":         func(a, b int) int { return a + b },
	"ratingScale": func() []int { return []int{1, 2, 3, 4, 5} },
	"tabLabel": func(name string) string {
		if l, ok := tabLabels[name]; ok {
			return l
		}
		return name
	},
	"dialogAction": func(d *view.Dialog) string { return "/admin/confirm/" + d.Token },
	"imgSrc":       imgSrc,
}

// imgSrc marks the built-in placeholder as a trusted URL.  html/template
// rewrites any other data: URL to #ZgotmplZ, so everything else stays a
// plain string and keeps being filtered.
func imgSrc(u string) any {
	if u == resolver.Placeholder {
		return template.URL(u)
	}
	return u
}

var tabLabels = map[string]string{
	view.DetailTabInfo:        "Informações",
	view.DetailTabDescription: "Descrição",
	view.DetailTabPosition:    "Posição",
	view.InfoTabReviews:       "Avaliações",
	view.AdminTabComments:     "Comentários",
	view.AdminTabLocations:    "Locais",
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page.  It fails on the first template error.
func New() (*Renderer, error) {
	entries, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, path := range entries {
		if isShared(path) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		files := append(append([]string{}, shared...), path)
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustNew is New for program start-up.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func isShared(path string) bool {
	for _, s := range shared {
		if s == path {
			return true
		}
	}
	return false
}

// Render executes the layout of page name with data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
