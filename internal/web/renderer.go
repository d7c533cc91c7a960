package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer renders views with html/template. Each page template
// is parsed together with the shared layout.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

// NewTemplateRenderer parses the embedded page templates
func NewTemplateRenderer() (*TemplateRenderer, error) {
	pages := []string{"home", "calendar", "expired", "users", "register", "login"}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(templateFS,
			"templates/layout.html",
			"templates/calendar_grid.html",
			"templates/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &TemplateRenderer{templates: templates}, nil
}

func (tr *TemplateRenderer) render(w http.ResponseWriter, page string, view interface{}) error {
	tmpl, ok := tr.templates[page]
	if !ok {
		return fmt.Errorf("unknown template: %s", page)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "layout", view)
}

func (tr *TemplateRenderer) RenderHome(w http.ResponseWriter, view *HomeView) error {
	return tr.render(w, "home", view)
}

func (tr *TemplateRenderer) RenderCalendar(w http.ResponseWriter, view *CalendarView) error {
	return tr.render(w, "calendar", view)
}

func (tr *TemplateRenderer) RenderExpired(w http.ResponseWriter, view *ExpiredView) error {
	return tr.render(w, "expired", view)
}

func (tr *TemplateRenderer) RenderUsers(w http.ResponseWriter, view *UsersView) error {
	return tr.render(w, "users", view)
}

func (tr *TemplateRenderer) RenderRegister(w http.ResponseWriter, view *FormView) error {
	return tr.render(w, "register", view)
}

func (tr *TemplateRenderer) RenderLogin(w http.ResponseWriter, view *FormView) error {
	return tr.render(w, "login", view)
}
