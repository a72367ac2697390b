// Package web provides HTML template rendering and handlers for the
// journal UI.
package web

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Renderer manages HTML template rendering with caching and custom functions.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	mu        sync.RWMutex
}

// NewRenderer creates a new Renderer by parsing all templates in the given
// directory. base.html is parsed first, then combined with each page
// template. Returns an error if the directory doesn't exist or templates
// fail to parse.
func NewRenderer(templatesDir string) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap:   createFuncMap(),
	}

	if err := r.parseTemplates(templatesDir); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return r, nil
}

// Render executes the named template with the given data and writes the
// result to w. templateName is the path relative to the templates directory
// (e.g. "journal.html").
func (r *Renderer) Render(w http.ResponseWriter, templateName string, data any) error {
	r.mu.RLock()
	tmpl, ok := r.templates[templateName]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template %q not found", templateName)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", templateName, err)
	}

	return nil
}

// RenderError renders a plain error page with the given HTTP status code.
func (r *Renderer) RenderError(w http.ResponseWriter, code int, message string) {
	http.Error(w, fmt.Sprintf("Error %d: %s", code, message), code)
}

func (r *Renderer) parseTemplates(templatesDir string) error {
	basePath := filepath.Join(templatesDir, "base.html")
	if _, err := os.Stat(basePath); err != nil {
		return fmt.Errorf("base template not found at %s: %w", basePath, err)
	}

	entries, err := os.ReadDir(templatesDir)
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}

		tmpl, err := template.New("base.html").
			Funcs(r.funcMap).
			ParseFiles(basePath, filepath.Join(templatesDir, name))
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return nil
}

func createFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDay": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"formatTime": func(t time.Time) string {
			return t.Format("15:04")
		},
		"safeHTML": func(s string) template.HTML {
			// Only for values already sanitized server-side.
			return template.HTML(s)
		},
	}
}
