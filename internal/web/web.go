// Package web holds the HTML templates and static assets served by the
// application, and renders pages from them.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"time"

	"socialnet/internal/domain"
	"socialnet/pkg/logger"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

const (
	PageLogin    = "login"
	PageRegister = "register"
	PageFeed     = "feed"
	PagePost     = "post"
	PageUser     = "user"
)

var pageNames = []string{PageLogin, PageRegister, PageFeed, PagePost, PageUser}

// Page is the data every template receives. Only the fields relevant to the
// rendered page are set.
type Page struct {
	Session *domain.Session
	Error   string
	Feed    []*domain.FeedItem
	Detail  *domain.PostDetail
	Profile *domain.Profile
}

var funcs = template.FuncMap{
	"when": func(t time.Time) string {
		return t.Local().Format("Jan 2, 2006 15:04")
	},
}

type Renderer struct {
	pages  map[string]*template.Template
	logger logger.Logger
}

// NewRenderer parses every page together with the shared layout. Templates
// come from dir when it is set and from the embedded copies otherwise.
func NewRenderer(dir string, logger logger.Logger) (*Renderer, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(templateFiles, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("template %s could not be parsed: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes into a buffer first so a template failure still produces a
// clean 500 instead of a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, name string, page Page) {
	t, ok := r.pages[name]
	if !ok {
		r.logger.ErrorContext(req.Context(), "unknown page", map[string]interface{}{"page": name})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		r.logger.ErrorContext(req.Context(), "page could not be rendered", map[string]interface{}{"page": name, "error": err.Error()})
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// StaticHandler serves the embedded assets below /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
