package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/markremodeling/renovation/internal/httputil"
	"github.com/markremodeling/renovation/pkg/catalog"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageNames = []string{"home", "about", "services", "contact"}

type pageData struct {
	Page    string
	Company catalog.Company
	Year    int
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html.tmpl", "templates/"+name+".html.tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := s.pages[name]
		if !ok {
			http.NotFound(w, r)
			return
		}

		var buf bytes.Buffer
		data := pageData{Page: name, Company: s.company, Year: time.Now().Year()}
		if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
			s.log.Error("failed to render page", zap.String("page", name), zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		buf.WriteTo(w)
	}
}

func (s *Server) services(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]any{
		"services":     s.company.Services,
		"projectTypes": s.company.ProjectTypes,
		"pricing":      s.company.QuotePricing,
	})
}

func (s *Server) tools(w http.ResponseWriter, r *http.Request) {
	mode := catalog.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		httputil.WriteJSONOK(w, map[string]any{"cards": catalog.Cards()})
		return
	}

	if !knownMode(mode) {
		httputil.BadRequest(w, fmt.Sprintf("unknown mode %q", mode))
		return
	}
	cards := []catalog.Card{}
	for _, m := range catalog.MethodsFor(mode) {
		cards = append(cards, m)
	}
	httputil.WriteJSONOK(w, map[string]any{"cards": cards})
}

func knownMode(mode catalog.Mode) bool {
	for _, c := range catalog.Cards() {
		if mc, ok := c.(catalog.ModeCard); ok && mc.Mode == mode {
			return true
		}
	}
	return false
}
