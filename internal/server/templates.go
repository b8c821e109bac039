package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/MusicFlow-app/HandFlow/pkg/handpan"
	"github.com/MusicFlow-app/HandFlow/pkg/store"
)

//go:embed templates
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// parsePages builds one template per page, each paired with the shared
// layout shell.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"index", "upload", "generate"} {
		t, err := template.ParseFS(templateFiles,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// indexPage feeds the upload form.
type indexPage struct {
	ScaleCount int
}

// uploadPage feeds the part and scale selection form shown after an upload.
type uploadPage struct {
	Score  *store.Score
	Scales []scaleGroup
	Legend template.HTML
}

// generatePage feeds the tablature result page.
type generatePage struct {
	Title       string
	PartName    string
	Scale       string
	ScaleNotes  string
	Offset      int
	Auto        bool
	CoveragePct float64
	Measures    template.HTML
}

// scaleGroup is one optgroup of the scale select, all layouts of one size.
type scaleGroup struct {
	Notes   int
	Layouts []handpan.Layout
}

// scaleGroups splits the registry's layouts into note-count groups. The
// registry orders layouts by note count already, so one pass suffices.
func scaleGroups(reg *handpan.Registry) []scaleGroup {
	var groups []scaleGroup
	for _, l := range reg.Layouts() {
		if len(groups) == 0 || groups[len(groups)-1].Notes != l.NoteCount {
			groups = append(groups, scaleGroup{Notes: l.NoteCount})
		}
		g := &groups[len(groups)-1]
		g.Layouts = append(g.Layouts, l)
	}
	return groups
}

// renderPage executes the named page into a buffer first, so template
// failures turn into a clean 500 instead of a half-written page.
func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	t, ok := s.pages[name]
	if !ok {
		s.logger.Error("unknown page", "page", name)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render page", "page", name, "error", err)
		http.Error(w, "Server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
