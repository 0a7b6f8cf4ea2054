package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/haskel/cancerform/internal/features"
	"github.com/haskel/cancerform/internal/form"
	"github.com/haskel/cancerform/internal/predictor"
)

//go:embed templates/*.html
var templateFS embed.FS

func mustParseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type fieldView struct {
	Name    string
	Label   string
	Value   string
	Invalid bool
}

type groupView struct {
	Title  string
	Fields []fieldView
}

type resultView struct {
	Title         string
	Malignant     bool
	Confidence    string
	BarWidth      string
	ProbMalignant string
	ProbBenign    string
}

type pageData struct {
	Version    string
	Groups     []groupView
	Info       *predictor.ModelInfo
	Result     *resultView
	Error      string
	Ready      bool
	Filled     int
	Total      int
	Disclaimer string
}

func newPageData(st form.State, version string) pageData {
	data := pageData{
		Version:    version,
		Info:       st.Info,
		Error:      st.Error,
		Ready:      st.Ready,
		Filled:     st.Filled(),
		Total:      len(st.Names),
		Disclaimer: form.Disclaimer,
	}

	for _, g := range features.GroupsFor(st.Names) {
		gv := groupView{Title: g.Title}
		for _, name := range g.Names {
			gv.Fields = append(gv.Fields, fieldView{
				Name:    name,
				Label:   features.Label(name),
				Value:   st.Values[name],
				Invalid: st.Invalid(name),
			})
		}
		data.Groups = append(data.Groups, gv)
	}

	if st.Result != nil {
		data.Result = newResultView(st.Result)
	}

	return data
}

func newResultView(r *predictor.Result) *resultView {
	width := r.Confidence
	if width < 0 {
		width = 0
	}
	if width > 100 {
		width = 100
	}

	return &resultView{
		Title:         r.Title(),
		Malignant:     r.IsMalignant(),
		Confidence:    formatPercent(r.Confidence),
		BarWidth:      formatPercent(width),
		ProbMalignant: formatPercent(r.Probabilities.Malignant),
		ProbBenign:    formatPercent(r.Probabilities.Benign),
	}
}

// formatPercent prints the value as received, without rounding.
func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Server) render(w http.ResponseWriter, status int, st form.State) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "form.html", newPageData(st, s.version)); err != nil {
		s.logger.Error("failed to render form", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
