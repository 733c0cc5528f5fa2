package api

import (
	"fmt"
	"net/http"

	"github.com/osteele/liquid"

	"github.com/ceirr/sample-dashboard/internal/pkg/logger"
)

const pageTitle = "CEIRR Sample Collection Summary"

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ title | escape }}</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 960px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f0f0f0; }
.warning { background: #fff4d6; border: 1px solid #e0b84c; padding: 0.6rem; }
.error { background: #fde2e2; border: 1px solid #d66; padding: 0.6rem; }
</style>
</head>
<body>
<h1>&#x1F9EA; {{ title | escape }}</h1>
<form method="post" action="/">
  <label>Enter Password: <input type="password" name="password" value="{{ password | escape }}"></label>
  <button type="submit">Show today's samples</button>
</form>
{% if warning != "" %}<p class="warning">{{ warning | escape }}</p>{% endif %}
{% if failure != "" %}<p class="error">{{ failure | escape }}</p>{% endif %}
{% if show_report %}
<h2>&#x1F4CB; Today's Sample Collection Details</h2>
{% if notice != "" %}
<p class="warning">{{ notice | escape }}</p>
{% else %}
<table>
<thead><tr>{% for col in columns %}<th>{{ col | escape }}</th>{% endfor %}</tr></thead>
<tbody>
{% for row in rows %}<tr>{% for v in row %}<td>{{ v | escape }}</td>{% endfor %}</tr>
{% endfor %}</tbody>
</table>
<form method="post" action="/export">
  <input type="hidden" name="password" value="{{ password | escape }}">
  <button type="submit">&#x2B07;&#xFE0F; Download Excel</button>
  <small>{{ filename | escape }}</small>
</form>
{% endif %}
{% endif %}
</body>
</html>
`

// PageRenderer renders the dashboard page with Liquid.
type PageRenderer struct {
	layout *liquid.Template
}

// NewPageRenderer parses the page template once.
func NewPageRenderer() (*PageRenderer, error) {
	engine := liquid.NewEngine()
	tpl, err := engine.ParseString(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return &PageRenderer{layout: tpl}, nil
}

// pageData holds everything the page can show. Zero values hide sections.
type pageData struct {
	Password   string
	Warning    string
	Failure    string
	ShowReport bool
	Notice     string
	Columns    []string
	Rows       [][]string
	Filename   string
}

func (d pageData) bindings() liquid.Bindings {
	rows := d.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return liquid.Bindings{
		"title":       pageTitle,
		"password":    d.Password,
		"warning":     d.Warning,
		"failure":     d.Failure,
		"show_report": d.ShowReport,
		"notice":      d.Notice,
		"columns":     d.Columns,
		"rows":        rows,
		"filename":    d.Filename,
	}
}

// Render writes the page with the given status.
func (p *PageRenderer) Render(w http.ResponseWriter, status int, d pageData) {
	out, err := p.layout.RenderString(d.bindings())
	if err != nil {
		logger.Error("api: render page failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(out))
}
