package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Templates holds one parsed set per page, each combined with the shared layout.
type Templates struct {
	cache map[string]*template.Template
}

func LoadTemplates() (*Templates, error) {
	funcs := template.FuncMap{
		"price":   formatPrice,
		"pageURL": pageURL,
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	t := &Templates{cache: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := path.Base(file)
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.cache[name] = tmpl
	}
	return t, nil
}

func (t *Templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	tmpl, ok := t.cache[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

func formatPrice(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(2)
}

func pageURL(q listQuery, page int) string {
	v := url.Values{}
	if q.Text != "" {
		v.Set("q", q.Text)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.MaxPrice != "" {
		v.Set("max_price", q.MaxPrice)
	}
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	v.Set("page", strconv.Itoa(page))
	return "/products?" + v.Encode()
}
