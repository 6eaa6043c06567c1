// Package posterpage serves the HTML page the browser captures: the Markdown from
// the content query parameter rendered inside the poster marker element.
package posterpage

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/user/mdposter/pkg/ports"
)

// MarkerClass is the class of the element wrapping rendered content.
const MarkerClass = "poster-content"

// Theme selects the page palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme returns ThemeDark for "dark" and ThemeLight for anything else.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

var highlightStyles = map[Theme]string{
	ThemeLight: "github",
	ThemeDark:  "monokai",
}

type pageData struct {
	Theme      Theme
	MarkerCSS  string
	Content    template.HTML
	HasContent bool
	CodeCSS    template.CSS
}

// Page renders poster pages.
type Page struct {
	conv    *converter
	tmpl    *template.Template
	codeCSS map[Theme]template.CSS
	logger  ports.Logger
}

// New creates a Page.
func New(logger ports.Logger) *Page {
	p := &Page{
		conv:    newConverter(),
		tmpl:    template.Must(template.New("poster").Parse(pageTemplate)),
		codeCSS: make(map[Theme]template.CSS, len(highlightStyles)),
		logger:  logger.WithComponent("poster-page"),
	}
	for theme, style := range highlightStyles {
		p.codeCSS[theme] = template.CSS(chromaCSS(style))
	}
	return p
}

// Render returns the full HTML document for markdown. Blank markdown yields a page
// without the marker element.
func (p *Page) Render(ctx context.Context, markdown string, theme Theme) ([]byte, error) {
	data := pageData{
		Theme:     theme,
		MarkerCSS: MarkerClass,
		CodeCSS:   p.codeCSS[theme],
	}

	if strings.TrimSpace(markdown) != "" {
		fragment, err := p.conv.convert(ctx, markdown)
		if err != nil {
			return nil, err
		}
		data.Content = template.HTML(fragment)
		data.HasContent = true
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ServeHTTP handles GET /poster?content=<markdown>[&theme=dark].
func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	body, err := p.Render(r.Context(), q.Get("content"), ParseTheme(q.Get("theme")))
	if err != nil {
		p.logger.Warn("Failed to render poster page: %v", err)
		http.Error(w, "failed to render poster page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

var _ http.Handler = (*Page)(nil)
