package posterpage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrConversion indicates Markdown could not be turned into poster markup.
var ErrConversion = errors.New("markdown conversion failed")

// converter turns Markdown into a sanitised HTML fragment.
type converter struct {
	md goldmark.Markdown
}

func newConverter() *converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &converter{md: md}
}

// convert renders markdown. goldmark has no context support, so conversion runs
// in a goroutine and the caller stops waiting when ctx ends.
func (c *converter) convert(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		fragment, err := eagerImages(buf.String())
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		done <- result{html: fragment}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// eagerImages marks every image for immediate, synchronous loading so the browser
// requests them before the capture instead of when they scroll into view.
func eagerImages(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	imgs := doc.Find("img")
	if imgs.Length() == 0 {
		return fragment, nil
	}
	imgs.Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("loading", "eager")
		s.SetAttr("decoding", "sync")
	})
	return doc.Find("body").Html()
}

// chromaCSS returns the stylesheet for the highlighting classes emitted above.
func chromaCSS(style string) string {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return ""
	}
	return buf.String()
}
