package fetcher

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page wraps a fetched, parsed HTML document. Extraction helpers are
// best-effort: a missing selector yields an empty string, never an error.
type Page struct {
	url string
	doc *goquery.Document
}

// NewPage parses an HTML body into a Page.
func NewPage(pageURL string, body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	return &Page{url: pageURL, doc: doc}, nil
}

// NewPageFromHTML parses an HTML string into a Page. Intended for tests.
func NewPageFromHTML(pageURL, html string) (*Page, error) {
	return NewPage(pageURL, []byte(html))
}

// URL returns the page's source URL.
func (p *Page) URL() string {
	return p.url
}

// Text returns the trimmed text of the first node matching selector,
// or the empty string when nothing matches.
func (p *Page) Text(selector string) string {
	return strings.TrimSpace(p.doc.Find(selector).First().Text())
}

// Texts returns the trimmed, non-empty texts of all nodes matching selector.
func (p *Page) Texts(selector string) []string {
	var out []string

	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})

	return out
}

// Attr returns the named attribute of the first node matching selector,
// or the empty string when the node or attribute is absent.
func (p *Page) Attr(selector, name string) string {
	val, _ := p.doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(val)
}

// Links returns the href values of all anchors on the page, in document
// order, skipping empty and fragment-only hrefs.
func (p *Page) Links() []string {
	var hrefs []string

	p.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href != "" && !strings.HasPrefix(href, "#") {
			hrefs = append(hrefs, href)
		}
	})

	return hrefs
}

// Lines returns the page body linearized into trimmed text lines.
// Block elements are separated so heading and paragraph texts land on
// distinct lines regardless of source formatting.
func (p *Page) Lines() []string {
	body := p.doc.Find("body").First()
	if body.Length() == 0 {
		return nil
	}

	clone := body.Clone()
	clone.Find("script, style, noscript").Remove()

	// Force line breaks between block-level elements before flattening.
	clone.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	clone.Find("p, div, tr, li, h1, h2, h3, h4, h5, h6, table").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var lines []string
	for _, raw := range strings.Split(clone.Text(), "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
