package extraction

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a read-only view of one matched DOM node.
type Element struct {
	Text       string
	Class      string
	ParentText string
}

// Page is a fully rendered page: its visible text plus structured queries.
type Page interface {
	Text() string
	Query(selector string) []Element
}

// TextPage is a page known only by its visible text. Every query misses.
type TextPage string

func (p TextPage) Text() string {
	return string(p)
}

func (p TextPage) Query(string) []Element {
	return nil
}

// DocumentPage answers queries against a parsed DOM snapshot.
type DocumentPage struct {
	doc  *goquery.Document
	text string
}

// NewDocumentPage parses html. visibleText is the renderer's innerText of
// the body; when empty the text of the parsed body is used instead.
func NewDocumentPage(visibleText, html string) (*DocumentPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if strings.TrimSpace(visibleText) == "" {
		visibleText = collapse(doc.Find("body").Text())
	}
	return &DocumentPage{doc: doc, text: visibleText}, nil
}

func (p *DocumentPage) Text() string {
	return p.text
}

func (p *DocumentPage) Query(selector string) []Element {
	var out []Element
	p.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		out = append(out, Element{
			Text:       collapse(s.Text()),
			Class:      class,
			ParentText: collapse(s.Parent().Text()),
		})
	})
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
