package dom

// Package dom gives the scraper a minimal read-only view of an HTML
// document: subtree text, a parent link, and image metadata. The card
// resolver only needs this capability, so it stays testable against small
// synthetic trees instead of a saved production page.

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Image is the metadata of one <img> element. Either field may be empty.
type Image struct {
	Alt string
	Src string
}

// Node is a document element. Text returns the rendered text of the whole
// subtree, Parent returns false at the document root.
type Node interface {
	Text() string
	Parent() (Node, bool)
	Images() []Image
}

// Document wraps a parsed HTML snapshot.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// Anchors returns every element whose own text (direct text children only,
// not descendants) contains marker, in document order. Matching own text
// rather than subtree text yields the deepest element per occurrence, the
// same set an XPath text() scan would find.
func (d *Document) Anchors(marker string) []Node {
	var anchors []Node
	d.doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if strings.Contains(ownText(s), marker) {
			anchors = append(anchors, element{sel: s})
		}
	})
	return anchors
}

type element struct {
	sel *goquery.Selection
}

func (e element) Text() string {
	return e.sel.Text()
}

func (e element) Parent() (Node, bool) {
	p := e.sel.Parent()
	if p.Length() == 0 {
		return nil, false
	}
	return element{sel: p}, true
}

func (e element) Images() []Image {
	var images []Image
	e.sel.Find("img").Each(func(_ int, s *goquery.Selection) {
		images = append(images, Image{
			Alt: s.AttrOr("alt", ""),
			Src: s.AttrOr("src", ""),
		})
	})
	return images
}

func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for c := s.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
