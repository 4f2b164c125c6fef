// Package query is the structured HTML lookup used by the field extractors.
// It exposes only what advert extraction needs: first element by tag and
// predicate, next sibling by tag, next element in document order, and
// attribute access. Lookups never fail; a miss is an Element that does not
// exist, and every method on a missing Element returns another miss.
package query

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed advert.
type Document struct {
	doc *goquery.Document
}

// Parse reads UTF-8 HTML from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

// Match is an element predicate.
type Match func(*goquery.Selection) bool

// TextIs matches elements whose full text equals s exactly.
func TextIs(s string) Match {
	return func(sel *goquery.Selection) bool { return sel.Text() == s }
}

// AttrIs matches elements whose attribute key has exactly the value val.
// For class this is the whole attribute string, not a single class name.
func AttrIs(key, val string) Match {
	return func(sel *goquery.Selection) bool {
		v, ok := sel.Attr(key)
		return ok && v == val
	}
}

// Element is zero or one matched node.
type Element struct {
	doc *goquery.Document
	sel *goquery.Selection
}

// First returns the first element in document order with the given tag
// that satisfies every predicate.
func (d *Document) First(tag string, preds ...Match) Element {
	if d == nil || d.doc == nil {
		return Element{}
	}
	sel := d.doc.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return matchAll(s, preds)
	}).First()
	return Element{doc: d.doc, sel: sel}
}

// Exists reports whether the lookup found an element.
func (e Element) Exists() bool {
	return e.sel != nil && e.sel.Length() > 0
}

// Text returns the concatenated text of the element and its descendants.
func (e Element) Text() string {
	if !e.Exists() {
		return ""
	}
	return e.sel.Text()
}

// Attr returns the attribute value and whether it is present.
func (e Element) Attr(key string) (string, bool) {
	if !e.Exists() {
		return "", false
	}
	return e.sel.Attr(key)
}

// NextSibling returns the first following sibling element with the given tag.
func (e Element) NextSibling(tag string) Element {
	if !e.Exists() {
		return Element{}
	}
	return Element{doc: e.doc, sel: e.sel.NextAllFiltered(tag).First()}
}

// Next returns the first element after e in document order (descendants of
// e included) with the given tag that satisfies every predicate.
func (e Element) Next(tag string, preds ...Match) Element {
	if !e.Exists() {
		return Element{}
	}
	for n := following(e.sel.Get(0)); n != nil; n = following(n) {
		if n.Type != html.ElementNode || !strings.EqualFold(n.Data, tag) {
			continue
		}
		sel := e.doc.FindNodes(n)
		if sel.Length() == 0 {
			continue
		}
		if matchAll(sel, preds) {
			return Element{doc: e.doc, sel: sel}
		}
	}
	return Element{}
}

// following steps one node forward in a pre-order walk of the tree.
func following(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.NextSibling != nil {
			return cur.NextSibling
		}
	}
	return nil
}

func matchAll(s *goquery.Selection, preds []Match) bool {
	for _, p := range preds {
		if !p(s) {
			return false
		}
	}
	return true
}
