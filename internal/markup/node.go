// Package markup exposes the small tree-query capability the digest parsers
// are written against, backed by golang.org/x/net/html and goquery.
package markup

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is a read-only view of one element of a parsed document.
type Node interface {
	// Tag returns the lower-case element name, or "#document" for the root.
	Tag() string
	// Text returns the concatenated visible text of the node and its descendants.
	Text() string
	Attr(name string) (string, bool)
	// Children returns the element children in document order.
	Children() []Node
	Parent() (Node, bool)
	// Find returns the descendants matching a CSS selector in document order.
	Find(selector string) []Node
}

// Parse parses markup into a document node.
func Parse(r io.Reader) (Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return selectionNode{sel: goquery.NewDocumentFromNode(root).Selection}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(markup string) (Node, error) {
	return Parse(strings.NewReader(markup))
}

type selectionNode struct {
	sel *goquery.Selection
}

func (n selectionNode) Tag() string {
	return goquery.NodeName(n.sel)
}

func (n selectionNode) Text() string {
	return n.sel.Text()
}

func (n selectionNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func (n selectionNode) Children() []Node {
	return wrap(n.sel.Children())
}

func (n selectionNode) Parent() (Node, bool) {
	parent := n.sel.Parent()
	if parent.Length() == 0 {
		return nil, false
	}
	return selectionNode{sel: parent}, true
}

func (n selectionNode) Find(selector string) []Node {
	return wrap(n.sel.Find(selector))
}

func wrap(sel *goquery.Selection) []Node {
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, selectionNode{sel: s})
	})
	return nodes
}
