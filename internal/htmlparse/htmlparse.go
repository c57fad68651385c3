// Package htmlparse turns HTML source into a DOM and lists the URL-valued
// attributes found in it.
package htmlparse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// urlAttrs are the attributes whose value is a single URL.
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"cite":       true,
	"poster":     true,
	"background": true,
	"longdesc":   true,
	"manifest":   true,
	"codebase":   true,
	"data":       true,
	"icon":       true,
}

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.doc.Get(0)
}

// ParseHTML builds a DOM from src. The HTML5 parser recovers from broken
// markup, so an error only comes from the reader.
func ParseHTML(src string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// GetURLs returns every URL-valued attribute under root, in document order.
// Within one element, attributes keep their source order.
func GetURLs(root *html.Node) []string {
	if root == nil {
		return nil
	}
	var urls []string
	if root.Type == html.ElementNode {
		urls = appendURLAttrs(urls, root)
	}
	goquery.NewDocumentFromNode(root).Find("*").Each(func(_ int, s *goquery.Selection) {
		urls = appendURLAttrs(urls, s.Get(0))
	})
	return urls
}

func appendURLAttrs(urls []string, n *html.Node) []string {
	for _, a := range n.Attr {
		if a.Namespace == "" && urlAttrs[a.Key] {
			urls = append(urls, a.Val)
		}
	}
	return urls
}

// Parser adapts the package functions to the probe link parser interface.
type Parser struct{}

func (Parser) ParseHTML(src string) (*html.Node, error) {
	d, err := ParseHTML(src)
	if err != nil {
		return nil, err
	}
	return d.Root(), nil
}

func (Parser) GetURLs(root *html.Node) []string { return GetURLs(root) }
