// Package hostdoc reads a cruise host document: the HTML page whose body
// carries autocruise-* attributes and the list of anchors to cruise through.
package hostdoc

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the bootstrap data extracted from a host page.
type Document struct {
	Title          string
	BodyAttributes map[string]string
	Anchors        []string
}

// Parse extracts body attributes, anchor hrefs (document order) and the title.
// Anchors without an href are skipped.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("hostdoc: parse: %w", err)
	}

	doc := &Document{BodyAttributes: map[string]string{}}
	var body *html.Node

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Body:
				if body == nil {
					body = n
				}
			case atom.Title:
				if doc.Title == "" {
					doc.Title = strings.TrimSpace(textOf(n))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if body == nil {
		return doc, nil
	}
	for _, a := range body.Attr {
		doc.BodyAttributes[a.Key] = a.Val
	}

	var anchors func(n *html.Node)
	anchors = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href, ok := attr(n, "href"); ok {
				doc.Anchors = append(doc.Anchors, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			anchors(c)
		}
	}
	anchors(body)

	return doc, nil
}

// Load parses the host document at path. An empty path yields an empty document.
func Load(path string) (*Document, error) {
	if path == "" {
		return &Document{BodyAttributes: map[string]string{}}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("hostdoc: open: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Title returns the text of the first <title> element, or "".
// The terminal cruise uses it to label pages it has loaded.
func Title(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return "", nil
			}
			return "", z.Err()
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = atom.Lookup(name) == atom.Title
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(z.Text())), nil
			}
		case html.EndTagToken:
			inTitle = false
		}
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
