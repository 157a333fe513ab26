// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLReader extracts visible text from HTML, one text node per line.
// Script, style, and template contents are dropped.
type HTMLReader struct {
	Fs afero.Fs
}

// Read implements Reader.
func (r HTMLReader) Read(path string) (string, []string, error) {
	data, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return "", nil, err
	}
	text, err := HTMLText(data)
	if err != nil {
		return "", nil, err
	}
	return text, []string{text}, nil
}

// HTMLText returns the text nodes of an HTML document joined by newlines.
func HTMLText(data []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript:
				return
			}
		}
		if n.Type == html.TextNode {
			if s := strings.TrimSpace(n.Data); s != "" {
				parts = append(parts, s)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, "\n"), nil
}
