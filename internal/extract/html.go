package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// textTags always produce a block of their full text.
var textTags = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Li: true,
}

// containerTags produce a block of their full text only when nothing
// block-level is inside them. Block tags behave the same way.
var containerTags = map[atom.Atom]bool{atom.Div: true, atom.Span: true}

var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Li: true, atom.Div: true, atom.Ul: true,
	atom.Ol: true, atom.Table: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Nav: true, atom.Main: true,
	atom.Aside: true, atom.Blockquote: true, atom.Pre: true, atom.Form: true,
	atom.Tr: true, atom.Td: true, atom.Th: true,
}

func skipped(n *html.Node) bool {
	return n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style || n.DataAtom == atom.Noscript)
}

// extractHTML returns the text of each text-bearing element. A container
// with block-level children yields its loose text runs as blocks of their
// own; leaf containers such as table cells yield their whole text.
func extractHTML(content []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var texts []string
	emit := func(t string) {
		if t = strings.Join(strings.Fields(t), " "); t != "" {
			texts = append(texts, t)
		}
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if skipped(n) || (n.Type == html.ElementNode && n.DataAtom == atom.Head) {
			return
		}
		if n.Type == html.ElementNode {
			if textTags[n.DataAtom] || (isContainer(n) && !hasBlockDescendant(n)) {
				emit(nodeText(n))
				return
			}
		}
		var run strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch {
			case c.Type == html.CommentNode || c.Type == html.DoctypeNode || skipped(c):
			case c.Type == html.TextNode:
				run.WriteString(c.Data)
			case c.Type == html.ElementNode && !isContainer(c) && !textTags[c.DataAtom] && !hasBlockDescendant(c):
				run.WriteString(" " + nodeText(c) + " ")
			default:
				emit(run.String())
				run.Reset()
				walk(c)
			}
		}
		emit(run.String())
	}
	walk(doc)
	return texts, nil
}

func isContainer(n *html.Node) bool {
	return containerTags[n.DataAtom] || blockTags[n.DataAtom]
}

func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (blockTags[c.DataAtom] || hasBlockDescendant(c)) {
			return true
		}
	}
	return false
}

// nodeText returns the visible text under n with whitespace collapsed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if skipped(n) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		spaced := n.Type == html.ElementNode && (blockTags[n.DataAtom] || n.DataAtom == atom.Br)
		if spaced {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
		if spaced {
			b.WriteByte(' ')
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
