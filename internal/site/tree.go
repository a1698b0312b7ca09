package site

import (
	"fmt"
	"html"
	"strings"

	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
)

// TOCNode is one entry of the sidebar table of contents.
type TOCNode struct {
	ID       string
	Title    string
	Level    int
	Children []*TOCNode
}

// BuildTOC nests headings of level two and deeper under their closest
// shallower heading. Level-one headings are the page title and are skipped.
func BuildTOC(headings []mdproc.Heading) *TOCNode {
	root := &TOCNode{Level: 1}
	stack := []*TOCNode{root}
	for _, h := range headings {
		if h.Level < 2 || h.ID == "" || mdproc.IsTOCTitle(h.Text) {
			continue
		}
		node := &TOCNode{ID: h.ID, Title: h.Text, Level: h.Level}
		for len(stack) > 1 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}
	return root
}

// TOCFromDocument builds the sidebar for a processed digest.
func TOCFromDocument(doc *mdproc.Document) *TOCNode {
	headings := make([]mdproc.Heading, 0, len(doc.TOC))
	for _, it := range doc.TOC {
		title := it.Title
		if it.Subtitle != "" {
			title += ": " + it.Subtitle
		}
		headings = append(headings, mdproc.Heading{ID: it.ID, Text: title, Level: it.Level})
	}
	return BuildTOC(headings)
}

// Len is the number of entries below t.
func (t *TOCNode) Len() int {
	n := 0
	for _, c := range t.Children {
		n += 1 + c.Len()
	}
	return n
}

// ToHTML renders the tree as nested <ul><li> links for the sidebar.
func (t *TOCNode) ToHTML() string {
	if len(t.Children) == 0 {
		return ""
	}
	var b strings.Builder
	renderTOC(&b, t)
	return b.String()
}

func renderTOC(b *strings.Builder, node *TOCNode) {
	b.WriteString("<ul>\n")
	for _, child := range node.Children {
		fmt.Fprintf(b, `<li class="toc-level-%d"><a href="#%s" data-target="%s">%s</a>`,
			child.Level, html.EscapeString(child.ID), html.EscapeString(child.ID), html.EscapeString(child.Title))
		if len(child.Children) > 0 {
			b.WriteString("\n")
			renderTOC(b, child)
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
}
