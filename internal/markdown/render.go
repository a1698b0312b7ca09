package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Options configures a Renderer.
type Options struct {
	// HardWraps renders single newlines as <br>, like remark-breaks.
	HardWraps bool
	// HighlightStyle is the chroma style for fenced code. Defaults to "github".
	HighlightStyle string
}

// Rendered is the HTML for one markdown document plus its headings.
type Rendered struct {
	HTML     string
	Headings []Heading
}

// Renderer converts digest markdown to sanitized HTML.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer.
func NewRenderer(opts Options) *Renderer {
	style := opts.HighlightStyle
	if style == "" {
		style = "github"
	}
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
			parser.WithASTTransformers(util.Prioritized(linkTransformer{}, 500)),
		),
	}
	htmlOpts := []renderer.Option{gmhtml.WithUnsafe()}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, gmhtml.WithHardWraps())
	}
	rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlOpts...))

	return &Renderer{md: goldmark.New(rendererOpts...)}
}

// Render converts content. Entries of any table-of-contents section are
// linked to the document's own headings.
func (r *Renderer) Render(content string) (*Rendered, error) {
	return r.render(content, nil, false)
}

// RenderTOC converts content that is itself a table of contents, linking
// every list entry to one of targets.
func (r *Renderer) RenderTOC(content string, targets []Heading) (*Rendered, error) {
	return r.render(content, targets, true)
}

func (r *Renderer) render(content string, targets []Heading, wholeTOC bool) (*Rendered, error) {
	src := []byte(Normalize(content))

	pc := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	headings := collectHeadings(doc, src)
	if targets == nil {
		targets = headings
	}
	linkTOCEntries(doc, src, targets, wholeTOC)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	out, err := Sanitize(buf.String())
	if err != nil {
		return nil, err
	}
	return &Rendered{HTML: out, Headings: headings}, nil
}

// headingIDs adapts Slugger to goldmark's parser.IDs.
type headingIDs struct {
	slugger *Slugger
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{slugger: NewSlugger()}
}

func (h *headingIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	return []byte(h.slugger.Unique(string(value)))
}

func (h *headingIDs) Put(value []byte) {
	h.slugger.Reserve(string(value))
}

func collectHeadings(doc ast.Node, src []byte) []Heading {
	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		id := ""
		if v, ok := h.AttributeString("id"); ok {
			if b, ok := v.([]byte); ok {
				id = string(b)
			}
		}
		out = append(out, Heading{ID: id, Text: plainText(h, src), Level: h.Level})
		return ast.WalkSkipChildren, nil
	})
	return out
}

// linkTOCEntries points list entries in table-of-contents regions at
// headings. Anchors that already resolve are left alone.
func linkTOCEntries(doc ast.Node, src []byte, targets []Heading, wholeTOC bool) {
	if len(targets) == 0 {
		return
	}
	known := make(map[string]bool, len(targets))
	for _, t := range targets {
		known[t.ID] = true
	}

	inTOC := wholeTOC
	tocLevel := 0
	for block := doc.FirstChild(); block != nil; block = block.NextSibling() {
		if h, ok := block.(*ast.Heading); ok {
			switch {
			case IsTOCTitle(plainText(h, src)):
				inTOC, tocLevel = true, h.Level
			case !wholeTOC && inTOC && h.Level <= tocLevel:
				inTOC = false
			}
			continue
		}
		if list, ok := block.(*ast.List); ok && inTOC {
			linkList(list, src, targets, known)
		}
	}
}

func linkList(list *ast.List, src []byte, targets []Heading, known map[string]bool) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nested, ok := child.(*ast.List); ok {
				linkList(nested, src, targets, known)
			}
		}
		entry := item.FirstChild()
		if entry == nil {
			continue
		}
		if _, ok := entry.(*ast.List); ok {
			continue
		}

		if link := firstLink(entry); link != nil {
			dest := string(link.Destination)
			if !strings.HasPrefix(dest, "#") || known[dest[1:]] {
				continue
			}
			id, ok := ResolveAnchor(dest[1:], targets)
			if !ok {
				id, ok = ResolveAnchor(plainText(link, src), targets)
			}
			if ok {
				link.Destination = []byte("#" + id)
			}
			continue
		}

		id, ok := ResolveAnchor(plainText(entry, src), targets)
		if !ok {
			continue
		}
		link := ast.NewLink()
		link.Destination = []byte("#" + id)
		for c := entry.FirstChild(); c != nil; {
			next := c.NextSibling()
			entry.RemoveChild(entry, c)
			link.AppendChild(link, c)
			c = next
		}
		entry.AppendChild(entry, link)
	}
}

func firstLink(n ast.Node) *ast.Link {
	var found *ast.Link
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if l, ok := c.(*ast.Link); ok && entering {
			found = l
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

// plainText concatenates the text under n.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// linkTransformer marks external and "Read more" links to open in a new tab
// and lazy-loads images.
type linkTransformer struct{}

func (linkTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Link:
			readMore := strings.EqualFold(plainText(t, src), "read more")
			if readMore || strings.HasPrefix(string(t.Destination), "http") {
				newTab(t)
			}
			if readMore {
				t.SetAttributeString("class", []byte("read-more-link"))
			}
		case *ast.AutoLink:
			if t.AutoLinkType == ast.AutoLinkURL {
				newTab(t)
			}
		case *ast.Image:
			t.SetAttributeString("loading", []byte("lazy"))
		}
		return ast.WalkContinue, nil
	})
}

func newTab(n ast.Node) {
	n.SetAttributeString("target", []byte("_blank"))
	n.SetAttributeString("rel", []byte("noopener noreferrer"))
}
