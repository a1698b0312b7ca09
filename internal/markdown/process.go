package markdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultTitle is used when a digest has no level-one heading.
	DefaultTitle = "Tech Digest Vietnam"
	// EmptyTitle is used when there is no content at all.
	EmptyTitle = "Tech Digest"
)

// TOCItem is a level-two or level-three heading of a digest.
type TOCItem struct {
	ID       string `json:"id"`
	Level    int    `json:"level"`
	Number   int    `json:"number,omitempty"` // 1-based, level two only
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Section is the content between one "## " heading and the next.
type Section struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	PlainTitle string    `json:"plain_title"`
	Number     string    `json:"number"`
	Content    string    `json:"content"`
	IsTOC      bool      `json:"is_toc"`
	Subheads   []TOCItem `json:"subheads,omitempty"`
}

// Document is a digest split into navigable parts.
type Document struct {
	Title    string    `json:"title"`
	Date     string    `json:"date,omitempty"`
	Intro    string    `json:"intro,omitempty"`
	TOC      []TOCItem `json:"toc"`
	Sections []Section `json:"sections"`
}

// Targets returns every anchor in the document as resolution candidates.
func (d *Document) Targets() []Heading {
	out := make([]Heading, 0, len(d.TOC))
	for _, it := range d.TOC {
		text := it.Title
		if it.Subtitle != "" {
			text += ": " + it.Subtitle
		}
		out = append(out, Heading{ID: it.ID, Text: text, Level: it.Level})
	}
	return out
}

var (
	titleDateRe    = regexp.MustCompile(`^.* - (.+?)$`)
	subtitleRe     = regexp.MustCompile(`^(.+?): (.+)$`)
	sectionNumRe   = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	atxHeadingRe   = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)[ \t]*$`)
	closingHashRe  = regexp.MustCompile(`[ \t]+#+$`)
	sourceLineRe   = regexp.MustCompile(`(?m)^\*Source:.*?\*$`)
	subsectionRe   = regexp.MustCompile(`(?m)^### (.+?)$`)
	readMoreLinkRe = regexp.MustCompile(`\[Read more\]\((.*?)\)`)
)

// IsTOCTitle reports whether a heading introduces a table of contents.
func IsTOCTitle(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "table of contents") || strings.Contains(t, "mục lục")
}

// headingLine is an ATX heading found outside fenced code.
type headingLine struct {
	index int
	level int
	text  string
	id    string
}

// scanHeadings finds ATX headings in lines, skipping fenced code blocks, and
// assigns IDs in document order the same way the renderer does.
func scanHeadings(lines []string) []headingLine {
	var out []headingLine
	slugger := NewSlugger()
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			continue
		}
		m := atxHeadingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(closingHashRe.ReplaceAllString(m[2], ""))
		out = append(out, headingLine{
			index: i,
			level: len(m[1]),
			text:  text,
			id:    slugger.Unique(text),
		})
	}
	return out
}

// Process splits a digest into its title, date, table of contents and
// level-two sections. Each section holds its full body up to the next
// level-two heading.
func Process(content string) *Document {
	if strings.TrimSpace(content) == "" {
		return &Document{Title: EmptyTitle, TOC: []TOCItem{}, Sections: []Section{}}
	}

	cleaned := CleanAnchors(strings.ReplaceAll(content, "\r\n", "\n"))
	lines := strings.Split(cleaned, "\n")
	headings := scanHeadings(lines)

	doc := &Document{Title: DefaultTitle, TOC: []TOCItem{}, Sections: []Section{}}
	for _, h := range headings {
		if h.level == 1 {
			doc.Title = h.text
			break
		}
	}
	if m := titleDateRe.FindStringSubmatch(doc.Title); m != nil {
		doc.Date = m[1]
	}

	counter := 1
	var current *Section
	bodyStart := 0
	flush := func(end int) {
		if current == nil {
			return
		}
		current.Content = strings.TrimSpace(strings.Join(lines[bodyStart:end], "\n"))
		doc.Sections = append(doc.Sections, *current)
	}

	for _, h := range headings {
		if h.level != 2 && h.level != 3 {
			continue
		}
		item := TOCItem{ID: h.id, Level: h.level, Title: h.text}
		if m := subtitleRe.FindStringSubmatch(h.text); m != nil {
			item.Title, item.Subtitle = m[1], m[2]
		}
		if h.level == 2 {
			item.Number = counter
			counter++
		}
		doc.TOC = append(doc.TOC, item)

		if h.level == 3 {
			if current != nil {
				current.Subheads = append(current.Subheads, item)
			}
			continue
		}

		if current == nil {
			doc.Intro = strings.TrimSpace(strings.Join(withoutTitle(lines[:h.index]), "\n"))
		}
		flush(h.index)
		sec := Section{
			ID:         h.id,
			Title:      h.text,
			PlainTitle: h.text,
			Number:     strconv.Itoa(len(doc.Sections) + 1),
			IsTOC:      IsTOCTitle(h.text),
		}
		if m := sectionNumRe.FindStringSubmatch(h.text); m != nil {
			sec.Number, sec.PlainTitle = m[1], m[2]
		}
		current = &sec
		bodyStart = h.index + 1
	}
	flush(len(lines))
	if current == nil {
		doc.Intro = strings.TrimSpace(strings.Join(withoutTitle(lines), "\n"))
	}

	return doc
}

// withoutTitle drops the first level-one heading line.
func withoutTitle(lines []string) []string {
	for i, l := range lines {
		if strings.HasPrefix(l, "# ") {
			out := make([]string, 0, len(lines)-1)
			out = append(out, lines[:i]...)
			return append(out, lines[i+1:]...)
		}
	}
	return lines
}

// ProcessSection prepares a section body for display: source lines become
// source-reference blocks, level-three headings become subsection titles
// carrying the IDs assigned by Process, and "Read more" links open in a new
// tab.
func ProcessSection(s Section) string {
	if s.Content == "" {
		return ""
	}
	out := CleanAnchors(s.Content)

	out = sourceLineRe.ReplaceAllStringFunc(out, func(line string) string {
		return "<div class=\"source-reference\">\n\n" + line + "\n\n</div>\n"
	})

	next := 0
	out = subsectionRe.ReplaceAllStringFunc(out, func(line string) string {
		title := strings.TrimSpace(closingHashRe.ReplaceAllString(strings.TrimPrefix(line, "### "), ""))
		id := ""
		if next < len(s.Subheads) {
			id = s.Subheads[next].ID
			next++
		}
		if id == "" {
			id = Slugify(title)
		}
		return "### " + title + " {#" + id + " .subsection-title}"
	})

	out = readMoreLinkRe.ReplaceAllStringFunc(out, func(link string) string {
		href := readMoreLinkRe.FindStringSubmatch(link)[1]
		return `<a href="` + html.EscapeString(href) + `" class="read-more-link" target="_blank" rel="noopener noreferrer">Read more</a>`
	})

	return out
}
