package markdown

import (
	"regexp"
	"strings"
)

var (
	emptyAnchorRe    = regexp.MustCompile(`<a\s+id="([^"]+)"></a>`)
	wrappingAnchorRe = regexp.MustCompile(`<a\s+id="([^"]+)">(.+?)</a>`)
	trailingAnchorRe = regexp.MustCompile(`(.+?)<a id="(.+?)"></a>`)
	strayAnchorOpen  = regexp.MustCompile(`<a id="([^"]+)">`)
)

// CleanAnchors removes the named-anchor tags report generators leave next to
// headings: empty anchors are dropped and wrapping anchors are unwrapped.
func CleanAnchors(s string) string {
	s = emptyAnchorRe.ReplaceAllString(s, "")
	s = wrappingAnchorRe.ReplaceAllString(s, "$2")
	s = trailingAnchorRe.ReplaceAllString(s, "$1")
	return s
}

// Normalize prepares upstream markdown for rendering. Escaped newlines and
// &nbsp; become real newlines, line endings are unified, and every leftover
// named anchor is stripped.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, "&nbsp;", "\n")
	s = CleanAnchors(s)
	s = strayAnchorOpen.ReplaceAllString(s, "")
	return dropStrayCloses(s)
}

// dropStrayCloses removes </a> tags on heading lines that close no anchor
// opened earlier on the same line. Links elsewhere in the body are left
// alone.
func dropStrayCloses(s string) string {
	if !strings.Contains(s, "</a>") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimLeft(line, " "), "#") || !strings.Contains(line, "</a>") {
			continue
		}
		var b strings.Builder
		open := 0
		for rest := line; rest != ""; {
			switch {
			case strings.HasPrefix(rest, "</a>"):
				if open > 0 {
					open--
					b.WriteString("</a>")
				}
				rest = rest[len("</a>"):]
			case strings.HasPrefix(rest, "<a ") || strings.HasPrefix(rest, "<a>"):
				open++
				b.WriteString(rest[:2])
				rest = rest[2:]
			default:
				b.WriteByte(rest[0])
				rest = rest[1:]
			}
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
