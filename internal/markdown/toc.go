package markdown

import (
	"regexp"
	"strings"
)

// Heading is a rendered heading and its anchor ID.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// minOverlap is the token Jaccard score a fuzzy match must reach.
const minOverlap = 0.5

var (
	leadingNumberRe = regexp.MustCompile(`^\s*(?:\d+[.)]\s*)+`)
	leadingSlugNum  = regexp.MustCompile(`^(?:\d+-)+`)
)

// ExtractHeadings lists every ATX heading (levels 1-6) outside fenced code,
// with the IDs the renderer assigns.
func ExtractHeadings(content string) []Heading {
	lines := strings.Split(Normalize(content), "\n")
	found := scanHeadings(lines)
	out := make([]Heading, 0, len(found))
	for _, h := range found {
		out = append(out, Heading{ID: h.id, Text: h.text, Level: h.level})
	}
	return out
}

// ResolveAnchor finds the heading a table-of-contents entry refers to.
// target may be entry text ("2. AI: new models") or a stale anchor
// ("#2-ai-new-models"). Matching is tried in order: exact slug, slug with
// leading numbering removed on both sides, word-boundary prefix, then token
// overlap. Returns false when nothing is close enough.
func ResolveAnchor(target string, headings []Heading) (string, bool) {
	target = strings.TrimPrefix(strings.TrimSpace(target), "#")
	slug := Slugify(target)
	if slug == "" || len(headings) == 0 {
		return "", false
	}

	for _, h := range headings {
		if h.ID == slug {
			return h.ID, true
		}
	}

	stripped := stripNumbering(target)
	keys := make([]string, len(headings))
	for i, h := range headings {
		keys[i] = leadingSlugNum.ReplaceAllString(h.ID, "")
		if keys[i] == stripped {
			return h.ID, true
		}
	}
	if stripped == "" {
		return "", false
	}

	for i, k := range keys {
		if k == "" {
			continue
		}
		if strings.HasPrefix(stripped, k+"-") || strings.HasPrefix(k, stripped+"-") {
			return headings[i].ID, true
		}
	}

	best, bestScore := -1, 0.0
	want := tokenSet(stripped)
	for i, k := range keys {
		if score := jaccard(want, tokenSet(k)); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 && bestScore >= minOverlap {
		return headings[best].ID, true
	}
	return "", false
}

// stripNumbering slugs s without its leading "1." / "2)" / "1-" numbering.
func stripNumbering(s string) string {
	s = leadingNumberRe.ReplaceAllString(s, "")
	return leadingSlugNum.ReplaceAllString(Slugify(s), "")
}

func tokenSet(slug string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Split(slug, "-") {
		if t != "" {
			set[t] = true
		}
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if b[t] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
