package markdown

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when a heading has no sluggable characters.
const fallbackSlug = "section"

// foldReplacer handles letters that do not decompose into base + mark.
var foldReplacer = strings.NewReplacer("đ", "d", "Đ", "D", "ø", "o", "Ø", "O", "ł", "l", "Ł", "L", "ß", "ss")

// Fold strips diacritics: "Công nghệ" -> "Cong nghe".
func Fold(s string) string {
	s = foldReplacer.Replace(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify turns heading text into an anchor ID: lower case, diacritics
// folded, punctuation dropped, runs of spaces, underscores and dashes
// collapsed into one dash, no leading or trailing dash.
func Slugify(text string) string {
	text = Fold(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))
	pendingDash := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '_' || r == '-':
			pendingDash = true
		}
	}
	return b.String()
}

// Slugger hands out document-unique IDs. The first heading with a given slug
// keeps it; later ones get -1, -2, ... suffixes.
type Slugger struct {
	seen map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Unique returns a slug for text that has not been handed out before.
func (s *Slugger) Unique(text string) string {
	base := Slugify(text)
	if base == "" {
		base = fallbackSlug
	}
	if _, taken := s.seen[base]; !taken {
		s.seen[base] = 0
		return base
	}
	for {
		s.seen[base]++
		candidate := base + "-" + strconv.Itoa(s.seen[base])
		if _, taken := s.seen[candidate]; !taken {
			s.seen[candidate] = 0
			return candidate
		}
	}
}

// Reserve marks id as used without deriving it from text.
func (s *Slugger) Reserve(id string) {
	if _, taken := s.seen[id]; !taken {
		s.seen[id] = 0
	}
}
