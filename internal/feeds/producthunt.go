package feeds

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	productStartRe = regexp.MustCompile(`##\s+\[\d+\.`)
	productTitleRe = regexp.MustCompile(`##\s+\[(\d+)\.\s+([^\]]+)\]`)
	imageLineRe    = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)
)

// Product is one launch from a Product Hunt report.
type Product struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	Tagline     string `json:"tagline,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	ProductHunt string `json:"product_hunt,omitempty"`
	Image       string `json:"image,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Votes       string `json:"votes,omitempty"`
	Featured    string `json:"featured,omitempty"`
	PostedTime  string `json:"posted_time,omitempty"`
}

// Tags splits the comma-separated keywords.
func (p Product) Tags() []string {
	var out []string
	for _, k := range strings.Split(p.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// productFields maps "**Label**:" prefixes to the field they fill.
var productFields = []struct {
	prefix string
	set    func(*Product, string)
}{
	{"**Tagline**:", func(p *Product, v string) { p.Tagline = v }},
	{"**Description**:", func(p *Product, v string) { p.Description = v }},
	{"**Website**:", func(p *Product, v string) { p.Website = v }},
	{"**Product Hunt**:", func(p *Product, v string) { p.ProductHunt = v }},
	{"**Keywords**:", func(p *Product, v string) { p.Keywords = v }},
	{"**Votes**:", func(p *Product, v string) { p.Votes = v }},
	{"**Featured**:", func(p *Product, v string) { p.Featured = v }},
	{"**Posted Time**:", func(p *Product, v string) { p.PostedTime = v }},
}

// ParseProductHunt extracts the products of a Product Hunt markdown report.
// Each product starts at a "## [N. Name](...)" heading; text before the
// first one is ignored.
func ParseProductHunt(content string) []Product {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	starts := productStartRe.FindAllStringIndex(content, -1)

	products := make([]Product, 0, len(starts))
	for i, loc := range starts {
		end := len(content)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		if p, ok := parseProduct(content[loc[0]:end]); ok {
			products = append(products, p)
		}
	}
	return products
}

func parseProduct(section string) (Product, bool) {
	lines := strings.Split(strings.TrimSpace(section), "\n")
	m := productTitleRe.FindStringSubmatch(lines[0])
	if m == nil {
		return Product{}, false
	}
	rank, _ := strconv.Atoi(m[1])
	p := Product{Rank: rank, Name: m[2]}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "![") {
			if im := imageLineRe.FindStringSubmatch(line); im != nil {
				p.Image = im[1]
			}
			continue
		}
		for _, f := range productFields {
			if strings.HasPrefix(line, f.prefix) {
				f.set(&p, strings.TrimSpace(strings.TrimPrefix(line, f.prefix)))
				break
			}
		}
	}
	return p, true
}
