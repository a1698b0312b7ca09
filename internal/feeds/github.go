package feeds

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/techdigest-vietnam/techdigest/internal/fetch"
)

// TrendingRange is the GitHub trending window.
type TrendingRange string

const (
	Daily   TrendingRange = "daily"
	Weekly  TrendingRange = "weekly"
	Monthly TrendingRange = "monthly"
)

// GitHub trending list size bounds.
const (
	MinGitHubLimit     = 5
	MaxGitHubLimit     = 50
	DefaultGitHubLimit = 10
)

// ParseTrendingRange parses s, defaulting to Daily when empty.
func ParseTrendingRange(s string) (TrendingRange, error) {
	switch r := TrendingRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return Daily, nil
	case Daily, Weekly, Monthly:
		return r, nil
	}
	return "", fmt.Errorf("unknown trending range %q (want daily, weekly or monthly)", s)
}

// ClampGitHubLimit bounds n to [5, 50]; zero or negative selects 10.
func ClampGitHubLimit(n int) int {
	return clamp(n, MinGitHubLimit, MaxGitHubLimit, DefaultGitHubLimit)
}

// Repo is one trending repository.
type Repo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// URL is the repository page.
func (r Repo) URL() string {
	if r.Link != "" {
		return r.Link
	}
	return "https://github.com/" + r.Title
}

// GitHubTrendingURL returns the RSS feed for rng.
func (c *Client) GitHubTrendingURL(rng TrendingRange) string {
	return c.bases.GitHubRSS + "/" + string(rng) + "/all.xml"
}

// GitHubTrending fetches the trending repositories for rng.
func (c *Client) GitHubTrending(ctx context.Context, rng TrendingRange, limit int) ([]Repo, error) {
	if rng == "" {
		rng = Daily
	}
	body, err := c.http.Get(ctx, fetch.GitHubRSS, c.GitHubTrendingURL(rng))
	if err != nil {
		return nil, err
	}
	repos, err := ParseRSS(body)
	if err != nil {
		return nil, err
	}
	if n := ClampGitHubLimit(limit); len(repos) > n {
		repos = repos[:n]
	}
	return repos, nil
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

// ParseRSS reads the items of a GitHub trending RSS document.
func ParseRSS(data []byte) ([]Repo, error) {
	var feed rssFeed
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&feed); err != nil {
		return nil, parseErr("github trending rss", err)
	}

	repos := make([]Repo, 0, len(feed.Channel.Items))
	for _, it := range feed.Channel.Items {
		title := strings.TrimSpace(it.Title)
		link := strings.TrimSpace(it.Link)
		r := Repo{
			ID:          link,
			Title:       title,
			Link:        link,
			Description: describe(it.Description),
		}
		if owner, name, ok := strings.Cut(title, "/"); ok {
			r.Owner = strings.TrimSpace(owner)
			r.Name = strings.TrimSpace(name)
		} else {
			r.Name = title
		}
		repos = append(repos, r)
	}
	return repos, nil
}

// describe flattens an item description to text. The first paragraph is
// the repository's own blurb, so it wins when present.
func describe(s string) string {
	if !strings.Contains(s, "<") {
		return collapseSpace(s)
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), body)
	if err != nil {
		return collapseSpace(s)
	}
	for _, n := range nodes {
		if p := findElement(n, atom.P); p != nil {
			if t := collapseSpace(textOf(p)); t != "" {
				return t
			}
		}
	}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(textOf(n))
		b.WriteByte(' ')
	}
	return collapseSpace(b.String())
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Td: true, atom.Tr: true,
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
		if c.Type == html.ElementNode && blockElements[c.DataAtom] {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
