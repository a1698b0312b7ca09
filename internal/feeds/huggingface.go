package feeds

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/techdigest-vietnam/techdigest/internal/fetch"
)

// HubKind selects which Hugging Face Hub listing to show.
type HubKind string

const (
	HubModels   HubKind = "models"
	HubDatasets HubKind = "datasets"
	HubSpaces   HubKind = "spaces"
)

// Hub and paper list size bounds.
const (
	MinHubLimit       = 10
	MaxHubLimit       = 20
	MinPapersLimit    = 5
	MaxPapersLimit    = 20
	DefaultPaperLimit = 10
)

// ParseHubKind parses s, defaulting to HubModels when empty.
func ParseHubKind(s string) (HubKind, error) {
	switch k := HubKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return HubModels, nil
	case HubModels, HubDatasets, HubSpaces:
		return k, nil
	}
	return "", fmt.Errorf("unknown hub kind %q (want models, datasets or spaces)", s)
}

// typeParam is the value of the trending endpoint's type parameter.
func (k HubKind) typeParam() string {
	switch k {
	case HubDatasets:
		return "dataset"
	case HubSpaces:
		return "space"
	}
	return ""
}

// RepoType is the singular repo type for the listing.
func (k HubKind) RepoType() string {
	if t := k.typeParam(); t != "" {
		return t
	}
	return "model"
}

// ClampHubLimit bounds n to [10, 20]; zero or negative selects 10.
func ClampHubLimit(n int) int {
	return clamp(n, MinHubLimit, MaxHubLimit, MinHubLimit)
}

// ClampPapersLimit bounds n to [5, 20]; zero or negative selects 10.
func ClampPapersLimit(n int) int {
	return clamp(n, MinPapersLimit, MaxPapersLimit, DefaultPaperLimit)
}

// HubItem is one trending model, dataset or space.
type HubItem struct {
	ID           string    `json:"id"`
	Author       string    `json:"author,omitempty"`
	RepoType     string    `json:"repo_type"`
	Pipeline     string    `json:"pipeline,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Likes        int64     `json:"likes"`
	Downloads    int64     `json:"downloads,omitempty"`
	HasDownloads bool      `json:"has_downloads"`
	Updated      time.Time `json:"updated,omitempty"`
	UpdatedRaw   string    `json:"updated_raw,omitempty"`
	URL          string    `json:"url,omitempty"`
}

// FullName is the repo ID, falling back to the author.
func (h HubItem) FullName() string {
	switch {
	case h.ID != "":
		return h.ID
	case h.Author != "":
		return h.Author
	}
	return "Unknown"
}

// UpdatedLabel is the last update as YYYY-MM-DD, or the raw value when it
// could not be parsed.
func (h HubItem) UpdatedLabel() string {
	if !h.Updated.IsZero() {
		return h.Updated.Format("2006-01-02")
	}
	return h.UpdatedRaw
}

// HubTrendingURL returns the trending endpoint for kind.
func (c *Client) HubTrendingURL(kind HubKind) string {
	u := c.bases.HuggingFace + "/api/trending"
	if t := kind.typeParam(); t != "" {
		u += "?" + url.Values{"type": {t}}.Encode()
	}
	return u
}

// HubTrending fetches the trending listing for kind.
func (c *Client) HubTrending(ctx context.Context, kind HubKind, limit int) ([]HubItem, error) {
	if kind == "" {
		kind = HubModels
	}
	body, err := c.http.Get(ctx, fetch.HuggingFace, c.HubTrendingURL(kind))
	if err != nil {
		return nil, err
	}
	items, err := ParseHubTrending(body, kind, c.bases.HuggingFace)
	if err != nil {
		return nil, err
	}
	if n := ClampHubLimit(limit); len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// ParseHubTrending normalizes a trending response. The root is either an
// array of repos or {"recentlyTrending": [...]}, and entries may wrap the
// repo in "repoData".
func ParseHubTrending(data []byte, kind HubKind, webBase string) ([]HubItem, error) {
	if !gjson.ValidBytes(data) {
		return nil, parseErr("hub trending", fmt.Errorf("invalid json"))
	}
	root := gjson.ParseBytes(data)
	entries := listOf(root, "recentlyTrending")

	items := make([]HubItem, 0, len(entries))
	for _, entry := range entries {
		repo := entry
		if rd := entry.Get("repoData"); rd.IsObject() {
			repo = rd
		}

		it := HubItem{
			ID:       firstString(repo.Get("id"), entry.Get("id")),
			Author:   repo.Get("author").String(),
			RepoType: firstString(entry.Get("repoType"), repo.Get("repoType")),
			Pipeline: repo.Get("pipeline_tag").String(),
		}
		if it.RepoType == "" {
			it.RepoType = kind.RepoType()
		}
		for _, t := range repo.Get("tags").Array() {
			it.Tags = append(it.Tags, t.String())
		}
		if it.Pipeline == "" && len(it.Tags) > 0 {
			it.Pipeline = it.Tags[0]
		}

		if v, ok := firstNumber(repo, entry, "likes", "likeCount"); ok {
			it.Likes = v
		}
		it.Downloads, it.HasDownloads = firstNumber(repo, entry, "downloads", "downloadsAllTime", "downloadsLastMonth")

		for _, key := range []string{"lastModified", "lastModifiedAt", "lastUpdated"} {
			if s := firstString(repo.Get(key), entry.Get(key)); s != "" {
				it.UpdatedRaw = s
				break
			}
		}
		if it.UpdatedRaw != "" {
			if t, err := time.Parse(time.RFC3339, it.UpdatedRaw); err == nil {
				it.Updated = t
			}
		}

		it.URL = hubURL(webBase, it.RepoType, it.ID)
		items = append(items, it)
	}
	return items, nil
}

func hubURL(base, repoType, id string) string {
	if id == "" {
		return ""
	}
	switch repoType {
	case "dataset":
		return base + "/datasets/" + id
	case "space":
		return base + "/spaces/" + id
	}
	return base + "/" + id
}

// Paper is one entry of Hugging Face Daily Papers.
type Paper struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	NumAuthors  int    `json:"num_authors"`
	Submitter   string `json:"submitter,omitempty"`
	Likes       int64  `json:"likes"`
	Comments    int64  `json:"comments"`
	Collections int64  `json:"collections"`
	URL         string `json:"url,omitempty"`
}

// DisplayTitle falls back to a placeholder for untitled papers.
func (p Paper) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled paper"
	}
	return p.Title
}

// ShowCollections reports whether the collection count should be shown in
// place of the (zero) comment count.
func (p Paper) ShowCollections() bool {
	return p.Collections > 0 && p.Comments == 0
}

// DailyPapersURL returns the daily papers endpoint for date.
func (c *Client) DailyPapersURL(date time.Time) string {
	return c.bases.HuggingFace + "/api/daily_papers?" + url.Values{"date": {date.Format("2006-01-02")}}.Encode()
}

// DailyPapers fetches the papers featured on date (today when zero).
func (c *Client) DailyPapers(ctx context.Context, date time.Time, limit int) ([]Paper, error) {
	if date.IsZero() {
		date = c.now()
	}
	body, err := c.http.Get(ctx, fetch.DailyPapers, c.DailyPapersURL(date))
	if err != nil {
		return nil, err
	}
	papers, err := ParseDailyPapers(body, c.bases.HuggingFace)
	if err != nil {
		return nil, err
	}
	if n := ClampPapersLimit(limit); len(papers) > n {
		papers = papers[:n]
	}
	return papers, nil
}

// ParseDailyPapers normalizes a daily papers response: an array or
// {"papers": [...]}, entries optionally wrapping the paper in "paper".
func ParseDailyPapers(data []byte, webBase string) ([]Paper, error) {
	if !gjson.ValidBytes(data) {
		return nil, parseErr("daily papers", fmt.Errorf("invalid json"))
	}
	entries := listOf(gjson.ParseBytes(data), "papers")

	papers := make([]Paper, 0, len(entries))
	for _, entry := range entries {
		p := entry
		if inner := entry.Get("paper"); inner.IsObject() {
			p = inner
		}
		authors := p.Get("authors").Array()

		paper := Paper{
			ID:         firstString(p.Get("id"), entry.Get("id")),
			Title:      firstString(p.Get("title"), entry.Get("title")),
			NumAuthors: len(authors),
			Submitter: firstString(
				p.Get("submittedOnDailyBy.fullname"),
				entry.Get("submittedBy.fullname"),
			),
			Comments:    entry.Get("numComments").Int(),
			Collections: entry.Get("numCollections").Int(),
		}
		if paper.Submitter == "" && len(authors) > 0 {
			paper.Submitter = firstString(authors[0].Get("name"), authors[0].Get("user.fullname"))
		}
		if v, ok := firstNumber(p, entry, "upvotes"); ok {
			paper.Likes = v
		}
		if paper.ID != "" {
			paper.URL = webBase + "/papers/" + paper.ID
		}
		papers = append(papers, paper)
	}
	return papers, nil
}

// listOf returns root when it is an array, else root[key] when that is one.
func listOf(root gjson.Result, key string) []gjson.Result {
	if root.IsArray() {
		return root.Array()
	}
	if v := root.Get(key); v.IsArray() {
		return v.Array()
	}
	return nil
}

// firstString returns the first non-empty string value.
func firstString(vals ...gjson.Result) string {
	for _, v := range vals {
		if s := v.String(); v.Exists() && v.Type != gjson.Null && s != "" {
			return s
		}
	}
	return ""
}

// firstNumber walks keys in order, looking in primary before secondary for
// each, and returns the first value that is present and not null.
func firstNumber(primary, secondary gjson.Result, keys ...string) (int64, bool) {
	for _, k := range keys {
		for _, src := range []gjson.Result{primary, secondary} {
			if v := src.Get(k); v.Exists() && v.Type != gjson.Null {
				return v.Int(), true
			}
		}
	}
	return 0, false
}
