package digestmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
)

func TestWriteDashboard(t *testing.T) {
	d := &feeds.Dashboard{
		Range:   feeds.Weekly,
		HubKind: feeds.HubDatasets,
		GitHub: feeds.Section[feeds.Repo]{Items: []feeds.Repo{
			{Title: "golang/go", Link: "https://github.com/golang/go", Description: "The Go | language"},
		}},
		Hub: feeds.Section[feeds.HubItem]{Items: []feeds.HubItem{
			{ID: "org/ds", RepoType: "dataset", Likes: 1200, Downloads: 34500, HasDownloads: true, URL: "https://huggingface.co/datasets/org/ds"},
		}},
		Papers:    feeds.Section[feeds.Paper]{Items: []feeds.Paper{}},
		Models:    feeds.Section[feeds.Model]{Items: []feeds.Model{}, Error: "OpenRouter 500"},
		FetchedAt: time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := WriteDashboard(&buf, d); err != nil {
		t.Fatalf("WriteDashboard: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Trending Feeds",
		"2025-06-01 08:30 UTC",
		"## GitHub Trending (weekly)",
		"[golang/go](https://github.com/golang/go)",
		`The Go \| language`,
		"## Hugging Face Hub (datasets)",
		"[org/ds](https://huggingface.co/datasets/org/ds)",
		"1,200",
		"34,500",
		"No papers found for this date.",
		"Could not load this section: OpenRouter 500",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteReposModels(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRepos(&buf, feeds.Daily, nil); err != nil {
		t.Fatalf("WriteRepos: %v", err)
	}
	if !strings.Contains(buf.String(), "No trending repositories right now.") {
		t.Errorf("empty state missing:\n%s", buf.String())
	}

	buf.Reset()
	d := &feeds.Dashboard{Models: feeds.Section[feeds.Model]{Items: []feeds.Model{{
		ID:            "a/b",
		Name:          "Model B",
		ContextLength: 128000,
		URL:           "https://openrouter.ai/models/a%2Fb",
		Pricing:       feeds.Pricing{Request: decimal.RequireFromString("0.01")},
	}}}}
	if err := WriteDashboard(&buf, d); err != nil {
		t.Fatalf("WriteDashboard: %v", err)
	}
	for _, want := range []string{"[Model B](https://openrouter.ai/models/a%2Fb)", "128,000", "$0.01/req"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestWriteOutline(t *testing.T) {
	doc := mdproc.Process("# Digest - 2025-06-01\n\n## 1. AI: Models\n### Releases\n## 2. Tools\n")

	var buf bytes.Buffer
	if err := WriteOutline(&buf, doc); err != nil {
		t.Fatalf("WriteOutline: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# Digest - 2025-06-01",
		"Date: 2025-06-01",
		"- [1. AI: Models](#1-ai-models)",
		"  - [Releases](#releases)",
		"- [2. Tools](#2-tools)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("outline missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteOutline(&buf, mdproc.Process("")); err != nil {
		t.Fatalf("WriteOutline: %v", err)
	}
	if !strings.Contains(buf.String(), "no sections") {
		t.Errorf("empty outline:\n%s", buf.String())
	}
}

func TestWriteRedditAnalytics(t *testing.T) {
	a := &feeds.RedditAnalytics{
		TotalSubreddits: 2,
		TotalPosts:      4,
		TotalUpvotes:    12345,
		AvgUpvotes:      3086,
		TopTrends:       []feeds.TrendCount{{Trend: "AI agents", Count: 2}},
		PositiveThemes:  3,
		NeutralThemes:   1,
	}
	var buf bytes.Buffer
	if err := WriteRedditAnalytics(&buf, a); err != nil {
		t.Fatalf("WriteRedditAnalytics: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"12,345", "AI agents (2)", "mermaid", "Positive"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteRedditAnalytics(&buf, nil); err != nil {
		t.Fatalf("WriteRedditAnalytics(nil): %v", err)
	}
	if !strings.Contains(buf.String(), "No subreddit reports") {
		t.Errorf("nil analytics:\n%s", buf.String())
	}
}
