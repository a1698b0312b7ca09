package feeds

import (
	"errors"
	"reflect"
	"testing"
)

const sampleProductHunt = `# Product Hunt Daily

Intro text.

## [1. Alpha](https://www.producthunt.com/posts/alpha)
**Tagline**: Fast things
**Description**: Does stuff
**Website**: https://alpha.dev
**Product Hunt**: https://www.producthunt.com/posts/alpha
![Alpha](https://img.example/alpha.png)
**Keywords**: AI, Developer Tools, , Productivity
**Votes**: 512
**Featured**: Yes
**Posted Time**: 2025-06-01 08:00

## [2. Beta](https://x.example)
**Tagline**: Second
`

func TestParseProductHunt(t *testing.T) {
	products := ParseProductHunt(sampleProductHunt)
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}

	want := Product{
		Rank:        1,
		Name:        "Alpha",
		Tagline:     "Fast things",
		Description: "Does stuff",
		Website:     "https://alpha.dev",
		ProductHunt: "https://www.producthunt.com/posts/alpha",
		Image:       "https://img.example/alpha.png",
		Keywords:    "AI, Developer Tools, , Productivity",
		Votes:       "512",
		Featured:    "Yes",
		PostedTime:  "2025-06-01 08:00",
	}
	if products[0] != want {
		t.Errorf("alpha = %+v\nwant %+v", products[0], want)
	}
	if got := products[0].Tags(); !reflect.DeepEqual(got, []string{"AI", "Developer Tools", "Productivity"}) {
		t.Errorf("tags = %q", got)
	}
	if products[1].Rank != 2 || products[1].Name != "Beta" || products[1].Tagline != "Second" {
		t.Errorf("beta = %+v", products[1])
	}
}

func TestParseProductHuntEmpty(t *testing.T) {
	if got := ParseProductHunt(""); len(got) != 0 {
		t.Errorf("expected no products, got %+v", got)
	}
	if got := ParseProductHunt("# Title\n\nno products here"); len(got) != 0 {
		t.Errorf("expected no products, got %+v", got)
	}
}

const sampleHN = `{"reportTitle":"HN Daily","totalStories":"3","trendingTopics":["AI"],"sections":[
 {"title":"AI","articles":[
   {"headline":"Model A","summary":"fast inference","points":10,"numComments":50,"tags":["llm"]},
   {"headline":"Model B","summary":"","points":"300","numComments":5,"tags":["GPU"]}]},
 {"title":"Web","articles":[{"headline":"CSS tricks","points":20,"numComments":1}]}]}`

func headlines(sections []HNSection) [][]string {
	out := make([][]string, 0, len(sections))
	for _, s := range sections {
		var hs []string
		for _, a := range s.Articles {
			hs = append(hs, a.Headline)
		}
		out = append(out, hs)
	}
	return out
}

func TestHackerNewsFilter(t *testing.T) {
	r, err := ParseHackerNews(sampleHN)
	if err != nil {
		t.Fatalf("ParseHackerNews: %v", err)
	}
	if r.TotalStories != 3 || r.ReportTitle != "HN Daily" {
		t.Errorf("report header = %+v", r)
	}

	tests := []struct {
		name   string
		search string
		sort   HNSort
		want   [][]string
	}{
		{"recent keeps order", "", HNSortRecent, [][]string{{"Model A", "Model B"}, {"CSS tricks"}}},
		{"points", "", HNSortPoints, [][]string{{"Model B", "Model A"}, {"CSS tricks"}}},
		{"comments", "", HNSortComments, [][]string{{"Model A", "Model B"}, {"CSS tricks"}}},
		{"tag match", "gpu", HNSortRecent, [][]string{{"Model B"}}},
		{"summary match", "INFERENCE", HNSortRecent, [][]string{{"Model A"}}},
		{"drops empty sections", "css", HNSortRecent, [][]string{{"CSS tricks"}}},
		{"no match", "rust", HNSortRecent, [][]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := headlines(r.Filter(tt.search, tt.sort))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseHNSort(t *testing.T) {
	if ParseHNSort("Points") != HNSortPoints || ParseHNSort("bogus") != HNSortRecent {
		t.Error("unexpected sort parsing")
	}
}

func TestParseHackerNewsInvalid(t *testing.T) {
	if _, err := ParseHackerNews("# markdown, not json"); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

const sampleReddit = `{"report_title":"Reddit","total_subreddits_analyzed":3,"subreddit_reports":[
 {"subreddit":"golang","executive_summary":"Generics",
  "key_posts_analysis":[{"post_title":"Go 1.24","upvotes":100},{"post_title":"iter","upvotes":51}],
  "emerging_trends":[{"trend":"AI agents"},{"trend":"WASM"}],
  "sentiment_analysis":{"positive_themes":["a","b"],"negative_themes":["c"]}},
 {"subreddit":"MachineLearning","key_posts_analysis":[{"post_title":"LLM","upvotes":500}],
  "emerging_trends":[{"trend":"AI agents","description":"autonomous"}],
  "sentiment_analysis":{"neutral_themes":["n"]}},
 {"subreddit":"rust","community_mood":"excited","key_posts_analysis":[]}
]}`

func subreddits(reports []SubredditReport) []string {
	out := []string{}
	for _, r := range reports {
		out = append(out, r.Subreddit)
	}
	return out
}

func TestRedditFilter(t *testing.T) {
	r, err := ParseReddit(sampleReddit)
	if err != nil {
		t.Fatalf("ParseReddit: %v", err)
	}
	if !r.Combined || len(r.SubredditReports) != 3 {
		t.Fatalf("report = %+v", r)
	}

	tests := []struct {
		name   string
		search string
		sort   RedditSort
		want   []string
	}{
		{"score", "", RedditSortScore, []string{"MachineLearning", "golang", "rust"}},
		{"alphabetical ignores case", "", RedditSortAlphabetical, []string{"golang", "MachineLearning", "rust"}},
		{"recent keeps order", "", RedditSortRecent, []string{"golang", "MachineLearning", "rust"}},
		{"trend description", "autonomous", RedditSortScore, []string{"MachineLearning"}},
		{"mood", "EXCITED", RedditSortScore, []string{"rust"}},
		{"post title", "iter", RedditSortScore, []string{"golang"}},
		{"no match", "zig", RedditSortScore, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := subreddits(r.Filter(tt.search, tt.sort))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedditAnalytics(t *testing.T) {
	r, err := ParseReddit(sampleReddit)
	if err != nil {
		t.Fatalf("ParseReddit: %v", err)
	}
	a := Analytics(r.SubredditReports)
	want := &RedditAnalytics{
		TotalSubreddits: 3,
		TotalPosts:      3,
		TotalUpvotes:    651,
		AvgUpvotes:      217,
		TopTrends:       []TrendCount{{Trend: "AI agents", Count: 2}, {Trend: "WASM", Count: 1}},
		PositiveThemes:  2,
		NegativeThemes:  1,
		NeutralThemes:   1,
	}
	if !reflect.DeepEqual(a, want) {
		t.Errorf("analytics = %+v\nwant %+v", a, want)
	}

	if Analytics(nil) != nil {
		t.Error("empty set should have no analytics")
	}
	rounded := Analytics([]SubredditReport{{KeyPosts: []RedditPost{{Upvotes: 1}, {Upvotes: 2}}}})
	if rounded.AvgUpvotes != 2 {
		t.Errorf("avg = %d, want 2", rounded.AvgUpvotes)
	}
}

func TestParseRedditSingle(t *testing.T) {
	r, err := ParseReddit(`{"report_title":"r/golang","subreddit":"golang","key_posts_analysis":[{"post_title":"x","upvotes":"7"}]}`)
	if err != nil {
		t.Fatalf("ParseReddit: %v", err)
	}
	if r.Combined || len(r.SubredditReports) != 1 {
		t.Fatalf("report = %+v", r)
	}
	if s := r.SubredditReports[0]; s.Subreddit != "golang" || s.Score() != 7 {
		t.Errorf("single = %+v", s)
	}
}

func TestParseRedditSortDefault(t *testing.T) {
	if ParseRedditSort("") != RedditSortScore || ParseRedditSort("alphabetical") != RedditSortAlphabetical {
		t.Error("unexpected sort parsing")
	}
}

func TestParseQuickView(t *testing.T) {
	q, err := ParseQuickView(`{"groups":[{"title":"AI","short_summary":"**bold**"}]}`)
	if err != nil {
		t.Fatalf("ParseQuickView: %v", err)
	}
	if len(q.Groups) != 1 || q.Groups[0].Title != "AI" || q.Groups[0].ShortSummary != "**bold**" {
		t.Errorf("quick view = %+v", q)
	}
	if _, err := ParseQuickView("nope"); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}
