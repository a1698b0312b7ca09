package feeds

import (
	"encoding/json"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// RedditSort orders subreddit reports.
type RedditSort string

const (
	RedditSortScore        RedditSort = "score"
	RedditSortAlphabetical RedditSort = "alphabetical"
	RedditSortRecent       RedditSort = "recent"
)

// topTrendCount is how many trends Analytics ranks.
const topTrendCount = 5

// ParseRedditSort parses s, defaulting to RedditSortScore.
func ParseRedditSort(s string) RedditSort {
	switch v := RedditSort(strings.ToLower(strings.TrimSpace(s))); v {
	case RedditSortAlphabetical, RedditSortRecent:
		return v
	}
	return RedditSortScore
}

// RedditPost is one analyzed post.
type RedditPost struct {
	PostTitle    string   `json:"post_title"`
	PostURL      string   `json:"post_url,omitempty"`
	Upvotes      Count    `json:"upvotes"`
	Analysis     string   `json:"analysis,omitempty"`
	KeyTakeaways []string `json:"key_takeaways,omitempty"`
}

// RedditTrend is an emerging trend in a subreddit.
type RedditTrend struct {
	Trend       string   `json:"trend"`
	Description string   `json:"description,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// Sentiment lists the themes found per polarity.
type Sentiment struct {
	PositiveThemes []string `json:"positive_themes,omitempty"`
	NegativeThemes []string `json:"negative_themes,omitempty"`
	NeutralThemes  []string `json:"neutral_themes,omitempty"`
}

// SubredditReport is the analysis of one subreddit.
type SubredditReport struct {
	Subreddit        string        `json:"subreddit"`
	ExecutiveSummary string        `json:"executive_summary,omitempty"`
	CommunityMood    string        `json:"community_mood,omitempty"`
	KeyPosts         []RedditPost  `json:"key_posts_analysis,omitempty"`
	EmergingTrends   []RedditTrend `json:"emerging_trends,omitempty"`
	Sentiment        *Sentiment    `json:"sentiment_analysis,omitempty"`
}

// Score is the sum of upvotes over the analyzed posts.
func (s SubredditReport) Score() int {
	total := 0
	for _, p := range s.KeyPosts {
		total += int(p.Upvotes)
	}
	return total
}

func (s SubredditReport) matches(q string) bool {
	if containsFold(s.Subreddit, q) || containsFold(s.ExecutiveSummary, q) || containsFold(s.CommunityMood, q) {
		return true
	}
	for _, p := range s.KeyPosts {
		if containsFold(p.PostTitle, q) || containsFold(p.Analysis, q) {
			return true
		}
	}
	for _, t := range s.EmergingTrends {
		if containsFold(t.Trend, q) || containsFold(t.Description, q) {
			return true
		}
	}
	return false
}

// RedditReport is the JSON body of a reddit-reports entry. Combined reports
// carry several subreddits; a single-subreddit body is exposed as a report
// with one entry.
type RedditReport struct {
	ReportTitle      string            `json:"report_title"`
	AnalysisDate     string            `json:"analysis_date,omitempty"`
	TotalSubreddits  Count             `json:"total_subreddits_analyzed"`
	SubredditReports []SubredditReport `json:"subreddit_reports"`
	Combined         bool              `json:"-"`
}

// ParseReddit decodes a Reddit report body.
func ParseReddit(content string) (*RedditReport, error) {
	var r RedditReport
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, parseErr("reddit report", err)
	}
	if r.SubredditReports != nil {
		r.Combined = true
		return &r, nil
	}

	var single SubredditReport
	if err := json.Unmarshal([]byte(content), &single); err != nil {
		return nil, parseErr("reddit report", err)
	}
	r.SubredditReports = []SubredditReport{single}
	r.TotalSubreddits = 1
	return &r, nil
}

// Filter returns the subreddit reports matching search, ordered by sort.
func (r *RedditReport) Filter(search string, sort RedditSort) []SubredditReport {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]SubredditReport, 0, len(r.SubredditReports))
	for _, s := range r.SubredditReports {
		if q == "" || s.matches(q) {
			out = append(out, s)
		}
	}

	switch sort {
	case RedditSortScore:
		slices.SortStableFunc(out, func(a, b SubredditReport) int { return b.Score() - a.Score() })
	case RedditSortAlphabetical:
		col := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b SubredditReport) int {
			return col.CompareString(a.Subreddit, b.Subreddit)
		})
	}
	return out
}

// TrendCount is how many subreddits report a trend.
type TrendCount struct {
	Trend string `json:"trend"`
	Count int    `json:"count"`
}

// RedditAnalytics summarizes a set of subreddit reports.
type RedditAnalytics struct {
	TotalSubreddits int          `json:"total_subreddits"`
	TotalPosts      int          `json:"total_posts"`
	TotalUpvotes    int          `json:"total_upvotes"`
	AvgUpvotes      int          `json:"avg_upvotes"`
	TopTrends       []TrendCount `json:"top_trends"`
	PositiveThemes  int          `json:"positive_themes"`
	NegativeThemes  int          `json:"negative_themes"`
	NeutralThemes   int          `json:"neutral_themes"`
}

// Analytics aggregates reports. It returns nil for an empty set.
func Analytics(reports []SubredditReport) *RedditAnalytics {
	if len(reports) == 0 {
		return nil
	}
	a := &RedditAnalytics{TotalSubreddits: len(reports), TopTrends: []TrendCount{}}

	counts := map[string]int{}
	var order []string
	for _, r := range reports {
		a.TotalPosts += len(r.KeyPosts)
		a.TotalUpvotes += r.Score()
		for _, t := range r.EmergingTrends {
			if _, seen := counts[t.Trend]; !seen {
				order = append(order, t.Trend)
			}
			counts[t.Trend]++
		}
		if s := r.Sentiment; s != nil {
			a.PositiveThemes += len(s.PositiveThemes)
			a.NegativeThemes += len(s.NegativeThemes)
			a.NeutralThemes += len(s.NeutralThemes)
		}
	}
	if a.TotalPosts > 0 {
		a.AvgUpvotes = int(math.Round(float64(a.TotalUpvotes) / float64(a.TotalPosts)))
	}

	for _, t := range order {
		a.TopTrends = append(a.TopTrends, TrendCount{Trend: t, Count: counts[t]})
	}
	slices.SortStableFunc(a.TopTrends, func(x, y TrendCount) int { return y.Count - x.Count })
	if len(a.TopTrends) > topTrendCount {
		a.TopTrends = a.TopTrends[:topTrendCount]
	}
	return a
}
