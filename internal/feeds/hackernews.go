package feeds

import (
	"encoding/json"
	"slices"
	"strings"
)

// HNSort orders articles within a Hacker News report section.
type HNSort string

const (
	HNSortRecent   HNSort = "recent"
	HNSortPoints   HNSort = "points"
	HNSortComments HNSort = "comments"
)

// ParseHNSort parses s; anything unrecognized keeps the report order.
func ParseHNSort(s string) HNSort {
	switch v := HNSort(strings.ToLower(strings.TrimSpace(s))); v {
	case HNSortPoints, HNSortComments:
		return v
	}
	return HNSortRecent
}

// HNViewpoint is one side of a technical discussion.
type HNViewpoint struct {
	Perspective string `json:"perspective"`
	Pros        string `json:"pros,omitempty"`
	Cons        string `json:"cons,omitempty"`
}

// HNDiscussion summarizes a technical thread under a story.
type HNDiscussion struct {
	Topic      string        `json:"topic"`
	Viewpoints []HNViewpoint `json:"viewpoints,omitempty"`
	Conclusion string        `json:"conclusion,omitempty"`
	Lessons    string        `json:"lessons,omitempty"`
}

// HNInsight is a quoted community comment.
type HNInsight struct {
	Author   string `json:"author,omitempty"`
	Quote    string `json:"quote,omitempty"`
	Analysis string `json:"analysis,omitempty"`
}

// HNArticle is one analyzed story.
type HNArticle struct {
	Headline             string         `json:"headline"`
	Summary              string         `json:"summary,omitempty"`
	URL                  string         `json:"url,omitempty"`
	HNURL                string         `json:"hnUrl,omitempty"`
	Points               Count          `json:"points"`
	NumComments          Count          `json:"numComments"`
	Tags                 []string       `json:"tags,omitempty"`
	KeyTakeaways         []string       `json:"keyTakeaways,omitempty"`
	CommunityInsights    []HNInsight    `json:"communityInsights,omitempty"`
	TechnicalDiscussions []HNDiscussion `json:"technicalDiscussions,omitempty"`
}

func (a HNArticle) matches(q string) bool {
	if containsFold(a.Headline, q) || containsFold(a.Summary, q) {
		return true
	}
	for _, t := range a.Tags {
		if containsFold(t, q) {
			return true
		}
	}
	return false
}

// HNSection groups articles under a heading.
type HNSection struct {
	Title    string      `json:"title"`
	Articles []HNArticle `json:"articles"`
}

// HNReport is the JSON body of a hackernews-reports entry.
type HNReport struct {
	ReportTitle      string      `json:"reportTitle"`
	AnalysisDate     string      `json:"analysisDate,omitempty"`
	TotalStories     Count       `json:"totalStories"`
	ExecutiveSummary string      `json:"executiveSummary,omitempty"`
	TrendingTopics   []string    `json:"trendingTopics,omitempty"`
	CommunityMood    string      `json:"communityMood,omitempty"`
	TechnicalTrends  []string    `json:"technicalTrends,omitempty"`
	Sections         []HNSection `json:"sections"`
}

// ParseHackerNews decodes a Hacker News report body.
func ParseHackerNews(content string) (*HNReport, error) {
	var r HNReport
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, parseErr("hackernews report", err)
	}
	return &r, nil
}

// Filter returns the sections with articles matching search (headline,
// summary or tag, case-insensitive), ordered by sort. Sections left empty
// are dropped.
func (r *HNReport) Filter(search string, sort HNSort) []HNSection {
	q := strings.ToLower(strings.TrimSpace(search))
	out := make([]HNSection, 0, len(r.Sections))
	for _, s := range r.Sections {
		articles := make([]HNArticle, 0, len(s.Articles))
		for _, a := range s.Articles {
			if q == "" || a.matches(q) {
				articles = append(articles, a)
			}
		}
		switch sort {
		case HNSortPoints:
			slices.SortStableFunc(articles, func(a, b HNArticle) int { return int(b.Points) - int(a.Points) })
		case HNSortComments:
			slices.SortStableFunc(articles, func(a, b HNArticle) int { return int(b.NumComments) - int(a.NumComments) })
		}
		if len(articles) == 0 {
			continue
		}
		out = append(out, HNSection{Title: s.Title, Articles: articles})
	}
	return out
}

// ArticleCount is the number of articles across sections.
func ArticleCount(sections []HNSection) int {
	n := 0
	for _, s := range sections {
		n += len(s.Articles)
	}
	return n
}
