package site

import (
	"net/url"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
)

// LatestPath is the route showing the newest report of ct.
func LatestPath(ct digest.ContentType) string {
	switch ct {
	case digest.Reports:
		return "/latest"
	case digest.CombinedAnalysis:
		return "/combined-analysis/latest"
	}
	return "/" + string(ct)
}

// ArchivePath is the route listing reports of ct.
func ArchivePath(ct digest.ContentType) string {
	switch ct {
	case digest.Reports:
		return "/archive"
	case digest.CombinedAnalysis:
		return "/combined-analysis"
	}
	return "/" + string(ct) + "-archive"
}

// DetailPath is the route of a single report.
func DetailPath(ct digest.ContentType, id string) string {
	return "/" + string(ct) + "/" + url.PathEscape(id)
}

// NavLink is one entry of the top navigation.
type NavLink struct {
	Key   string
	Label string
	Path  string
}

// Navigation lists the sections shown in the header.
var Navigation = []NavLink{
	{Key: "home", Label: "Home", Path: "/"},
	{Key: string(digest.Reports), Label: "Latest", Path: LatestPath(digest.Reports)},
	{Key: "archive", Label: "Archive", Path: ArchivePath(digest.Reports)},
	{Key: string(digest.CombinedAnalysis), Label: "Combined Analysis", Path: ArchivePath(digest.CombinedAnalysis)},
	{Key: string(digest.RedditReports), Label: "Reddit", Path: LatestPath(digest.RedditReports)},
	{Key: string(digest.HackerNews), Label: "Hacker News", Path: LatestPath(digest.HackerNews)},
	{Key: string(digest.ProductHunt), Label: "Product Hunt", Path: LatestPath(digest.ProductHunt)},
	{Key: string(digest.WeeklyTech), Label: "Weekly Tech", Path: LatestPath(digest.WeeklyTech)},
	{Key: string(digest.AINews), Label: "AI News", Path: LatestPath(digest.AINews)},
	{Key: string(digest.QuickView), Label: "Quick View", Path: LatestPath(digest.QuickView)},
}

// navKey maps a content type to the navigation entry it highlights.
func navKey(ct digest.ContentType) string {
	if ct == digest.JSONReports {
		return string(digest.Reports)
	}
	return string(ct)
}
