// Package digestmd renders feeds and report outlines as GitHub-flavored
// markdown for the CLI and the MCP tools.
package digestmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
)

// WriteDashboard writes every dashboard section. Failed sections are shown
// as warnings.
func WriteDashboard(w io.Writer, d *feeds.Dashboard) error {
	md := markdown.NewMarkdown(w)
	md.H1("Trending Feeds")
	md.PlainTextf("Fetched %s.", d.FetchedAt.UTC().Format("2006-01-02 15:04 MST"))
	md.PlainText("")

	writeRepos(md, d.Range, d.GitHub)
	writeHub(md, d.HubKind, d.Hub)
	writePapers(md, d.Papers)
	writeModels(md, d.Models)

	return md.Build()
}

// WriteRepos writes a GitHub trending table.
func WriteRepos(w io.Writer, rng feeds.TrendingRange, repos []feeds.Repo) error {
	md := markdown.NewMarkdown(w)
	writeRepos(md, rng, feeds.Section[feeds.Repo]{Items: repos})
	return md.Build()
}

func writeRepos(md *markdown.Markdown, rng feeds.TrendingRange, s feeds.Section[feeds.Repo]) {
	md.H2(fmt.Sprintf("GitHub Trending (%s)", rng))
	md.PlainText("")
	if failed(md, s.Error, len(s.Items), "No trending repositories right now.") {
		return
	}
	rows := make([][]string, 0, len(s.Items))
	for i, r := range s.Items {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			markdown.Link(r.Title, r.URL()),
			cell(truncate(r.Description, 80)),
		})
	}
	md.Table(markdown.TableSet{Header: []string{"#", "Repository", "Description"}, Rows: rows})
	md.PlainText("")
}

func writeHub(md *markdown.Markdown, kind feeds.HubKind, s feeds.Section[feeds.HubItem]) {
	md.H2(fmt.Sprintf("Hugging Face Hub (%s)", kind))
	md.PlainText("")
	if failed(md, s.Error, len(s.Items), "No trending data available at the moment.") {
		return
	}
	rows := make([][]string, 0, len(s.Items))
	for i, it := range s.Items {
		name := it.FullName()
		if it.URL != "" {
			name = markdown.Link(name, it.URL)
		}
		downloads := "-"
		if it.HasDownloads {
			downloads = humanize.Comma(it.Downloads)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			name,
			it.RepoType,
			cell(it.Pipeline),
			humanize.Comma(it.Likes),
			downloads,
			it.UpdatedLabel(),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Repo", "Type", "Pipeline", "Likes", "Downloads", "Updated"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writePapers(md *markdown.Markdown, s feeds.Section[feeds.Paper]) {
	md.H2("Daily Papers")
	md.PlainText("")
	if failed(md, s.Error, len(s.Items), "No papers found for this date.") {
		return
	}
	rows := make([][]string, 0, len(s.Items))
	for i, p := range s.Items {
		title := cell(p.DisplayTitle())
		if p.URL != "" {
			title = markdown.Link(title, p.URL)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			title,
			cell(p.Submitter),
			strconv.Itoa(p.NumAuthors),
			strconv.FormatInt(p.Likes, 10),
			strconv.FormatInt(p.Comments, 10),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Paper", "Submitted by", "Authors", "Likes", "Comments"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeModels(md *markdown.Markdown, s feeds.Section[feeds.Model]) {
	md.H2("OpenRouter Models")
	md.PlainText("")
	if failed(md, s.Error, len(s.Items), "No models available from OpenRouter.") {
		return
	}
	rows := make([][]string, 0, len(s.Items))
	for i, m := range s.Items {
		ctx := "-"
		if m.ContextLength > 0 {
			ctx = humanize.Comma(m.ContextLength)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			markdown.Link(cell(m.DisplayName()), m.URL),
			ctx,
			m.PriceLabel(),
			cell(m.ShortDescription()),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Model", "Context", "Price", "Description"},
		Rows:   rows,
	})
	md.PlainText("")
}

// failed writes a warning or an empty-state note and reports whether the
// section has nothing else to show.
func failed(md *markdown.Markdown, errMsg string, n int, empty string) bool {
	switch {
	case errMsg != "":
		md.Warningf("Could not load this section: %s", errMsg)
	case n == 0:
		md.Note(empty)
	default:
		return false
	}
	md.PlainText("")
	return true
}

// WriteOutline writes a report's title, date and table of contents.
func WriteOutline(w io.Writer, doc *mdproc.Document) error {
	md := markdown.NewMarkdown(w)
	md.H1(doc.Title)
	if doc.Date != "" {
		md.PlainTextf("Date: %s", doc.Date)
	}
	md.PlainText("")

	if len(doc.TOC) == 0 {
		md.Note("This report has no sections.")
		return md.Build()
	}

	var lines []string
	for _, it := range doc.TOC {
		title := it.Title
		if it.Subtitle != "" {
			title += ": " + it.Subtitle
		}
		entry := markdown.Link(title, "#"+it.ID)
		if it.Level == 3 {
			entry = "  - " + entry
		} else {
			entry = "- " + entry
		}
		lines = append(lines, entry)
	}
	md.PlainText(strings.Join(lines, "\n"))
	md.PlainText("")
	return md.Build()
}

// WriteRedditAnalytics writes the analytics summary of a Reddit report with
// a sentiment chart.
func WriteRedditAnalytics(w io.Writer, a *feeds.RedditAnalytics) error {
	md := markdown.NewMarkdown(w)
	md.H2("Reddit Analytics")
	md.PlainText("")
	if a == nil {
		md.Note("No subreddit reports to analyze.")
		return md.Build()
	}

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Subreddits", strconv.Itoa(a.TotalSubreddits)},
			{"Posts analyzed", strconv.Itoa(a.TotalPosts)},
			{"Total upvotes", humanize.Comma(int64(a.TotalUpvotes))},
			{"Average upvotes", humanize.Comma(int64(a.AvgUpvotes))},
		},
	})
	md.PlainText("")

	if len(a.TopTrends) > 0 {
		md.H3("Top trends")
		items := make([]string, 0, len(a.TopTrends))
		for _, t := range a.TopTrends {
			items = append(items, fmt.Sprintf("%s (%d)", t.Trend, t.Count))
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	if a.PositiveThemes+a.NegativeThemes+a.NeutralThemes > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Sentiment themes"),
			piechart.WithShowData(true),
		)
		chart.LabelAndIntValue("Positive", uint64(a.PositiveThemes))
		chart.LabelAndIntValue("Negative", uint64(a.NegativeThemes))
		chart.LabelAndIntValue("Neutral", uint64(a.NeutralThemes))
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
	return md.Build()
}

// cell makes text safe inside a table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
