package site

// layoutTemplate wraps every page. Pages define "content".
const layoutTemplate = `<!DOCTYPE html>
<html lang="vi" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.SiteName}}</title>
  <link rel="stylesheet" href="{{path "/static/style.css"}}">
  <script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
</head>
<body{{if .Live}} data-live="{{path "/ws/feeds"}}"{{end}}>
  <header class="top-bar">
    <a class="brand" href="{{path "/"}}">{{.SiteName}}</a>
    <nav class="main-nav">
      {{- range .Nav}}
      <a href="{{path .Path}}"{{if eq .Key $.Active}} class="active"{{end}}>{{.Label}}</a>
      {{- end}}
    </nav>
    <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">
      <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
        <circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/>
      </svg>
      <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
        <path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/>
      </svg>
    </button>
  </header>
  <div class="layout{{if .Sidebar}} with-sidebar{{end}}">
    {{- if .Sidebar}}
    <aside class="sidebar" id="sidebar">
      <h2 class="sidebar-title">Table of Contents</h2>
      <div class="sidebar-tree">{{.Sidebar}}</div>
    </aside>
    {{- end}}
    <main class="content">
      {{template "content" .Data}}
    </main>
  </div>
  <footer class="footer">&copy; {{.Year}} {{.SiteName}}</footer>
  <script src="{{path "/static/script.js"}}"></script>
</body>
</html>`

// partialTemplates are shared by several pages.
const partialTemplates = `
{{define "report-header"}}
<div class="page-header">
  <div>
    <span class="badge">{{typeTitle .Type}}</span>
    {{- if .Date}} <time class="muted" title="{{.Relative}}">{{.Date}}</time>{{end}}
  </div>
  <div class="page-actions">
    {{- if .Report.Filename}}<span class="muted">{{.Report.Filename}}</span>{{end}}
    <a class="button" href="{{.ArchiveURL}}">{{if .Latest}}Browse archive{{else}}Back to archive{{end}}</a>
  </div>
</div>
{{end}}

{{define "section-state"}}
{{- if .Error}}<div class="callout error">Could not load this section: {{.Error}}</div>
{{- else if not .Items}}<div class="callout">{{.Empty}}</div>{{end}}
{{end}}

{{define "filter-bar"}}
<form class="filter-bar" method="get">
  <input type="search" name="search" value="{{.Search}}" placeholder="Search..." autocomplete="off">
  <select name="sort">
    {{- range .Sorts}}
    <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
    {{- end}}
  </select>
  <button class="button" type="submit">Apply</button>
</form>
{{end}}
`

// pageTemplates maps page names to their "content" template.
var pageTemplates = map[string]string{
	"home":        homeTemplate,
	"digest":      digestTemplate,
	"markdown":    markdownTemplate,
	"reddit":      redditTemplate,
	"hackernews":  hackerNewsTemplate,
	"producthunt": productHuntTemplate,
	"quickview":   quickViewTemplate,
	"archive":     archiveTemplate,
	"error":       errorTemplate,
	"notfound":    notFoundTemplate,
}

const homeTemplate = `
<section class="hero">
  <h1>Tech Digest Vietnam</h1>
  <p>Xu hướng công nghệ mới nhất: GitHub, Hugging Face, Daily Papers và OpenRouter.</p>
  <p class="muted" id="live-status">Fetched {{.Dashboard.FetchedAt.Format "2006-01-02 15:04 MST"}}</p>
</section>

<form class="filter-bar" method="get">
  <label>GitHub range
    <select name="range">
      {{- range .Ranges}}
      <option value="{{.}}"{{if eq . $.Dashboard.Range}} selected{{end}}>{{.}}</option>
      {{- end}}
    </select>
  </label>
  <label>Hub
    <select name="hub">
      {{- range .HubKinds}}
      <option value="{{.}}"{{if eq . $.Dashboard.HubKind}} selected{{end}}>{{.}}</option>
      {{- end}}
    </select>
  </label>
  <label>Papers date <input type="date" name="date" value="{{.PapersDate}}"></label>
  <button class="button" type="submit">Update</button>
</form>

<div class="feed-grid">
<section class="card feed" id="github">
  <h2>GitHub Trending <span class="muted">({{.Dashboard.Range}})</span></h2>
  {{template "section-state" (dict "Error" .Dashboard.GitHub.Error "Items" .Dashboard.GitHub.Items "Empty" "No trending repositories right now.")}}
  <ol class="feed-list">
    {{- range .Dashboard.GitHub.Items}}
    <li>
      <a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Title}}</a>
      {{- if .Description}}<p>{{truncate .Description 0}}</p>{{end}}
    </li>
    {{- end}}
  </ol>
</section>

<section class="card feed" id="huggingface">
  <h2>Hugging Face Hub <span class="muted">({{.Dashboard.HubKind}})</span></h2>
  {{template "section-state" (dict "Error" .Dashboard.Hub.Error "Items" .Dashboard.Hub.Items "Empty" "No trending data available at the moment.")}}
  <ol class="feed-list">
    {{- range .Dashboard.Hub.Items}}
    <li>
      {{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.FullName}}</a>{{else}}{{.FullName}}{{end}}
      <div class="stats">
        {{- if .Pipeline}}<span class="tag">{{.Pipeline}}</span>{{end}}
        <span>&#9829; {{comma .Likes}}</span>
        {{- if .HasDownloads}}<span>&#8595; {{comma .Downloads}}</span>{{end}}
        {{- with .UpdatedLabel}}<span class="muted">{{.}}</span>{{end}}
      </div>
    </li>
    {{- end}}
  </ol>
</section>

<section class="card feed" id="papers">
  <h2>Daily Papers</h2>
  {{template "section-state" (dict "Error" .Dashboard.Papers.Error "Items" .Dashboard.Papers.Items "Empty" "No papers found for this date.")}}
  <ol class="feed-list">
    {{- range .Dashboard.Papers.Items}}
    <li>
      {{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.DisplayTitle}}</a>{{else}}{{.DisplayTitle}}{{end}}
      <div class="stats">
        {{- if .Submitter}}<span>by {{.Submitter}}</span>{{end}}
        <span>{{.NumAuthors}} authors</span>
        <span>&#9829; {{comma .Likes}}</span>
        {{- if .ShowCollections}}<span>{{comma .Collections}} collections</span>{{else}}<span>{{comma .Comments}} comments</span>{{end}}
      </div>
    </li>
    {{- end}}
  </ol>
</section>

<section class="card feed" id="openrouter">
  <h2>OpenRouter Models</h2>
  {{template "section-state" (dict "Error" .Dashboard.Models.Error "Items" .Dashboard.Models.Items "Empty" "No models available from OpenRouter.")}}
  <ol class="feed-list">
    {{- range .Dashboard.Models.Items}}
    <li>
      <a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.DisplayName}}</a>
      <div class="stats">
        <span class="tag">{{.PriceLabel}}</span>
        {{- if .ContextLength}}<span>{{comma .ContextLength}} ctx</span>{{end}}
      </div>
      {{- with .ShortDescription}}<p>{{.}}</p>{{end}}
    </li>
    {{- end}}
  </ol>
</section>
</div>
`

const digestTemplate = `
{{template "report-header" .ReportMeta}}
<article class="page-content digest">
  <h1>{{.Title}}</h1>
  {{- if .Intro}}<div class="intro">{{.Intro}}</div>{{end}}
  {{- range .Sections}}
  <section class="digest-section{{if .IsTOC}} toc-section{{end}}" id="{{.ID}}">
    <h2 class="section-title">{{if not .IsTOC}}<span class="section-number">{{.Number}}</span>{{end}}{{.Title}}</h2>
    {{.HTML}}
  </section>
  {{- else}}
  <div class="callout">This report has no sections.</div>
  {{- end}}
</article>
`

const markdownTemplate = `
{{template "report-header" .ReportMeta}}
<article class="page-content">
  {{.HTML}}
</article>
`

const redditTemplate = `
{{template "report-header" .ReportMeta}}
<h1>{{if .Parsed.ReportTitle}}{{.Parsed.ReportTitle}}{{else}}{{typeTitle .Type}}{{end}}</h1>
{{- if .Parsed.AnalysisDate}}<p class="muted">Analysis date: {{.Parsed.AnalysisDate}}</p>{{end}}

{{- with .Analytics}}
<section class="card analytics">
  <h2>Analytics</h2>
  <div class="metric-grid">
    <div class="metric"><span class="metric-value">{{.TotalSubreddits}}</span><span class="metric-label">Subreddits</span></div>
    <div class="metric"><span class="metric-value">{{.TotalPosts}}</span><span class="metric-label">Posts analyzed</span></div>
    <div class="metric"><span class="metric-value">{{comma .TotalUpvotes}}</span><span class="metric-label">Total upvotes</span></div>
    <div class="metric"><span class="metric-value">{{comma .AvgUpvotes}}</span><span class="metric-label">Average upvotes</span></div>
  </div>
  {{- if .TopTrends}}
  <h3>Top trends</h3>
  <ul class="tag-list">{{range .TopTrends}}<li class="tag">{{.Trend}} ({{.Count}})</li>{{end}}</ul>
  {{- end}}
  <p class="sentiment">
    <span class="positive">Positive {{.PositiveThemes}}</span>
    <span class="negative">Negative {{.NegativeThemes}}</span>
    <span class="neutral">Neutral {{.NeutralThemes}}</span>
  </p>
</section>
{{- end}}

{{template "filter-bar" .}}

{{- range .Reports}}
<section class="card subreddit" id="r-{{.Subreddit}}">
  <h2>r/{{.Subreddit}} <span class="muted">{{comma .Score}} upvotes</span></h2>
  {{- if .CommunityMood}}<p><strong>Mood:</strong> {{.CommunityMood}}</p>{{end}}
  {{- if .ExecutiveSummary}}<p>{{.ExecutiveSummary}}</p>{{end}}
  {{- if .KeyPosts}}
  <h3>Key posts</h3>
  <ul>
    {{- range .KeyPosts}}
    <li>
      {{if .PostURL}}<a href="{{.PostURL}}" target="_blank" rel="noopener noreferrer">{{.PostTitle}}</a>{{else}}{{.PostTitle}}{{end}}
      <span class="muted">{{comma .Upvotes}} upvotes</span>
      {{- if .Analysis}}<p>{{.Analysis}}</p>{{end}}
      {{- if .KeyTakeaways}}<ul>{{range .KeyTakeaways}}<li>{{.}}</li>{{end}}</ul>{{end}}
    </li>
    {{- end}}
  </ul>
  {{- end}}
  {{- if .EmergingTrends}}
  <h3>Emerging trends</h3>
  <ul>{{range .EmergingTrends}}<li><strong>{{.Trend}}</strong>{{if .Description}}: {{.Description}}{{end}}</li>{{end}}</ul>
  {{- end}}
  {{- with .Sentiment}}
  <div class="sentiment">
    {{- if .PositiveThemes}}<p class="positive">{{join .PositiveThemes ", "}}</p>{{end}}
    {{- if .NegativeThemes}}<p class="negative">{{join .NegativeThemes ", "}}</p>{{end}}
    {{- if .NeutralThemes}}<p class="neutral">{{join .NeutralThemes ", "}}</p>{{end}}
  </div>
  {{- end}}
</section>
{{- else}}
<div class="callout">No subreddits match your search.</div>
{{- end}}
`

const hackerNewsTemplate = `
{{template "report-header" .ReportMeta}}
<h1>{{if .Parsed.ReportTitle}}{{.Parsed.ReportTitle}}{{else}}{{typeTitle .Type}}{{end}}</h1>
<p class="muted">
  {{- if .Parsed.AnalysisDate}}{{.Parsed.AnalysisDate}} &middot; {{end}}{{.Shown}} of {{.Parsed.TotalStories}} stories
</p>
{{- if .Parsed.ExecutiveSummary}}<section class="card"><h2>Executive summary</h2><p>{{.Parsed.ExecutiveSummary}}</p></section>{{end}}
{{- if .Parsed.TrendingTopics}}<ul class="tag-list">{{range .Parsed.TrendingTopics}}<li class="tag">{{.}}</li>{{end}}</ul>{{end}}
{{- if .Parsed.CommunityMood}}<p><strong>Community mood:</strong> {{.Parsed.CommunityMood}}</p>{{end}}

{{template "filter-bar" .}}

{{- range .Sections}}
<section class="hn-section">
  <h2>{{.Title}}</h2>
  {{- range .Articles}}
  <article class="card story">
    <h3>{{if .URL}}<a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Headline}}</a>{{else}}{{.Headline}}{{end}}</h3>
    <div class="stats">
      <span>&#9650; {{comma .Points}}</span>
      <span>{{if .HNURL}}<a href="{{.HNURL}}" target="_blank" rel="noopener noreferrer">{{comma .NumComments}} comments</a>{{else}}{{comma .NumComments}} comments{{end}}</span>
      {{- range .Tags}}<span class="tag">{{.}}</span>{{end}}
    </div>
    {{- if .Summary}}<p>{{.Summary}}</p>{{end}}
    {{- if .KeyTakeaways}}<h4>Key takeaways</h4><ul>{{range .KeyTakeaways}}<li>{{.}}</li>{{end}}</ul>{{end}}
    {{- range .CommunityInsights}}
    <blockquote>{{.Quote}}{{if .Author}} <cite>{{.Author}}</cite>{{end}}{{if .Analysis}}<p>{{.Analysis}}</p>{{end}}</blockquote>
    {{- end}}
    {{- range .TechnicalDiscussions}}
    <details>
      <summary>{{.Topic}}</summary>
      {{- range .Viewpoints}}<p><strong>{{.Perspective}}</strong>{{if .Pros}} + {{.Pros}}{{end}}{{if .Cons}} &minus; {{.Cons}}{{end}}</p>{{end}}
      {{- if .Conclusion}}<p>{{.Conclusion}}</p>{{end}}
      {{- if .Lessons}}<p class="muted">{{.Lessons}}</p>{{end}}
    </details>
    {{- end}}
  </article>
  {{- end}}
</section>
{{- else}}
<div class="callout">No stories match your search.</div>
{{- end}}
`

const productHuntTemplate = `
{{template "report-header" .ReportMeta}}
<h1>{{typeTitle .Type}}</h1>
{{- if .Products}}
<div class="product-grid">
  {{- range .Products}}
  <article class="card product">
    {{- if .Image}}<img src="{{.Image}}" alt="{{.Name}}" loading="lazy">{{end}}
    <h3><span class="rank">#{{.Rank}}</span> {{.Name}}</h3>
    {{- if .Tagline}}<p class="tagline">{{.Tagline}}</p>{{end}}
    {{- if .Description}}<p>{{truncate .Description 160}}</p>{{end}}
    <ul class="tag-list">{{range .Tags}}<li class="tag">{{.}}</li>{{end}}</ul>
    <div class="stats">
      {{- if .Votes}}<span>&#9650; {{.Votes}}</span>{{end}}
      {{- if .Featured}}<span>Featured: {{.Featured}}</span>{{end}}
      {{- if .PostedTime}}<span class="muted">{{.PostedTime}}</span>{{end}}
    </div>
    <div class="links">
      {{- if .Website}}<a href="{{.Website}}" target="_blank" rel="noopener noreferrer">Website</a>{{end}}
      {{- if .ProductHunt}}<a href="{{.ProductHunt}}" target="_blank" rel="noopener noreferrer">Product Hunt</a>{{end}}
    </div>
  </article>
  {{- end}}
</div>
{{- else}}
<div class="callout">No products found in this report.</div>
{{- end}}
<details class="raw-report">
  <summary>Full report</summary>
  <article class="page-content">{{.HTML}}</article>
</details>
`

const quickViewTemplate = `
{{template "report-header" .ReportMeta}}
<h1>{{typeTitle .Type}}</h1>
{{- range .Groups}}
<section class="card quick-group">
  <h2>{{.Title}}</h2>
  <div class="page-content">{{.HTML}}</div>
</section>
{{- else}}
<div class="callout">This quick view is empty.</div>
{{- end}}
`

const archiveTemplate = `
<div class="page-header">
  <div>
    <h1>{{typeTitle .Type}} Archive</h1>
    <p class="muted">Browse {{if .Total}}{{comma .Total}}{{else}}all{{end}} reports</p>
  </div>
  <a class="button" href="{{.LatestURL}}">Latest</a>
</div>

<form class="filter-bar" method="get" action="{{.FormAction}}">
  <input type="search" name="search" value="{{.Query.Search}}" placeholder="Search reports..." autocomplete="off">
  <label>From <input type="date" name="date_from" value="{{.Query.DateFrom}}"></label>
  <label>To <input type="date" name="date_to" value="{{.Query.DateTo}}"></label>
  <button class="button" type="submit">Filter</button>
  {{- if .Filtered}}<a class="button secondary" href="{{.ClearURL}}">Clear filters</a>{{end}}
</form>

{{- if .Items}}
<ul class="report-list">
  {{- range .Items}}
  <li class="card">
    <a href="{{.URL}}">{{.Title}}</a>
    <div class="stats">{{if .Date}}<time title="{{.Relative}}">{{.Date}}</time>{{end}}</div>
    {{- if .Excerpt}}<p>{{.Excerpt}}</p>{{end}}
  </li>
  {{- end}}
</ul>
{{- else}}
<div class="callout">{{if .Filtered}}No reports match your filters.{{else}}No reports yet.{{end}}</div>
{{- end}}

{{- if .Pagination.Visible}}
<nav class="pagination" aria-label="Pagination">
  <span class="muted">Showing {{.Pagination.StartItem}}-{{.Pagination.EndItem}} of {{.Pagination.TotalItems}}</span>
  {{- if .PrevURL}}<a href="{{.PrevURL}}">&laquo; Prev</a>{{end}}
  {{- range .Links}}
  {{- if .Gap}}<span class="gap">...</span>{{else if .Current}}<span class="current">{{.Number}}</span>{{else}}<a href="{{.URL}}">{{.Number}}</a>{{end}}
  {{- end}}
  {{- if .NextURL}}<a href="{{.NextURL}}">Next &raquo;</a>{{end}}
</nav>
{{- end}}
`

const errorTemplate = `
<div class="callout error error-page">
  <h1>Something went wrong</h1>
  <p>{{.Message}}</p>
  <a class="button" href="{{path "/"}}">Back to home</a>
</div>
`

const notFoundTemplate = `
<div class="callout error-page">
  <h1>404</h1>
  <p>The page <code>{{.}}</code> does not exist.</p>
  <a class="button" href="{{path "/"}}">Back to home</a>
</div>
`

// cssContent is the stylesheet for every page.
const cssContent = `:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-hover: #1c7ed6;
  --accent-light: #e7f5ff;
  --code-bg: #f1f3f5;
  --error: #e03131;
  --error-light: #fff5f5;
  --positive: #2f9e44;
  --negative: #e03131;
  --sidebar-width: 260px;
  --content-max-width: 960px;
  --shadow: 0 1px 3px rgba(0,0,0,0.08);
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-secondary: #1f2030;
  --text: #c0caf5;
  --text-secondary: #a9b1d6;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #7aa2f7;
  --accent-hover: #89b4fa;
  --accent-light: #1a1b2e;
  --code-bg: #1f2030;
  --error: #f7768e;
  --error-light: #2a1f2b;
  --positive: #9ece6a;
  --negative: #f7768e;
  --shadow: 0 1px 3px rgba(0,0,0,0.3);
}

*, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
html { font-size: 16px; scroll-behavior: smooth; }
body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
}
a { color: var(--accent); text-decoration: none; }
a:hover { color: var(--accent-hover); text-decoration: underline; }
.muted { color: var(--text-muted); font-size: 0.9em; }

.top-bar {
  position: sticky; top: 0; z-index: 10;
  display: flex; align-items: center; gap: 1.5rem;
  padding: 0.75rem 1.5rem;
  background: var(--bg);
  border-bottom: 1px solid var(--border);
}
.brand { font-weight: 700; font-size: 1.15rem; color: var(--text); white-space: nowrap; }
.main-nav { display: flex; flex-wrap: wrap; gap: 0.25rem 1rem; flex: 1; }
.main-nav a { color: var(--text-secondary); font-size: 0.92rem; }
.main-nav a.active { color: var(--accent); font-weight: 600; }
.theme-toggle { background: none; border: 0; color: var(--text-secondary); cursor: pointer; }
.theme-toggle .moon-icon { display: none; }
[data-theme="dark"] .theme-toggle .sun-icon { display: none; }
[data-theme="dark"] .theme-toggle .moon-icon { display: inline; }

.layout { display: block; max-width: var(--content-max-width); margin: 0 auto; padding: 2rem 1.5rem; }
.layout.with-sidebar {
  display: grid; grid-template-columns: var(--sidebar-width) 1fr; gap: 2rem;
  max-width: calc(var(--content-max-width) + var(--sidebar-width) + 2rem);
}
.sidebar { position: sticky; top: 4.5rem; align-self: start; max-height: calc(100vh - 6rem); overflow-y: auto; font-size: 0.9rem; }
.sidebar-title { font-size: 0.8rem; text-transform: uppercase; letter-spacing: 0.05em; color: var(--text-muted); margin-bottom: 0.5rem; }
.sidebar-tree ul { list-style: none; }
.sidebar-tree ul ul { padding-left: 1rem; }
.sidebar-tree a { display: block; padding: 0.2rem 0.5rem; border-radius: 4px; color: var(--text-secondary); }
.sidebar-tree a.active { background: var(--accent-light); color: var(--accent); }

.footer { text-align: center; padding: 2rem; color: var(--text-muted); font-size: 0.85rem; border-top: 1px solid var(--border); }

.hero { text-align: center; margin-bottom: 2rem; }
.hero h1 { font-size: 2.5rem; }
.page-header { display: flex; justify-content: space-between; align-items: center; gap: 1rem; margin-bottom: 1.5rem; flex-wrap: wrap; }
.page-actions { display: flex; gap: 1rem; align-items: center; }
.badge, .tag { display: inline-block; padding: 0.1rem 0.6rem; border-radius: 999px; background: var(--accent-light); color: var(--accent); font-size: 0.8rem; }
.tag-list { list-style: none; display: flex; flex-wrap: wrap; gap: 0.4rem; margin: 0.5rem 0; }
.button { display: inline-block; padding: 0.4rem 1rem; border-radius: 6px; border: 1px solid var(--accent); background: var(--accent); color: #fff; cursor: pointer; font-size: 0.9rem; }
.button:hover { background: var(--accent-hover); color: #fff; text-decoration: none; }
.button.secondary { background: transparent; color: var(--accent); }

.card { border: 1px solid var(--border); border-radius: 8px; padding: 1.25rem; margin-bottom: 1rem; background: var(--bg-secondary); box-shadow: var(--shadow); }
.callout { border-left: 4px solid var(--accent); background: var(--accent-light); padding: 0.75rem 1rem; border-radius: 4px; margin: 1rem 0; }
.callout.error { border-left-color: var(--error); background: var(--error-light); }
.error-page { text-align: center; padding: 3rem 1rem; }
.error-page h1 { font-size: 2rem; margin-bottom: 0.5rem; }

.filter-bar { display: flex; flex-wrap: wrap; gap: 0.75rem; align-items: center; margin: 1rem 0 1.5rem; }
.filter-bar input, .filter-bar select { padding: 0.4rem 0.6rem; border: 1px solid var(--border); border-radius: 6px; background: var(--bg); color: var(--text); }
.filter-bar input[type="search"] { flex: 1; min-width: 200px; }

.feed-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(420px, 1fr)); gap: 1rem; }
.feed-list { padding-left: 1.25rem; }
.feed-list li { margin-bottom: 0.6rem; }
.feed-list p { color: var(--text-secondary); font-size: 0.9rem; }
.stats { display: flex; flex-wrap: wrap; gap: 0.75rem; font-size: 0.85rem; color: var(--text-secondary); }

.metric-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(140px, 1fr)); gap: 1rem; margin: 1rem 0; }
.metric { text-align: center; }
.metric-value { display: block; font-size: 1.6rem; font-weight: 700; }
.metric-label { color: var(--text-muted); font-size: 0.85rem; }
.sentiment span, .sentiment p { margin-right: 1rem; }
.positive { color: var(--positive); }
.negative { color: var(--negative); }
.neutral { color: var(--text-muted); }

.product-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 1rem; margin-bottom: 1.5rem; }
.product img { width: 100%; max-height: 160px; object-fit: cover; border-radius: 6px; }
.product .rank { color: var(--text-muted); }
.product .tagline { font-style: italic; color: var(--text-secondary); }
.product .links { display: flex; gap: 1rem; margin-top: 0.5rem; }
.raw-report summary, details summary { cursor: pointer; font-weight: 600; margin: 0.5rem 0; }
blockquote { border-left: 3px solid var(--border); padding-left: 1rem; color: var(--text-secondary); margin: 0.75rem 0; }

.report-list { list-style: none; }
.pagination { display: flex; flex-wrap: wrap; gap: 0.5rem; align-items: center; justify-content: center; margin: 2rem 0; }
.pagination a, .pagination span.current { padding: 0.25rem 0.7rem; border: 1px solid var(--border); border-radius: 6px; }
.pagination span.current { background: var(--accent); color: #fff; border-color: var(--accent); }

.page-content h1 { font-size: 2rem; margin: 0 0 1rem; }
.page-content h2 { font-size: 1.5rem; margin: 2rem 0 0.75rem; padding-bottom: 0.3rem; border-bottom: 1px solid var(--border); }
.page-content h3 { font-size: 1.2rem; margin: 1.5rem 0 0.5rem; }
.page-content p, .page-content ul, .page-content ol { margin-bottom: 1rem; }
.page-content ul, .page-content ol { padding-left: 1.5rem; }
.page-content img { max-width: 100%; border-radius: 6px; }
.page-content table { border-collapse: collapse; width: 100%; margin-bottom: 1rem; }
.page-content th, .page-content td { border: 1px solid var(--border); padding: 0.4rem 0.7rem; text-align: left; }
.page-content code { background: var(--code-bg); padding: 0.1rem 0.35rem; border-radius: 4px; font-size: 0.9em; }
.page-content pre { background: var(--code-bg); padding: 1rem; border-radius: 6px; overflow-x: auto; margin-bottom: 1rem; }
.page-content pre code { background: none; padding: 0; }
.section-number { color: var(--accent); margin-right: 0.5rem; }
.section-number::after { content: "."; }
.subsection-title { color: var(--text-secondary); }
.source-reference { font-size: 0.85rem; color: var(--text-muted); border-left: 3px solid var(--border); padding-left: 0.75rem; }
.read-more-link { font-weight: 600; }

@media (max-width: 900px) {
  .layout.with-sidebar { grid-template-columns: 1fr; }
  .sidebar { position: static; max-height: none; }
  .feed-grid { grid-template-columns: 1fr; }
}
`

// jsContent handles the theme toggle, sidebar highlighting, mermaid and
// the live refresh socket.
const jsContent = `(function() {
  'use strict';

  var root = document.documentElement;
  var saved = localStorage.getItem('techdigest-theme');
  if (saved) {
    root.setAttribute('data-theme', saved);
  } else if (window.matchMedia && window.matchMedia('(prefers-color-scheme: dark)').matches) {
    root.setAttribute('data-theme', 'dark');
  }

  var toggle = document.getElementById('theme-toggle');
  if (toggle) {
    toggle.addEventListener('click', function() {
      var next = root.getAttribute('data-theme') === 'dark' ? 'light' : 'dark';
      root.setAttribute('data-theme', next);
      localStorage.setItem('techdigest-theme', next);
    });
  }

  var links = document.querySelectorAll('.sidebar-tree a[data-target]');
  if (links.length && 'IntersectionObserver' in window) {
    var byID = {};
    links.forEach(function(a) { byID[a.getAttribute('data-target')] = a; });
    var observer = new IntersectionObserver(function(entries) {
      entries.forEach(function(e) {
        if (!e.isIntersecting) return;
        links.forEach(function(a) { a.classList.remove('active'); });
        var a = byID[e.target.id];
        if (a) a.classList.add('active');
      });
    }, { rootMargin: '0px 0px -70% 0px' });
    Object.keys(byID).forEach(function(id) {
      var el = document.getElementById(id);
      if (el) observer.observe(el);
    });
  }

  if (window.mermaid) {
    document.querySelectorAll('pre code.language-mermaid').forEach(function(code) {
      var div = document.createElement('div');
      div.className = 'mermaid';
      div.textContent = code.textContent;
      code.parentNode.replaceWith(div);
    });
    window.mermaid.initialize({ startOnLoad: true, theme: root.getAttribute('data-theme') === 'dark' ? 'dark' : 'default' });
  }

  var live = document.body.getAttribute('data-live');
  var status = document.getElementById('live-status');
  if (live && status && 'WebSocket' in window) {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var ws = new WebSocket(proto + location.host + live);
    ws.onmessage = function(msg) {
      var ev;
      try { ev = JSON.parse(msg.data); } catch (e) { return; }
      if (ev.type !== 'refresh') return;
      status.textContent = 'Feeds refreshed at ' + new Date(ev.at).toLocaleTimeString() +
        (ev.failures ? ' (' + ev.failures + ' sections failed)' : '') + '. ';
      var a = document.createElement('a');
      a.href = location.href;
      a.textContent = 'Reload';
      status.appendChild(a);
    };
  }
})();
`
