package site

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
)

// Query carries the display options a page reads from the URL.
type Query struct {
	Search   string
	Sort     string
	DateFrom string
	DateTo   string
	Page     int
}

// QueryFrom reads a Query from URL values.
func QueryFrom(v url.Values) Query {
	page, _ := strconv.Atoi(v.Get("page"))
	return Query{
		Search:   strings.TrimSpace(v.Get("search")),
		Sort:     v.Get("sort"),
		DateFrom: v.Get("date_from"),
		DateTo:   v.Get("date_to"),
		Page:     max(page, 1),
	}
}

// ReportMeta is the header shared by every report view.
type ReportMeta struct {
	Type       digest.ContentType
	Report     *digest.Report
	Date       string
	Relative   string
	ArchiveURL string
	Latest     bool
}

func (s *Site) meta(ct digest.ContentType, r *digest.Report, latest bool) ReportMeta {
	return ReportMeta{
		Type:       ct,
		Report:     r,
		Date:       FormatDate(r.UploadDate),
		Relative:   RelativeTime(r.UploadDate, s.now()),
		ArchiveURL: s.Path(ArchivePath(ct)),
		Latest:     latest,
	}
}

// HomeData is the dashboard page.
type HomeData struct {
	Dashboard  *feeds.Dashboard
	Ranges     []feeds.TrendingRange
	HubKinds   []feeds.HubKind
	PapersDate string
}

// Home renders the trending feeds dashboard.
func (s *Site) Home(d *feeds.Dashboard, papersDate string) *Page {
	return &Page{
		Name:   "home",
		Title:  "Trending",
		Active: "home",
		Data: HomeData{
			Dashboard:  d,
			Ranges:     []feeds.TrendingRange{feeds.Daily, feeds.Weekly, feeds.Monthly},
			HubKinds:   []feeds.HubKind{feeds.HubModels, feeds.HubDatasets, feeds.HubSpaces},
			PapersDate: papersDate,
		},
	}
}

// SectionView is one rendered digest section.
type SectionView struct {
	ID     string
	Number string
	Title  string
	IsTOC  bool
	HTML   template.HTML
}

// DigestData is a daily digest split into sections.
type DigestData struct {
	ReportMeta
	Title    string
	Intro    template.HTML
	Sections []SectionView
}

// Report renders r with the view matching its content type. latest marks
// the "latest" routes, which link to the archive instead of back.
func (s *Site) Report(ct digest.ContentType, r *digest.Report, q Query, latest bool) (*Page, error) {
	switch ct {
	case digest.Reports:
		return s.digestPage(ct, r, latest)
	case digest.RedditReports:
		return s.redditPage(ct, r, q, latest)
	case digest.HackerNews:
		return s.hackerNewsPage(ct, r, q, latest)
	case digest.ProductHunt:
		return s.productHuntPage(ct, r, latest)
	case digest.QuickView:
		return s.quickViewPage(ct, r, latest)
	}
	return s.markdownPage(ct, r, latest)
}

func (s *Site) digestPage(ct digest.ContentType, r *digest.Report, latest bool) (*Page, error) {
	doc := mdproc.Process(r.Content)
	data := DigestData{ReportMeta: s.meta(ct, r, latest), Title: doc.Title}

	if doc.Intro != "" {
		out, err := s.md.Render(doc.Intro)
		if err != nil {
			return nil, err
		}
		data.Intro = template.HTML(out.HTML)
	}

	targets := doc.Targets()
	for _, sec := range doc.Sections {
		var (
			out *mdproc.Rendered
			err error
		)
		if sec.IsTOC {
			out, err = s.md.RenderTOC(sec.Content, targets)
		} else {
			out, err = s.md.Render(mdproc.ProcessSection(sec))
		}
		if err != nil {
			return nil, err
		}
		data.Sections = append(data.Sections, SectionView{
			ID:     sec.ID,
			Number: sec.Number,
			Title:  sec.PlainTitle,
			IsTOC:  sec.IsTOC,
			HTML:   template.HTML(out.HTML),
		})
	}

	return &Page{
		Name:    "digest",
		Title:   doc.Title,
		Active:  navKey(ct),
		Sidebar: template.HTML(TOCFromDocument(doc).ToHTML()),
		Data:    data,
	}, nil
}

// MarkdownData is a report rendered as one markdown document.
type MarkdownData struct {
	ReportMeta
	Title string
	HTML  template.HTML
}

func (s *Site) markdownPage(ct digest.ContentType, r *digest.Report, latest bool) (*Page, error) {
	out, err := s.md.Render(r.Content)
	if err != nil {
		return nil, err
	}
	title := ct.Title()
	for _, h := range out.Headings {
		if h.Level == 1 {
			title = h.Text
			break
		}
	}
	return &Page{
		Name:    "markdown",
		Title:   title,
		Active:  navKey(ct),
		Sidebar: template.HTML(BuildTOC(out.Headings).ToHTML()),
		Data:    MarkdownData{ReportMeta: s.meta(ct, r, latest), Title: title, HTML: template.HTML(out.HTML)},
	}, nil
}

// SortOption is one choice of a sort selector.
type SortOption struct {
	Value    string
	Label    string
	Selected bool
}

func sortOptions(current string, values, labels []string) []SortOption {
	out := make([]SortOption, len(values))
	for i, v := range values {
		out[i] = SortOption{Value: v, Label: labels[i], Selected: v == current}
	}
	return out
}

// RedditData is a Reddit analysis report.
type RedditData struct {
	ReportMeta
	Parsed    *feeds.RedditReport
	Reports   []feeds.SubredditReport
	Analytics *feeds.RedditAnalytics
	Search    string
	Sorts     []SortOption
}

func (s *Site) redditPage(ct digest.ContentType, r *digest.Report, q Query, latest bool) (*Page, error) {
	parsed, err := feeds.ParseReddit(r.Content)
	if errors.Is(err, feeds.ErrParse) {
		return s.markdownPage(ct, r, latest)
	}
	if err != nil {
		return nil, err
	}
	sort := feeds.ParseRedditSort(q.Sort)
	shown := parsed.Filter(q.Search, sort)
	sorts := sortOptions(string(sort),
		[]string{string(feeds.RedditSortScore), string(feeds.RedditSortAlphabetical), string(feeds.RedditSortRecent)},
		[]string{"Top score", "A-Z", "Report order"})

	title := parsed.ReportTitle
	if title == "" {
		title = ct.Title()
	}
	return &Page{
		Name:   "reddit",
		Title:  title,
		Active: navKey(ct),
		Data: RedditData{
			ReportMeta: s.meta(ct, r, latest),
			Parsed:     parsed,
			Reports:    shown,
			Analytics:  feeds.Analytics(shown),
			Search:     q.Search,
			Sorts:      sorts,
		},
	}, nil
}

// HackerNewsData is a Hacker News analysis report.
type HackerNewsData struct {
	ReportMeta
	Parsed   *feeds.HNReport
	Sections []feeds.HNSection
	Shown    int
	Search   string
	Sorts    []SortOption
}

func (s *Site) hackerNewsPage(ct digest.ContentType, r *digest.Report, q Query, latest bool) (*Page, error) {
	parsed, err := feeds.ParseHackerNews(r.Content)
	if errors.Is(err, feeds.ErrParse) {
		return s.markdownPage(ct, r, latest)
	}
	if err != nil {
		return nil, err
	}
	sort := feeds.ParseHNSort(q.Sort)
	sections := parsed.Filter(q.Search, sort)
	sorts := sortOptions(string(sort),
		[]string{string(feeds.HNSortRecent), string(feeds.HNSortPoints), string(feeds.HNSortComments)},
		[]string{"Report order", "Points", "Comments"})

	title := parsed.ReportTitle
	if title == "" {
		title = ct.Title()
	}
	return &Page{
		Name:   "hackernews",
		Title:  title,
		Active: navKey(ct),
		Data: HackerNewsData{
			ReportMeta: s.meta(ct, r, latest),
			Parsed:     parsed,
			Sections:   sections,
			Shown:      feeds.ArticleCount(sections),
			Search:     q.Search,
			Sorts:      sorts,
		},
	}, nil
}

// ProductHuntData shows product cards above the raw report.
type ProductHuntData struct {
	ReportMeta
	Products []feeds.Product
	HTML     template.HTML
}

func (s *Site) productHuntPage(ct digest.ContentType, r *digest.Report, latest bool) (*Page, error) {
	out, err := s.md.Render(r.Content)
	if err != nil {
		return nil, err
	}
	return &Page{
		Name:   "producthunt",
		Title:  ct.Title(),
		Active: navKey(ct),
		Data: ProductHuntData{
			ReportMeta: s.meta(ct, r, latest),
			Products:   feeds.ParseProductHunt(r.Content),
			HTML:       template.HTML(out.HTML),
		},
	}, nil
}

// QuickGroupView is one quick view group with its summary rendered.
type QuickGroupView struct {
	Title string
	HTML  template.HTML
}

// QuickViewData is a quick view report.
type QuickViewData struct {
	ReportMeta
	Groups []QuickGroupView
}

func (s *Site) quickViewPage(ct digest.ContentType, r *digest.Report, latest bool) (*Page, error) {
	q, err := feeds.ParseQuickView(r.Content)
	if err != nil {
		return s.Error(http.StatusUnprocessableEntity, "Failed to parse quick view content"), nil
	}
	data := QuickViewData{ReportMeta: s.meta(ct, r, latest)}
	for _, g := range q.Groups {
		out, err := s.md.Render(g.ShortSummary)
		if err != nil {
			return nil, err
		}
		data.Groups = append(data.Groups, QuickGroupView{Title: g.Title, HTML: template.HTML(out.HTML)})
	}
	return &Page{Name: "quickview", Title: ct.Title(), Active: navKey(ct), Data: data}, nil
}

// ArchiveItem is one row of an archive listing.
type ArchiveItem struct {
	Title    string
	URL      string
	Date     string
	Relative string
	Excerpt  string
}

// PageLinkView is a pagination entry with its URL.
type PageLinkView struct {
	digest.PageLink
	URL string
}

// ArchiveData is a paginated, filterable report listing.
type ArchiveData struct {
	Type       digest.ContentType
	Items      []ArchiveItem
	Query      Query
	Total      int
	Filtered   bool
	Pagination digest.Pagination
	Links      []PageLinkView
	PrevURL    string
	NextURL    string
	LatestURL  string
	FormAction string
	ClearURL   string
}

// Archive renders one page of a report listing.
func (s *Site) Archive(ct digest.ContentType, res *digest.ListResult, q Query, perPage int) *Page {
	route := s.Path(ArchivePath(ct))
	pg := digest.Paginate(res.Total, perPage, q.Page)

	data := ArchiveData{
		Type:       ct,
		Query:      q,
		Total:      res.Total,
		Filtered:   q.Search != "" || q.DateFrom != "" || q.DateTo != "",
		Pagination: pg,
		LatestURL:  s.Path(LatestPath(ct)),
		FormAction: route,
		ClearURL:   route,
	}
	for _, r := range res.Reports {
		title := r.Filename
		if title == "" {
			title = ct.Title() + " #" + r.ID.String()
		}
		data.Items = append(data.Items, ArchiveItem{
			Title:    title,
			URL:      s.Path(DetailPath(ct, r.ID.String())),
			Date:     FormatDate(r.UploadDate),
			Relative: RelativeTime(r.UploadDate, s.now()),
			Excerpt:  Truncate(excerpt(r.Content), 160),
		})
	}
	for _, l := range pg.Links {
		v := PageLinkView{PageLink: l}
		if !l.Gap {
			v.URL = pageURL(route, q, l.Number)
		}
		data.Links = append(data.Links, v)
	}
	if pg.HasPrev() {
		data.PrevURL = pageURL(route, q, pg.Prev())
	}
	if pg.HasNext() {
		data.NextURL = pageURL(route, q, pg.Next())
	}

	active := "archive"
	if ct != digest.Reports {
		active = navKey(ct)
	}
	return &Page{Name: "archive", Title: ct.Title() + " Archive", Active: active, Data: data}
}

// ListParams converts the archive query into an API request.
func (q Query) ListParams(perPage int) digest.ListParams {
	if perPage <= 0 {
		perPage = digest.DefaultLimit
	}
	return digest.ListParams{
		Skip:     (max(q.Page, 1) - 1) * perPage,
		Limit:    perPage,
		Search:   q.Search,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
	}
}

func pageURL(route string, q Query, page int) string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.DateFrom != "" {
		v.Set("date_from", q.DateFrom)
	}
	if q.DateTo != "" {
		v.Set("date_to", q.DateTo)
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if len(v) == 0 {
		return route
	}
	return route + "?" + v.Encode()
}

// excerpt returns the first paragraph line of a markdown or JSON report.
func excerpt(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		return ""
	}
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "![") {
			continue
		}
		return emphasis.Replace(strings.TrimLeft(line, "> "))
	}
	return ""
}

var emphasis = strings.NewReplacer("**", "", "__", "", "`", "")

// ErrorData is the generic error view.
type ErrorData struct {
	Message string
}

// Error renders message with the generic error view.
func (s *Site) Error(status int, message string) *Page {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Page{Name: "error", Title: "Error", Status: status, Data: ErrorData{Message: message}}
}

// NotFound renders the 404 page.
func (s *Site) NotFound(path string) *Page {
	return &Page{Name: "notfound", Title: "Page not found", Status: http.StatusNotFound, Data: path}
}
