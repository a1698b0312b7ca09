package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/digestmd"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
	mdproc "github.com/techdigest-vietnam/techdigest/internal/markdown"
	"github.com/techdigest-vietnam/techdigest/internal/site"
)

// requireContentType reads and validates the content_type argument.
func requireContentType(request mcp.CallToolRequest) (digest.ContentType, *mcp.CallToolResult) {
	raw, err := request.RequireString("content_type")
	if err != nil {
		return "", mcp.NewToolResultError("missing required parameter: content_type")
	}
	ct, err := digest.ParseContentType(raw)
	if err != nil {
		return "", mcp.NewToolResultError(err.Error())
	}
	return ct, nil
}

// handleLatestReport returns the newest report of a collection.
func (s *Server) handleLatestReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ct, errResult := requireContentType(request)
	if errResult != nil {
		return errResult, nil
	}

	r, err := s.reports.Latest(ctx, ct)
	if err != nil {
		return reportError(ct, err), nil
	}
	return mcp.NewToolResultText(s.formatReport(ct, r)), nil
}

// handleListReports lists one page of a collection.
func (s *Server) handleListReports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ct, errResult := requireContentType(request)
	if errResult != nil {
		return errResult, nil
	}

	limit := request.GetInt("limit", digest.DefaultLimit)
	if limit <= 0 {
		limit = digest.DefaultLimit
	}
	res, err := s.reports.List(ctx, ct, digest.ListParams{
		Skip:     request.GetInt("skip", 0),
		Limit:    limit,
		Search:   request.GetString("search", ""),
		DateFrom: request.GetString("date_from", ""),
		DateTo:   request.GetString("date_to", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing %s failed: %v", ct, err)), nil
	}

	if len(res.Reports) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No %s reports found.", ct.Title())), nil
	}
	return mcp.NewToolResultText(formatList(ct, res)), nil
}

// handleGetReport returns a single report.
func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ct, errResult := requireContentType(request)
	if errResult != nil {
		return errResult, nil
	}
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	r, err := s.reports.ByID(ctx, ct, id)
	if err != nil {
		return reportError(ct, err), nil
	}
	return mcp.NewToolResultText(s.formatReport(ct, r)), nil
}

// handleReportTOC returns the outline of a markdown report.
func (s *Server) handleReportTOC(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ct, errResult := requireContentType(request)
	if errResult != nil {
		return errResult, nil
	}

	var (
		r   *digest.Report
		err error
	)
	if id := request.GetString("id", ""); id != "" {
		r, err = s.reports.ByID(ctx, ct, id)
	} else {
		r, err = s.reports.Latest(ctx, ct)
	}
	if err != nil {
		return reportError(ct, err), nil
	}

	var sb strings.Builder
	if err := digestmd.WriteOutline(&sb, mdproc.Process(r.Content)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build outline: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGitHubTrending returns the GitHub trending table.
func (s *Server) handleGitHubTrending(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rng, err := feeds.ParseTrendingRange(request.GetString("range", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	repos, err := s.feeds.GitHubTrending(ctx, rng, request.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("GitHub trending failed: %v", err)), nil
	}

	var sb strings.Builder
	if err := digestmd.WriteRepos(&sb, rng, repos); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format repositories: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleTrendingDashboard returns every trending feed as one digest.
func (s *Server) handleTrendingDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rng, err := feeds.ParseTrendingRange(request.GetString("range", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind, err := feeds.ParseHubKind(request.GetString("hub", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	d, err := s.feeds.Dashboard(ctx, feeds.DashboardOptions{Range: rng, HubKind: kind})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading trending feeds failed: %v", err)), nil
	}

	var sb strings.Builder
	if err := digestmd.WriteDashboard(&sb, d); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format dashboard: %v", err)), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func reportError(ct digest.ContentType, err error) *mcp.CallToolResult {
	var apiErr *digest.APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return mcp.NewToolResultError(fmt.Sprintf("No %s report found.", ct.Title()))
	}
	return mcp.NewToolResultError(fmt.Sprintf("loading %s failed: %v", ct, err))
}

// formatReport renders a report header followed by its content. Reddit
// reports get an analytics summary appended.
func (s *Server) formatReport(ct digest.ContentType, r *digest.Report) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s #%s\n", ct.Title(), r.ID))
	if r.Filename != "" {
		sb.WriteString(fmt.Sprintf("File: %s\n", r.Filename))
	}
	if date := site.FormatDate(r.UploadDate); date != "" {
		sb.WriteString(fmt.Sprintf("Uploaded: %s (%s)\n", date, site.RelativeTime(r.UploadDate, s.now())))
	}
	sb.WriteString("\n")
	sb.WriteString(r.Content)
	sb.WriteString("\n")

	if ct == digest.RedditReports {
		if rep, err := feeds.ParseReddit(r.Content); err == nil {
			sb.WriteString("\n")
			if err := digestmd.WriteRedditAnalytics(&sb, feeds.Analytics(rep.SubredditReports)); err != nil {
				sb.WriteString(fmt.Sprintf("(analytics unavailable: %v)\n", err))
			}
		}
	}
	return sb.String()
}

// formatList renders one page of reports as a bullet list.
func formatList(ct digest.ContentType, res *digest.ListResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d %s report(s), showing %d:\n", res.Total, ct.Title(), len(res.Reports)))
	for _, r := range res.Reports {
		sb.WriteString(fmt.Sprintf("\n- id: %s", r.ID))
		if r.Filename != "" {
			sb.WriteString(fmt.Sprintf("\n  file: %s", r.Filename))
		}
		if date := site.FormatDate(r.UploadDate); date != "" {
			sb.WriteString(fmt.Sprintf("\n  uploaded: %s", date))
		}
	}
	sb.WriteString("\n")
	if res.HasMore() {
		sb.WriteString("\nMore reports are available; increase skip to page through them.\n")
	}
	return sb.String()
}
