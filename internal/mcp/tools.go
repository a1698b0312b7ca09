package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
)

// contentTypes lists the accepted content_type values.
func contentTypes() []string {
	out := make([]string, 0, len(digest.ContentTypes))
	for _, ct := range digest.ContentTypes {
		out = append(out, string(ct))
	}
	return out
}

func contentTypeParam() mcp.ToolOption {
	return mcp.WithString("content_type",
		mcp.Required(),
		mcp.Description("Report collection to read"),
		mcp.Enum(contentTypes()...),
	)
}

// latestReportTool defines the latest_report MCP tool.
var latestReportTool = mcp.NewTool("latest_report",
	mcp.WithDescription("Get the most recent report of a collection as markdown. Reddit reports include an analytics summary."),
	contentTypeParam(),
)

// listReportsTool defines the list_reports MCP tool.
var listReportsTool = mcp.NewTool("list_reports",
	mcp.WithDescription("List reports of a collection, newest first, with optional search and date filters."),
	contentTypeParam(),
	mcp.WithString("search",
		mcp.Description("Case-insensitive text to search for"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of reports to return (default 10)"),
	),
	mcp.WithNumber("skip",
		mcp.Description("Number of reports to skip"),
	),
	mcp.WithString("date_from",
		mcp.Description("Earliest upload date, YYYY-MM-DD"),
	),
	mcp.WithString("date_to",
		mcp.Description("Latest upload date, YYYY-MM-DD"),
	),
)

// getReportTool defines the get_report MCP tool.
var getReportTool = mcp.NewTool("get_report",
	mcp.WithDescription("Get a single report by id."),
	contentTypeParam(),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Report id as shown by list_reports"),
	),
)

// reportTOCTool defines the report_toc MCP tool.
var reportTOCTool = mcp.NewTool("report_toc",
	mcp.WithDescription("Get the title, date and table of contents of a markdown report. Uses the latest report when id is omitted."),
	contentTypeParam(),
	mcp.WithString("id",
		mcp.Description("Report id; defaults to the latest report"),
	),
)

// githubTrendingTool defines the github_trending MCP tool.
var githubTrendingTool = mcp.NewTool("github_trending",
	mcp.WithDescription("Get trending GitHub repositories as a markdown table."),
	mcp.WithString("range",
		mcp.Description("Trending window"),
		mcp.Enum("daily", "weekly", "monthly"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Number of repositories, 5 to 50 (default 10)"),
	),
)

// trendingDashboardTool defines the trending_dashboard MCP tool.
var trendingDashboardTool = mcp.NewTool("trending_dashboard",
	mcp.WithDescription("Get every trending feed (GitHub, Hugging Face Hub, Daily Papers, OpenRouter) as one markdown digest."),
	mcp.WithString("range",
		mcp.Description("GitHub trending window"),
		mcp.Enum("daily", "weekly", "monthly"),
	),
	mcp.WithString("hub",
		mcp.Description("Hugging Face Hub listing"),
		mcp.Enum("models", "datasets", "spaces"),
	),
)
