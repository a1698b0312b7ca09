package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/techdigest-vietnam/techdigest/internal/digest"
	"github.com/techdigest-vietnam/techdigest/internal/feeds"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Reports is the subset of digest.Client the tools need.
type Reports interface {
	List(ctx context.Context, ct digest.ContentType, p digest.ListParams) (*digest.ListResult, error)
	Latest(ctx context.Context, ct digest.ContentType) (*digest.Report, error)
	ByID(ctx context.Context, ct digest.ContentType, id string) (*digest.Report, error)
}

// Feeds is the subset of feeds.Client the tools need.
type Feeds interface {
	GitHubTrending(ctx context.Context, rng feeds.TrendingRange, limit int) ([]feeds.Repo, error)
	Dashboard(ctx context.Context, opts feeds.DashboardOptions) (*feeds.Dashboard, error)
}

// Server wraps an MCP server that exposes the digest tools.
type Server struct {
	reports Reports
	feeds   Feeds
	now     func() time.Time
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(reports Reports, f Feeds) *Server {
	s := &Server{
		reports: reports,
		feeds:   f,
		now:     time.Now,
	}

	s.mcp = server.NewMCPServer(
		"techdigest",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(latestReportTool, s.handleLatestReport)
	s.mcp.AddTool(listReportsTool, s.handleListReports)
	s.mcp.AddTool(getReportTool, s.handleGetReport)
	s.mcp.AddTool(reportTOCTool, s.handleReportTOC)
	s.mcp.AddTool(githubTrendingTool, s.handleGitHubTrending)
	s.mcp.AddTool(trendingDashboardTool, s.handleTrendingDashboard)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
