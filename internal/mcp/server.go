// Package mcp provides a Model Context Protocol server for nikki.
// It exposes the diary reports as read-only MCP tools over stdio.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Defaults fill tool inputs the caller leaves empty.
type Defaults struct {
	Source    string
	TogglCSV  string
	TogglDir  string
	SkipNashi bool
	Location  *time.Location
	Logger    *zap.Logger
	// Now is the clock for this-week and last-week windows.
	Now func() time.Time
}

func (d Defaults) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// NewServer creates an MCP server with all nikki tools registered.
func NewServer(version string, defaults Defaults) *mcp.Server {
	if defaults.Location == nil {
		defaults.Location = time.UTC
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "nikki",
		Version: version,
	}, nil)
	registerTools(server, defaults)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all nikki tools to the server.
func registerTools(server *mcp.Server, defaults Defaults) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "entries",
		Description: "List dated diary pages in a Notion export: date, source file, title and which journal sections each page has.",
		Annotations: readOnlyAnnotations(),
	}, handleEntries(defaults))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ideas",
		Description: "Render the ✨ ひらめき report (one heading per date, idea blocks fenced as md) for a date window.",
		Annotations: readOnlyAnnotations(),
	}, handleReport(defaults, modeIdeas))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "meals",
		Description: "Render the 【食事】 report built from the 🧪 習慣ログ section for a date window.",
		Annotations: readOnlyAnnotations(),
	}, handleReport(defaults, modeMeals))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bundle",
		Description: "Render the daily bundle: each diary page's text per date, optionally with Toggl hours per project.",
		Annotations: readOnlyAnnotations(),
	}, handleBundle(defaults))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "timelog",
		Description: "Summarize a Toggl Detailed CSV export: hours per day and per project.",
		Annotations: readOnlyAnnotations(),
	}, handleTimelog(defaults))
}
