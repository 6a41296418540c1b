package main

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	nikkimcp "github.com/gorewood/nikki/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run nikki as a Model Context Protocol (MCP) server over stdio.

The tools are read-only: they render reports as text and never write files.
Tool inputs fall back to the configured source, time zone and Toggl export.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "nikki": {
        "command": "nikki",
        "args": ["serve"]
      }
    }
  }

Available tools: entries, ideas, meals, bundle, timelog`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			server := nikkimcp.NewServer(buildVersion(), nikkimcp.Defaults{
				Source:    s.cfg.Source,
				TogglCSV:  s.cfg.Toggl.CSV,
				TogglDir:  s.cfg.Toggl.Dir,
				SkipNashi: s.cfg.SkipNashi,
				Location:  s.loc,
				Logger:    s.logger,
				Now:       time.Now,
			})
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
