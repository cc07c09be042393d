// Package mcp is the tool-dispatch layer: it exposes the search engine's
// operations as MCP tools over stdio. The engine stays an in-process
// library; this package owns all protocol concerns.
package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quickindex/qdi/internal/config"
	"github.com/quickindex/qdi/internal/debug"
	"github.com/quickindex/qdi/internal/engine"
	"github.com/quickindex/qdi/internal/version"
)

// Server wraps the engine behind MCP tool handlers.
type Server struct {
	engine *engine.Engine
	cfg    *config.Config
	server *mcp.Server
}

// NewServer creates the MCP server and registers the tool set.
func NewServer(eng *engine.Engine, cfg *config.Config) *Server {
	s := &Server{
		engine: eng,
		cfg:    cfg,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "qdi-mcp-server",
		Version: version.Version,
	}, nil)

	s.registerTools()
	return s
}

// registerTools declares every tool with its input schema.
func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "search",
		Description: "Keyword search over the indexed document roots (docs, todo, src). Supports AND, OR and PHRASE modes; wrapping the query in double quotes selects PHRASE automatically.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root": {
					Type:        "string",
					Description: "Root to search: docs, todo or src",
				},
				"query": {
					Type:        "string",
					Description: "Search query. Double-quoted queries match as a literal phrase.",
				},
				"mode": {
					Type:        "string",
					Description: "Match mode: AND (default), OR or PHRASE. When set explicitly it overrides quote detection.",
				},
				"limit": {
					Type:        "integer",
					Description: "Maximum number of results",
				},
			},
			Required: []string{"root", "query"},
		},
	}, s.handleSearch)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_file",
		Description: "Fetch the full content of one document by path. Accepts root-relative or absolute paths inside a configured root.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root": {
					Type:        "string",
					Description: "Root the file belongs to: docs, todo or src",
				},
				"path": {
					Type:        "string",
					Description: "File path, relative to the root",
				},
			},
			Required: []string{"root", "path"},
		},
	}, s.handleGetFile)

	s.server.AddTool(&mcp.Tool{
		Name:        "reindex",
		Description: "Force a full rebuild of the content cache and inverted index for every root. Reports file and token counts.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleReindex)

	s.server.AddTool(&mcp.Tool{
		Name:        "index_stats",
		Description: "Report per-root index and cache statistics: file counts, token counts, cache hit rates.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleIndexStats)
}

// Start serves the tool set over stdio until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	debug.LogMCP("starting MCP server with stdio transport\n")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
