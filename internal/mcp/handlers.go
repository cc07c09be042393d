package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quickindex/qdi/internal/config"
	"github.com/quickindex/qdi/pkg/pathutil"
)

// SearchParams are the arguments of the search tool
type SearchParams struct {
	Root  string `json:"root"`
	Query string `json:"query"`
	Mode  string `json:"mode"`
	Limit int    `json:"limit"`
}

// GetFileParams are the arguments of the get_file tool
type GetFileParams struct {
	Root string `json:"root"`
	Path string `json:"path"`
}

// resolveRootKind normalizes and checks the root argument.
func (s *Server) resolveRootKind(name string) (config.RootKind, error) {
	kind := config.RootKind(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := s.cfg.RootByKind(kind); !ok {
		kinds := make([]string, 0, len(s.cfg.Roots))
		for _, r := range s.cfg.Roots {
			kinds = append(kinds, string(r.Kind))
		}
		return "", fmt.Errorf("unknown root %q (configured: %s)", name, strings.Join(kinds, ", "))
	}
	return kind, nil
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args SearchParams
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return createErrorResponse("search", fmt.Errorf("invalid parameters: %w", err))
	}

	kind, err := s.resolveRootKind(args.Root)
	if err != nil {
		return createErrorResponse("search", err)
	}

	// Quote detection only applies when the caller did not pick a mode
	modeExplicit := strings.TrimSpace(args.Mode) != ""

	report, err := s.engine.Search(ctx, kind, args.Query, args.Mode, modeExplicit, args.Limit)
	if err != nil {
		return createErrorResponse("search", err)
	}

	return createJSONResponse(map[string]interface{}{
		"success":     true,
		"root":        kind,
		"mode":        report.Mode,
		"tier":        report.Tier.String(),
		"count":       len(report.Results),
		"results":     report.Results,
		"suggestions": report.Suggestions,
	})
}

func (s *Server) handleGetFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args GetFileParams
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return createErrorResponse("get_file", fmt.Errorf("invalid parameters: %w", err))
	}

	kind, err := s.resolveRootKind(args.Root)
	if err != nil {
		return createErrorResponse("get_file", err)
	}

	// Absolute paths inside the root are accepted and normalized
	path := args.Path
	if root, ok := s.cfg.RootByKind(kind); ok {
		path = pathutil.ToRelative(path, root.Path)
	}

	content, err := s.engine.GetFileContent(ctx, kind, path)
	if err != nil {
		return createErrorResponse("get_file", err)
	}

	return createJSONResponse(map[string]interface{}{
		"success": true,
		"root":    kind,
		"path":    path,
		"content": content,
	})
}

func (s *Server) handleReindex(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.engine.Reindex(ctx)
	if err != nil {
		return createErrorResponse("reindex", err)
	}

	return createJSONResponse(map[string]interface{}{
		"success":            true,
		"indexed_count":      report.Indexed,
		"skipped_count":      report.Skipped,
		"unique_token_count": report.UniqueTokens,
		"elapsed_ms":         report.Elapsed.Milliseconds(),
		"empty_warning":      report.Empty,
	})
}

func (s *Server) handleIndexStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.engine.Stats()
	return createJSONResponse(map[string]interface{}{
		"success": true,
		"roots":   stats,
	})
}
