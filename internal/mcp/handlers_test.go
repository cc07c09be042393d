package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickindex/qdi/internal/config"
	"github.com/quickindex/qdi/internal/engine"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	base := t.TempDir()
	docs := filepath.Join(base, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "x.md"), []byte("Hello world"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "y.md"), []byte("Hello there"), 0o644))

	cfg := &config.Config{
		Roots:  []config.Root{{Kind: config.RootDocs, Path: docs, Pattern: "**/*.md"}},
		Cache:  config.Cache{MaxEntries: 100, MaxFileBytes: 1 << 20},
		Search: config.Search{DefaultLimit: 10, EnableSuggestions: true},
	}
	eng := engine.New(cfg)
	t.Cleanup(func() { eng.Close() })
	require.NoError(t, eng.Initialize(context.Background()))

	return NewServer(eng, cfg), docs
}

// callTool invokes a handler in-process, bypassing the stdio transport.
func callTool(t *testing.T, s *Server, tool string, params map[string]interface{}) map[string]interface{} {
	t.Helper()

	args, err := json.Marshal(params)
	require.NoError(t, err)

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      tool,
			Arguments: args,
		},
	}

	var result *mcp.CallToolResult
	switch tool {
	case "search":
		result, err = s.handleSearch(context.Background(), req)
	case "get_file":
		result, err = s.handleGetFile(context.Background(), req)
	case "reindex":
		result, err = s.handleReindex(context.Background(), req)
	case "index_stats":
		result, err = s.handleIndexStats(context.Background(), req)
	default:
		t.Fatalf("unknown tool %s", tool)
	}
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	if result.IsError {
		payload["_is_error"] = true
	}
	return payload
}

func TestHandleSearch(t *testing.T) {
	s, _ := newTestServer(t)

	payload := callTool(t, s, "search", map[string]interface{}{
		"root":  "docs",
		"query": "hello world",
	})

	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "AND", payload["mode"])
	results := payload["results"].([]interface{})
	require.Len(t, results, 1)
	hit := results[0].(map[string]interface{})
	assert.Equal(t, "x.md", hit["path"])
}

func TestHandleSearch_ExplicitMode(t *testing.T) {
	s, _ := newTestServer(t)

	payload := callTool(t, s, "search", map[string]interface{}{
		"root":  "docs",
		"query": `"world missing"`,
		"mode":  "or",
	})

	assert.Equal(t, "OR", payload["mode"], "explicit mode overrides quote detection")
	assert.Len(t, payload["results"], 1)
}

func TestHandleSearch_UnknownRoot(t *testing.T) {
	s, _ := newTestServer(t)

	payload := callTool(t, s, "search", map[string]interface{}{
		"root":  "wiki",
		"query": "hello",
	})

	assert.Equal(t, false, payload["success"])
	assert.Equal(t, true, payload["_is_error"])
	assert.Equal(t, "search", payload["operation"])
}

func TestHandleGetFile(t *testing.T) {
	s, docs := newTestServer(t)

	payload := callTool(t, s, "get_file", map[string]interface{}{
		"root": "docs",
		"path": "x.md",
	})
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "Hello world", payload["content"])

	// Absolute paths inside the root are normalized to relative
	payload = callTool(t, s, "get_file", map[string]interface{}{
		"root": "docs",
		"path": filepath.Join(docs, "y.md"),
	})
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "y.md", payload["path"])
}

func TestHandleGetFile_TraversalRejected(t *testing.T) {
	s, _ := newTestServer(t)

	payload := callTool(t, s, "get_file", map[string]interface{}{
		"root": "docs",
		"path": "../../etc/passwd",
	})
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, true, payload["_is_error"])
}

func TestHandleReindex(t *testing.T) {
	s, _ := newTestServer(t)

	payload := callTool(t, s, "reindex", nil)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(2), payload["indexed_count"])
	assert.Equal(t, false, payload["empty_warning"])
}

func TestHandleIndexStats(t *testing.T) {
	s, _ := newTestServer(t)

	payload := callTool(t, s, "index_stats", nil)
	assert.Equal(t, true, payload["success"])

	roots := payload["roots"].([]interface{})
	require.Len(t, roots, 1)
	root := roots[0].(map[string]interface{})
	assert.Equal(t, "docs", root["kind"])
	assert.Equal(t, float64(2), root["files"])
}
