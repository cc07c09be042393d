package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// ConfigFileName is the per-project configuration file
const ConfigFileName = ".qdi.kdl"

// LoadKDL attempts to load configuration from a .qdi.kdl file in baseDir.
// A missing file is not an error; the caller falls back to defaults.
func LoadKDL(baseDir string) (*Config, error) {
	kdlPath := filepath.Join(baseDir, ConfigFileName)

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	cfg, err := parseKDL(string(content), baseDir)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseKDL fills a default config from the KDL document. Unknown nodes are
// ignored so older binaries tolerate newer config files.
//
//	roots {
//	    docs "notes/docs"
//	    todo "notes/todo" pattern="**/*.md"
//	    src "src" pattern="**/*.{md,txt}"
//	}
//	cache { max_entries 10000; max_file_bytes 10485760 }
//	search { default_limit 10; suggestions true }
//	watch { enabled true; debounce_ms 250 }
//	exclude "**/drafts/**" "**/archive/**"
func parseKDL(content, baseDir string) (*Config, error) {
	cfg := Default(baseDir)

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "roots":
			roots := parseRoots(n, baseDir)
			if len(roots) > 0 {
				cfg.Roots = roots
			}
		case "cache":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_entries":
					if v, ok := firstIntArg(cn); ok {
						cfg.Cache.MaxEntries = v
					}
				case "max_file_bytes":
					if v, ok := firstIntArg(cn); ok {
						cfg.Cache.MaxFileBytes = int64(v)
					}
				}
			}
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "default_limit":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.DefaultLimit = v
					}
				case "suggestions":
					if v, ok := firstBoolArg(cn); ok {
						cfg.Search.EnableSuggestions = v
					}
				}
			}
		case "watch":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "enabled":
					if v, ok := firstBoolArg(cn); ok {
						cfg.Watch.Enabled = v
					}
				case "debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Watch.DebounceMs = v
					}
				}
			}
		case "exclude":
			if patterns := collectStringArgs(n); len(patterns) > 0 {
				cfg.Exclude = append(cfg.Exclude, patterns...)
			}
		case "detect_build_artifacts":
			if v, ok := firstBoolArg(n); ok {
				cfg.DetectBuildArtifacts = v
			}
		}
	}

	return cfg, nil
}

// parseRoots reads the roots block: each child node's name is the root kind,
// its first argument the path, with an optional pattern property.
func parseRoots(n *document.Node, baseDir string) []Root {
	var roots []Root
	for _, cn := range n.Children {
		kind := RootKind(nodeName(cn))
		switch kind {
		case RootDocs, RootTodo, RootSrc:
		default:
			continue
		}

		path, ok := firstStringArg(cn)
		if !ok {
			continue
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		root := Root{Kind: kind, Path: filepath.Clean(path), Pattern: "**/*.md"}
		if p, ok := stringProperty(cn, "pattern"); ok {
			root.Pattern = p
		}
		roots = append(roots, root)
	}
	return roots
}

// Helper functions leveraging the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func stringProperty(n *document.Node, key string) (string, bool) {
	if n.Properties == nil {
		return "", false
	}
	if v, ok := n.Properties[key]; ok {
		if s, ok2 := v.Value.(string); ok2 {
			return s, true
		}
	}
	return "", false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format: exclude { "pattern" } carries strings as child nodes
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
