package config

import (
	"os"
	"path/filepath"
)

// RootKind identifies one of the configured search roots.
type RootKind string

const (
	RootDocs RootKind = "docs"
	RootTodo RootKind = "todo"
	RootSrc  RootKind = "src"
)

// KnownRootKinds lists the root kinds the engine multiplexes, in the order
// they are reported by status tools.
var KnownRootKinds = []RootKind{RootDocs, RootTodo, RootSrc}

// Root is one configured base directory. Pattern is a doublestar glob
// matched against root-relative paths during indexing walks.
type Root struct {
	Kind    RootKind
	Path    string
	Pattern string
}

type Cache struct {
	MaxEntries   int   // entry-count limit for the content cache
	MaxFileBytes int64 // per-file byte-size limit; larger files are skipped
}

type Search struct {
	DefaultLimit      int  // result cap applied when the caller passes none
	EnableSuggestions bool // offer near-miss vocabulary tokens on zero results
}

type Watch struct {
	Enabled    bool // watch roots with fsnotify and invalidate changed files
	DebounceMs int  // event debounce window
}

type Config struct {
	Version int
	Roots   []Root
	Cache   Cache
	Search  Search
	Watch   Watch
	Exclude []string // doublestar globs skipped during walks

	// DetectBuildArtifacts extends Exclude with output directories found
	// in project manifests (Cargo.toml, pyproject.toml, package.json)
	DetectBuildArtifacts bool
}

// Default returns the built-in configuration: docs/todo/src roots resolved
// under baseDir, markdown pattern, 10k entries, 10 MiB per file, limit 10.
func Default(baseDir string) *Config {
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}
	return &Config{
		Version: 1,
		Roots: []Root{
			{Kind: RootDocs, Path: filepath.Join(baseDir, "docs"), Pattern: "**/*.md"},
			{Kind: RootTodo, Path: filepath.Join(baseDir, "todo"), Pattern: "**/*.md"},
			{Kind: RootSrc, Path: filepath.Join(baseDir, "src"), Pattern: "**/*.md"},
		},
		Cache: Cache{
			MaxEntries:   10000,
			MaxFileBytes: 10 * 1024 * 1024,
		},
		Search: Search{
			DefaultLimit:      10,
			EnableSuggestions: true,
		},
		Watch: Watch{
			Enabled:    false,
			DebounceMs: 250,
		},
		Exclude:              defaultExcludePatterns(),
		DetectBuildArtifacts: true,
	}
}

// RootByKind returns the configured root for kind, if any.
func (c *Config) RootByKind(kind RootKind) (Root, bool) {
	for _, r := range c.Roots {
		if r.Kind == kind {
			return r, true
		}
	}
	return Root{}, false
}

// defaultExcludePatterns covers directories that never hold searchable
// documents
func defaultExcludePatterns() []string {
	return []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/target/**",
		"**/dist/**",
		"**/build/**",
		"**/.cache/**",
		"**/vendor/**",
	}
}

// Load reads configuration for baseDir: a .qdi.kdl file if present,
// defaults otherwise. Build-artifact exclusions are appended after loading
// so manifest-derived patterns apply to both sources.
func Load(baseDir string) (*Config, error) {
	cfg, err := LoadKDL(baseDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default(baseDir)
	}

	if cfg.DetectBuildArtifacts {
		detector := NewBuildArtifactDetector(baseDir)
		cfg.Exclude = append(cfg.Exclude, detector.DetectOutputDirectories()...)
	}

	if err := NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
