package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/quickindex/qdi/internal/config"
	"github.com/quickindex/qdi/internal/debug"
	"github.com/quickindex/qdi/internal/engine"
	"github.com/quickindex/qdi/internal/mcp"
	"github.com/quickindex/qdi/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	baseDir := c.String("base")
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %q: %w", baseDir, err)
	}

	cfg, err := config.Load(absBase)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", absBase, err)
	}

	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if c.Bool("watch") {
		cfg.Watch.Enabled = true
	}
	if c.Bool("no-suggestions") {
		cfg.Search.EnableSuggestions = false
	}

	return cfg, nil
}

// newEngine builds and initializes an engine for a one-shot CLI command
func newEngine(c *cli.Context) (*engine.Engine, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, err
	}
	eng := engine.New(cfg)
	if err := eng.Initialize(c.Context); err != nil {
		eng.Close()
		return nil, err
	}
	return eng, nil
}

func rootKindArg(c *cli.Context) config.RootKind {
	return config.RootKind(strings.ToLower(c.String("root")))
}

func main() {
	app := &cli.App{
		Name:                   "qdi",
		Usage:                  "Fast document indexing and search for project roots",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base",
				Aliases: []string{"C"},
				Usage:   "Base directory containing the roots and .qdi.kdl config",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/drafts/**')",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Watch roots for changes and invalidate stale entries",
			},
			&cli.BoolFlag{
				Name:  "no-suggestions",
				Usage: "Disable fuzzy suggestions for zero-result queries",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Search indexed documents for tokens or a quoted phrase",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"r"},
						Usage:   "Root to search: docs, todo, src",
						Value:   "docs",
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Match mode: and, or, phrase (default: derived from query)",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Max number of results",
						Value:   0,
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: searchCommand,
			},
			{
				Name:    "get",
				Aliases: []string{"g"},
				Usage:   "Print the content of a file from a root",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"r"},
						Usage:   "Root containing the file: docs, todo, src",
						Value:   "docs",
					},
				},
				Action: getCommand,
			},
			{
				Name:  "reindex",
				Usage: "Rebuild the cache and inverted index for all roots",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: reindexCommand,
			},
			{
				Name:    "status",
				Aliases: []string{"st"},
				Usage:   "Show per-root cache and index statistics",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: statusCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Start MCP (Model Context Protocol) server with stdio transport",
				Action: mcpCommand,
			},
		},
		Action: func(c *cli.Context) error {
			// Default to search when a bare query is given
			if c.NArg() > 0 {
				return searchCommand(c)
			}
			return cli.ShowAppHelp(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: qdi search <query>")
	}
	query := strings.Join(c.Args().Slice(), " ")

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	modeExplicit := c.String("mode") != ""
	start := time.Now()
	report, err := eng.Search(c.Context, rootKindArg(c), query, c.String("mode"), modeExplicit, c.Int("limit"))
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"query":       query,
			"mode":        report.Mode,
			"tier":        report.Tier.String(),
			"time_ms":     float64(elapsed.Microseconds()) / 1000.0,
			"results":     report.Results,
			"suggestions": report.Suggestions,
		})
	}

	if len(report.Results) == 0 {
		fmt.Printf("No results for %q (%s mode, tier %d)\n", query, report.Mode, report.Tier)
		if len(report.Suggestions) > 0 {
			fmt.Printf("Did you mean: %s\n", strings.Join(report.Suggestions, ", "))
		}
		return nil
	}

	fmt.Printf("%d results for %q (%s mode, tier %d, %.1fms)\n\n",
		len(report.Results), query, report.Mode, report.Tier,
		float64(elapsed.Microseconds())/1000.0)
	for _, r := range report.Results {
		fmt.Printf("%s\n", r.Path)
		for _, line := range r.Context {
			fmt.Printf("  %s\n", line)
		}
		fmt.Println()
	}
	return nil
}

func getCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: qdi get <path>")
	}

	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	content, err := eng.GetFileContent(c.Context, rootKindArg(c), c.Args().First())
	if err != nil {
		return err
	}
	fmt.Print(content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Println()
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	report, err := eng.Reindex(c.Context)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(map[string]interface{}{
			"indexed_count":      report.Indexed,
			"skipped_count":      report.Skipped,
			"unique_token_count": report.UniqueTokens,
			"elapsed_ms":         report.Elapsed.Milliseconds(),
			"empty_warning":      report.Empty,
		})
	}

	fmt.Printf("Indexed %d files (%d skipped, %d unique tokens) in %v\n",
		report.Indexed, report.Skipped, report.UniqueTokens, report.Elapsed.Round(time.Millisecond))
	if report.Empty {
		fmt.Println("Warning: reindex produced an empty index; check root paths and patterns")
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	eng, err := newEngine(c)
	if err != nil {
		return err
	}
	defer eng.Close()

	stats := eng.Stats()

	if c.Bool("json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	}

	fmt.Printf("qdi %s\n\n", version.FullInfo())
	for _, s := range stats {
		fmt.Printf("Root %s (%s)\n", s.Kind, s.Path)
		if !s.Usable {
			fmt.Println("  Directory missing, root is skipped")
			fmt.Println()
			continue
		}
		fmt.Printf("  Cached files:  %d of %d max (hits %d, misses %d, evictions %d)\n",
			s.Files, s.MaxEntries, s.CacheHits, s.CacheMiss, s.Evictions)
		fmt.Printf("  Index tokens:  %d\n", s.Tokens)
		fmt.Println()
	}
	return nil
}

func mcpCommand(c *cli.Context) error {
	// Suppress all debug output before anything touches stdout
	debug.SetMCPMode(true)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	eng := engine.New(cfg)
	defer eng.Close()
	if err := eng.Initialize(c.Context); err != nil {
		return err
	}

	server := mcp.NewServer(eng, cfg)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		debug.LogMCP("Starting MCP server with stdio transport...\n")
		errChan <- server.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		debug.LogMCP("Received signal %v, shutting down gracefully...\n", sig)
		cancel()

		shutdownTimer := time.NewTimer(2 * time.Second)
		defer shutdownTimer.Stop()

		select {
		case err := <-errChan:
			return err
		case <-shutdownTimer.C:
			debug.LogMCP("Graceful shutdown timeout, forcing exit\n")
			os.Stdin.Close()
			return nil
		}
	}
}
