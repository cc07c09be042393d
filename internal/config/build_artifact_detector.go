// Build artifact detection from language-specific configuration files.
// Parses package.json, Cargo.toml, pyproject.toml to find output directories
// that should never be walked for searchable documents.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector finds language-specific build output directories
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories scans for build configuration files and extracts
// output directories as glob patterns to exclude (e.g., "**/dist/**").
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	var patterns []string

	patterns = append(patterns, bad.detectJavaScriptOutputs()...)
	patterns = append(patterns, bad.detectRustOutputs()...)
	patterns = append(patterns, bad.detectPythonOutputs()...)

	return patterns
}

// detectJavaScriptOutputs reads package.json for an explicit outDir
func (bad *BuildArtifactDetector) detectJavaScriptOutputs() []string {
	var patterns []string

	packageJSON := filepath.Join(bad.projectRoot, "package.json")
	data, err := os.ReadFile(packageJSON)
	if err != nil {
		return nil
	}

	var pkg map[string]interface{}
	if json.Unmarshal(data, &pkg) != nil {
		return nil
	}

	if buildConfig, ok := pkg["build"].(map[string]interface{}); ok {
		if outDir, ok := buildConfig["outDir"].(string); ok {
			patterns = append(patterns, "**/"+strings.Trim(outDir, "/")+"/**")
		}
	}

	// A package.json at the root implies the standard npm layout
	patterns = append(patterns, "**/node_modules/**", "**/dist/**")
	return patterns
}

// detectRustOutputs reads Cargo.toml; a custom target-dir overrides the
// default target/
func (bad *BuildArtifactDetector) detectRustOutputs() []string {
	cargoToml := filepath.Join(bad.projectRoot, "Cargo.toml")
	data, err := os.ReadFile(cargoToml)
	if err != nil {
		return nil
	}

	var manifest struct {
		Build struct {
			TargetDir string `toml:"target-dir"`
		} `toml:"build"`
	}
	if toml.Unmarshal(data, &manifest) == nil && manifest.Build.TargetDir != "" {
		return []string{"**/" + strings.Trim(manifest.Build.TargetDir, "/") + "/**"}
	}
	return []string{"**/target/**"}
}

// detectPythonOutputs reads pyproject.toml for build backend directories
func (bad *BuildArtifactDetector) detectPythonOutputs() []string {
	pyproject := filepath.Join(bad.projectRoot, "pyproject.toml")
	data, err := os.ReadFile(pyproject)
	if err != nil {
		return nil
	}

	var manifest struct {
		Tool struct {
			Hatch struct {
				Build struct {
					Directory string `toml:"directory"`
				} `toml:"build"`
			} `toml:"hatch"`
		} `toml:"tool"`
	}

	patterns := []string{"**/__pycache__/**", "**/.venv/**", "**/*.egg-info/**"}
	if toml.Unmarshal(data, &manifest) == nil && manifest.Tool.Hatch.Build.Directory != "" {
		patterns = append(patterns, "**/"+strings.Trim(manifest.Tool.Hatch.Build.Directory, "/")+"/**")
	}
	return patterns
}
