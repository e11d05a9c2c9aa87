// Package config handles loading compiler configuration from a file.
//
// Configuration can be specified in a JSON file named czar.json or
// .czarrc. The config file is searched for in a starting directory
// and its parent directories, the same way most toolchains walk upward
// looking for a project root.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/shkschneider/czar/internal/pipeline"
)

// Config represents the configuration file structure.
// All fields are optional and use default values if unset.
type Config struct {
	// DebugAllocator wraps the runtime's allocator with guard pages and
	// leak accounting. Slower; on by default for non-release builds.
	DebugAllocator *bool `json:"debugAllocator,omitempty"`

	// StdlibRoot names a directory for `cz.*` standard-library imports.
	// ToOptions and Merge do not pass it on; standard-library imports
	// always resolve against internal/builtins.
	StdlibRoot string `json:"stdlibRoot,omitempty"`

	// AllowRun enables `#run` directives. Off by default: `#run` shells
	// out at compile time, so enabling it for source you don't control
	// is a code-execution risk.
	AllowRun *bool `json:"allowRun,omitempty"`

	// EmitLineDirectives controls whether generated C carries #line
	// directives mapping back to CZ source.
	EmitLineDirectives *bool `json:"emitLineDirectives,omitempty"`

	// KeepNames lists identifier names for the lifetime/stack-budget
	// report. ToOptions and Merge do not pass it on, and no compiler
	// stage reads it.
	KeepNames []string `json:"keepNames,omitempty"`
}

// FileNames are the names searched for config files, in order of preference.
var FileNames = []string{
	"czar.json",
	".czarrc",
	".czarrc.json",
}

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ToOptions converts a Config to pipeline.Options, using defaults for unset fields.
func (c *Config) ToOptions() pipeline.Options {
	opts := pipeline.Options{EmitLineDirectives: true}

	if c.AllowRun != nil {
		opts.AllowRun = *c.AllowRun
	}
	if c.EmitLineDirectives != nil {
		opts.EmitLineDirectives = *c.EmitLineDirectives
	}

	return opts
}

// MergeOptions holds CLI flags that override config file settings. A
// nil bool pointer means the flag was not specified on the CLI.
type MergeOptions struct {
	AllowRun           *bool
	EmitLineDirectives *bool
	NoDebugAllocator   bool
}

// Merge merges CLI options with config file options. CLI options
// override config file options when specified.
func (c *Config) Merge(cli MergeOptions) pipeline.Options {
	opts := c.ToOptions()

	if cli.AllowRun != nil {
		opts.AllowRun = *cli.AllowRun
	}
	if cli.EmitLineDirectives != nil {
		opts.EmitLineDirectives = *cli.EmitLineDirectives
	}

	return opts
}

// UsesDebugAllocator reports whether the debug allocator should be
// linked in, applying the NoDebugAllocator CLI override.
func (c *Config) UsesDebugAllocator(cli MergeOptions) bool {
	if cli.NoDebugAllocator {
		return false
	}
	if c.DebugAllocator != nil {
		return *c.DebugAllocator
	}
	return true
}
