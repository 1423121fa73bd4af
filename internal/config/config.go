package config

import (
	"github.com/mvp-joe/polyscope/internal/extract"
)

// Config represents the complete polyscope configuration.
// It can be loaded from .polyscope/config.yml with environment variable
// overrides.
type Config struct {
	Paths      PathsConfig      `yaml:"paths" mapstructure:"paths"`
	Extraction ExtractionConfig `yaml:"extraction" mapstructure:"extraction"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// PathsConfig defines which files to extract from and which to skip.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// ExtractionConfig controls the pipeline.
type ExtractionConfig struct {
	Workers int      `yaml:"workers" mapstructure:"workers"` // concurrent files; 0 means GOMAXPROCS
	Stages  []string `yaml:"stages" mapstructure:"stages"`   // subset of symbols, identifiers, relationships, types
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Pretty bool `yaml:"pretty" mapstructure:"pretty"` // indent JSON output
}

// Default returns a configuration with sensible defaults: every supported
// source extension included, common build and dependency trees ignored, and
// the full pipeline enabled.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.py",
				"**/*.go",
				"**/*.rb",
				"**/*.rs",
				"**/*.c",
				"**/*.h",
				"**/*.java",
				"**/*.php",
				"**/*.ts",
				"**/*.tsx",
				"**/*.js",
				"**/*.jsx",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"*.min.js",
			},
		},
		Extraction: ExtractionConfig{
			Workers: 0,
			Stages:  []string{"symbols", "identifiers", "relationships", "types"},
		},
		Output: OutputConfig{
			Pretty: false,
		},
	}
}

// Stages converts the configured stage names into the pipeline selection.
// Unknown names are rejected by Validate before this is called.
func (c *Config) Stages() extract.Stages {
	var s extract.Stages
	for _, name := range c.Extraction.Stages {
		switch name {
		case "symbols":
			s.Symbols = true
		case "identifiers":
			s.Identifiers = true
		case "relationships":
			s.Relationships = true
		case "types":
			s.Types = true
		}
	}
	return s
}
