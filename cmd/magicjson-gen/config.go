package main

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hengadev/errsx"
	"gopkg.in/yaml.v3"

	"github.com/hengadev/magicjson/internal/codegen"
)

// DefaultConfigPath is read when no -config flag is given.
const DefaultConfigPath = "magicjson.yaml"

// Config represents the configuration for the code generator
type Config struct {
	Version    string                   `yaml:"version"`
	Generation GenerationConfig         `yaml:"generation"`
	Packages   map[string]PackageConfig `yaml:"packages"`
}

// GenerationConfig holds general generation settings
type GenerationConfig struct {
	OutputSuffix string `yaml:"output_suffix"`
	ImportPath   string `yaml:"import_path"`
	Tag          string `yaml:"tag"`
}

// PackageConfig holds per-package overrides
type PackageConfig struct {
	OutputDir string `yaml:"output_dir"`
	Tag       string `yaml:"tag"`
	Skip      bool   `yaml:"skip"`
}

// LoadConfig reads a YAML config file. Missing settings stay empty until
// Validate fills them in.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := &Config{Packages: map[string]PackageConfig{}}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return config, nil
}

// SaveConfig writes config as YAML to path.
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// DefaultConfig is written by the init command and used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Generation: GenerationConfig{
			OutputSuffix: "_magic",
			ImportPath:   codegen.DefaultImportPath,
			Tag:          codegen.DefaultTag,
		},
		Packages: make(map[string]PackageConfig),
	}
}

// Validate fills in optional settings and reports every invalid one, keyed by
// its YAML path.
func (c *Config) Validate() error {
	var errs errsx.Map

	if c.Version == "" {
		c.Version = "1"
	}
	if c.Generation.ImportPath == "" {
		c.Generation.ImportPath = codegen.DefaultImportPath
	}
	if c.Generation.Tag == "" {
		c.Generation.Tag = codegen.DefaultTag
	}

	if c.Generation.OutputSuffix == "" {
		errs.Set("generation.output_suffix", "cannot be empty")
	} else if !isValidOutputSuffix(c.Generation.OutputSuffix) {
		errs.Set("generation.output_suffix", "must start with underscore or letter and contain no path separator")
	}

	if !isValidGoIdentifier(c.Generation.Tag) {
		errs.Set("generation.tag", "must be a valid Go identifier")
	}

	for pkg, pkgConfig := range c.Packages {
		if pkgConfig.Tag != "" && !isValidGoIdentifier(pkgConfig.Tag) {
			errs.Set("packages."+pkg+".tag", "must be a valid Go identifier")
		}
	}

	return errs.AsError()
}

// TagFor returns the struct tag used for a package.
func (c *Config) TagFor(pkg string) string {
	if p, ok := c.Packages[pkg]; ok && p.Tag != "" {
		return p.Tag
	}
	return c.Generation.Tag
}

// isValidGoIdentifier reports whether s can name a struct tag key: a letter
// or underscore followed by letters, digits or underscores.
func isValidGoIdentifier(s string) bool {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}

// isValidOutputSuffix reports whether s can be appended to a file base name.
func isValidOutputSuffix(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}

// ToCodegenConfig returns the settings the code generator reads.
func (gc GenerationConfig) ToCodegenConfig() codegen.GenerationConfig {
	return codegen.GenerationConfig{
		OutputSuffix: gc.OutputSuffix,
		ImportPath:   gc.ImportPath,
		Tag:          gc.Tag,
	}
}
