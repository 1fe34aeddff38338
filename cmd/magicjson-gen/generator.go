package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hengadev/errsx"

	"github.com/hengadev/magicjson/internal/codegen"
)

// Generator handles the code generation process
type Generator struct {
	config    *Config
	outputDir string
	verbose   bool
	out       io.Writer
	engine    *codegen.TemplateEngine
	validator *codegen.TagValidator
}

// NewGenerator creates a Generator. config must already be validated.
func NewGenerator(config *Config, outputDir string, verbose bool, out io.Writer) (*Generator, error) {
	engine, err := codegen.NewTemplateEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to create template engine: %w", err)
	}

	return &Generator{
		config:    config,
		outputDir: outputDir,
		verbose:   verbose,
		out:       out,
		engine:    engine,
		validator: codegen.NewTagValidator(),
	}, nil
}

func (g *Generator) logf(format string, args ...any) {
	if g.verbose {
		fmt.Fprintf(g.out, format, args...)
	}
}

// Generate writes one descriptor file per source file that declares a
// selected struct and returns the paths written. In dry-run mode nothing is
// written and the would-be paths are returned.
func (g *Generator) Generate(packages []string, dryRun bool) ([]string, error) {
	g.logf("Starting code generation for packages: %v\n", packages)
	if dryRun {
		g.logf("Running in dry-run mode\n")
	}

	var written []string
	for _, packagePath := range packages {
		if pkgConfig, exists := g.config.Packages[packagePath]; exists && pkgConfig.Skip {
			g.logf("Skipping package %s (marked as skip)\n", packagePath)
			continue
		}

		paths, err := g.generatePackage(packagePath, dryRun)
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}

	fmt.Fprintln(g.out, "Code generation complete!")
	return written, nil
}

func (g *Generator) generatePackage(packagePath string, dryRun bool) ([]string, error) {
	tag := g.config.TagFor(packagePath)
	structs, err := g.discover(packagePath, tag)
	if err != nil {
		return nil, err
	}
	g.logf("Found %d record structs in %s\n", len(structs), packagePath)
	if len(structs) == 0 {
		return nil, nil
	}

	if err := g.validate(structs, tag); err != nil {
		return nil, fmt.Errorf("invalid structs in package %s: %w", packagePath, err)
	}

	outDir := g.outputDirFor(packagePath)
	var written []string
	for _, file := range groupBySourceFile(structs) {
		data := codegen.BuildTemplateData(file.structs[0].PackageName, file.structs, g.config.Generation.ToCodegenConfig())
		code, err := g.engine.GenerateCode(data)
		if err != nil {
			return written, fmt.Errorf("failed to generate code for %s: %w", file.name, err)
		}

		outputPath := filepath.Join(outDir, strings.TrimSuffix(file.name, ".go")+g.config.Generation.OutputSuffix+".go")
		if dryRun {
			fmt.Fprintf(g.out, "Would generate: %s\n", outputPath)
			g.logf("Generated code:\n%s\n", code)
			written = append(written, outputPath)
			continue
		}

		if err := os.MkdirAll(outDir, 0755); err != nil {
			return written, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
		}
		if err := os.WriteFile(outputPath, code, 0644); err != nil {
			return written, fmt.Errorf("failed to write generated file %s: %w", outputPath, err)
		}
		g.logf("Generated: %s\n", outputPath)
		written = append(written, outputPath)
	}

	return written, nil
}

// discover returns the structs of a package, minus those whose directive
// carries skip=true.
func (g *Generator) discover(packagePath, tag string) ([]codegen.StructInfo, error) {
	structs, err := codegen.DiscoverStructs(packagePath, &codegen.DiscoveryConfig{Tag: tag})
	if err != nil {
		return nil, fmt.Errorf("failed to discover structs in package %s: %w", packagePath, err)
	}

	selected := structs[:0]
	for _, s := range structs {
		if s.GenerationOptions["skip"] == "true" {
			g.logf("Skipping struct %s (directive skip=true)\n", s.StructName)
			continue
		}
		selected = append(selected, s)
	}
	return selected, nil
}

func (g *Generator) validate(structs []codegen.StructInfo, tag string) error {
	var errs errsx.Map
	for i := range structs {
		if err := g.validator.ValidateStruct(&structs[i], tag); err != nil {
			errs.Set(structs[i].StructName, err)
		}
	}
	return errs.AsError()
}

func (g *Generator) outputDirFor(packagePath string) string {
	if g.outputDir != "" {
		return g.outputDir
	}
	if p, ok := g.config.Packages[packagePath]; ok && p.OutputDir != "" {
		return p.OutputDir
	}
	return packagePath
}

// Validate reports every selected struct of packages and returns an error
// if any field is invalid.
func (g *Generator) Validate(packages []string) error {
	failed := false
	for _, packagePath := range packages {
		g.logf("Validating package: %s\n", packagePath)

		tag := g.config.TagFor(packagePath)
		structs, err := g.discover(packagePath, tag)
		if err != nil {
			fmt.Fprintf(g.out, "✗ %v\n", err)
			failed = true
			continue
		}
		if len(structs) == 0 {
			g.logf("  No record structs found in %s\n", packagePath)
			continue
		}

		fmt.Fprintf(g.out, "Found %d record structs in %s:\n", len(structs), packagePath)
		for i := range structs {
			info := &structs[i]
			fmt.Fprintf(g.out, "  %s (%s)\n", info.StructName, info.SourceFile)

			err := g.validator.ValidateStruct(info, tag)
			if err == nil {
				fmt.Fprintf(g.out, "    ✓ All fields valid\n")
				for _, f := range info.EncodedFields() {
					g.logf("    ✓ %s.%s: %q\n", info.StructName, f.Name, f.Key)
				}
				continue
			}

			failed = true
			errs, _ := err.(errsx.Map)
			keys := make([]string, 0, len(errs))
			for k := range errs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(g.out, "    ✗ %s.%s: %v\n", info.StructName, k, errs[k])
			}
		}
	}

	if failed {
		return fmt.Errorf("validation failed with errors")
	}
	fmt.Fprintln(g.out, "\n✓ All validations passed!")
	return nil
}

type sourceFile struct {
	name    string
	structs []codegen.StructInfo
}

// groupBySourceFile keeps discovery order, which is already sorted by file.
func groupBySourceFile(structs []codegen.StructInfo) []sourceFile {
	var files []sourceFile
	for _, s := range structs {
		if n := len(files); n > 0 && files[n-1].name == s.SourceFile {
			files[n-1].structs = append(files[n-1].structs, s)
			continue
		}
		files = append(files, sourceFile{name: s.SourceFile, structs: []codegen.StructInfo{s}})
	}
	return files
}
