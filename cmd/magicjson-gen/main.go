// Command magicjson-gen writes MagicFields descriptor tables for record
// structs so the codec can skip reflective field discovery.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/hengadev/magicjson"
)

func main() {
	_ = godotenv.Load()

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "magicjson-gen: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	configFlag := cli.StringFlag{
		Name:  "config",
		Usage: "Path to configuration file",
		Value: DefaultConfigPath,
	}
	tagFlag := cli.StringFlag{
		Name:   "tag",
		Usage:  "Struct tag read before json, overrides the configuration file",
		EnvVar: magicjson.EnvFieldTag,
	}
	verboseFlag := cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "Verbose output",
	}

	app := cli.NewApp()
	app.Name = "magicjson-gen"
	app.Usage = "Generate MagicFields descriptor tables for record structs"
	app.Version = magicjson.Version
	app.Writer = out
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "Generate descriptor tables for the given packages",
			ArgsUsage: "[package dir...]",
			Flags: []cli.Flag{
				configFlag,
				tagFlag,
				verboseFlag,
				cli.StringFlag{
					Name:  "output, o",
					Usage: "Override output directory",
				},
				cli.BoolFlag{
					Name:  "dry-run",
					Usage: "Show what would be generated without writing files",
				},
			},
			Action: runGenerate,
		},
		{
			Name:      "validate",
			Usage:     "Validate configuration and struct tags",
			ArgsUsage: "[package dir...]",
			Flags:     []cli.Flag{configFlag, tagFlag, verboseFlag},
			Action:    runValidate,
		},
		{
			Name:  "init",
			Usage: "Initialize configuration file",
			Flags: []cli.Flag{
				configFlag,
				cli.BoolFlag{
					Name:  "force",
					Usage: "Overwrite existing configuration file",
				},
			},
			Action: runInit,
		},
		{
			Name:   "version",
			Usage:  "Show version information",
			Action: runVersion,
		},
	}
	return app
}

// loadConfig reads the configuration file, falling back to the defaults when
// it does not exist, and applies the --tag override.
func loadConfig(c *cli.Context) (*Config, error) {
	config, err := LoadConfig(c.String("config"))
	if errors.Is(err, os.ErrNotExist) {
		config, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if tag := c.String("tag"); tag != "" {
		config.Generation.Tag = tag
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func packagesOf(c *cli.Context) []string {
	packages := []string(c.Args())
	if len(packages) == 0 {
		packages = []string{"."}
	}
	return packages
}

func runGenerate(c *cli.Context) error {
	config, err := loadConfig(c)
	if err != nil {
		return err
	}

	generator, err := NewGenerator(config, c.String("output"), c.Bool("verbose"), c.App.Writer)
	if err != nil {
		return err
	}
	if _, err := generator.Generate(packagesOf(c), c.Bool("dry-run")); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	return nil
}

func runValidate(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "Validating configuration at %s...\n", c.String("config"))
	config, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.Bool("verbose") {
		fmt.Fprintln(c.App.Writer, "✓ Configuration is valid")
	}

	generator, err := NewGenerator(config, "", c.Bool("verbose"), c.App.Writer)
	if err != nil {
		return err
	}
	return generator.Validate(packagesOf(c))
}

func runInit(c *cli.Context) error {
	configPath := c.String("config")
	if !c.Bool("force") {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("configuration file %s already exists, use --force to overwrite", configPath)
		}
	}

	fmt.Fprintf(c.App.Writer, "Creating configuration file at %s...\n", configPath)
	if err := SaveConfig(DefaultConfig(), configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "Configuration file created!")
	return nil
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "magicjson-gen %s\n", magicjson.VersionInfo())
	fmt.Fprintln(c.App.Writer, "Descriptor table generator for magicjson records")
	fmt.Fprintln(c.App.Writer, "")
	fmt.Fprintln(c.App.Writer, "Selects structs marked //magicjson:record or carrying a magic tag.")
	fmt.Fprintf(c.App.Writer, "Default output suffix: %s\n", DefaultConfig().Generation.OutputSuffix)
	return nil
}
