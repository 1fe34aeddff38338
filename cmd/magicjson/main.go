// Command magicjson runs the sample program and encodes, decodes and stores
// the sample record types from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/hengadev/magicjson"
	"github.com/hengadev/magicjson/store"
)

func main() {
	_ = godotenv.Load()

	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "magicjson: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	in io.Reader
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	a := &app{in: in}

	typeFlag := cli.StringFlag{
		Name:  "type, t",
		Usage: "Record type: " + strings.Join(recordKinds(), ", "),
		Value: "employee",
	}
	strictFlag := cli.BoolFlag{
		Name:  "strict",
		Usage: "Report fields that could not be resolved",
	}
	verboseFlag := cli.BoolFlag{
		Name:  "verbose, v",
		Usage: "Log every codec operation to stderr",
	}
	dbFlag := cli.StringFlag{
		Name:  "db",
		Usage: "SQLite database file or directory to store records in",
	}
	statsFlag := cli.BoolFlag{
		Name:  "stats",
		Usage: "Print collected codec metrics to stderr when done",
	}
	keyFlag := cli.StringFlag{
		Name:  "key, k",
		Usage: "Document key, a random UUID when empty",
	}

	cliApp := cli.NewApp()
	cliApp.Name = "magicjson"
	cliApp.Usage = "Encode and decode records without a parse tree"
	cliApp.Version = magicjson.Version
	cliApp.Writer = out
	cliApp.ErrWriter = errOut
	cliApp.Commands = []cli.Command{
		{
			Name:   "demo",
			Usage:  "Run the sample program",
			Flags:  []cli.Flag{verboseFlag, statsFlag},
			Action: a.demo,
		},
		{
			Name:      "decode",
			Usage:     "Decode text into a record and print it",
			ArgsUsage: "[text]",
			Flags:     []cli.Flag{typeFlag, strictFlag, verboseFlag, dbFlag, keyFlag},
			Action:    a.decode,
		},
		{
			Name:      "encode",
			Usage:     "Decode text into a record and print its canonical encoding",
			ArgsUsage: "[text]",
			Flags:     []cli.Flag{typeFlag, strictFlag, verboseFlag, dbFlag, keyFlag},
			Action:    a.encode,
		},
		{
			Name:   "get",
			Usage:  "Load a stored record",
			Flags:  []cli.Flag{typeFlag, strictFlag, verboseFlag, dbFlag, keyFlag},
			Action: a.get,
		},
		{
			Name:  "list",
			Usage: "List stored records",
			Flags: []cli.Flag{
				dbFlag,
				cli.StringFlag{Name: "type, t", Usage: "Only list this record type"},
			},
			Action: a.list,
		},
	}
	return cliApp
}

// newCodec builds a codec from the MAGICJSON_* environment, then applies the
// command line flags on top.
func newCodec(c *cli.Context, opts ...magicjson.Option) (*magicjson.Codec, error) {
	cfg, err := magicjson.LoadConfigFromEnvironment()
	if err != nil {
		return nil, err
	}
	if c.Bool("strict") {
		cfg.Strict = true
	}
	if c.Bool("verbose") {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}
	cfg.LogOutput = c.App.ErrWriter
	return magicjson.New(append([]magicjson.Option{magicjson.WithConfig(cfg)}, opts...)...)
}

func openStore(c *cli.Context, codec *magicjson.Codec) (*store.Store, error) {
	path := c.String("db")
	if path == "" {
		return nil, fmt.Errorf("--db is required")
	}
	return store.Open(path, codec)
}

// input returns the first argument, or everything on stdin.
func (a *app) input(c *cli.Context) (string, error) {
	if c.NArg() > 0 {
		return c.Args().First(), nil
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (a *app) demo(c *cli.Context) error {
	var opts []magicjson.Option
	collector := magicjson.NewInMemoryMetricsCollector()
	if c.Bool("stats") {
		opts = append(opts, magicjson.WithMetricsCollector(collector))
	}
	codec, err := newCodec(c, opts...)
	if err != nil {
		return err
	}
	if err := runDemo(c.App.Writer, codec); err != nil {
		return err
	}
	if c.Bool("stats") {
		printStats(c.App.ErrWriter, collector.Snapshot())
	}
	return nil
}

func printStats(w io.Writer, summaries []magicjson.MetricSummary) {
	for _, s := range summaries {
		switch {
		case s.Timings > 0:
			fmt.Fprintf(w, "%s timings=%d total=%s\n", s.Key, s.Timings, s.TotalTime)
		case s.Values > 0:
			fmt.Fprintf(w, "%s values=%d sum=%g\n", s.Key, s.Values, s.Sum)
		default:
			fmt.Fprintf(w, "%s count=%d\n", s.Key, s.Count)
		}
	}
}

// read decodes the input into a new record of the selected type. In strict
// mode the unresolved fields are listed and returned as the error, after the
// partially filled record has been printed by the caller.
func (a *app) read(c *cli.Context, codec *magicjson.Codec) (any, error) {
	record, err := newRecord(c.String("type"))
	if err != nil {
		return nil, err
	}
	text, err := a.input(c)
	if err != nil {
		return nil, err
	}
	return record, codec.Decode(text, record)
}

func (a *app) decode(c *cli.Context) error {
	return a.transform(c, func(codec *magicjson.Codec, record any) string {
		return fmt.Sprintf("%+v", record)
	})
}

func (a *app) encode(c *cli.Context) error {
	return a.transform(c, func(codec *magicjson.Codec, record any) string {
		return codec.Encode(record)
	})
}

func (a *app) transform(c *cli.Context, render func(*magicjson.Codec, any) string) error {
	codec, err := newCodec(c)
	if err != nil {
		return err
	}

	record, decodeErr := a.read(c, codec)
	if record == nil {
		return decodeErr
	}
	fmt.Fprintln(c.App.Writer, render(codec, record))
	if decodeErr != nil {
		reportFields(c.App.ErrWriter, decodeErr)
		return decodeErr
	}

	if c.String("db") == "" {
		return nil
	}
	s, err := openStore(c, codec)
	if err != nil {
		return err
	}
	defer s.Close()

	key, err := s.Put(context.Background(), c.String("type"), c.String("key"), record)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.ErrWriter, "stored %s/%s\n", c.String("type"), key)
	return nil
}

func (a *app) get(c *cli.Context) error {
	codec, err := newCodec(c)
	if err != nil {
		return err
	}
	s, err := openStore(c, codec)
	if err != nil {
		return err
	}
	defer s.Close()

	kind, key := c.String("type"), c.String("key")
	if key == "" {
		return fmt.Errorf("--key is required")
	}
	record, err := newRecord(kind)
	if err != nil {
		return err
	}

	err = s.Get(context.Background(), kind, key, record)
	if magicjson.IsNotFound(err) || magicjson.IsInvalidTarget(err) {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%+v\n", record)
	if err != nil {
		reportFields(c.App.ErrWriter, err)
	}
	return err
}

func (a *app) list(c *cli.Context) error {
	s, err := openStore(c, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.List(context.Background(), c.String("type"))
	if err != nil {
		return err
	}
	for _, doc := range docs {
		fmt.Fprintf(c.App.Writer, "%s/%s %s\n", doc.Kind, doc.Key, doc.Body)
	}
	return nil
}

// reportFields prints a strict decode report one field per line.
func reportFields(w io.Writer, err error) {
	fields, ok := magicjson.FieldErrors(err)
	if !ok {
		return
	}
	paths := make([]string, 0, len(fields))
	for path := range fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(w, "  %s: %v\n", path, fields[path])
	}
}
