package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/urfave/cli/v3"
	"github.com/xyproto/env/v2"

	"github.com/vpdb/vbsc/catalog"
	"github.com/vpdb/vbsc/cmd/dev"
	"github.com/vpdb/vbsc/compiler"
	"github.com/vpdb/vbsc/host"
	"github.com/vpdb/vbsc/vbs"
)

const defaultExport = "runTableScript"

// Execute runs the vbsc CLI with the given version string.
func Execute(version string) {
	if err := newCommand(version).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func catalogFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "catalog",
		Usage: "TOML catalog of items, enums and global names",
		Value: env.Str("VBSC_CATALOG"),
	}
}

func newCommand(version string) *cli.Command {
	return &cli.Command{
		Name:                   "vbsc",
		Usage:                  "Compile VBScript table scripts to JavaScript",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log debug output",
				Value:   env.Bool("VBSC_VERBOSE"),
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "Cache compiled units in `DIR`",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			verbosity := 0
			if cmd.Bool("verbose") {
				verbosity = 2
			}
			commonlog.Configure(verbosity, nil)
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "fmt",
				Usage:     "Print the normalized source",
				ArgsUsage: "<file.vbs>",
				Action:    fmtAction,
			},
			{
				Name:      "emit",
				Usage:     "Print the generated JavaScript",
				ArgsUsage: "<file.vbs>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "export",
						Usage: "Name the compiled unit is assigned to",
						Value: defaultExport,
					},
					&cli.StringFlag{
						Name:  "container",
						Usage: "Object the compiled unit is assigned on",
					},
					catalogFlag(),
				},
				Action: emitAction,
			},
			{
				Name:      "run",
				Usage:     "Compile and run a script with stub host objects",
				ArgsUsage: "<file.vbs>",
				Flags: []cli.Flag{
					catalogFlag(),
					&cli.StringSliceFlag{
						Name:  "global",
						Usage: "Inject a global `NAME=VALUE`",
					},
					&cli.StringSliceFlag{
						Name:  "call",
						Usage: "Call a procedure after the script ran",
					},
				},
				Action: runAction,
			},
			dev.Command(),
		},
	}
}

func readSource(cmd *cli.Command) (string, string, error) {
	if cmd.NArg() < 1 {
		return "", "", fmt.Errorf("usage: vbsc %s <file.vbs>", cmd.Name)
	}
	path := cmd.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return path, string(data), nil
}

// newCompiler builds a compiler resolving against the shim library and,
// when given, the catalog file.
func newCompiler(cmd *cli.Command) (*compiler.Compiler, *catalog.Static, error) {
	c := compiler.New(compiler.Catalogs{Stdlib: vbs.Catalog()})
	if dir := cacheDir(cmd); dir != "" {
		c.Cache = compiler.NewCache(dir)
	}
	path := cmd.String("catalog")
	if path == "" {
		return c, nil, nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	c.Catalogs.Items = cat.Items()
	c.Catalogs.Enums = cat.Enums()
	c.Catalogs.Global = cat.Global()
	return c, cat, nil
}

// cacheDir is the --cache flag, or the default cache directory when
// VBSC_CACHE_DIR is set.
func cacheDir(cmd *cli.Command) string {
	if dir := cmd.String("cache"); dir != "" {
		return dir
	}
	if env.Has("VBSC_CACHE_DIR") {
		return compiler.DefaultCacheDir()
	}
	return ""
}

func fmtAction(_ context.Context, cmd *cli.Command) error {
	_, src, err := readSource(cmd)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.Root().Writer, compiler.Format(src))
	return nil
}

func emitAction(_ context.Context, cmd *cli.Command) error {
	path, src, err := readSource(cmd)
	if err != nil {
		return err
	}
	c, _, err := newCompiler(cmd)
	if err != nil {
		return err
	}
	unit, err := c.Compile(src, cmd.String("export"), cmd.String("container"))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	printWarnings(cmd.Root().ErrWriter, path, unit)
	fmt.Fprintln(cmd.Root().Writer, unit.Source)
	return nil
}

func runAction(_ context.Context, cmd *cli.Command) error {
	path, src, err := readSource(cmd)
	if err != nil {
		return err
	}
	c, cat, err := newCompiler(cmd)
	if err != nil {
		return err
	}
	var opts []host.Option
	if cat != nil {
		opts = append(opts, host.WithStubs(cat))
	}
	globals, err := parseGlobals(cmd.StringSlice("global"))
	if err != nil {
		return err
	}

	r := host.New(c, opts...)
	if err := r.SetGlobals(globals); err != nil {
		return err
	}
	if err := r.Run(src, defaultExport); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, name := range cmd.StringSlice("call") {
		v, err := r.Call(name)
		if err != nil {
			return err
		}
		if v != nil {
			fmt.Fprintf(cmd.Root().Writer, "%s: %v\n", name, v)
		}
	}
	return nil
}

// parseGlobals reads NAME=VALUE pairs. Values that parse as booleans or
// numbers are injected as such, anything else as a string.
func parseGlobals(pairs []string) (map[string]any, error) {
	globals := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid global %q: expected NAME=VALUE", p)
		}
		globals[name] = parseValue(value)
	}
	return globals, nil
}

func parseValue(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func printWarnings(w io.Writer, path string, unit *compiler.Unit) {
	warn := paint(w, colorYellow)
	for _, wr := range unit.Warnings {
		fmt.Fprintf(w, "%s %s:%d: %s\n", warn("warning:"), path, wr.Line, wr.Msg)
	}
}
