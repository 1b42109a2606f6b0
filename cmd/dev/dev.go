// Package dev implements developer tooling subcommands for vbsc.
package dev

import (
	"context"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v3"

	"github.com/vpdb/vbsc/catalog"
	"github.com/vpdb/vbsc/vbs"
)

// Command returns the "dev" CLI command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Developer tools for vbsc",
		Commands: []*cli.Command{
			stdlibCommand(),
			checkCommand(),
		},
	}
}

func stdlibCommand() *cli.Command {
	return &cli.Command{
		Name:   "stdlib",
		Usage:  "Print the standard library names as a TOML catalog",
		Action: stdlibAction,
	}
}

// stdlibCatalog lists the shim functions and the Err object in the
// [global] layout catalog files use.
func stdlibCatalog() map[string]map[string][]string {
	globals := map[string][]string{vbs.ErrObject: vbs.ErrProperties}
	for _, name := range vbs.Names() {
		globals[name] = []string{}
	}
	return map[string]map[string][]string{"global": globals}
}

func stdlibAction(_ context.Context, cmd *cli.Command) error {
	return toml.NewEncoder(cmd.Root().Writer).Encode(stdlibCatalog())
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate a catalog file and report names clashing with the standard library",
		ArgsUsage: "<catalog.toml>",
		Action:    checkAction,
	}
}

func checkAction(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: vbsc dev check <catalog.toml>")
	}
	path := cmd.Args().First()
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	stdlib := vbs.Catalog()
	clashes := 0
	// items resolve before the standard library, globals after it
	for _, name := range keys(cat.Elements) {
		if canonical, ok := stdlib.ResolveName(name); ok {
			fmt.Fprintf(w, "%s: item %s shadows %s\n", path, name, canonical)
			clashes++
		}
	}
	for _, name := range keys(cat.Globals) {
		if canonical, ok := stdlib.ResolveName(name); ok {
			fmt.Fprintf(w, "%s: global %s is hidden by %s\n", path, name, canonical)
			clashes++
		}
	}
	fmt.Fprintf(w, "%s: %d items, %d enums, %d globals, %d clashes\n",
		path, len(cat.Elements), len(cat.EnumValues), len(cat.Globals), clashes)
	return nil
}

func keys(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
