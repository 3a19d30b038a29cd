// Command kora runs the type pass over serialized ASTs produced by the
// parser front end and reports diagnostics.
//
//	kora check [--verbose] <ast.json> [<ast.json> ...]
//
// Files are checked in the order given; list imported modules before their
// importers. A kora.yaml manifest, when present, configures the build
// cache location.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/koralang/kora/internal/ast"
	"github.com/koralang/kora/internal/astjson"
	"github.com/koralang/kora/internal/buildcache"
	"github.com/koralang/kora/internal/diagnostics"
	"github.com/koralang/kora/internal/module"
	"github.com/koralang/kora/internal/pipeline"
	"github.com/koralang/kora/internal/project"
	"github.com/koralang/kora/internal/typedb"
)

const (
	colorRed   = "\033[31m"
	colorBold  = "\033[1m"
	colorReset = "\033[0m"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 || args[0] != "check" {
		fmt.Fprintln(os.Stderr, "usage: kora check [--verbose] <ast.json> ...")
		return 2
	}

	flags := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := flags.Bool("verbose", false, "print session information")
	if err := flags.Parse(args[1:]); err != nil {
		return 2
	}

	paths := flags.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "kora check: no input files")
		return 2
	}

	ctx := pipeline.NewContext(typedb.Default(), module.NewRegistry(), diagnostics.NewCollection())

	hashes := make(map[string]string)
	pathOf := make(map[string]string)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "kora check: %v\n", err)
			return 2
		}

		decoded, err := astjson.DecodeModule(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "kora check: %s: %v\n", path, err)
			return 2
		}

		sum := sha256.Sum256(data)
		hashes[decoded.Name] = hex.EncodeToString(sum[:])
		pathOf[decoded.Name] = path

		ctx.Modules = append(ctx.Modules, decoded)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "session %s: checking %d module(s)\n", ctx.Session, len(ctx.Modules))
	}

	pipeline.New(pipeline.TypeCheck{}).Run(ctx)

	recordCache(ctx, hashes, pathOf)

	printDiagnostics(ctx.Diagnostics)

	if ctx.Diagnostics.HasErrors() {
		return 1
	}
	return 0
}

// recordCache stores per-module results in the project's build cache when
// a manifest is available. Cache failures are reported but never fail the
// compile.
func recordCache(ctx *pipeline.Context, hashes, pathOf map[string]string) {
	manifest, root, err := project.Discover(".")
	if err != nil || manifest == nil {
		return
	}

	cachePath := filepath.Join(root, manifest.Cache)
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "kora check: warning: %v\n", err)
		return
	}

	cache, err := buildcache.Open(cachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kora check: warning: %v\n", err)
		return
	}
	defer cache.Close()

	perModule := countDiagnosticsPerModule(ctx)

	for _, mod := range ctx.Checked {
		entry := buildcache.Entry{
			Module:      mod.Name,
			Path:        pathOf[mod.Name],
			Hash:        hashes[mod.Name],
			Session:     ctx.Session,
			Diagnostics: perModule[mod.Name],
		}
		if err := cache.Put(entry); err != nil {
			fmt.Fprintf(os.Stderr, "kora check: warning: %v\n", err)
			return
		}
	}
}

// countDiagnosticsPerModule attributes diagnostics to modules by source
// file.
func countDiagnosticsPerModule(ctx *pipeline.Context) map[string]int {
	fileToModule := make(map[string]string)
	for _, mod := range ctx.Modules {
		fileToModule[moduleFile(mod)] = mod.Name
	}

	counts := make(map[string]int)
	for _, entry := range ctx.Diagnostics.Entries() {
		if name, ok := fileToModule[entry.Location.File]; ok {
			counts[name]++
		}
	}
	return counts
}

func moduleFile(mod *ast.Module) string {
	return mod.Loc().File
}

// printDiagnostics writes every diagnostic to stderr, with color when
// stderr is a terminal.
func printDiagnostics(diags *diagnostics.Collection) {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	for _, entry := range diags.Entries() {
		if color {
			fmt.Fprintf(
				os.Stderr,
				"%s%s%s: %s%s%s: %s\n",
				colorBold, entry.Location, colorReset,
				colorRed, entry.Code, colorReset,
				entry.Message,
			)
		} else {
			fmt.Fprintf(os.Stderr, "%s\n", entry.Error())
		}
	}
}
