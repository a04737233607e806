// Command changeset composes partial-update payloads from change scripts.
//
// A change script is a JSON or YAML mapping. Every nested mapping becomes a
// nested child node and every other value a leaf change, so the output is
// exactly the body a client would send for that set of changes.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

var errUsage = errors.New("usage")

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "changeset:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		usage(stderr)
		return errUsage
	}
	env := &cmdEnv{stdin: stdin, stdout: stdout, stderr: stderr}
	switch args[0] {
	case "pending":
		return pendingCmd(env, args[1:])
	case "preview":
		return previewCmd(env, args[1:])
	case "diff":
		return diffCmd(env, args[1:])
	default:
		usage(stderr)
		return errUsage
	}
}

const usageText = `changeset CLI

Usage:
  changeset pending [-format json|yaml] changes.(json|yaml)
  changeset preview -base base.json [-show-diff] changes.(json|yaml)
  changeset diff [-format json|yaml] from.json to.json

Common flags:
  -v            enable debug logs
  -strict       reject duplicate keys
  -max-bytes N  reject inputs larger than N bytes
  -lang en|ja   language of error messages
  -driver NAME  JSON token driver: go-json (default) or encoding/json

A path of - reads standard input.`

func usage(w io.Writer) { fmt.Fprintln(w, usageText) }

type cmdEnv struct {
	stdin          io.Reader
	stdout, stderr io.Writer
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	verbose  bool
	strict   bool
	maxBytes int64
	lang     string
	format   string
	driver   string
}

func newFlagSet(env *cmdEnv, name string, c *commonFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	fs.BoolVar(&c.verbose, "v", false, "enable debug logs")
	fs.BoolVar(&c.strict, "strict", false, "reject duplicate keys")
	fs.Int64Var(&c.maxBytes, "max-bytes", 0, "reject inputs larger than this many bytes (0 = unlimited)")
	fs.StringVar(&c.lang, "lang", "en", "language of error messages (en, ja)")
	fs.StringVar(&c.format, "format", "json", "output format (json, yaml)")
	fs.StringVar(&c.driver, "driver", "go-json", "JSON token driver (go-json, encoding/json)")
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}
