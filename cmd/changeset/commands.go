package main

import (
	"fmt"
	"io"

	"github.com/reoring/changeset"
	"github.com/reoring/changeset/i18n"
	"github.com/reoring/changeset/patch"
	drvgojson "github.com/reoring/changeset/source/gojson"
)

func pendingCmd(env *cmdEnv, args []string) error {
	var c commonFlags
	fs := newFlagSet(env, "pending", &c)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	ld, err := c.loader(env)
	if err != nil {
		return err
	}
	script, err := ld.document(fs.Arg(0))
	if err != nil {
		return err
	}
	n := nodeFromScript(script)
	ld.log.Debug("composed pending changes", "path", fs.Arg(0), "members", script.Len(), "pending", n.HasPendingChanges())
	return writeDocument(env.stdout, c.format, n.PendingDocument())
}

func previewCmd(env *cmdEnv, args []string) error {
	var c commonFlags
	var base string
	var showDiff bool
	fs := newFlagSet(env, "preview", &c)
	fs.StringVar(&base, "base", "", "full server document the changes apply to")
	fs.BoolVar(&showDiff, "show-diff", false, "print a line diff against the baseline instead of the merged document")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if base == "" || fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	ld, err := c.loader(env)
	if err != nil {
		return err
	}
	baseline, err := ld.read(base)
	if err != nil {
		return err
	}
	// Validate the baseline with the same options as the script.
	if _, err := ld.decode(base, baseline); err != nil {
		return err
	}
	script, err := ld.document(fs.Arg(0))
	if err != nil {
		return err
	}
	merged, err := patch.ApplyNode(baseline, nodeFromScript(script))
	if err != nil {
		return err
	}
	doc, err := changeset.DecodeJSON(merged)
	if err != nil {
		return err
	}
	ld.log.Debug("previewed merge", "base", base, "changes", fs.Arg(0), "bytes", len(merged))
	if showDiff {
		out, err := doc.MarshalJSON()
		if err != nil {
			return err
		}
		d, err := lineDiff(baseline, out)
		if err != nil {
			return err
		}
		_, err = io.WriteString(env.stdout, d)
		return err
	}
	return writeDocument(env.stdout, c.format, doc)
}

func diffCmd(env *cmdEnv, args []string) error {
	var c commonFlags
	fs := newFlagSet(env, "diff", &c)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errUsage
	}
	ld, err := c.loader(env)
	if err != nil {
		return err
	}
	from, err := ld.jsonBytes(fs.Arg(0))
	if err != nil {
		return err
	}
	to, err := ld.jsonBytes(fs.Arg(1))
	if err != nil {
		return err
	}
	doc, err := patch.Between(from, to)
	if err != nil {
		return err
	}
	if doc == nil {
		ld.log.Info("documents are equal", "from", fs.Arg(0), "to", fs.Arg(1))
		return nil
	}
	n := changeset.New()
	patch.Record(n, doc)
	return writeDocument(env.stdout, c.format, n.PendingDocument())
}

// nodeFromScript records every member of a change script on a fresh node.
// Nested mappings become nested children.
func nodeFromScript(doc *changeset.Document) *changeset.Node {
	n := changeset.New()
	for k, v := range doc.All() {
		switch t := v.(type) {
		case *changeset.Document:
			n.RecordNested(k, nodeFromScript(t))
		case bool:
			n.RecordBool(k, t)
		case string:
			n.RecordString(k, t)
		default:
			n.RecordValue(k, v)
		}
	}
	return n
}

func (c commonFlags) loader(env *cmdEnv) (*loader, error) {
	switch c.driver {
	case "go-json":
		changeset.SetJSONDriver(drvgojson.Driver())
	case "encoding/json":
		changeset.UseDefaultJSONDriver()
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", errUsage, c.driver)
	}
	i18n.SetLanguage(c.lang)
	opt := changeset.DecodeOpt{MaxBytes: c.maxBytes}
	log := newLogger(env.stderr, c.verbose)
	if c.strict {
		opt.Strictness.OnDuplicateKey = changeset.Error
	} else {
		opt.Strictness.OnDuplicateKey = changeset.Warn
		opt.Warnings = func(is changeset.Issue) {
			log.Warn("duplicate key, last value wins", "path", is.Path)
		}
	}
	return &loader{env: env, opt: opt, log: log}, nil
}

func formatError(format string) error {
	return fmt.Errorf("%w: unknown format %q", errUsage, format)
}
