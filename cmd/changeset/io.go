package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/changeset"
)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loader reads documents with the decode options chosen on the command line.
type loader struct {
	env *cmdEnv
	opt changeset.DecodeOpt
	log *slog.Logger
}

func (l *loader) read(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(l.env.stdin)
	}
	return os.ReadFile(path)
}

// decode picks YAML for .yaml and .yml files and for input that does not
// start with an object brace; everything else is decoded as JSON.
func (l *loader) decode(path string, data []byte) (*changeset.Document, error) {
	if isYAML(path, data) {
		l.log.Debug("decoding yaml", "path", path)
		return changeset.DecodeYAML(data, l.opt)
	}
	l.log.Debug("decoding json", "path", path, "driver", changeset.CurrentJSONDriver().Name())
	return changeset.DecodeJSON(data, l.opt)
}

func (l *loader) document(path string) (*changeset.Document, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}
	return l.decode(path, data)
}

// jsonBytes loads path and returns it as JSON text.
func (l *loader) jsonBytes(path string) ([]byte, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}
	doc, err := l.decode(path, data)
	if err != nil {
		return nil, err
	}
	if isYAML(path, data) {
		return doc.MarshalJSON()
	}
	return data, nil
}

func isYAML(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	case ".json":
		return false
	}
	return !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// writeDocument prints doc. A nil document prints nothing, matching an
// update request without a body.
func writeDocument(w io.Writer, format string, doc *changeset.Document) error {
	if format != "json" && format != "yaml" {
		return formatError(format)
	}
	if doc == nil {
		return nil
	}
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	b, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
