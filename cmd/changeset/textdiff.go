package main

import (
	"bytes"
	"strings"

	j "github.com/goccy/go-json"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// lineDiff renders a line-oriented diff of two JSON documents after
// indenting both. Unchanged lines are prefixed with two spaces, removed
// lines with "- " and added lines with "+ ".
func lineDiff(before, after []byte) (string, error) {
	var a, b bytes.Buffer
	if err := j.Indent(&a, before, "", "  "); err != nil {
		return "", err
	}
	if err := j.Indent(&b, after, "", "  "); err != nil {
		return "", err
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a.String()+"\n", b.String()+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String(), nil
}
