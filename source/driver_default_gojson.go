// Package source switches the default JSON driver to goccy/go-json when
// imported for its side effect:
//
//	import _ "github.com/reoring/changeset/source"
//
// It lives outside the root package so the root does not depend on go-json.
package source

import (
	"github.com/reoring/changeset"
	drvgojson "github.com/reoring/changeset/source/gojson"
)

func init() { changeset.SetJSONDriver(drvgojson.Driver()) }
