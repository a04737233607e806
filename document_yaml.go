package changeset

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/changeset/internal/engine"
)

// MarshalYAML renders the document as an ordered YAML mapping.
func (d *Document) MarshalYAML() (any, error) {
	if d == nil {
		return nil, nil
	}
	return d.yamlNode()
}

// UnmarshalYAML decodes a YAML mapping keeping key order. Integers and floats
// become json.Number so documents read from YAML look like documents read
// from JSON.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	v, err := fromYAMLNode(value)
	if err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		return nil
	case *Document:
		*d = *t
		return nil
	default:
		return fmt.Errorf("line %d: expected a mapping, got %s", value.Line, value.ShortTag())
	}
}

func (d *Document) yamlNode() (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range d.keys {
		vn, err := toYAMLNode(d.values[k])
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", k, err)
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, vn)
	}
	return n, nil
}

func toYAMLNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Document:
		if t == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		}
		return t.yamlNode()
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			en, err := toYAMLNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		doc := NewDocument()
		for _, k := range keys {
			doc.Set(k, t[k])
		}
		return doc.yamlNode()
	case json.Number:
		tag := "!!float"
		if _, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(t)}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(v); err != nil {
			return nil, err
		}
		return n, nil
	}
}

// maxYAMLAliases bounds how many alias expansions one decode may perform.
const maxYAMLAliases = 10000

// yamlDecoder turns a yaml.Node tree into document values, applying the
// duplicate-key and depth rules of DecodeOpt. Issues are reported as
// engine.IssueError so they map onto the same codes as JSON input.
type yamlDecoder struct {
	opt       DecodeOpt
	expanding map[*yaml.Node]bool
	aliases   int
}

func fromYAMLNode(n *yaml.Node) (any, error) {
	return (&yamlDecoder{}).value(n, "", 0)
}

func (d *yamlDecoder) value(n *yaml.Node, path string, depth int) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.value(n.Content[0], path, depth)
	case yaml.AliasNode:
		return d.alias(n, path, depth)
	case yaml.MappingNode:
		if err := d.enter(path, depth); err != nil {
			return nil, err
		}
		doc := NewDocument()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				return nil, fmt.Errorf("line %d: merge keys are not supported", k.Line)
			}
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			kp := path + "/" + eng.EscapePointerToken(k.Value)
			if doc.Has(k.Value) {
				if err := d.duplicate(k.Value, kp); err != nil {
					return nil, err
				}
			}
			v, err := d.value(vn, kp, depth+1)
			if err != nil {
				return nil, err
			}
			doc.Set(k.Value, v)
		}
		return doc, nil
	case yaml.SequenceNode:
		if err := d.enter(path, depth); err != nil {
			return nil, err
		}
		arr := make([]any, 0, len(n.Content))
		for i, e := range n.Content {
			v, err := d.value(e, path+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	default:
		return yamlScalar(n)
	}
}

// alias expands an alias in place. An alias reachable from its own anchor
// never terminates, so it is rejected.
func (d *yamlDecoder) alias(n *yaml.Node, path string, depth int) (any, error) {
	if n.Alias == nil {
		return nil, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
	}
	if d.expanding[n.Alias] {
		return nil, eng.IssueError{SimpleIssue: eng.SimpleIssue{Code: CodeParseError, Path: rootPath(path), Message: fmt.Sprintf("line %d: alias *%s refers to itself", n.Line, n.Value)}}
	}
	d.aliases++
	if d.aliases > maxYAMLAliases {
		return nil, eng.IssueError{SimpleIssue: eng.SimpleIssue{Code: CodeParseError, Path: rootPath(path), Message: "too many alias expansions"}}
	}
	if d.expanding == nil {
		d.expanding = make(map[*yaml.Node]bool)
	}
	d.expanding[n.Alias] = true
	defer delete(d.expanding, n.Alias)
	return d.value(n.Alias, path, depth)
}

// enter checks the depth limit for a container opened at path. depth counts
// the containers enclosing it.
func (d *yamlDecoder) enter(path string, depth int) error {
	if d.opt.MaxDepth > 0 && depth+1 > d.opt.MaxDepth {
		return eng.IssueError{SimpleIssue: eng.SimpleIssue{Code: CodeParseError, Path: rootPath(path), Message: "max depth exceeded"}}
	}
	return nil
}

func (d *yamlDecoder) duplicate(key, path string) error {
	si := eng.SimpleIssue{Code: CodeDuplicateKey, Path: path, Message: "key '" + key + "' duplicated"}
	switch d.opt.Strictness.OnDuplicateKey {
	case Error:
		return eng.IssueError{SimpleIssue: si}
	case Warn:
		if d.opt.FailFast {
			return eng.IssueError{SimpleIssue: si}
		}
		if d.opt.Warnings != nil {
			d.opt.Warnings(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: -1})
		}
	}
	return nil
}

func rootPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		if n.ShortTag() == "!!int" {
			var i int64
			if err := n.Decode(&i); err == nil {
				return json.Number(strconv.FormatInt(i, 10)), nil
			}
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("line %d: %s has no JSON representation", n.Line, n.Value)
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	default:
		return n.Value, nil
	}
}
