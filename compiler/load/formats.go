package load

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/syssam/glossa"
)

var errInvalidJSON = errors.New("invalid JSON document")

func (d *decoder) json(data []byte) error {
	if !gjson.ValidBytes(data) {
		return d.errorAt("", 0, glossa.FormatMalformed, errInvalidJSON)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return d.errorAt("", 0, glossa.FormatNotAnObject, fmt.Errorf("document root is %s", jsonKind(root)))
	}
	var err error
	root.ForEach(func(k, v gjson.Result) bool {
		idx := k.Index
		if idx == 0 {
			idx = v.Index
		}
		key, line := k.String(), lineAt(data, idx)
		switch {
		case v.Type == gjson.String:
			err = d.add(key, v.String(), line)
		case v.IsObject() || v.IsArray():
			err = d.errorAt(key, line, glossa.FormatNestedValue, fmt.Errorf("value is %s", jsonKind(v)))
		default:
			err = d.errorAt(key, line, glossa.FormatNonStringValue, fmt.Errorf("value is %s", jsonKind(v)))
		}
		return err == nil
	})
	return err
}

func jsonKind(r gjson.Result) string {
	switch {
	case r.IsObject():
		return "an object"
	case r.IsArray():
		return "an array"
	case r.Type == gjson.String:
		return "a string"
	case r.Type == gjson.Number:
		return "a number"
	case r.Type == gjson.True, r.Type == gjson.False:
		return "a boolean"
	default:
		return "null"
	}
}

// lineAt returns the 1-based line of byte offset idx, zero when idx is unknown.
func lineAt(data []byte, idx int) int {
	if idx <= 0 || idx > len(data) {
		return 0
	}
	return bytes.Count(data[:idx], []byte{'\n'}) + 1
}

func (d *decoder) yaml(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return d.errorAt("", 0, glossa.FormatMalformed, err)
	}
	// An empty document holds no keys.
	if doc.Kind == 0 {
		return nil
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return d.errorAt("", root.Line, glossa.FormatNotAnObject, fmt.Errorf("document root is %s", yamlKind(root)))
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || k.Tag != "!!str" {
			return d.errorAt(k.Value, k.Line, glossa.FormatNonStringValue, fmt.Errorf("key is %s", yamlKind(k)))
		}
		for v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		switch {
		case v.Kind == yaml.ScalarNode && v.Tag == "!!str":
			if err := d.add(k.Value, v.Value, k.Line); err != nil {
				return err
			}
		case v.Kind == yaml.MappingNode || v.Kind == yaml.SequenceNode:
			return d.errorAt(k.Value, k.Line, glossa.FormatNestedValue, fmt.Errorf("value is %s", yamlKind(v)))
		default:
			return d.errorAt(k.Value, k.Line, glossa.FormatNonStringValue, fmt.Errorf("value is %s", yamlKind(v)))
		}
	}
	return nil
}

func yamlKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar tagged " + n.Tag
	default:
		return "not a scalar"
	}
}

func (d *decoder) toml(data []byte) error {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return d.errorAt("", tomlLine(err), glossa.FormatMalformed, err)
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := doc[k].(type) {
		case string:
			if err := d.add(k, v, 0); err != nil {
				return err
			}
		case map[string]any, []any:
			return d.errorAt(k, 0, glossa.FormatNestedValue, fmt.Errorf("value is a %T", v))
		default:
			return d.errorAt(k, 0, glossa.FormatNonStringValue, fmt.Errorf("value is a %T", v))
		}
	}
	return nil
}

func tomlLine(err error) int {
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, _ := derr.Position()
		return row
	}
	return 0
}
