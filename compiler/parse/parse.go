// Package parse tokenizes translation templates.
//
// A template is literal text mixed with {identifier} placeholders. There is
// no escaping: a '{' always opens a placeholder and a '}' outside of one is
// an error.
package parse

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is the kind of a template node.
type Kind uint8

// Node kinds.
const (
	Text Kind = iota + 1
	Placeholder
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Placeholder:
		return "placeholder"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is one element of a parsed template. For Text nodes Value is the
// literal text, for Placeholder nodes it is the placeholder name.
type Node struct {
	Kind   Kind
	Value  string
	Offset int // byte offset of the node in the raw template
}

// AST is a parsed template. Nodes keep every placeholder occurrence in
// template order; adjacent literal runs are merged.
type AST struct {
	Raw   string
	Nodes []Node
}

// Error is a syntax error at a byte offset of the template.
type Error struct {
	Offset  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
}

// Parse tokenizes raw.
func Parse(raw string) (*AST, error) {
	t := &AST{Raw: raw}
	var lit strings.Builder
	litStart := 0
	flush := func() {
		if lit.Len() > 0 {
			t.Nodes = append(t.Nodes, Node{Kind: Text, Value: lit.String(), Offset: litStart})
			lit.Reset()
		}
	}
	for i := 0; i < len(raw); {
		switch c := raw[i]; c {
		case '{':
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return nil, &Error{Offset: i, Message: "unclosed placeholder"}
			}
			name := raw[i+1 : i+1+end]
			if err := checkIdent(name, i+1); err != nil {
				return nil, err
			}
			flush()
			t.Nodes = append(t.Nodes, Node{Kind: Placeholder, Value: name, Offset: i})
			i += end + 2
			litStart = i
		case '}':
			return nil, &Error{Offset: i, Message: "unexpected '}' outside of a placeholder"}
		default:
			if lit.Len() == 0 {
				litStart = i
			}
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) *AST {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// checkIdent reports the first offending byte of name, offset being the
// position of name in the template.
func checkIdent(name string, offset int) error {
	if name == "" {
		return &Error{Offset: offset - 1, Message: "empty placeholder"}
	}
	for i, w := 0, 0; i < len(name); i += w {
		r, width := utf8.DecodeRuneInString(name[i:])
		w = width
		switch {
		case r == '{':
			return &Error{Offset: offset + i, Message: "nested '{' inside a placeholder"}
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r):
			if i == 0 {
				return &Error{Offset: offset + i, Message: fmt.Sprintf("placeholder %q starts with a digit", name)}
			}
		default:
			return &Error{Offset: offset + i, Message: fmt.Sprintf("invalid character %q in placeholder %q", r, name)}
		}
	}
	return nil
}

// IsIdent reports whether s is a valid placeholder name.
func IsIdent(s string) bool {
	return checkIdent(s, 0) == nil
}

// Params returns the distinct placeholder names of the template, sorted.
func (t *AST) Params() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, n := range t.Nodes {
		if n.Kind != Placeholder {
			continue
		}
		if _, ok := seen[n.Value]; ok {
			continue
		}
		seen[n.Value] = struct{}{}
		names = append(names, n.Value)
	}
	sort.Strings(names)
	return names
}

// Occurrences returns the placeholder names in template order, repeats included.
func (t *AST) Occurrences() []string {
	var names []string
	for _, n := range t.Nodes {
		if n.Kind == Placeholder {
			names = append(names, n.Value)
		}
	}
	return names
}

// IsLiteral reports whether the template has no placeholder.
func (t *AST) IsLiteral() bool {
	for _, n := range t.Nodes {
		if n.Kind == Placeholder {
			return false
		}
	}
	return true
}

// Render substitutes values into the template in occurrence order.
// A placeholder without a value renders as the empty string.
func (t *AST) Render(values map[string]string) string {
	var b strings.Builder
	for _, n := range t.Nodes {
		if n.Kind == Placeholder {
			b.WriteString(values[n.Value])
		} else {
			b.WriteString(n.Value)
		}
	}
	return b.String()
}

// String returns the template text, which Parse maps back to an equal AST.
func (t *AST) String() string {
	var b strings.Builder
	for _, n := range t.Nodes {
		if n.Kind == Placeholder {
			b.WriteByte('{')
			b.WriteString(n.Value)
			b.WriteByte('}')
		} else {
			b.WriteString(n.Value)
		}
	}
	return b.String()
}

// SameParams reports whether a and b are equal sorted name sets.
func SameParams(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
