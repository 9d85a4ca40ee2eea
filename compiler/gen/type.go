package gen

import (
	"github.com/syssam/glossa"
	"github.com/syssam/glossa/compiler/parse"
)

// The following types and their exported methods are used by the codegen
// to generate the selector type and its accessors.
type (
	// Language is one registered translation source.
	Language struct {
		// ID is the canonical language identifier.
		ID glossa.LanguageID
		// Path of the source file the translations were read from.
		Path string
		// Index is the registration order of the language.
		Index int
		// Fallback marks the fallback language.
		Fallback bool
		// Const is the name of the generated selector constant, e.g. LangEn.
		Const string
	}

	// Param is one accessor parameter.
	Param struct {
		// Name of the placeholder in the templates.
		Name string
		// Ident is the Go parameter name. It differs from Name when the
		// placeholder is a Go keyword or shadows the receiver.
		Ident string
	}

	// Override is the translation of a key by a non-fallback language.
	Override struct {
		Lang     *Language
		Template *parse.AST
	}

	// Key is one translation key, its canonical parameters and the
	// templates of every language that translates it.
	Key struct {
		// Name of the key in the sources.
		Name string
		// Method is the generated accessor name.
		Method string
		// Params are the canonical parameters sorted by name.
		Params []Param
		// Fallback is the template of the fallback language.
		Fallback *parse.AST
		// Overrides in language registration order.
		Overrides []Override
	}
)

// Template returns the template used for lang. Languages that do not
// translate the key use the fallback template.
func (k *Key) Template(lang glossa.LanguageID) *parse.AST {
	for _, o := range k.Overrides {
		if o.Lang.ID == lang {
			return o.Template
		}
	}
	return k.Fallback
}

// ParamNames returns the canonical parameter names.
func (k *Key) ParamNames() []string {
	ps := make([]string, len(k.Params))
	for i, p := range k.Params {
		ps[i] = p.Name
	}
	return ps
}

// ident returns the Go parameter name of the placeholder name.
func (k *Key) ident(name string) string {
	for _, p := range k.Params {
		if p.Name == name {
			return p.Ident
		}
	}
	return name
}

// Translated reports if lang defines its own template for the key.
func (k *Key) Translated(lang glossa.LanguageID) bool {
	for _, o := range k.Overrides {
		if o.Lang.ID == lang {
			return true
		}
	}
	return false
}
