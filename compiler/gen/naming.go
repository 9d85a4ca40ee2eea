package gen

import (
	"go/token"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"

	"github.com/syssam/glossa"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})

	// methods generated on every selector type. Keys must not map to them.
	reservedMethods = names(
		"LanguageID",
		"String",
		"Tag",
	)
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{"ID", "URL", "HTML", "JSON", "API", "UI", "FAQ", "SMS"} {
		AddAcronym(w)
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym adds a new acronym that is kept upper-cased in generated method
// names.
//
//	AddAcronym("OTP") // otp_code => OTPCode
func AddAcronym(word string) {
	acronyms[strings.ToUpper(word)] = struct{}{}
}

// pascal converts a snake_case key into a PascalCase name.
//
//	hello      => Hello
//	hello_name => HelloName
//	user_id    => UserID
//	pt-BR      => PtBR
func pascal(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		upper := strings.ToUpper(w)
		switch _, ok := acronyms[upper]; {
		case ok:
			words[i] = upper
		case w[0] < utf8.RuneSelf:
			words[i] = rules.Capitalize(w)
		default:
			r, n := utf8.DecodeRuneInString(w)
			words[i] = string(unicode.ToTitle(r)) + w[n:]
		}
	}
	return strings.Join(words, "")
}

// exported reports if s is an exported Go identifier.
func exported(s string) bool {
	if !token.IsIdentifier(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// receiver returns the receiver name for methods of the type name.
func receiver(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r))
}

// methodName returns the accessor name of a key.
func methodName(key string) (string, error) {
	m := pascal(key)
	switch {
	case !exported(m):
		return "", glossa.NewKeyError(key, "", "does not map to an exported method name")
	case isReserved(m):
		return "", glossa.NewKeyError(key, "", "method "+m+" is reserved")
	}
	return m, nil
}

func isReserved(method string) bool {
	_, ok := reservedMethods[method]
	return ok
}

// paramIdents maps placeholder names to Go parameter names. Names that are
// keywords, the blank identifier, or shadow one of the reserved identifiers
// (the receiver and the language constants) get a trailing underscore until
// unique.
func paramIdents(params []string, reserved map[string]struct{}) map[string]string {
	taken := names(params...)
	for id := range reserved {
		taken[id] = struct{}{}
	}
	idents := make(map[string]string, len(params))
	for _, p := range params {
		ident := p
		if _, ok := reserved[p]; ok || p == "_" || token.IsKeyword(p) {
			for ident = p + "_"; ; ident += "_" {
				if _, ok := taken[ident]; !ok {
					break
				}
			}
			taken[ident] = struct{}{}
		}
		idents[p] = ident
	}
	return idents
}

// Acronyms returns the registered acronyms, sorted.
func Acronyms() []string {
	words := make([]string, 0, len(acronyms))
	for w := range acronyms {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{})
	for i := range ids {
		m[ids[i]] = struct{}{}
	}
	return m
}
