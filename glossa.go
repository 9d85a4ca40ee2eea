// Package glossa holds the types shared between the translation compiler and
// the code it generates.
//
// The compiler (see package compiler) reads one flat key/template table per
// language, validates every language against a fallback language and emits a
// Go file declaring a language selector type with one accessor method per key:
//
//	//go:generate glossa -source en=locales/en.json -source fr=locales/fr.json -fallback en -package i18n
//
//	lang := i18n.LangFr
//	lang.Hello()              // "Bonjour!"
//	lang.HelloName("Rosetta") // "Hello Rosetta!", fr falls back to en
//
// Generated accessors never fail at run time: missing keys and mismatched
// placeholders are reported when the code is generated.
package glossa

import (
	"strings"

	"golang.org/x/text/language"
)

// LanguageID identifies one language of a generation run. Values produced by
// ParseLanguageID are canonical BCP 47 tags ("en", "pt-BR").
type LanguageID string

// String implements fmt.Stringer.
func (id LanguageID) String() string { return string(id) }

// Tag returns the language tag of id, or language.Und if id is not well-formed.
func (id LanguageID) Tag() language.Tag {
	tag, err := language.Parse(string(id))
	if err != nil {
		return language.Und
	}
	return tag
}

// ParseLanguageID validates s and returns its canonical form.
// Matching is case insensitive and accepts '_' as a separator.
func ParseLanguageID(s string) (LanguageID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewConfigError("Language", nil, "language identifier cannot be empty")
	}
	tag, err := language.Parse(s)
	if err != nil || tag == language.Und {
		return "", NewConfigError("Language", s, "not a valid BCP 47 language identifier")
	}
	return LanguageID(tag.String()), nil
}

// MustParseLanguageID is like ParseLanguageID but panics on error.
func MustParseLanguageID(s string) LanguageID {
	id, err := ParseLanguageID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Language is implemented by every generated selector type.
type Language interface {
	LanguageID() LanguageID
}

// Match returns the element of supported whose identifier equals id. When
// none does, a region or script qualified id ("fr-CA") falls back to its
// base language ("fr") if that one is supported.
func Match[L Language](supported []L, id LanguageID) (L, bool) {
	canonical, err := ParseLanguageID(string(id))
	if err != nil {
		return find(supported, id)
	}
	if l, ok := find(supported, canonical); ok {
		return l, true
	}
	base, conf := canonical.Tag().Base()
	if parent := LanguageID(base.String()); conf == language.Exact && parent != canonical {
		return find(supported, parent)
	}
	var zero L
	return zero, false
}

func find[L Language](supported []L, id LanguageID) (L, bool) {
	for _, l := range supported {
		if l.LanguageID() == id {
			return l, true
		}
	}
	var zero L
	return zero, false
}

// Negotiate picks the supported language that best serves an Accept-Language
// style preference list such as "fr-CH, fr;q=0.9, en;q=0.8". It returns
// fallback when nothing matches or accept cannot be parsed.
func Negotiate[L Language](supported []L, fallback L, accept string) L {
	if len(supported) == 0 {
		return fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(prefs) == 0 {
		return fallback
	}
	tags := make([]language.Tag, len(supported))
	for i, l := range supported {
		tags[i] = l.LanguageID().Tag()
	}
	_, idx, conf := language.NewMatcher(tags).Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(supported) {
		return fallback
	}
	return supported[idx]
}
