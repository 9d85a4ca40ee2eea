package glossa

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for every failure class of a generation run.
var (
	// ErrRead is returned when a translation source cannot be read.
	ErrRead = errors.New("glossa: source unreadable")

	// ErrFormat is returned when a source is not a flat mapping of strings.
	ErrFormat = errors.New("glossa: invalid source format")

	// ErrDuplicateLanguage is returned when a language is registered twice.
	ErrDuplicateLanguage = errors.New("glossa: duplicate language")

	// ErrMissingFallback is returned when the fallback language has no source.
	ErrMissingFallback = errors.New("glossa: missing fallback language")

	// ErrParse is returned when a template has malformed placeholder syntax.
	ErrParse = errors.New("glossa: template parse error")

	// ErrParameterMismatch is returned when a translation does not use exactly
	// the placeholders of the fallback template.
	ErrParameterMismatch = errors.New("glossa: parameter mismatch")

	// ErrInvalidKey is returned when a key cannot become an accessor.
	ErrInvalidKey = errors.New("glossa: invalid key")

	// ErrConfig is returned for invalid generator configuration.
	ErrConfig = errors.New("glossa: invalid configuration")

	// ErrGeneration is returned when the artifact cannot be produced or written.
	ErrGeneration = errors.New("glossa: code generation failed")
)

// ReadError reports a source that could not be opened or read.
type ReadError struct {
	Lang  LanguageID
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	var b strings.Builder
	b.WriteString("glossa: read error")
	writeLang(&b, e.Lang)
	if e.Path != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.Path)
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ReadError.
func (e *ReadError) Is(target error) bool {
	return target == ErrRead
}

// NewReadError creates a new ReadError.
func NewReadError(lang LanguageID, path string, cause error) *ReadError {
	return &ReadError{Lang: lang, Path: path, Cause: cause}
}

// FormatKind classifies a FormatError.
type FormatKind string

// Format violations detected by the loader.
const (
	FormatMalformed      FormatKind = "malformed"
	FormatNotAnObject    FormatKind = "not-an-object"
	FormatNestedValue    FormatKind = "nested-value"
	FormatNonStringValue FormatKind = "non-string-value"
	FormatDuplicateKey   FormatKind = "duplicate-key"
	FormatUnsupported    FormatKind = "unsupported"
)

// FormatError reports source content that is not a flat key to string mapping.
type FormatError struct {
	Lang  LanguageID
	Path  string
	Key   string // empty when the violation concerns the whole document
	Line  int    // 1-based, zero when unknown
	Kind  FormatKind
	Cause error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("glossa: format error")
	writeLang(&b, e.Lang)
	writeLocation(&b, e.Path, e.Line)
	if e.Key != "" {
		b.WriteString(" key ")
		b.WriteString(strconv.Quote(e.Key))
	}
	b.WriteString(": ")
	b.WriteString(string(e.Kind))
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *FormatError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for FormatError.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// NewFormatError creates a new FormatError.
func NewFormatError(lang LanguageID, path, key string, kind FormatKind, cause error) *FormatError {
	return &FormatError{Lang: lang, Path: path, Key: key, Kind: kind, Cause: cause}
}

// DuplicateLanguageError reports a language registered more than once.
type DuplicateLanguageError struct {
	Lang LanguageID
}

// Error implements the error interface.
func (e *DuplicateLanguageError) Error() string {
	return fmt.Sprintf("glossa: language %q is registered more than once", e.Lang)
}

// Is reports whether the target matches the sentinel error for DuplicateLanguageError.
func (e *DuplicateLanguageError) Is(target error) bool {
	return target == ErrDuplicateLanguage
}

// NewDuplicateLanguageError creates a new DuplicateLanguageError.
func NewDuplicateLanguageError(lang LanguageID) *DuplicateLanguageError {
	return &DuplicateLanguageError{Lang: lang}
}

// MissingFallbackError reports a fallback language without a registered source.
type MissingFallbackError struct {
	Fallback LanguageID
}

// Error implements the error interface.
func (e *MissingFallbackError) Error() string {
	if e.Fallback == "" {
		return "glossa: no fallback language designated"
	}
	return fmt.Sprintf("glossa: no source registered for fallback language %q", e.Fallback)
}

// Is reports whether the target matches the sentinel error for MissingFallbackError.
func (e *MissingFallbackError) Is(target error) bool {
	return target == ErrMissingFallback
}

// NewMissingFallbackError creates a new MissingFallbackError.
func NewMissingFallbackError(fallback LanguageID) *MissingFallbackError {
	return &MissingFallbackError{Fallback: fallback}
}

// ParseError reports malformed placeholder syntax in one template.
type ParseError struct {
	Lang    LanguageID
	Key     string
	Path    string
	Line    int // line of the key in Path, zero when unknown
	Offset  int // byte offset inside the template
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("glossa: parse error")
	writeLang(&b, e.Lang)
	writeLocation(&b, e.Path, e.Line)
	if e.Key != "" {
		b.WriteString(" key ")
		b.WriteString(strconv.Quote(e.Key))
	}
	b.WriteString(" at offset ")
	b.WriteString(strconv.Itoa(e.Offset))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError.
func NewParseError(lang LanguageID, key string, offset int, message string) *ParseError {
	return &ParseError{Lang: lang, Key: key, Offset: offset, Message: message}
}

// ParameterMismatchError reports a translation whose placeholders differ from
// the fallback template of the same key.
type ParameterMismatchError struct {
	Key      string
	Lang     LanguageID
	Path     string
	Line     int
	Expected []string // sorted parameter names of the fallback template
	Actual   []string // sorted parameter names of the offending template
}

// Error implements the error interface.
func (e *ParameterMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("glossa: parameter mismatch")
	writeLang(&b, e.Lang)
	writeLocation(&b, e.Path, e.Line)
	b.WriteString(" key ")
	b.WriteString(strconv.Quote(e.Key))
	if missing := e.Missing(); len(missing) > 0 {
		b.WriteString(": missing {")
		b.WriteString(strings.Join(missing, "}, {"))
		b.WriteString("}")
	}
	if unknown := e.Unknown(); len(unknown) > 0 {
		b.WriteString(": unknown {")
		b.WriteString(strings.Join(unknown, "}, {"))
		b.WriteString("}")
	}
	return b.String()
}

// Missing returns the expected parameters absent from the translation.
func (e *ParameterMismatchError) Missing() []string {
	return difference(e.Expected, e.Actual)
}

// Unknown returns the parameters of the translation the fallback does not define.
func (e *ParameterMismatchError) Unknown() []string {
	return difference(e.Actual, e.Expected)
}

// Is reports whether the target matches the sentinel error for ParameterMismatchError.
func (e *ParameterMismatchError) Is(target error) bool {
	return target == ErrParameterMismatch
}

// NewParameterMismatchError creates a new ParameterMismatchError.
func NewParameterMismatchError(key string, lang LanguageID, expected, actual []string) *ParameterMismatchError {
	return &ParameterMismatchError{Key: key, Lang: lang, Expected: expected, Actual: actual}
}

// KeyError reports a key that cannot be turned into an accessor, or that
// exists only in a non-fallback language under the strict orphan policy.
type KeyError struct {
	Key     string
	Lang    LanguageID
	Message string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	var b strings.Builder
	b.WriteString("glossa: key error")
	writeLang(&b, e.Lang)
	b.WriteString(" key ")
	b.WriteString(strconv.Quote(e.Key))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for KeyError.
func (e *KeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

// NewKeyError creates a new KeyError.
func NewKeyError(key string, lang LanguageID, message string) *KeyError {
	return &KeyError{Key: key, Lang: lang, Message: message}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("glossa: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("glossa: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// GenerationError represents a code generation or output error.
type GenerationError struct {
	Phase   string // "render", "format", "write", ...
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("glossa: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

// IsReadError reports whether the error is a ReadError.
func IsReadError(err error) bool {
	var e *ReadError
	return errors.As(err, &e)
}

// IsFormatError reports whether the error is a FormatError.
func IsFormatError(err error) bool {
	var e *FormatError
	return errors.As(err, &e)
}

// IsParseError reports whether the error is, or joins, a ParseError.
func IsParseError(err error) bool {
	var e *ParseError
	return errors.As(err, &e)
}

// IsParameterMismatch reports whether the error is a ParameterMismatchError.
func IsParameterMismatch(err error) bool {
	var e *ParameterMismatchError
	return errors.As(err, &e)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}

// ParseErrors returns every ParseError joined into err, in order.
func ParseErrors(err error) []*ParseError {
	var out []*ParseError
	var walk func(error)
	walk = func(err error) {
		switch x := err.(type) {
		case nil:
		case *ParseError:
			out = append(out, x)
		case interface{ Unwrap() []error }:
			for _, e := range x.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)
	return out
}

func writeLang(b *strings.Builder, lang LanguageID) {
	if lang != "" {
		b.WriteString(" in language ")
		b.WriteString(string(lang))
	}
}

func writeLocation(b *strings.Builder, path string, line int) {
	if path == "" {
		return
	}
	b.WriteString(" (file: ")
	b.WriteString(path)
	if line > 0 {
		b.WriteString(":")
		b.WriteString(strconv.Itoa(line))
	}
	b.WriteString(")")
}

// difference returns the elements of a not present in b. Both are sorted.
func difference(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) {
		switch {
		case j >= len(b) || a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			j++
		default:
			i++
			j++
		}
	}
	return out
}
