package gen

import (
	"go/token"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/syssam/glossa"
)

// Defaults applied by Config.Defaults.
const (
	DefaultName    = "Lang"
	DefaultPackage = "i18n"
	DefaultHeader  = "Code generated by glossa. DO NOT EDIT."
)

// OrphanPolicy decides what happens to keys that a non-fallback language
// defines but the fallback language does not.
type OrphanPolicy int

const (
	// OrphanWarn drops orphan keys and logs a warning for each.
	OrphanWarn OrphanPolicy = iota
	// OrphanError fails the generation on the first orphan key.
	OrphanError
)

// String implements fmt.Stringer.
func (p OrphanPolicy) String() string {
	if p == OrphanError {
		return "error"
	}
	return "warn"
}

// SourceSpec registers one translation source.
type SourceSpec struct {
	Lang glossa.LanguageID
	Path string
}

// Config holds the configuration of one generation run.
type Config struct {
	// Sources in registration order. The order of the generated
	// language constants follows it.
	Sources []SourceSpec
	// Fallback is the language whose keys and parameters are canonical.
	Fallback glossa.LanguageID
	// Name of the generated selector type. Defaults to "Lang".
	Name string
	// Package clause of the generated file.
	Package string
	// Target is the output file path. Defaults to "<name>_gen.go".
	Target string
	// Header is the comment placed at the top of the generated file.
	Header string
	// Features enabled for this run.
	Features []Feature
	// Orphans is the policy for keys missing from the fallback language.
	Orphans OrphanPolicy
	// Format runs goimports over the generated file before writing it.
	Format bool
	// Workers bounds the number of languages loaded and parsed concurrently.
	Workers int
	// Cache is the path of the generation cache manifest. Empty disables it.
	Cache string
	// Logger receives warnings and progress events.
	Logger zerolog.Logger
}

// OutputConfig groups the settings used by the output sink.
type OutputConfig struct {
	Target  string
	Package string
	Name    string
	Header  string
	Format  bool
}

// Output returns the output settings.
func (c *Config) Output() OutputConfig {
	return OutputConfig{
		Target:  c.Target,
		Package: c.Package,
		Name:    c.Name,
		Header:  c.Header,
		Format:  c.Format,
	}
}

// Languages returns the registered languages in registration order.
func (c *Config) Languages() []glossa.LanguageID {
	ids := make([]glossa.LanguageID, len(c.Sources))
	for i, s := range c.Sources {
		ids[i] = s.Lang
	}
	return ids
}

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	for _, f := range allFeatures {
		if name != f.Name {
			continue
		}
		for _, e := range c.Features {
			if e.Name == name {
				return true, nil
			}
		}
		return f.Default, nil
	}
	return false, glossa.NewConfigError("Features", name, "unknown feature")
}

// Defaults fills the unset optional fields.
func (c *Config) Defaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Target == "" {
		c.Target = strings.ToLower(c.Name) + "_gen.go"
	}
	if c.Package == "" {
		c.Package = packageOf(c.Target)
	}
	if c.Header == "" {
		c.Header = DefaultHeader
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// packageOf guesses the package name from the directory of target.
func packageOf(target string) string {
	dir, err := filepath.Abs(filepath.Dir(target))
	if err != nil {
		return DefaultPackage
	}
	name := filepath.Base(dir)
	if token.IsIdentifier(name) && !token.IsKeyword(name) && strings.ToLower(name) == name {
		return name
	}
	return DefaultPackage
}

// Validate checks the configuration before any source is read. Duplicate
// languages are reported before a missing fallback.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return glossa.NewConfigError("Sources", nil, "at least one translation source is required")
	}
	if !token.IsIdentifier(c.Name) || !unicode.IsUpper([]rune(c.Name)[0]) {
		return glossa.NewConfigError("Name", c.Name, "selector type name must be an exported Go identifier")
	}
	if !token.IsIdentifier(c.Package) || token.IsKeyword(c.Package) || c.Package == "_" {
		return glossa.NewConfigError("Package", c.Package, "not a valid Go package name")
	}
	seen := make(map[glossa.LanguageID]struct{}, len(c.Sources))
	for _, s := range c.Sources {
		if _, ok := seen[s.Lang]; ok {
			return glossa.NewDuplicateLanguageError(s.Lang)
		}
		seen[s.Lang] = struct{}{}
		if s.Path == "" {
			return glossa.NewConfigError("Sources", s.Lang, "source path cannot be empty")
		}
	}
	if c.Fallback == "" {
		return glossa.NewMissingFallbackError("")
	}
	if _, ok := seen[c.Fallback]; !ok {
		return glossa.NewMissingFallbackError(c.Fallback)
	}
	for _, f := range c.Features {
		if _, err := c.FeatureEnabled(f.Name); err != nil {
			return err
		}
	}
	return nil
}
