package gen

import "github.com/dave/jennifer/jen"

var (
	// FeatureTag adds a Tag method returning the golang.org/x/text language
	// tag of each generated language.
	FeatureTag = Feature{
		Name:        "tag",
		Stage:       Stable,
		Default:     false,
		Description: "Tag adds a Tag() method returning the x/text language.Tag of the selector",
		generate:    genTag,
	}

	// FeatureNegotiate adds a function selecting the best language for an
	// Accept-Language header value.
	//
	//	lang := i18n.LangNegotiate(r.Header.Get("Accept-Language"))
	//	fmt.Fprintln(w, lang.HelloName(user))
	FeatureNegotiate = Feature{
		Name:        "negotiate",
		Stage:       Beta,
		Default:     false,
		Description: "Negotiate adds a <Name>Negotiate function matching an Accept-Language header against the generated languages",
		generate:    genNegotiate,
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureTag,
		FeatureNegotiate,
	}
	// allFeatures includes all public and private features.
	allFeatures = AllFeatures
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change or go away.
	Experimental

	// Alpha features are complete but their generated API may still change.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features are Beta features that have been in use for a while.
	Stable
)

// String implements fmt.Stringer.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the glossa codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// generate appends the feature code to the generated file.
	generate func(*Generator, *jen.File)
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range allFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}
