// Package gen builds the translation model and generates Go accessors for it.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	load.Source per language (compiler/load)
//	        ↓
//	   NewGraph: parse templates, check keys and parameters
//	        ↓
//	   Graph (validated model)
//	        ↓
//	   Generator (jennifer)
//	        ↓
//	   Writer (goimports, skip-if-unchanged)
//
// # Key Types
//
//   - Config: Settings of one generation run, built with Option values
//   - Graph: The languages and keys of a run, immutable once built
//   - Key: One translation key with its canonical parameters
//   - Language: One registered source and its selector constant
//   - Artifact: The rendered Go file
//
// # Generated Code
//
// For the sources
//
//	en.json: {"hello": "Hello world!", "hello_name": "Hello {name}!"}
//	fr.json: {"hello": "Bonjour le monde !"}
//
// the generator emits, with the default name "Lang":
//
//	type Lang int
//
//	const (
//		LangEn Lang = iota
//		LangFr
//	)
//
//	func (l Lang) Hello() string {
//		switch l {
//		case LangFr:
//			return "Bonjour le monde !"
//		default:
//			return "Hello world!"
//		}
//	}
//
//	func (l Lang) HelloName(name string) string {
//		return "Hello " + name + "!"
//	}
//
// together with LangValues, LangFallback, LangFromID and the LanguageID and
// String methods. Optional features add more code; see AllFeatures.
//
// # Error Handling
//
// Errors are the structured types of package glossa:
//
//   - DuplicateLanguageError, MissingFallbackError: invalid registration
//   - ParseError: malformed placeholder syntax, all of them joined
//   - KeyError: a key that cannot become a method, or an orphan key
//   - ParameterMismatchError: the first translation whose placeholders differ
//   - ConfigError, GenerationError: options and output failures
//
// Example error handling:
//
//	g, err := gen.NewGraph(cfg, sources...)
//	if err != nil {
//	    for _, perr := range glossa.ParseErrors(err) {
//	        log.Printf("%s:%d: %s", perr.Path, perr.Line, perr.Message)
//	    }
//	    var mismatch *glossa.ParameterMismatchError
//	    if errors.As(err, &mismatch) {
//	        log.Printf("missing: %v, unknown: %v", mismatch.Missing(), mismatch.Unknown())
//	    }
//	}
package gen
