package gen

import (
	"errors"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/glossa"
	"github.com/syssam/glossa/compiler/load"
	"github.com/syssam/glossa/compiler/parse"
)

// Graph holds the validated translation model. It is immutable once
// NewGraph returns.
type Graph struct {
	*Config
	// Languages in registration order.
	Languages []*Language
	// Fallback points into Languages.
	Fallback *Language
	// Keys sorted by name.
	Keys []*Key
}

// parsed holds the templates of one language. Each parse task writes only
// its own slot.
type parsed struct {
	asts map[string]*parse.AST
	errs []*glossa.ParseError
}

// NewGraph validates the sources against each other and builds the model.
// The sources are given in registration order. Checks run in a fixed order:
// duplicate languages, fallback presence, template syntax (every error is
// reported), orphan and key-name checks, and parameter equality (the first
// mismatch is reported).
func NewGraph(c *Config, sources ...*load.Source) (*Graph, error) {
	langs := make([]*Language, len(sources))
	seen := make(map[glossa.LanguageID]*Language, len(sources))
	for i, src := range sources {
		if _, ok := seen[src.Lang]; ok {
			return nil, glossa.NewDuplicateLanguageError(src.Lang)
		}
		langs[i] = &Language{
			ID:       src.Lang,
			Path:     src.Path,
			Index:    i,
			Fallback: src.Lang == c.Fallback,
			Const:    c.Name + pascal(string(src.Lang)),
		}
		seen[src.Lang] = langs[i]
	}
	fallback, ok := seen[c.Fallback]
	if !ok {
		return nil, glossa.NewMissingFallbackError(c.Fallback)
	}
	if err := checkConsts(langs); err != nil {
		return nil, err
	}
	slots, err := parseAll(c, sources)
	if err != nil {
		return nil, err
	}
	g := &Graph{Config: c, Languages: langs, Fallback: fallback}
	if err := g.addKeys(sources, slots); err != nil {
		return nil, err
	}
	if err := g.checkParams(sources); err != nil {
		return nil, err
	}
	return g, nil
}

// MustNewGraph is like NewGraph but panics on error.
func MustNewGraph(c *Config, sources ...*load.Source) *Graph {
	g, err := NewGraph(c, sources...)
	if err != nil {
		panic(err)
	}
	return g
}

// Receiver returns the receiver name of the generated methods.
func (g *Graph) Receiver() string {
	return receiver(g.Name)
}

// Language returns the registered language with the given id.
func (g *Graph) Language(id glossa.LanguageID) (*Language, bool) {
	for _, l := range g.Languages {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// Key returns the key with the given name.
func (g *Graph) Key(name string) (*Key, bool) {
	i := sort.Search(len(g.Keys), func(i int) bool { return g.Keys[i].Name >= name })
	if i < len(g.Keys) && g.Keys[i].Name == name {
		return g.Keys[i], true
	}
	return nil, false
}

func checkConsts(langs []*Language) error {
	consts := make(map[string]*Language, len(langs))
	for _, l := range langs {
		if other, ok := consts[l.Const]; ok {
			return glossa.NewConfigError("Sources", l.ID, "constant "+l.Const+" collides with language "+other.ID.String())
		}
		consts[l.Const] = l
	}
	return nil
}

// parseAll parses the templates of every source in parallel. All syntax
// errors are collected, sorted by language, key and offset, and joined.
func parseAll(c *Config, sources []*load.Source) ([]parsed, error) {
	slots := make([]parsed, len(sources))
	var eg errgroup.Group
	if c.Workers > 0 {
		eg.SetLimit(c.Workers)
	}
	for i, src := range sources {
		i, src := i, src
		eg.Go(func() error {
			slot := parsed{asts: make(map[string]*parse.AST, len(src.Entries))}
			for _, e := range src.Entries {
				ast, err := parse.Parse(e.Value)
				if err != nil {
					var perr *parse.Error
					if !errors.As(err, &perr) {
						return err
					}
					pe := glossa.NewParseError(src.Lang, e.Key, perr.Offset, perr.Message)
					pe.Path, pe.Line = src.Path, e.Line
					slot.errs = append(slot.errs, pe)
					continue
				}
				slot.asts[e.Key] = ast
			}
			slots[i] = slot
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	var perrs []*glossa.ParseError
	for _, s := range slots {
		perrs = append(perrs, s.errs...)
	}
	if len(perrs) == 0 {
		return slots, nil
	}
	sort.Slice(perrs, func(i, j int) bool {
		a, b := perrs[i], perrs[j]
		if a.Lang != b.Lang {
			return a.Lang < b.Lang
		}
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return a.Offset < b.Offset
	})
	errs := make([]error, len(perrs))
	for i, pe := range perrs {
		errs[i] = pe
	}
	return nil, errors.Join(errs...)
}

type orphan struct {
	key  string
	lang *Language
}

// addKeys derives the canonical key set from the fallback language and
// attaches the overrides of the other languages.
func (g *Graph) addKeys(sources []*load.Source, slots []parsed) error {
	fb := slots[g.Fallback.Index].asts
	keys := make([]string, 0, len(fb))
	for name := range fb {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	var orphans []orphan
	for _, l := range g.Languages {
		if l.Fallback {
			continue
		}
		for name := range slots[l.Index].asts {
			if _, ok := fb[name]; !ok {
				orphans = append(orphans, orphan{key: name, lang: l})
			}
		}
	}
	sort.Slice(orphans, func(i, j int) bool {
		if orphans[i].key != orphans[j].key {
			return orphans[i].key < orphans[j].key
		}
		return orphans[i].lang.ID < orphans[j].lang.ID
	})
	for _, o := range orphans {
		if g.Orphans == OrphanError {
			return glossa.NewKeyError(o.key, o.lang.ID, "not defined by fallback language "+g.Fallback.ID.String())
		}
		g.Logger.Warn().
			Str("lang", o.lang.ID.String()).
			Str("key", o.key).
			Str("path", o.lang.Path).
			Int("line", sources[o.lang.Index].Line(o.key)).
			Msg("dropping key missing from fallback language")
	}

	methods := make(map[string]string, len(keys))
	reserved := names(g.Receiver())
	for _, l := range g.Languages {
		reserved[l.Const] = struct{}{}
	}
	for _, name := range keys {
		if !parse.IsIdent(name) {
			return glossa.NewKeyError(name, g.Fallback.ID, "not an identifier")
		}
		m, err := methodName(name)
		if err != nil {
			return err
		}
		if other, ok := methods[m]; ok {
			return glossa.NewKeyError(name, g.Fallback.ID, "method "+m+" collides with key \""+other+"\"")
		}
		methods[m] = name
		ast := fb[name]
		params := ast.Params()
		idents := paramIdents(params, reserved)
		k := &Key{Name: name, Method: m, Fallback: ast, Params: make([]Param, len(params))}
		for i, p := range params {
			k.Params[i] = Param{Name: p, Ident: idents[p]}
		}
		for _, l := range g.Languages {
			if l.Fallback {
				continue
			}
			if t, ok := slots[l.Index].asts[name]; ok {
				k.Overrides = append(k.Overrides, Override{Lang: l, Template: t})
			}
		}
		g.Keys = append(g.Keys, k)
	}
	return nil
}

// checkParams reports the first override whose parameters differ from the
// fallback, by key name and then by language id.
func (g *Graph) checkParams(sources []*load.Source) error {
	for _, k := range g.Keys {
		overrides := make([]Override, len(k.Overrides))
		copy(overrides, k.Overrides)
		sort.Slice(overrides, func(i, j int) bool { return overrides[i].Lang.ID < overrides[j].Lang.ID })
		expected := k.ParamNames()
		for _, o := range overrides {
			actual := o.Template.Params()
			if parse.SameParams(expected, actual) {
				continue
			}
			err := glossa.NewParameterMismatchError(k.Name, o.Lang.ID, expected, actual)
			err.Path, err.Line = o.Lang.Path, sources[o.Lang.Index].Line(k.Name)
			return err
		}
	}
	return nil
}
