package gen

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/glossa"
	"github.com/syssam/glossa/compiler/parse"
)

// Version of the code generator. Output of different versions may differ
// for the same input.
const Version = "v0.2.0"

// Import paths referenced by the generated code.
const (
	GlossaPkg   = "github.com/syssam/glossa"
	LanguagePkg = "golang.org/x/text/language"
)

// Artifact is the generated Go source for one model.
type Artifact struct {
	// Name of the selector type.
	Name string
	// Package clause of the file.
	Package string
	// Target path the file is written to.
	Target string
	// Source is the gofmt-ed file content.
	Source []byte
}

// Generator emits the selector type and accessors of a Graph with jennifer.
// The output is a pure function of the graph.
type Generator struct {
	graph *Graph
	recv  string
}

// NewGenerator creates a generator for g.
func NewGenerator(g *Graph) *Generator {
	return &Generator{graph: g, recv: g.Receiver()}
}

// Generate renders the artifact.
func (g *Generator) Generate() (*Artifact, error) {
	var buf bytes.Buffer
	if err := g.File().Render(&buf); err != nil {
		return nil, glossa.NewGenerationError("render", g.graph.Target, "rendering generated file", err)
	}
	return &Artifact{
		Name:    g.graph.Name,
		Package: g.graph.Package,
		Target:  g.graph.Target,
		Source:  buf.Bytes(),
	}, nil
}

// Generate renders the artifact of the graph.
func (g *Graph) Generate() (*Artifact, error) {
	return NewGenerator(g).Generate()
}

// File builds the jennifer file of the graph.
func (g *Generator) File() *jen.File {
	f := g.newFile()
	g.genType(f)
	g.genLookups(f)
	g.genMethods(f)
	for _, feat := range allFeatures {
		if ok, _ := g.graph.FeatureEnabled(feat.Name); ok && feat.generate != nil {
			feat.generate(g, f)
		}
	}
	for _, k := range g.graph.Keys {
		g.genAccessor(f, k)
	}
	return f
}

// GoString returns the rendered file, or the render error text.
func (g *Generator) GoString() string {
	return g.File().GoString()
}

// newFile creates a new Jennifer file with the header comment.
func (g *Generator) newFile() *jen.File {
	f := jen.NewFile(g.graph.Package)
	f.ImportName(GlossaPkg, "glossa")
	f.ImportName(LanguagePkg, "language")
	if g.graph.Header != "" {
		f.HeaderComment(g.graph.Header)
	}
	return f
}

func (g *Generator) name() string { return g.graph.Name }

// selector returns the receiver of generated methods.
func (g *Generator) selector() *jen.Statement {
	return jen.Id(g.recv).Id(g.name())
}

// genType emits the selector type and one constant per language, in
// registration order.
func (g *Generator) genType(f *jen.File) {
	name := g.name()
	f.Commentf("%s selects the language of the translation accessors.", name)
	f.Type().Id(name).Int()
	f.Line()
	f.Const().DefsFunc(func(d *jen.Group) {
		for i, l := range g.graph.Languages {
			comment := fmt.Sprintf("%s is the %s language.", l.Const, strconv.Quote(l.ID.String()))
			if l.Fallback {
				comment = fmt.Sprintf("%s is the %s fallback language.", l.Const, strconv.Quote(l.ID.String()))
			}
			d.Comment(comment)
			if i == 0 {
				d.Id(l.Const).Id(name).Op("=").Iota()
			} else {
				d.Id(l.Const)
			}
		}
	})
	f.Line()
	f.Var().Id("_").Qual(GlossaPkg, "Language").Op("=").Id(g.graph.Fallback.Const)
}

// genLookups emits the package level helpers of the selector type.
func (g *Generator) genLookups(f *jen.File) {
	name := g.name()
	f.Commentf("%sValues returns every %s in registration order.", name, name)
	f.Func().Id(name + "Values").Params().Index().Id(name).Block(
		jen.Return(jen.Index().Id(name).ValuesFunc(func(v *jen.Group) {
			for _, l := range g.graph.Languages {
				v.Id(l.Const)
			}
		})),
	)
	f.Commentf("%sFallback returns the fallback language.", name)
	f.Func().Id(name + "Fallback").Params().Id(name).Block(
		jen.Return(jen.Id(g.graph.Fallback.Const)),
	)
	f.Commentf("%sFromID returns the %s with the given language identifier.", name, name)
	f.Func().Id(name+"FromID").Params(jen.Id("id").Qual(GlossaPkg, "LanguageID")).Params(jen.Id(name), jen.Bool()).Block(
		jen.Return(jen.Qual(GlossaPkg, "Match").Call(jen.Id(name+"Values").Call(), jen.Id("id"))),
	)
}

// genMethods emits the glossa.Language implementation.
func (g *Generator) genMethods(f *jen.File) {
	f.Comment("LanguageID returns the language identifier. Unknown values report the fallback language.")
	f.Func().Params(g.selector()).Id("LanguageID").Params().Qual(GlossaPkg, "LanguageID").Block(
		jen.Switch(jen.Id(g.recv)).BlockFunc(func(s *jen.Group) {
			for _, l := range g.graph.Languages {
				if l.Fallback {
					continue
				}
				s.Case(jen.Id(l.Const)).Block(jen.Return(jen.Lit(l.ID.String())))
			}
			s.Default().Block(jen.Return(jen.Lit(g.graph.Fallback.ID.String())))
		}),
	)
	f.Comment("String implements fmt.Stringer.")
	f.Func().Params(g.selector()).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id(g.recv).Dot("LanguageID").Call())),
	)
}

// genAccessor emits the method of one key. Each overriding language gets a
// case in registration order; every other language uses the fallback.
func (g *Generator) genAccessor(f *jen.File, k *Key) {
	params := make([]jen.Code, len(k.Params))
	for i, p := range k.Params {
		params[i] = jen.Id(p.Ident)
	}
	if len(params) > 0 {
		params[len(params)-1] = jen.Id(k.Params[len(k.Params)-1].Ident).String()
	}
	f.Commentf("%s returns the translation of %s.", k.Method, strconv.Quote(k.Name))
	f.Func().Params(g.selector()).Id(k.Method).Params(params...).String().BlockFunc(func(b *jen.Group) {
		if len(k.Overrides) == 0 {
			b.Return(expr(k, k.Fallback))
			return
		}
		b.Switch(jen.Id(g.recv)).BlockFunc(func(s *jen.Group) {
			for _, o := range k.Overrides {
				s.Case(jen.Id(o.Lang.Const)).Block(jen.Return(expr(k, o.Template)))
			}
			s.Default().Block(jen.Return(expr(k, k.Fallback)))
		})
	})
}

// expr concatenates the nodes of t in occurrence order.
func expr(k *Key, t *parse.AST) jen.Code {
	if len(t.Nodes) == 0 {
		return jen.Lit("")
	}
	s := &jen.Statement{}
	for i, n := range t.Nodes {
		if i > 0 {
			s.Op("+")
		}
		if n.Kind == parse.Placeholder {
			s.Id(k.ident(n.Value))
		} else {
			s.Lit(n.Value)
		}
	}
	return s
}

func genTag(g *Generator, f *jen.File) {
	f.Comment("Tag returns the golang.org/x/text language tag.")
	f.Func().Params(g.selector()).Id("Tag").Params().Qual(LanguagePkg, "Tag").Block(
		jen.Return(jen.Id(g.recv).Dot("LanguageID").Call().Dot("Tag").Call()),
	)
}

func genNegotiate(g *Generator, f *jen.File) {
	name := g.name()
	f.Commentf("%sNegotiate returns the %s best matching an Accept-Language header value, or the fallback language.", name, name)
	f.Func().Id(name + "Negotiate").Params(jen.Id("accept").String()).Id(name).Block(
		jen.Return(jen.Qual(GlossaPkg, "Negotiate").Call(
			jen.Id(name+"Values").Call(),
			jen.Id(name+"Fallback").Call(),
			jen.Id("accept"),
		)),
	)
}
