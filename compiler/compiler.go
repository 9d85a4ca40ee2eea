// Package compiler runs the translation pipeline: it loads the registered
// sources, builds and validates the model, generates the Go accessors and
// writes them to the target file.
//
//	cfg, err := gen.NewConfig(
//		gen.WithSource("en", "locales/en.json"),
//		gen.WithSource("fr", "locales/fr.yaml"),
//		gen.WithFallback("en"),
//		gen.WithTarget("i18n/lang_gen.go"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := compiler.Generate(ctx, cfg); err != nil {
//		log.Fatal(err)
//	}
package compiler

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/glossa/compiler/cache"
	"github.com/syssam/glossa/compiler/gen"
	"github.com/syssam/glossa/compiler/load"
)

// Result describes one generation run.
type Result struct {
	// Target is the path of the generated file.
	Target string
	// Graph and Artifact are nil when the run was served from the cache.
	Graph    *gen.Graph
	Artifact *gen.Artifact
	// Changed reports if the target file was (re)written.
	Changed bool
	// Cached reports if the inputs matched the cache manifest and nothing
	// was generated.
	Cached bool
	// Duration of the run.
	Duration time.Duration
}

// Generate runs the pipeline for cfg. Nothing is written unless every
// check passes.
func Generate(ctx context.Context, cfg *gen.Config) (*Result, error) {
	return run(ctx, cfg, false)
}

// Check runs the pipeline without writing and fails with a
// glossa.GenerationError if the target is missing or out of date.
func Check(ctx context.Context, cfg *gen.Config) (*Result, error) {
	return run(ctx, cfg, true)
}

func run(ctx context.Context, cfg *gen.Config, check bool) (*Result, error) {
	start := time.Now()
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sources, err := LoadSources(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res := &Result{Target: cfg.Target}
	key := cacheKey(cfg, sources)
	if cfg.Cache != "" && !check {
		m, err := cache.Load(cfg.Cache)
		if err != nil {
			return nil, err
		}
		if m.Fresh(key, cfg.Target) {
			res.Cached = true
			res.Duration = time.Since(start)
			cfg.Logger.Debug().Str("target", cfg.Target).Msg("inputs unchanged, skipping generation")
			return res, nil
		}
	}
	g, err := gen.NewGraph(cfg, sources...)
	if err != nil {
		return nil, err
	}
	art, err := g.Generate()
	if err != nil {
		return nil, err
	}
	res.Graph, res.Artifact = g, art
	w := gen.NewWriter(cfg.Output())
	if check {
		if err := w.Check(art); err != nil {
			return nil, err
		}
		res.Duration = time.Since(start)
		return res, nil
	}
	if res.Changed, err = w.Write(art); err != nil {
		return nil, err
	}
	if cfg.Cache != "" {
		output, err := os.ReadFile(cfg.Target)
		if err != nil {
			return nil, err
		}
		if err := cache.New(key, output).Save(cfg.Cache); err != nil {
			return nil, err
		}
	}
	res.Duration = time.Since(start)
	cfg.Logger.Info().
		Str("target", cfg.Target).
		Int("languages", len(g.Languages)).
		Int("keys", len(g.Keys)).
		Bool("changed", res.Changed).
		Dur("took", res.Duration).
		Msg("generated translations")
	return res, nil
}

// LoadSources reads the registered sources in parallel and returns them in
// registration order. When several sources fail, the error of the first one
// in registration order is returned.
func LoadSources(ctx context.Context, cfg *gen.Config) ([]*load.Source, error) {
	sources := make([]*load.Source, len(cfg.Sources))
	errs := make([]error, len(cfg.Sources))
	eg, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		eg.SetLimit(cfg.Workers)
	}
	for i, src := range cfg.Sources {
		i, src := i, src
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				sources[i], errs[i] = load.Load(src.Lang, src.Path)
				return nil
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sources, nil
}

func cacheKey(cfg *gen.Config, sources []*load.Source) cache.Key {
	k := cache.Key{
		Generator: gen.Version,
		Acronyms:  gen.Acronyms(),
		Fallback:  cfg.Fallback.String(),
		Name:      cfg.Name,
		Package:   cfg.Package,
		Target:    cfg.Target,
		Header:    cfg.Header,
		Orphans:   cfg.Orphans.String(),
		Format:    cfg.Format,
	}
	for _, f := range cfg.Features {
		k.Features = append(k.Features, f.Name)
	}
	for _, s := range sources {
		k.Sources = append(k.Sources, cache.Source{Lang: s.Lang.String(), Path: s.Path, Digest: s.Digest})
	}
	return k
}
