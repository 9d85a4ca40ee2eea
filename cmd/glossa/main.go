// glossa generates type-safe Go accessors for translation tables.
//
// Usage:
//
//	glossa -source en=locales/en.json -source fr=locales/fr.yaml -fallback en -o i18n/lang_gen.go
//
// Every flag can also be set through a GLOSSA_* environment variable, a
// .env file in the working directory, or a glossa.yaml config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/syssam/glossa"
	"github.com/syssam/glossa/compiler"
	"github.com/syssam/glossa/compiler/gen"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "glossa: loading .env: %v\n", err)
		os.Exit(2)
	}
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "glossa: %v\n", err)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Run executes the glossa command.
func Run(ctx context.Context, cfg Config, out, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	logger, err := newLogger(errOut, cfg.LogLevel)
	if err != nil {
		return err
	}
	c, err := cfg.generatorConfig(logger)
	if err != nil {
		return err
	}
	switch {
	case cfg.Render != "":
		return render(ctx, c, cfg.Render, cfg.Args, out)
	case cfg.Check:
		if _, err := compiler.Check(ctx, c); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is up to date\n", c.Target)
		return nil
	case cfg.Watch:
		return compiler.Watch(ctx, c, func(res *compiler.Result, err error) {
			if err != nil {
				logger.Error().Err(err).Msg("generation failed")
				return
			}
			report(out, res)
		})
	default:
		res, err := compiler.Generate(ctx, c)
		if err != nil {
			return err
		}
		report(out, res)
		return nil
	}
}

// generatorConfig translates the command configuration into generator
// options. All invalid values are reported together.
func (cfg Config) generatorConfig(logger zerolog.Logger) (*gen.Config, error) {
	var opts []gen.Option
	for _, s := range cfg.Sources {
		lang, path, err := splitPair(s)
		if err != nil {
			return nil, fmt.Errorf("-source: %w", err)
		}
		opts = append(opts, gen.WithSource(lang, path))
	}
	if cfg.Fallback != "" {
		opts = append(opts, gen.WithFallback(cfg.Fallback))
	}
	if cfg.Name != "" {
		opts = append(opts, gen.WithName(cfg.Name))
	}
	if cfg.Package != "" {
		opts = append(opts, gen.WithPackage(cfg.Package))
	}
	if cfg.Output != "" {
		opts = append(opts, gen.WithTarget(cfg.Output))
	}
	if cfg.Strict {
		opts = append(opts, gen.WithOrphanPolicy(gen.OrphanError))
	}
	opts = append(opts,
		gen.WithFeatureNames(cfg.Features...),
		gen.WithFormat(cfg.Format),
		gen.WithCache(cfg.Cache),
		gen.WithLogger(logger),
	)
	c := &gen.Config{}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	c.Defaults()
	return c, nil
}

func report(out io.Writer, res *compiler.Result) {
	switch {
	case res.Cached:
		fmt.Fprintf(out, "%s is up to date (cached)\n", res.Target)
	case res.Changed:
		fmt.Fprintf(out, "wrote %s (%d languages, %d keys)\n", res.Target, len(res.Graph.Languages), len(res.Graph.Keys))
	default:
		fmt.Fprintf(out, "%s is up to date\n", res.Target)
	}
}

// render prints the translation of key in every language, substituting
// the given placeholder values.
func render(ctx context.Context, c *gen.Config, key string, args []string, out io.Writer) error {
	values := make(map[string]string, len(args))
	for _, a := range args {
		name, value, err := splitPair(a)
		if err != nil {
			return fmt.Errorf("-arg: %w", err)
		}
		values[name] = value
	}
	if err := c.Validate(); err != nil {
		return err
	}
	sources, err := compiler.LoadSources(ctx, c)
	if err != nil {
		return err
	}
	g, err := gen.NewGraph(c, sources...)
	if err != nil {
		return err
	}
	k, ok := g.Key(key)
	if !ok {
		return glossa.NewKeyError(key, g.Fallback.ID, "not defined by fallback language")
	}
	for _, l := range g.Languages {
		fmt.Fprintf(out, "%s\t%s\n", l.ID, k.Template(l.ID).Render(values))
	}
	return nil
}

// newLogger returns a console logger on w. Colors are disabled unless w is
// a terminal.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	cw := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.DateTime}
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger(), nil
}
