package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds the glossa command configuration. Values come from, in
// increasing priority, the YAML config file, GLOSSA_* environment variables
// and command line flags.
type Config struct {
	Sources    []string `env:"GLOSSA_SOURCES" envSeparator:","` // lang=path
	Fallback   string   `env:"GLOSSA_FALLBACK"`
	Name       string   `env:"GLOSSA_NAME"`
	Package    string   `env:"GLOSSA_PACKAGE"`
	Output     string   `env:"GLOSSA_OUTPUT"`
	Features   []string `env:"GLOSSA_FEATURES" envSeparator:","`
	Strict     bool     `env:"GLOSSA_STRICT"`
	Format     bool     `env:"GLOSSA_FORMAT"`
	Cache      string   `env:"GLOSSA_CACHE"`
	ConfigFile string   `env:"GLOSSA_CONFIG"`
	LogLevel   string   `env:"GLOSSA_LOG_LEVEL" envDefault:"info"`

	Check  bool
	Watch  bool
	Render string
	Args   []string // name=value pairs for Render
}

// fileConfig is the layout of the YAML config file.
//
//	fallback: en
//	package: i18n
//	output: i18n/lang_gen.go
//	sources:
//	  - lang: en
//	    path: locales/en.json
//	  - lang: fr
//	    path: locales/fr.yaml
//	features: [negotiate]
type fileConfig struct {
	Sources []struct {
		Lang string `yaml:"lang"`
		Path string `yaml:"path"`
	} `yaml:"sources"`
	Fallback string   `yaml:"fallback"`
	Name     string   `yaml:"name"`
	Package  string   `yaml:"package"`
	Output   string   `yaml:"output"`
	Features []string `yaml:"features"`
	Strict   bool     `yaml:"strict"`
	Format   bool     `yaml:"format"`
	Cache    string   `yaml:"cache"`
}

// ParseConfig parses the environment and flags into a Config, then fills
// the unset values from the config file.
func ParseConfig(flags *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	var flagSources, flagFeatures []string
	flags.Func("source", "translation source as lang=path (repeatable)", func(s string) error {
		flagSources = append(flagSources, s)
		return nil
	})
	flags.Func("feature", "enable an optional feature: tag, negotiate (repeatable)", func(s string) error {
		flagFeatures = append(flagFeatures, s)
		return nil
	})
	flags.Func("arg", "placeholder value as name=value for -render (repeatable)", func(s string) error {
		cfg.Args = append(cfg.Args, s)
		return nil
	})
	flags.StringVar(&cfg.Fallback, "fallback", cfg.Fallback, "fallback language")
	flags.StringVar(&cfg.Name, "name", cfg.Name, "name of the generated selector type (default \"Lang\")")
	flags.StringVar(&cfg.Package, "package", cfg.Package, "package of the generated file (default: output directory name)")
	flags.StringVar(&cfg.Output, "o", cfg.Output, "output file (default \"<name>_gen.go\")")
	flags.BoolVar(&cfg.Strict, "strict", cfg.Strict, "fail on keys missing from the fallback language instead of dropping them")
	flags.BoolVar(&cfg.Format, "format", cfg.Format, "run goimports over the generated file")
	flags.StringVar(&cfg.Cache, "cache", cfg.Cache, "path of the generation cache (disabled when empty)")
	flags.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.BoolVar(&cfg.Check, "check", false, "fail if the generated file is missing or out of date, write nothing")
	flags.BoolVar(&cfg.Watch, "watch", false, "regenerate whenever a source changes")
	flags.StringVar(&cfg.Render, "render", "", "print the translations of a key instead of generating")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if len(flagSources) > 0 {
		cfg.Sources = flagSources
	}
	if len(flagFeatures) > 0 {
		cfg.Features = flagFeatures
	}
	if cfg.Check && cfg.Watch {
		return Config{}, errors.New("-check and -watch are mutually exclusive")
	}
	if cfg.ConfigFile == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			cfg.ConfigFile = defaultConfigFile
		}
	}
	if cfg.ConfigFile != "" {
		if err := cfg.merge(cfg.ConfigFile); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

const defaultConfigFile = "glossa.yaml"

// merge fills the unset values from the config file at path. Relative paths
// in the file are resolved against its directory.
func (c *Config) merge(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	if len(c.Sources) == 0 {
		for _, s := range fc.Sources {
			c.Sources = append(c.Sources, s.Lang+"="+resolve(s.Path))
		}
	}
	if len(c.Features) == 0 {
		c.Features = fc.Features
	}
	c.Fallback = or(c.Fallback, fc.Fallback)
	c.Name = or(c.Name, fc.Name)
	c.Package = or(c.Package, fc.Package)
	c.Output = or(c.Output, resolve(fc.Output))
	c.Cache = or(c.Cache, resolve(fc.Cache))
	c.Strict = c.Strict || fc.Strict
	c.Format = c.Format || fc.Format
	return nil
}

func or(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// splitPair splits a name=value argument.
func splitPair(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("invalid argument %q, expected name=value", s)
	}
	return strings.TrimSpace(name), value, nil
}
