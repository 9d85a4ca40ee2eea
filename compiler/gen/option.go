package gen

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/syssam/glossa"
)

// Option configures code generation.
type Option func(*Config) error

// WithSource registers a translation source. Sources are kept in
// registration order; registering a language twice is reported by
// Config.Validate.
func WithSource(lang, path string) Option {
	return func(c *Config) error {
		id, err := glossa.ParseLanguageID(lang)
		if err != nil {
			return err
		}
		if path == "" {
			return glossa.NewConfigError("Sources", lang, "source path cannot be empty")
		}
		c.Sources = append(c.Sources, SourceSpec{Lang: id, Path: path})
		return nil
	}
}

// WithFallback designates the fallback language.
func WithFallback(lang string) Option {
	return func(c *Config) error {
		id, err := glossa.ParseLanguageID(lang)
		if err != nil {
			return err
		}
		c.Fallback = id
		return nil
	}
}

// WithName sets the name of the generated selector type.
func WithName(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return glossa.NewConfigError("Name", nil, "name cannot be empty")
		}
		c.Name = name
		return nil
	}
}

// WithPackage sets the package clause of the generated file.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return glossa.NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output file path.
func WithTarget(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return glossa.NewConfigError("Target", nil, "target cannot be empty")
		}
		c.Target = path
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithFeatures enables optional generated code.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithFeatureNames enables features by name.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return glossa.NewConfigError("Features", name, "unknown feature")
			}
			c.Features = append(c.Features, f)
		}
		return nil
	}
}

// WithOrphanPolicy sets how keys missing from the fallback are handled.
func WithOrphanPolicy(p OrphanPolicy) Option {
	return func(c *Config) error {
		if p != OrphanWarn && p != OrphanError {
			return glossa.NewConfigError("Orphans", int(p), "unknown orphan policy")
		}
		c.Orphans = p
		return nil
	}
}

// WithFormat enables the goimports pass over the generated file.
func WithFormat(enabled bool) Option {
	return func(c *Config) error {
		c.Format = enabled
		return nil
	}
}

// WithWorkers bounds load and parse concurrency.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return glossa.NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithCache enables the generation cache stored at path.
func WithCache(path string) Option {
	return func(c *Config) error {
		c.Cache = path
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options and fills in the
// defaults. The configuration is not validated; see Config.Validate.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Logger: zerolog.Nop()}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	c.Defaults()
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
