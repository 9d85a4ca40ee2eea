package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/glossa"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("glossa", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseConfig(t *testing.T) {
	t.Run("flags", func(t *testing.T) {
		cfg, err := ParseConfig(newFlagSet(), []string{
			"-source", "en=locales/en.json",
			"-source", "fr=locales/fr.yaml",
			"-fallback", "en",
			"-o", "i18n/lang_gen.go",
			"-feature", "tag",
			"-strict",
			"-render", "hello_name",
			"-arg", "name=Bob",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"en=locales/en.json", "fr=locales/fr.yaml"}, cfg.Sources)
		assert.Equal(t, "en", cfg.Fallback)
		assert.Equal(t, "i18n/lang_gen.go", cfg.Output)
		assert.Equal(t, []string{"tag"}, cfg.Features)
		assert.True(t, cfg.Strict)
		assert.Equal(t, "hello_name", cfg.Render)
		assert.Equal(t, []string{"name=Bob"}, cfg.Args)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("GLOSSA_SOURCES", "en=en.json,de=de.toml")
		t.Setenv("GLOSSA_FALLBACK", "en")
		t.Setenv("GLOSSA_FORMAT", "true")
		t.Setenv("GLOSSA_LOG_LEVEL", "debug")

		cfg, err := ParseConfig(newFlagSet(), nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"en=en.json", "de=de.toml"}, cfg.Sources)
		assert.Equal(t, "en", cfg.Fallback)
		assert.True(t, cfg.Format)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("GLOSSA_SOURCES", "en=en.json")
		t.Setenv("GLOSSA_FALLBACK", "en")

		cfg, err := ParseConfig(newFlagSet(), []string{"-source", "fr=fr.json", "-fallback", "fr"})
		require.NoError(t, err)
		assert.Equal(t, []string{"fr=fr.json"}, cfg.Sources)
		assert.Equal(t, "fr", cfg.Fallback)
	})

	t.Run("config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "glossa.yaml")
		writeFile(t, path, `
fallback: en
package: translations
output: gen/lang_gen.go
sources:
  - lang: en
    path: locales/en.json
  - lang: fr
    path: /abs/fr.yaml
features: [negotiate]
`)

		cfg, err := ParseConfig(newFlagSet(), []string{"-config", path, "-package", "i18n"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"en=" + filepath.Join(dir, "locales", "en.json"),
			"fr=/abs/fr.yaml",
		}, cfg.Sources)
		assert.Equal(t, "en", cfg.Fallback)
		assert.Equal(t, "i18n", cfg.Package)
		assert.Equal(t, filepath.Join(dir, "gen", "lang_gen.go"), cfg.Output)
		assert.Equal(t, []string{"negotiate"}, cfg.Features)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := ParseConfig(newFlagSet(), []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("check and watch", func(t *testing.T) {
		_, err := ParseConfig(newFlagSet(), []string{"-check", "-watch"})
		require.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := ParseConfig(newFlagSet(), []string{"-nope"})
		require.Error(t, err)
	})
}

func TestSplitPair(t *testing.T) {
	name, value, err := splitPair(" en =locales/en.json")
	require.NoError(t, err)
	assert.Equal(t, "en", name)
	assert.Equal(t, "locales/en.json", value)

	name, value, err = splitPair("greeting=a=b")
	require.NoError(t, err)
	assert.Equal(t, "greeting", name)
	assert.Equal(t, "a=b", value)

	for _, s := range []string{"en", "=x", ""} {
		_, _, err := splitPair(s)
		assert.Error(t, err, s)
	}
}

func testProject(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	en := filepath.Join(dir, "locales", "en.json")
	fr := filepath.Join(dir, "locales", "fr.yaml")
	writeFile(t, en, `{"hello": "Hello world!", "hello_name": "Hello {name}!"}`)
	writeFile(t, fr, "hello_name: Bonjour {name} !\n")
	return Config{
		Sources:  []string{"en=" + en, "fr=" + fr},
		Fallback: "en",
		Output:   filepath.Join(dir, "i18n", "lang_gen.go"),
		LogLevel: "info",
	}
}

func TestRun(t *testing.T) {
	t.Run("generate", func(t *testing.T) {
		cfg := testProject(t)
		var out, errOut bytes.Buffer

		require.NoError(t, Run(context.Background(), cfg, &out, &errOut))
		assert.Contains(t, out.String(), "wrote "+cfg.Output)
		assert.Contains(t, errOut.String(), "generated translations")

		content, err := os.ReadFile(cfg.Output)
		require.NoError(t, err)
		assert.Contains(t, string(content), "package i18n")

		out.Reset()
		require.NoError(t, Run(context.Background(), cfg, &out, io.Discard))
		assert.Contains(t, out.String(), "is up to date")
	})

	t.Run("check", func(t *testing.T) {
		cfg := testProject(t)
		cfg.Check = true

		err := Run(context.Background(), cfg, io.Discard, io.Discard)
		assert.True(t, glossa.IsGenerationError(err))

		cfg.Check = false
		require.NoError(t, Run(context.Background(), cfg, io.Discard, io.Discard))
		cfg.Check = true
		var out bytes.Buffer
		require.NoError(t, Run(context.Background(), cfg, &out, io.Discard))
		assert.Contains(t, out.String(), "is up to date")
	})

	t.Run("render", func(t *testing.T) {
		cfg := testProject(t)
		cfg.Render = "hello_name"
		cfg.Args = []string{"name=Ada"}
		var out bytes.Buffer

		require.NoError(t, Run(context.Background(), cfg, &out, io.Discard))
		assert.Equal(t, "en\tHello Ada!\nfr\tBonjour Ada !\n", out.String())
		assert.NoFileExists(t, cfg.Output)

		cfg.Render = "hello"
		out.Reset()
		require.NoError(t, Run(context.Background(), cfg, &out, io.Discard))
		assert.Equal(t, "en\tHello world!\nfr\tHello world!\n", out.String())

		cfg.Render = "nope"
		err := Run(context.Background(), cfg, io.Discard, io.Discard)
		assert.ErrorIs(t, err, glossa.ErrInvalidKey)
	})

	t.Run("strict", func(t *testing.T) {
		cfg := testProject(t)
		fr := filepath.Join(filepath.Dir(cfg.Output), "..", "locales", "fr.yaml")
		writeFile(t, fr, "hello_name: Bonjour {name} !\nextra: Extra\n")

		var errOut bytes.Buffer
		require.NoError(t, Run(context.Background(), cfg, io.Discard, &errOut))
		assert.Contains(t, errOut.String(), "dropping key missing from fallback language")

		cfg.Strict = true
		err := Run(context.Background(), cfg, io.Discard, io.Discard)
		assert.ErrorIs(t, err, glossa.ErrInvalidKey)
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := testProject(t)
		cfg.Sources = append(cfg.Sources, "de")
		assert.Error(t, Run(context.Background(), cfg, io.Discard, io.Discard))

		cfg = testProject(t)
		cfg.Features = []string{"bogus"}
		assert.True(t, glossa.IsConfigError(Run(context.Background(), cfg, io.Discard, io.Discard)))

		cfg = testProject(t)
		cfg.LogLevel = "loud"
		assert.Error(t, Run(context.Background(), cfg, io.Discard, io.Discard))
	})
}
