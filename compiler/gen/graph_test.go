package gen

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/glossa"
	"github.com/syssam/glossa/compiler/load"
)

func source(lang string, entries map[string]string) *load.Source {
	src := load.FromMap(glossa.LanguageID(lang), entries)
	src.Path = lang + ".json"
	return src
}

func testConfig(fallback string, opts ...Option) *Config {
	return MustNewConfig(append([]Option{WithFallback(fallback), WithPackage("i18n")}, opts...)...)
}

func TestNewGraph(t *testing.T) {
	en := source("en", map[string]string{
		"hello":      "Hello world!",
		"hello_name": "Hello {name}!",
	})
	fr := source("fr", map[string]string{
		"hello": "Bonjour le monde !",
	})

	g, err := NewGraph(testConfig("en"), en, fr)
	require.NoError(t, err)

	require.Len(t, g.Languages, 2)
	assert.Equal(t, glossa.LanguageID("en"), g.Languages[0].ID)
	assert.Equal(t, "LangEn", g.Languages[0].Const)
	assert.True(t, g.Languages[0].Fallback)
	assert.Equal(t, "LangFr", g.Languages[1].Const)
	assert.Same(t, g.Languages[0], g.Fallback)

	require.Len(t, g.Keys, 2)
	hello, helloName := g.Keys[0], g.Keys[1]
	assert.Equal(t, "hello", hello.Name)
	assert.Equal(t, "Hello", hello.Method)
	assert.Empty(t, hello.Params)
	require.Len(t, hello.Overrides, 1)
	assert.Equal(t, "Bonjour le monde !", hello.Template("fr").Raw)
	assert.True(t, hello.Translated("fr"))

	assert.Equal(t, "HelloName", helloName.Method)
	assert.Equal(t, []Param{{Name: "name", Ident: "name"}}, helloName.Params)
	assert.Empty(t, helloName.Overrides)
	assert.False(t, helloName.Translated("fr"))
	assert.Equal(t, "Hello {name}!", helloName.Template("fr").Raw)

	k, ok := g.Key("hello_name")
	require.True(t, ok)
	assert.Same(t, helloName, k)
	_, ok = g.Key("missing")
	assert.False(t, ok)

	l, ok := g.Language("fr")
	require.True(t, ok)
	assert.Equal(t, 1, l.Index)
	assert.Equal(t, "l", g.Receiver())
}

func TestNewGraphRegistrationOrder(t *testing.T) {
	fr := source("fr", map[string]string{"a": "A fr"})
	en := source("en", map[string]string{"a": "A"})
	de := source("de", map[string]string{"a": "A de"})

	g, err := NewGraph(testConfig("en"), fr, en, de)
	require.NoError(t, err)

	assert.Equal(t, "LangFr", g.Languages[0].Const)
	assert.Equal(t, "LangEn", g.Fallback.Const)
	k := g.Keys[0]
	require.Len(t, k.Overrides, 2)
	assert.Equal(t, glossa.LanguageID("fr"), k.Overrides[0].Lang.ID)
	assert.Equal(t, glossa.LanguageID("de"), k.Overrides[1].Lang.ID)
}

func TestNewGraphSignature(t *testing.T) {
	en := source("en", map[string]string{"k": "{b} and {a}, again {b}"})
	fr := source("fr", map[string]string{"k": "{a} {b}"})

	g, err := NewGraph(testConfig("en"), en, fr)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, g.Keys[0].ParamNames())
}

func TestNewGraphDuplicateLanguage(t *testing.T) {
	_, err := NewGraph(testConfig("de"),
		source("en", map[string]string{"a": "{"}),
		source("en", map[string]string{"a": "x"}),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, glossa.ErrDuplicateLanguage)
	var derr *glossa.DuplicateLanguageError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, glossa.LanguageID("en"), derr.Lang)
}

func TestNewGraphMissingFallbackBeforeParse(t *testing.T) {
	_, err := NewGraph(testConfig("de"),
		source("en", map[string]string{"a": "broken {"}),
		source("fr", map[string]string{"a": "}"}),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, glossa.ErrMissingFallback)
	assert.False(t, glossa.IsParseError(err))
}

func TestNewGraphParseErrors(t *testing.T) {
	_, err := NewGraph(testConfig("en"),
		source("fr", map[string]string{"a": "{nom"}),
		source("en", map[string]string{"b": "oops }", "a": "{x y}"}),
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, glossa.ErrParse)
	perrs := glossa.ParseErrors(err)
	require.Len(t, perrs, 3)

	assert.Equal(t, glossa.LanguageID("en"), perrs[0].Lang)
	assert.Equal(t, "a", perrs[0].Key)
	assert.Equal(t, 2, perrs[0].Offset)
	assert.Equal(t, "en.json", perrs[0].Path)

	assert.Equal(t, "b", perrs[1].Key)
	assert.Equal(t, 5, perrs[1].Offset)

	assert.Equal(t, glossa.LanguageID("fr"), perrs[2].Lang)
	assert.Equal(t, "unclosed placeholder", perrs[2].Message)
	assert.Equal(t, 0, perrs[2].Offset)
}

func TestNewGraphParameterMismatch(t *testing.T) {
	t.Run("reports missing and unknown parameters", func(t *testing.T) {
		_, err := NewGraph(testConfig("en"),
			source("en", map[string]string{"hello_name": "Hello {name}!"}),
			source("fr", map[string]string{"hello_name": "Bonjour {nom} !"}),
		)

		var merr *glossa.ParameterMismatchError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "hello_name", merr.Key)
		assert.Equal(t, glossa.LanguageID("fr"), merr.Lang)
		assert.Equal(t, "fr.json", merr.Path)
		assert.Equal(t, []string{"name"}, merr.Missing())
		assert.Equal(t, []string{"nom"}, merr.Unknown())
	})

	t.Run("translation may not drop a parameter", func(t *testing.T) {
		_, err := NewGraph(testConfig("en"),
			source("en", map[string]string{"hello_name": "Hello {name}!"}),
			source("fr", map[string]string{"hello_name": "Bonjour !"}),
		)

		assert.True(t, glossa.IsParameterMismatch(err))
	})

	t.Run("first key then first language", func(t *testing.T) {
		_, err := NewGraph(testConfig("en"),
			source("en", map[string]string{"a": "{x}", "b": "{y}"}),
			source("fr", map[string]string{"a": "{z}", "b": "-"}),
			source("de", map[string]string{"a": "-", "b": "-"}),
		)

		var merr *glossa.ParameterMismatchError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "a", merr.Key)
		assert.Equal(t, glossa.LanguageID("de"), merr.Lang)
	})

	t.Run("parse errors win", func(t *testing.T) {
		_, err := NewGraph(testConfig("en"),
			source("en", map[string]string{"a": "{x}", "b": "{"}),
			source("fr", map[string]string{"a": "{z}"}),
		)

		assert.True(t, glossa.IsParseError(err))
		assert.False(t, glossa.IsParameterMismatch(err))
	})
}

func TestNewGraphOrphans(t *testing.T) {
	sources := func() []*load.Source {
		return []*load.Source{
			source("en", map[string]string{"hello": "Hello"}),
			source("fr", map[string]string{"hello": "Bonjour", "bye": "Au revoir"}),
		}
	}

	t.Run("warn drops the key", func(t *testing.T) {
		var buf bytes.Buffer
		c := testConfig("en", WithLogger(zerolog.New(&buf)))

		g, err := NewGraph(c, sources()...)
		require.NoError(t, err)

		require.Len(t, g.Keys, 1)
		assert.Equal(t, "hello", g.Keys[0].Name)
		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), `"key":"bye"`)
		assert.Contains(t, buf.String(), `"lang":"fr"`)
	})

	t.Run("error policy rejects the key", func(t *testing.T) {
		c := testConfig("en", WithOrphanPolicy(OrphanError))

		_, err := NewGraph(c, sources()...)

		require.Error(t, err)
		assert.ErrorIs(t, err, glossa.ErrInvalidKey)
		var kerr *glossa.KeyError
		require.ErrorAs(t, err, &kerr)
		assert.Equal(t, "bye", kerr.Key)
		assert.Equal(t, glossa.LanguageID("fr"), kerr.Lang)
	})
}

func TestNewGraphInvalidKeys(t *testing.T) {
	tests := []struct {
		name string
		keys map[string]string
	}{
		{"starts with digit", map[string]string{"1st": "first"}},
		{"dash", map[string]string{"hello-world": "hi"}},
		{"reserved method", map[string]string{"string": "s"}},
		{"reserved tag", map[string]string{"tag": "t"}},
		{"only underscore", map[string]string{"_": "x"}},
		{"method collision", map[string]string{"hello_name": "a", "helloName": "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(testConfig("en"), source("en", tt.keys))

			require.Error(t, err)
			assert.ErrorIs(t, err, glossa.ErrInvalidKey)
		})
	}
}

func TestNewGraphParamIdents(t *testing.T) {
	en := source("en", map[string]string{"k": "{type} {l} {LangEn} {type_}"})

	g, err := NewGraph(testConfig("en"), en)
	require.NoError(t, err)

	assert.Equal(t, []Param{
		{Name: "LangEn", Ident: "LangEn_"},
		{Name: "l", Ident: "l_"},
		{Name: "type", Ident: "type__"},
		{Name: "type_", Ident: "type_"},
	}, g.Keys[0].Params)
}

func TestNewGraphLanguageConsts(t *testing.T) {
	g, err := NewGraph(testConfig("pt-BR", WithName("Locale")),
		source("pt-BR", map[string]string{"a": "a"}),
		source("zh-Hant-TW", map[string]string{"a": "a"}),
	)
	require.NoError(t, err)

	assert.Equal(t, "LocalePtBR", g.Languages[0].Const)
	assert.Equal(t, "LocaleZhHantTW", g.Languages[1].Const)
	assert.Equal(t, "l", g.Receiver())
}

func TestMustNewGraph(t *testing.T) {
	assert.Panics(t, func() { MustNewGraph(testConfig("en")) })
	assert.NotPanics(t, func() { MustNewGraph(testConfig("en"), source("en", nil)) })
}
