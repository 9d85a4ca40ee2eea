package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() Key {
	return Key{
		Generator: "v1",
		Acronyms:  []string{"API", "ID"},
		Fallback:  "en",
		Name:      "Lang",
		Package:   "i18n",
		Target:    "lang_gen.go",
		Orphans:   "warn",
		Sources: []Source{
			{Lang: "en", Path: "en.json", Digest: Digest([]byte(`{"a":"b"}`))},
			{Lang: "fr", Path: "fr.json", Digest: Digest([]byte(`{"a":"c"}`))},
		},
	}
}

func TestKeyString(t *testing.T) {
	k := testKey()
	assert.Len(t, k.String(), 64)
	assert.Equal(t, k.String(), testKey().String())

	changed := testKey()
	changed.Sources[1].Digest = Digest([]byte(`{"a":"d"}`))
	assert.NotEqual(t, k.String(), changed.String())

	reordered := testKey()
	reordered.Sources[0], reordered.Sources[1] = reordered.Sources[1], reordered.Sources[0]
	assert.NotEqual(t, k.String(), reordered.String())

	featured := testKey()
	featured.Features = []string{"tag"}
	assert.NotEqual(t, k.String(), featured.String())

	upgraded := testKey()
	upgraded.Generator = "v2"
	assert.NotEqual(t, k.String(), upgraded.String())

	acronym := testKey()
	acronym.Acronyms = append(acronym.Acronyms, "OTP")
	assert.NotEqual(t, k.String(), acronym.String())
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", ".glossa.cache")
	target := filepath.Join(dir, "lang_gen.go")
	output := []byte("package i18n\n")
	require.NoError(t, os.WriteFile(target, output, 0o644))

	m := New(testKey(), output)
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
	assert.True(t, loaded.Fresh(testKey(), target))

	t.Run("stale key", func(t *testing.T) {
		k := testKey()
		k.Name = "Locale"
		assert.False(t, loaded.Fresh(k, target))
	})

	t.Run("edited target", func(t *testing.T) {
		require.NoError(t, os.WriteFile(target, []byte("package edited\n"), 0o644))
		assert.False(t, loaded.Fresh(testKey(), target))
	})

	t.Run("missing target", func(t *testing.T) {
		assert.False(t, loaded.Fresh(testKey(), filepath.Join(dir, "missing.go")))
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	m, err := Load(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.False(t, m.Fresh(testKey(), "lang_gen.go"))

	corrupt := filepath.Join(dir, "corrupt")
	require.NoError(t, os.WriteFile(corrupt, []byte{0xc1}, 0o644))
	m, err = Load(corrupt)
	require.NoError(t, err)
	assert.Equal(t, &Manifest{}, m)

	old := filepath.Join(dir, "old")
	require.NoError(t, (&Manifest{Version: Version + 1, Key: testKey().String()}).Save(old))
	m, err = Load(old)
	require.NoError(t, err)
	assert.False(t, m.Fresh(testKey(), "lang_gen.go"))
}
