// Package load reads translation sources and checks that each one is a flat
// mapping from key names to template strings.
package load

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/syssam/glossa"
)

// Format is the interchange format of a source file.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, true
	case ".yaml", ".yml":
		return YAML, true
	case ".toml":
		return TOML, true
	default:
		return "", false
	}
}

// Entry is one key of a source with its raw template text.
type Entry struct {
	Key   string
	Value string
	Line  int // 1-based line of the key in the file, zero when unknown
}

// Source is the decoded content of one language file.
type Source struct {
	Lang   glossa.LanguageID
	Path   string
	Format Format
	// Entries in document order. TOML documents do not preserve order and
	// are sorted by key.
	Entries []Entry
	// Digest is the hex SHA-256 of the raw file content.
	Digest string

	index map[string]int
}

// Lookup returns the entry for key.
func (s *Source) Lookup(key string) (Entry, bool) {
	if s.index == nil {
		s.index = make(map[string]int, len(s.Entries))
		for i, e := range s.Entries {
			s.index[e.Key] = i
		}
	}
	i, ok := s.index[key]
	if !ok {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// Line returns the line of key in the source file, or zero.
func (s *Source) Line(key string) int {
	e, _ := s.Lookup(key)
	return e.Line
}

// Map returns the entries as a key to template map.
func (s *Source) Map() map[string]string {
	m := make(map[string]string, len(s.Entries))
	for _, e := range s.Entries {
		m[e.Key] = e.Value
	}
	return m
}

// FromMap builds an in-memory source, sorted by key.
func FromMap(lang glossa.LanguageID, entries map[string]string) *Source {
	s := &Source{Lang: lang, Format: JSON}
	for k, v := range entries {
		s.Entries = append(s.Entries, Entry{Key: k, Value: v})
	}
	sort.Slice(s.Entries, func(i, j int) bool { return s.Entries[i].Key < s.Entries[j].Key })
	return s
}

// Load reads and decodes the file at path.
func Load(lang glossa.LanguageID, path string) (*Source, error) {
	data, err := readFile(func() (io.ReadCloser, error) { return os.Open(path) })
	if err != nil {
		return nil, glossa.NewReadError(lang, path, err)
	}
	return Decode(lang, path, data)
}

// LoadFS reads and decodes the file name of fsys.
func LoadFS(fsys fs.FS, lang glossa.LanguageID, name string) (*Source, error) {
	data, err := readFile(func() (io.ReadCloser, error) { return fsys.Open(name) })
	if err != nil {
		return nil, glossa.NewReadError(lang, name, err)
	}
	return Decode(lang, name, data)
}

// readFile holds the file open only while reading it.
func readFile(open func() (io.ReadCloser, error)) ([]byte, error) {
	f, err := open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Decode validates data as a source in the format implied by path.
func Decode(lang glossa.LanguageID, path string, data []byte) (*Source, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, glossa.NewFormatError(lang, path, "", glossa.FormatUnsupported,
			fmt.Errorf("unknown extension %q, expected .json, .yaml, .yml or .toml", filepath.Ext(path)))
	}
	return DecodeFormat(lang, path, format, data)
}

// DecodeFormat validates data as a source of the given format.
func DecodeFormat(lang glossa.LanguageID, path string, format Format, data []byte) (*Source, error) {
	d := &decoder{lang: lang, path: path, seen: make(map[string]struct{})}
	var err error
	switch format {
	case JSON:
		err = d.json(data)
	case YAML:
		err = d.yaml(data)
	case TOML:
		err = d.toml(data)
	default:
		err = glossa.NewFormatError(lang, path, "", glossa.FormatUnsupported, fmt.Errorf("unknown format %q", format))
	}
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	return &Source{
		Lang:    lang,
		Path:    path,
		Format:  format,
		Entries: d.entries,
		Digest:  hex.EncodeToString(sum[:]),
	}, nil
}

// decoder accumulates the entries of one document.
type decoder struct {
	lang    glossa.LanguageID
	path    string
	entries []Entry
	seen    map[string]struct{}
}

func (d *decoder) add(key, value string, line int) error {
	if _, ok := d.seen[key]; ok {
		return d.errorAt(key, line, glossa.FormatDuplicateKey, nil)
	}
	d.seen[key] = struct{}{}
	d.entries = append(d.entries, Entry{Key: key, Value: value, Line: line})
	return nil
}

func (d *decoder) errorAt(key string, line int, kind glossa.FormatKind, cause error) error {
	err := glossa.NewFormatError(d.lang, d.path, key, kind, cause)
	err.Line = line
	return err
}
