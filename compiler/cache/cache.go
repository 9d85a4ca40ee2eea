// Package cache records the inputs of a generation run so that an unchanged
// run can skip model building and code generation.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Version of the manifest layout. Manifests of another version never match.
const Version = 1

// Key identifies the settings of a generation run.
type Key struct {
	// Generator is the version of the code generator.
	Generator string `msgpack:"generator"`
	// Acronyms kept upper-cased in method names.
	Acronyms []string `msgpack:"acronyms"`

	Fallback string   `msgpack:"fallback"`
	Name     string   `msgpack:"name"`
	Package  string   `msgpack:"package"`
	Target   string   `msgpack:"target"`
	Header   string   `msgpack:"header"`
	Features []string `msgpack:"features"`
	Orphans  string   `msgpack:"orphans"`
	Format   bool     `msgpack:"format"`
	Sources  []Source `msgpack:"sources"`
}

// Source is one registered language and the digest of its content.
type Source struct {
	Lang   string `msgpack:"lang"`
	Path   string `msgpack:"path"`
	Digest string `msgpack:"digest"`
}

// String returns the hex digest of the key.
func (k Key) String() string {
	b, err := msgpack.Marshal(k)
	if err != nil {
		// Key holds only strings, slices and bools.
		panic(fmt.Sprintf("cache: encoding key: %v", err))
	}
	return Digest(b)
}

// Manifest is the persisted state of the last successful run.
type Manifest struct {
	Version int    `msgpack:"version"`
	Key     string `msgpack:"key"`
	Output  string `msgpack:"output"` // digest of the written file
}

// New creates the manifest of a run with the given key and output.
func New(key Key, output []byte) *Manifest {
	return &Manifest{Version: Version, Key: key.String(), Output: Digest(output)}
}

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load reads the manifest at path. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: reading manifest: %w", err)
	}
	m := &Manifest{}
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(m); err != nil {
		// Corrupt manifests are treated as empty.
		return &Manifest{}, nil
	}
	return m, nil
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return fmt.Errorf("cache: encoding manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cache: writing manifest: %w", err)
	}
	return nil
}

// Fresh reports if the manifest was recorded for key and the target file
// still holds the recorded output.
func (m *Manifest) Fresh(key Key, target string) bool {
	if m.Version != Version || m.Key == "" || m.Key != key.String() {
		return false
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return false
	}
	return Digest(data) == m.Output
}
